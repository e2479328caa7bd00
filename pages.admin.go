package main

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// AdminPage drives the catalog management actions. Only one action
// runs at a time.
type AdminPage struct {
	page

	busy atomic.Bool

	mu    sync.RWMutex
	books []BookSummary
	err   error
}

func NewAdminPage(logger *zap.Logger, api LibraryAPI, session TokenProvider, notify Notifier) *AdminPage {
	return &AdminPage{page: page{logger: logger, api: api, session: session, notify: notify}}
}

// Busy reports whether an action is in progress.
func (p *AdminPage) Busy() bool {
	return p.busy.Load()
}

func (p *AdminPage) Books() []BookSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]BookSummary(nil), p.books...)
}

func (p *AdminPage) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.err
}

func (p *AdminPage) setErr(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

// Load fetches the current catalog.
func (p *AdminPage) Load(ctx context.Context) error {
	books, err := p.api.ListBooks(ctx)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
	if err != nil {
		p.logger.Error("failed to load admin book list", zap.Error(err))
		return err
	}
	p.books = books
	return nil
}

// Create adds a book then reloads the list. A blank title is refused
// before any call.
func (p *AdminPage) Create(ctx context.Context, book BookCreateRequest) (BookDetail, error) {
	if strings.TrimSpace(book.Title) == "" {
		return BookDetail{}, ErrTitleRequired
	}
	if !p.busy.CompareAndSwap(false, true) {
		return BookDetail{}, ErrBusy
	}
	defer p.busy.Store(false)

	token, err := p.token()
	if err != nil {
		return BookDetail{}, p.fail("Admin", err)
	}

	p.setErr(nil)
	created, err := p.api.CreateBook(ctx, token, book)
	if err != nil {
		p.setErr(err)
		return BookDetail{}, p.fail("Admin", err)
	}
	p.logger.Info("book created", zap.Int64("book.id", created.ID), zap.String("book.title", created.Title))
	p.notify.Success("Admin", "Book added")

	if err := p.Load(ctx); err != nil {
		return created, err
	}
	return created, nil
}

// Delete removes a book then reloads the list. Nothing changes
// locally before the backend confirmed.
func (p *AdminPage) Delete(ctx context.Context, bookID int64) error {
	if !p.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer p.busy.Store(false)

	token, err := p.token()
	if err != nil {
		return p.fail("Admin", err)
	}

	if err := p.api.DeleteBook(ctx, token, bookID); err != nil {
		p.setErr(err)
		p.logger.Warn("book deletion refused", zap.Int64("book.id", bookID), zap.Error(err))
		return p.fail("Admin", err)
	}
	p.logger.Info("book deleted", zap.Int64("book.id", bookID))
	p.notify.Info("Admin", "Deleted")
	return p.Load(ctx)
}

// Export downloads the catalog report.
func (p *AdminPage) Export(ctx context.Context) (CSVFile, error) {
	if !p.busy.CompareAndSwap(false, true) {
		return CSVFile{}, ErrBusy
	}
	defer p.busy.Store(false)

	token, err := p.token()
	if err != nil {
		return CSVFile{}, p.fail("Admin", err)
	}

	file, err := p.api.ExportBooksCSV(ctx, token)
	if err != nil {
		return CSVFile{}, p.fail("Admin", err)
	}
	p.notify.Success("Admin", "CSV downloaded")
	return file, nil
}
