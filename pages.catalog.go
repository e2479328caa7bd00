package main

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// CatalogPage lists the public catalog with a local text filter.
type CatalogPage struct {
	page

	mu    sync.RWMutex
	books []BookSummary
	query string
	err   error
}

func NewCatalogPage(logger *zap.Logger, api LibraryAPI, session TokenProvider, notify Notifier) *CatalogPage {
	return &CatalogPage{page: page{logger: logger, api: api, session: session, notify: notify}}
}

// Load fetches the catalog. On failure the previous list is kept.
func (p *CatalogPage) Load(ctx context.Context) error {
	books, err := p.api.ListBooks(ctx)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
	if err != nil {
		p.logger.Error("failed to load catalog", zap.Error(err))
		return err
	}
	p.books = books
	return nil
}

func (p *CatalogPage) SetQuery(query string) {
	p.mu.Lock()
	p.query = query
	p.mu.Unlock()
}

// Books returns the whole loaded catalog.
func (p *CatalogPage) Books() []BookSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]BookSummary(nil), p.books...)
}

// Visible returns the books matching the current query.
func (p *CatalogPage) Visible() []BookSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return FilterBooks(p.books, p.query)
}

func (p *CatalogPage) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.err
}

func (p *CatalogPage) AddFavorite(ctx context.Context, bookID int64) error {
	token, err := p.token()
	if err != nil {
		return p.fail("Favorites", err)
	}
	if err := p.api.AddFavorite(ctx, token, bookID); err != nil {
		return p.fail("Favorites", err)
	}
	p.notify.Success("Favorites", "Added to favorites")
	return nil
}

func (p *CatalogPage) RemoveFavorite(ctx context.Context, bookID int64) error {
	token, err := p.token()
	if err != nil {
		return p.fail("Favorites", err)
	}
	if err := p.api.RemoveFavorite(ctx, token, bookID); err != nil {
		return p.fail("Favorites", err)
	}
	p.notify.Info("Favorites", "Removed from favorites")
	return nil
}

// FilterBooks keeps the books whose title, year, authors or genres
// contain query, case-insensitively. A blank query keeps everything.
func FilterBooks(books []BookSummary, query string) []BookSummary {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]BookSummary, 0, len(books))
	for _, b := range books {
		if q == "" || strings.Contains(bookHaystack(b), q) {
			out = append(out, b)
		}
	}
	return out
}

func bookHaystack(b BookSummary) string {
	return strings.ToLower(strings.Join([]string{
		b.Title,
		strconv.Itoa(b.Year),
		strings.Join(b.Authors, ", "),
		strings.Join(b.Genres, ", "),
	}, " "))
}
