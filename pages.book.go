package main

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BookPage shows one book and whether it is among the user favorites.
type BookPage struct {
	page

	mu         sync.RWMutex
	book       *BookDetail
	isFavorite bool
	err        error
}

func NewBookPage(logger *zap.Logger, api LibraryAPI, session TokenProvider, notify Notifier) *BookPage {
	return &BookPage{page: page{logger: logger, api: api, session: session, notify: notify}}
}

// Load fetches the book. For an authenticated visitor the favorites are
// fetched at the same time. Their failure only leaves the flag unset.
func (p *BookPage) Load(ctx context.Context, id int64) error {
	var (
		book      BookDetail
		favorites []BookSummary
	)

	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		book, err = p.api.GetBook(ctx, id)
		return err
	})
	if token := p.session.Token(); token != "" {
		g.Go(func() error {
			var err error
			if favorites, err = p.api.ListFavorites(ctx, token); err != nil {
				p.logger.Warn("failed to load favorites for book page", zap.Int64("book.id", id), zap.Error(err))
				favorites = nil
			}
			return nil
		})
	}
	err := g.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
	if err != nil {
		p.book = nil
		p.isFavorite = false
		p.logger.Error("failed to load book", zap.Int64("book.id", id), zap.Error(err))
		return err
	}
	p.book = &book
	p.isFavorite = containsBook(favorites, id)
	return nil
}

// Book returns the loaded book or nil.
func (p *BookPage) Book() *BookDetail {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.book == nil {
		return nil
	}
	b := *p.book
	return &b
}

func (p *BookPage) IsFavorite() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.isFavorite
}

func (p *BookPage) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.err
}

func (p *BookPage) AddFavorite(ctx context.Context) error {
	return p.toggleFavorite(ctx, true)
}

func (p *BookPage) RemoveFavorite(ctx context.Context) error {
	return p.toggleFavorite(ctx, false)
}

func (p *BookPage) toggleFavorite(ctx context.Context, add bool) error {
	book := p.Book()
	if book == nil {
		return p.fail("Favorites", ErrBookNotLoaded)
	}
	token, err := p.token()
	if err != nil {
		return p.fail("Favorites", err)
	}

	if add {
		err = p.api.AddFavorite(ctx, token, book.ID)
	} else {
		err = p.api.RemoveFavorite(ctx, token, book.ID)
	}
	if err != nil {
		return p.fail("Favorites", err)
	}

	p.mu.Lock()
	if p.book != nil && p.book.ID == book.ID {
		p.isFavorite = add
	}
	p.mu.Unlock()

	if add {
		p.notify.Success("Favorites", "Added to favorites")
	} else {
		p.notify.Info("Favorites", "Removed from favorites")
	}
	return nil
}

func containsBook(books []BookSummary, id int64) bool {
	for _, b := range books {
		if b.ID == id {
			return true
		}
	}
	return false
}
