package main

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// FavoritesPage lists the favorites of the current user.
type FavoritesPage struct {
	page

	mu    sync.RWMutex
	books []BookSummary
	err   error
}

func NewFavoritesPage(logger *zap.Logger, api LibraryAPI, session TokenProvider, notify Notifier) *FavoritesPage {
	return &FavoritesPage{page: page{logger: logger, api: api, session: session, notify: notify}}
}

// Load fetches the favorites. An anonymous visitor gets ErrLoginRequired
// without any call.
func (p *FavoritesPage) Load(ctx context.Context) error {
	token, err := p.token()
	if err != nil {
		return err
	}
	books, err := p.api.ListFavorites(ctx, token)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
	if err != nil {
		p.logger.Error("failed to load favorites", zap.Error(err))
		return err
	}
	p.books = books
	return nil
}

func (p *FavoritesPage) Books() []BookSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]BookSummary(nil), p.books...)
}

func (p *FavoritesPage) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.err
}

// Remove drops a book from the favorites then reloads the list.
// The list is left untouched when the removal fails.
func (p *FavoritesPage) Remove(ctx context.Context, bookID int64) error {
	token, err := p.token()
	if err != nil {
		return p.fail("Favorites", err)
	}
	if err := p.api.RemoveFavorite(ctx, token, bookID); err != nil {
		return p.fail("Favorites", err)
	}
	p.notify.Info("Favorites", "Removed from favorites")
	return p.Load(ctx)
}
