package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// FavoritesAPI groups the endpoints of the current user favorites.
type FavoritesAPI interface {
	ListFavorites(ctx context.Context, token string) ([]BookSummary, error)
	AddFavorite(ctx context.Context, token string, bookID int64) error
	RemoveFavorite(ctx context.Context, token string, bookID int64) error
}

func (c *APIClient) ListFavorites(ctx context.Context, token string) ([]BookSummary, error) {
	var raw json.RawMessage
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/users/me/favorites", Token: token}, &raw)
	if err != nil {
		return nil, err
	}
	return decodeBookList(resp, raw)
}

func (c *APIClient) AddFavorite(ctx context.Context, token string, bookID int64) error {
	_, err := c.Do(ctx, Request{Method: http.MethodPost, Path: favoritePath(bookID), Token: token}, nil)
	return err
}

func (c *APIClient) RemoveFavorite(ctx context.Context, token string, bookID int64) error {
	_, err := c.Do(ctx, Request{Method: http.MethodDelete, Path: favoritePath(bookID), Token: token}, nil)
	return err
}

func favoritePath(bookID int64) string {
	return fmt.Sprintf("/users/me/favorites/%d", bookID)
}
