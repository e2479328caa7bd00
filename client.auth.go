package main

import (
	"context"
	"net/http"
)

// AuthAPI groups the authentication endpoints.
type AuthAPI interface {
	Login(ctx context.Context, creds Credentials) (TokenResponse, error)
	Register(ctx context.Context, creds Credentials) (Profile, error)
	Me(ctx context.Context, token string) (Profile, error)
}

// LibraryAPI is the whole remote surface consumed by the pages.
type LibraryAPI interface {
	AuthAPI
	BooksAPI
	FavoritesAPI
	AdminAPI
}

var _ LibraryAPI = (*APIClient)(nil) // ensure APIClient implements LibraryAPI.

// Login exchanges the credentials for an access token.
func (c *APIClient) Login(ctx context.Context, creds Credentials) (TokenResponse, error) {
	var token TokenResponse
	_, err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/auth/login", Body: creds}, &token)
	return token, err
}

// Register creates the account. The backend answers with the new profile
// but no token, so callers must login afterwards.
func (c *APIClient) Register(ctx context.Context, creds Credentials) (Profile, error) {
	var profile Profile
	_, err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/auth/register", Body: creds}, &profile)
	return profile, err
}

// Me returns the profile owning the token.
func (c *APIClient) Me(ctx context.Context, token string) (Profile, error) {
	var profile Profile
	_, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/auth/me", Token: token}, &profile)
	return profile, err
}
