package main

import (
	"strings"
)

// Role is the access level attached to a user profile.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Profile represents the authenticated user as returned by `/auth/me`.
// It is read-only on the client side.
type Profile struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the profile carries the administrator role.
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// Credentials is the login and register request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the login response body.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// BookSummary represents a book entity as listed by the catalog
// and the favorites endpoints.
type BookSummary struct {
	ID      int64    `json:"id"`
	Title   string   `json:"title"`
	Year    int      `json:"year"`
	Authors []string `json:"authors"`
	Genres  []string `json:"genres"`
}

// BookDetail is the full book representation.
type BookDetail struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Year        int      `json:"year"`
	Description *string  `json:"description,omitempty"`
	ISBN        *string  `json:"isbn,omitempty"`
	Authors     []string `json:"authors"`
	Genres      []string `json:"genres"`
}

// BookCreateRequest is the payload of a book creation. Authors and
// genres are sent as names, the backend creates the missing ones.
type BookCreateRequest struct {
	Title       string   `json:"title"`
	Year        int      `json:"year"`
	ISBN        *string  `json:"isbn"`
	Description *string  `json:"description"`
	Authors     []string `json:"authors"`
	Genres      []string `json:"genres"`
}

// Normalize trims the payload the same way the backend schema does so
// the request sent is the request stored.
func (r BookCreateRequest) Normalize() BookCreateRequest {
	r.Title = strings.TrimSpace(r.Title)
	r.ISBN = optionalString(r.ISBN)
	r.Description = optionalString(r.Description)
	r.Authors = uniqueTrimmed(r.Authors)
	r.Genres = uniqueTrimmed(r.Genres)
	return r
}

// CSVFile is a downloaded export.
type CSVFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

func optionalString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
