package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// BooksAPI groups the catalog endpoints.
type BooksAPI interface {
	ListBooks(ctx context.Context) ([]BookSummary, error)
	GetBook(ctx context.Context, id int64) (BookDetail, error)
	CreateBook(ctx context.Context, token string, book BookCreateRequest) (BookDetail, error)
	DeleteBook(ctx context.Context, token string, id int64) error
}

// ListBooks retrieves the public catalog.
func (c *APIClient) ListBooks(ctx context.Context) ([]BookSummary, error) {
	var raw json.RawMessage
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/books"}, &raw)
	if err != nil {
		return nil, err
	}
	return decodeBookList(resp, raw)
}

// GetBook retrieves a single book.
func (c *APIClient) GetBook(ctx context.Context, id int64) (BookDetail, error) {
	var book BookDetail
	_, err := c.Do(ctx, Request{Method: http.MethodGet, Path: fmt.Sprintf("/books/%d", id)}, &book)
	return book, err
}

// CreateBook inserts a new book. Requires an administrator token.
func (c *APIClient) CreateBook(ctx context.Context, token string, book BookCreateRequest) (BookDetail, error) {
	var created BookDetail
	_, err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/books", Token: token, Body: book.Normalize()}, &created)
	return created, err
}

// DeleteBook removes a book. Requires an administrator token.
func (c *APIClient) DeleteBook(ctx context.Context, token string, id int64) error {
	_, err := c.Do(ctx, Request{Method: http.MethodDelete, Path: fmt.Sprintf("/books/%d", id), Token: token}, nil)
	return err
}

// decodeBookList accepts a bare array as well as the `items` or `data`
// envelopes some deployments wrap lists with.
func decodeBookList(resp *Response, raw json.RawMessage) ([]BookSummary, error) {
	books := []BookSummary{}
	if err := json.Unmarshal(raw, &books); err == nil {
		return books, nil
	}

	var envelope struct {
		Items []BookSummary `json:"items"`
		Data  []BookSummary `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		switch {
		case envelope.Items != nil:
			return envelope.Items, nil
		case envelope.Data != nil:
			return envelope.Data, nil
		}
	}

	return nil, &APIError{
		StatusCode: http.StatusInternalServerError,
		Message:    "unexpected list payload",
		RawBody:    resp.Body,
	}
}
