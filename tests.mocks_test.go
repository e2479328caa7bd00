package main

import (
	"context"
	"sync"
	"time"
)

// This file contains mocks definitions needed to perform unit tests.

type MockAuthAPI struct {
	LoginFunc    func(ctx context.Context, creds Credentials) (TokenResponse, error)
	RegisterFunc func(ctx context.Context, creds Credentials) (Profile, error)
	MeFunc       func(ctx context.Context, token string) (Profile, error)
}

// Login mocks the credentials exchange.
func (m *MockAuthAPI) Login(ctx context.Context, creds Credentials) (TokenResponse, error) {
	return m.LoginFunc(ctx, creds)
}

// Register mocks the account creation.
func (m *MockAuthAPI) Register(ctx context.Context, creds Credentials) (Profile, error) {
	return m.RegisterFunc(ctx, creds)
}

// Me mocks the profile retrieval.
func (m *MockAuthAPI) Me(ctx context.Context, token string) (Profile, error) {
	return m.MeFunc(ctx, token)
}

// MockLibraryAPI implements LibraryAPI. Unset functions panic so
// that an unexpected call fails the test loudly.
type MockLibraryAPI struct {
	MockAuthAPI
	ListBooksFunc      func(ctx context.Context) ([]BookSummary, error)
	GetBookFunc        func(ctx context.Context, id int64) (BookDetail, error)
	CreateBookFunc     func(ctx context.Context, token string, book BookCreateRequest) (BookDetail, error)
	DeleteBookFunc     func(ctx context.Context, token string, id int64) error
	ListFavoritesFunc  func(ctx context.Context, token string) ([]BookSummary, error)
	AddFavoriteFunc    func(ctx context.Context, token string, bookID int64) error
	RemoveFavoriteFunc func(ctx context.Context, token string, bookID int64) error
	ExportBooksCSVFunc func(ctx context.Context, token string) (CSVFile, error)
}

func (m *MockLibraryAPI) ListBooks(ctx context.Context) ([]BookSummary, error) {
	return m.ListBooksFunc(ctx)
}

func (m *MockLibraryAPI) GetBook(ctx context.Context, id int64) (BookDetail, error) {
	return m.GetBookFunc(ctx, id)
}

func (m *MockLibraryAPI) CreateBook(ctx context.Context, token string, book BookCreateRequest) (BookDetail, error) {
	return m.CreateBookFunc(ctx, token, book)
}

func (m *MockLibraryAPI) DeleteBook(ctx context.Context, token string, id int64) error {
	return m.DeleteBookFunc(ctx, token, id)
}

func (m *MockLibraryAPI) ListFavorites(ctx context.Context, token string) ([]BookSummary, error) {
	return m.ListFavoritesFunc(ctx, token)
}

func (m *MockLibraryAPI) AddFavorite(ctx context.Context, token string, bookID int64) error {
	return m.AddFavoriteFunc(ctx, token, bookID)
}

func (m *MockLibraryAPI) RemoveFavorite(ctx context.Context, token string, bookID int64) error {
	return m.RemoveFavoriteFunc(ctx, token, bookID)
}

func (m *MockLibraryAPI) ExportBooksCSV(ctx context.Context, token string) (CSVFile, error) {
	return m.ExportBooksCSVFunc(ctx, token)
}

// MockTokenStore records the stored token and can be told to fail.
type MockTokenStore struct {
	mu        sync.Mutex
	Token     string
	LoadErr   error
	SaveErr   error
	DeleteErr error
	Saves     int
	Deletes   int
	Closed    bool
}

func (m *MockTokenStore) Load(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return "", m.LoadErr
	}
	if m.Token == "" {
		return "", ErrTokenNotFound
	}
	return m.Token, nil
}

func (m *MockTokenStore) Save(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saves++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Token = token
	return nil
}

func (m *MockTokenStore) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deletes++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.Token = ""
	return nil
}

func (m *MockTokenStore) Close() error {
	m.mu.Lock()
	m.Closed = true
	m.mu.Unlock()
	return nil
}

// Stored returns the token currently held.
func (m *MockTokenStore) Stored() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Token
}

type notification struct {
	Kind    string
	Title   string
	Message string
}

// MockNotifier records every notification.
type MockNotifier struct {
	mu    sync.Mutex
	Notes []notification
}

func (m *MockNotifier) Success(title, message string) { m.add("success", title, message) }
func (m *MockNotifier) Info(title, message string)    { m.add("info", title, message) }
func (m *MockNotifier) Error(title, message string)   { m.add("error", title, message) }

func (m *MockNotifier) add(kind, title, message string) {
	m.mu.Lock()
	m.Notes = append(m.Notes, notification{Kind: kind, Title: title, Message: message})
	m.mu.Unlock()
}

// Last returns the most recent notification.
func (m *MockNotifier) Last() notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Notes) == 0 {
		return notification{}
	}
	return m.Notes[len(m.Notes)-1]
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}
