package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// This file contains an in-process library backend used by the client,
// session and command line tests.

const (
	fakeAPIPrefix   = "/api/v1"
	fakeTokenPrefix = "t"
	fakeAdminEmail  = "admin@example.com"
	fakeReaderEmail = "reader@example.com"
	fakePassword    = "secret"
)

type fakeUser struct {
	Profile
	Password string
}

type fakeLibrary struct {
	ids *IDsHandler

	mu        sync.Mutex
	users     map[string]*fakeUser
	tokens    map[string]string
	books     map[int64]BookDetail
	nextID    int64
	favorites map[string]map[int64]bool
	headers   map[string]http.Header
	calls     map[string]int
	meStatus  int
}

// newFakeLibrary starts the backend with an administrator, a reader and Dune.
func newFakeLibrary(t *testing.T) (*fakeLibrary, *httptest.Server) {
	t.Helper()
	f := &fakeLibrary{
		ids:       NewIDsHandler(),
		users:     map[string]*fakeUser{},
		tokens:    map[string]string{},
		books:     map[int64]BookDetail{},
		favorites: map[string]map[int64]bool{},
		headers:   map[string]http.Header{},
		calls:     map[string]int{},
	}
	f.addUser(fakeAdminEmail, fakePassword, RoleAdmin)
	f.addUser(fakeReaderEmail, fakePassword, RoleUser)
	f.addBook(BookDetail{Title: "Dune", Year: 1965, Authors: []string{"F. Herbert"}, Genres: []string{"SciFi"}})

	router := httprouter.New()
	router.POST(fakeAPIPrefix+"/auth/register", f.record(f.register))
	router.POST(fakeAPIPrefix+"/auth/login", f.record(f.login))
	router.GET(fakeAPIPrefix+"/auth/me", f.record(f.me))
	router.GET(fakeAPIPrefix+"/books", f.record(f.listBooks))
	router.POST(fakeAPIPrefix+"/books", f.record(f.createBook))
	router.GET(fakeAPIPrefix+"/books/:id", f.record(f.getBook))
	router.DELETE(fakeAPIPrefix+"/books/:id", f.record(f.deleteBook))
	router.GET(fakeAPIPrefix+"/users/me/favorites", f.record(f.listFavorites))
	router.POST(fakeAPIPrefix+"/users/me/favorites/:id", f.record(f.addFavorite))
	router.DELETE(fakeAPIPrefix+"/users/me/favorites/:id", f.record(f.removeFavorite))
	router.GET(fakeAPIPrefix+"/admin/books/export.csv", f.record(f.exportCSV))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeLibrary) addUser(email, password string, role Role) *fakeUser {
	u := &fakeUser{Profile: Profile{ID: int64(len(f.users) + 1), Email: email, Role: role}, Password: password}
	f.users[email] = u
	return u
}

func (f *fakeLibrary) addBook(b BookDetail) BookDetail {
	f.nextID++
	b.ID = f.nextID
	f.books[b.ID] = b
	return b
}

// tokenFor issues a token the way the login endpoint does.
func (f *fakeLibrary) tokenFor(email string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	token := f.ids.Generate(fakeTokenPrefix)
	f.tokens[token] = email
	return token
}

// revoke invalidates every issued token.
func (f *fakeLibrary) revoke() {
	f.mu.Lock()
	f.tokens = map[string]string{}
	f.mu.Unlock()
}

// failMe makes `/auth/me` answer with status until reset with zero.
func (f *fakeLibrary) failMe(status int) {
	f.mu.Lock()
	f.meStatus = status
	f.mu.Unlock()
}

// header returns the headers of the last request on "METHOD /path".
func (f *fakeLibrary) header(route string) http.Header {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.headers[route]
}

// count returns how many times "METHOD /path" was called.
func (f *fakeLibrary) count(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[route]
}

func (f *fakeLibrary) bookIDs() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]int64, 0, len(f.books))
	for id := range f.books {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (f *fakeLibrary) record(h httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		route := r.Method + " " + strings.TrimPrefix(r.URL.Path, fakeAPIPrefix)
		f.mu.Lock()
		f.headers[route] = r.Header.Clone()
		f.calls[route]++
		f.mu.Unlock()
		h(w, r, ps)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// validFakeToken checks the token is a prefixed uuid as issued by tokenFor.
func validFakeToken(token string) bool {
	id, ok := strings.CutPrefix(token, fakeTokenPrefix+":")
	return ok && uuid.FromStringOrNil(id) != uuid.Nil
}

// summaryOf drops the optional fields of a detail.
func summaryOf(b BookDetail) BookSummary {
	return BookSummary{ID: b.ID, Title: b.Title, Year: b.Year, Authors: b.Authors, Genres: b.Genres}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// user authenticates the bearer token of r.
func (f *fakeLibrary) user(w http.ResponseWriter, r *http.Request) (*fakeUser, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || !validFakeToken(token) {
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		return nil, false
	}
	f.mu.Lock()
	email, known := f.tokens[token]
	u := f.users[email]
	f.mu.Unlock()
	if !known || u == nil {
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		return nil, false
	}
	return u, true
}

func (f *fakeLibrary) admin(w http.ResponseWriter, r *http.Request) bool {
	u, ok := f.user(w, r)
	if !ok {
		return false
	}
	if u.Role != RoleAdmin {
		writeDetail(w, http.StatusForbidden, "Forbidden")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, ps httprouter.Params) (int64, bool) {
	id, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid id")
		return 0, false
	}
	return id, true
}

func (f *fakeLibrary) register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var creds Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[creds.Email]; exists {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	u := f.addUser(creds.Email, creds.Password, RoleUser)
	writeJSON(w, http.StatusCreated, u.Profile)
}

func (f *fakeLibrary) login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var creds Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	f.mu.Lock()
	u, ok := f.users[creds.Email]
	f.mu.Unlock()
	if !ok || u.Password != creds.Password {
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: f.tokenFor(creds.Email), TokenType: "bearer"})
}

func (f *fakeLibrary) me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	f.mu.Lock()
	status := f.meStatus
	f.mu.Unlock()
	if status != 0 {
		writeDetail(w, status, http.StatusText(status))
		return
	}
	if u, ok := f.user(w, r); ok {
		writeJSON(w, http.StatusOK, u.Profile)
	}
}

func (f *fakeLibrary) listBooks(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	f.mu.Lock()
	books := make([]BookSummary, 0, len(f.books))
	for _, b := range f.books {
		books = append(books, summaryOf(b))
	}
	f.mu.Unlock()
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	writeJSON(w, http.StatusOK, books)
}

func (f *fakeLibrary) getBook(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	id, ok := pathID(w, ps)
	if !ok {
		return
	}
	f.mu.Lock()
	b, found := f.books[id]
	f.mu.Unlock()
	if !found {
		writeDetail(w, http.StatusNotFound, "Book not found")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (f *fakeLibrary) createBook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !f.admin(w, r) {
		return
	}
	var req BookCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid body")
		return
	}
	f.mu.Lock()
	b := f.addBook(BookDetail{
		Title:       req.Title,
		Year:        req.Year,
		ISBN:        req.ISBN,
		Description: req.Description,
		Authors:     req.Authors,
		Genres:      req.Genres,
	})
	f.mu.Unlock()
	writeJSON(w, http.StatusCreated, b)
}

func (f *fakeLibrary) deleteBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if !f.admin(w, r) {
		return
	}
	id, ok := pathID(w, ps)
	if !ok {
		return
	}
	f.mu.Lock()
	_, found := f.books[id]
	delete(f.books, id)
	f.mu.Unlock()
	if !found {
		writeDetail(w, http.StatusNotFound, "Book not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (f *fakeLibrary) listFavorites(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	u, ok := f.user(w, r)
	if !ok {
		return
	}
	f.mu.Lock()
	books := []BookSummary{}
	for id := range f.favorites[u.Email] {
		if b, found := f.books[id]; found {
			books = append(books, summaryOf(b))
		}
	}
	f.mu.Unlock()
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	// favorites come wrapped to exercise the envelope decoding.
	writeJSON(w, http.StatusOK, map[string]any{"items": books})
}

func (f *fakeLibrary) addFavorite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	u, ok := f.user(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, ps)
	if !ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, found := f.books[id]; !found {
		writeDetail(w, http.StatusNotFound, "Book not found")
		return
	}
	if f.favorites[u.Email] == nil {
		f.favorites[u.Email] = map[int64]bool{}
	}
	f.favorites[u.Email][id] = true
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (f *fakeLibrary) removeFavorite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	u, ok := f.user(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, ps)
	if !ok {
		return
	}
	f.mu.Lock()
	delete(f.favorites[u.Email], id)
	f.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeLibrary) exportCSV(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !f.admin(w, r) {
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="books.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("id,title,year\n1,Dune,1965\n"))
}

// newTestClient provides an api client bound to the fake backend.
func newTestClient(srv *httptest.Server) *APIClient {
	return NewAPIClient(
		zap.NewNop(),
		&APIConfig{BaseURL: srv.URL + fakeAPIPrefix, RequestTimeout: 5 * time.Second, UserAgent: "olib-test"},
		NewIDsHandler(),
		NewMockClocker(),
	)
}
