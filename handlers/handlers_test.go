package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"kitabghar/middleware"
	"kitabghar/models"
	"kitabghar/service"
	"kitabghar/store"
)

const (
	testSecret   = "test-secret"
	testPassword = "password123"
)

type testEnv struct {
	t       *testing.T
	store   *store.Store
	files   *service.FileStore
	revoked *store.Revocations
	auth    *AuthHandler
	router  chi.Router
}

// newTestEnv wires the handlers and routes the same way main does.
func newTestEnv(t *testing.T, maxBytes int64) *testEnv {
	t.Helper()
	db := store.New()
	files, err := service.NewFileStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	revoked := store.NewRevocations()

	authHandler := &AuthHandler{Store: db, Revoked: revoked, JWTSecret: testSecret, TokenTTL: time.Hour}
	uploadHandler := &UploadHandler{Store: db, Files: files, MaxBytes: maxBytes}
	booksHandler := &BooksHandler{Store: db, Files: files}
	adminHandler := &AdminHandler{Store: db}
	profileHandler := &ProfileHandler{Store: db}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(testSecret, revoked))
			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/books", booksHandler.List)
			r.Get("/books/{id}", booksHandler.Get)
			r.Get("/books/{id}/download", booksHandler.Download)
			r.Get("/books/{id}/read", booksHandler.Read)
			r.Patch("/books/{id}", booksHandler.Edit)
			r.Delete("/books/{id}", booksHandler.Delete)
			r.Get("/categories", booksHandler.Categories)
			r.Get("/me", profileHandler.Me)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCapability(models.CapUpload))
				r.Post("/upload", uploadHandler.Upload)
			})
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireCapability(models.CapManageUsers))
				r.Get("/users", adminHandler.ListUsers)
				r.Delete("/users/{id}", adminHandler.DeleteUser)
				r.Get("/stats", adminHandler.Stats)
			})
		})
	})

	return &testEnv{t: t, store: db, files: files, revoked: revoked, auth: authHandler, router: r}
}

// newUser creates a user directly in the store and returns it with a
// valid token.
func (e *testEnv) newUser(username, role string) (*models.User, string) {
	e.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(e.t, err)
	u := &models.User{Username: username, Email: username + "@example.com", PasswordHash: string(hash), Role: role}
	require.NoError(e.t, e.store.CreateUser(u))
	token, err := e.auth.createToken(u)
	require.NoError(e.t, err)
	return u, token
}

func (e *testEnv) do(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	e.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) doJSON(method, path, token string, payload any) *httptest.ResponseRecorder {
	e.t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(e.t, err)
	return e.do(method, path, token, bytes.NewReader(data), "application/json")
}

// pdfBytes returns a fake PDF body of about n bytes.
func pdfBytes(n int) []byte {
	body := []byte("%PDF-1.4\n")
	if n > len(body) {
		body = append(body, bytes.Repeat([]byte("x"), n-len(body))...)
	}
	return body
}

// multipartUpload builds a multipart body with metadata fields and one
// file part.
func multipartUpload(t *testing.T, title, category, filename string, content []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", title))
	require.NoError(t, mw.WriteField("author", "Test Author"))
	require.NoError(t, mw.WriteField("category", category))
	require.NoError(t, mw.WriteField("description", "A test upload"))
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (e *testEnv) uploadPDF(token, title, category string, size int) models.Book {
	e.t.Helper()
	body, ct := multipartUpload(e.t, title, category, strings.ReplaceAll(title, " ", "_")+".pdf", pdfBytes(size))
	rec := e.do(http.MethodPost, "/api/upload", token, body, ct)
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
	var book models.Book
	require.NoError(e.t, json.Unmarshal(rec.Body.Bytes(), &book))
	return book
}

func decodeBooks(t *testing.T, rec *httptest.ResponseRecorder) []models.Book {
	t.Helper()
	var books []models.Book
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &books))
	return books
}
