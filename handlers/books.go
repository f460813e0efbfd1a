package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"kitabghar/middleware"
	"kitabghar/models"
	"kitabghar/service"
	"kitabghar/store"
	"kitabghar/utils"
)

type BooksHandler struct {
	Store *store.Store
	Files *service.FileStore
}

// List returns books matching the optional q, category, and mine=1
// filters, newest first.
func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	q := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")
	uploaderID := ""
	if r.URL.Query().Get("mine") == "1" {
		uploaderID = claims.UserID
	}
	books := h.Store.Search(q, category, uploaderID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(books)
}

func (h *BooksHandler) Get(w http.ResponseWriter, r *http.Request) {
	book, err := h.Store.BookByID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"book not found"}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(book)
}

func (h *BooksHandler) Categories(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.Store.Categories())
}

// Download streams the PDF as an attachment, counting the download.
func (h *BooksHandler) Download(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, "attachment")
}

// Read streams the PDF inline for in-browser viewing, counting like a
// download.
func (h *BooksHandler) Read(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, "inline")
}

// serveFile opens the backing file, then increments the counter, then
// streams. A missing record or file counts nothing; a client that drops
// mid-stream still counts once.
func (h *BooksHandler) serveFile(w http.ResponseWriter, r *http.Request, disposition string) {
	if _, ok := middleware.ClaimsFromContext(r.Context()); !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	book, err := h.Store.BookByID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"book not found"}`, http.StatusNotFound)
		return
	}
	f, err := h.Files.Open(book.StoredName)
	if err != nil {
		log.Printf("download %s: open %s: %v", book.ID, book.StoredName, err)
		http.Error(w, `{"error":"file not found"}`, http.StatusNotFound)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		http.Error(w, `{"error":"file not found"}`, http.StatusNotFound)
		return
	}
	if _, err := h.Store.IncrementDownloads(book.ID); err != nil {
		http.Error(w, `{"error":"book not found"}`, http.StatusNotFound)
		return
	}

	filename := utils.SanitizeFilename(book.Title) + ".pdf"
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	w.Header().Set("Content-Disposition", disposition+`; filename="`+filename+`"`)
	io.Copy(w, f)
}

type EditBookRequest struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
}

// Edit updates book metadata. The uploader needs edit-own; anyone else
// needs edit-any.
func (h *BooksHandler) Edit(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	book, err := h.Store.BookByID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"book not found"}`, http.StatusNotFound)
		return
	}
	if !canModify(claims, book, models.CapEditOwn, models.CapEditAny) {
		http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
		return
	}
	var req EditBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if req.Title != nil && *req.Title == "" {
		http.Error(w, `{"error":"title cannot be empty"}`, http.StatusBadRequest)
		return
	}
	if err := h.Store.UpdateBookMetadata(book.ID, req.Title, req.Author, req.Category, req.Description); err != nil {
		http.Error(w, `{"error":"book not found"}`, http.StatusNotFound)
		return
	}
	book, _ = h.Store.BookByID(book.ID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(book)
}

// Delete removes the backing file first and the record second. A failed
// file removal aborts the whole delete, so the two can never diverge.
func (h *BooksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	book, err := h.Store.BookByID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"book not found"}`, http.StatusNotFound)
		return
	}
	if !canModify(claims, book, models.CapDeleteOwn, models.CapDeleteAny) {
		http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
		return
	}
	if err := h.Files.Delete(book.StoredName); err != nil {
		log.Printf("delete %s: remove %s: %v", book.ID, book.StoredName, err)
		http.Error(w, `{"error":"failed to delete file"}`, http.StatusInternalServerError)
		return
	}
	if _, err := h.Store.DeleteBook(book.ID); err != nil && err != store.ErrNotFound {
		http.Error(w, `{"error":"failed to delete book"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// canModify is the single owner-or-any authorization check used by every
// per-book mutation. Anything it cannot prove is denied.
func canModify(claims *middleware.Claims, book *models.Book, own, any models.Capability) bool {
	if models.Can(claims.Role, any) {
		return true
	}
	return book.UploadedBy == claims.UserID && models.Can(claims.Role, own)
}
