package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"kitabghar/middleware"
	"kitabghar/models"
	"kitabghar/service"
	"kitabghar/store"
	"kitabghar/utils"
)

type UploadHandler struct {
	Store    *store.Store
	Files    *service.FileStore
	MaxBytes int64
}

// Upload accepts a multipart form (title, author, category, description,
// file) and stores a PDF. The file hits disk before the record becomes
// visible, so a failed upload leaves the store untouched and an oversize
// or non-PDF upload leaves the directory untouched.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok || !models.Can(claims.Role, models.CapUpload) {
		http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
		return
	}

	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, `{"error":"file too large"}`, http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, `{"error":"failed to parse multipart form"}`, http.StatusBadRequest)
		return
	}
	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		http.Error(w, `{"error":"title required"}`, http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, `{"error":"missing file"}`, http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.ToLower(strings.TrimSpace(filepath.Ext(header.Filename)))
	partContentType := header.Header.Get("Content-Type")
	if ext != ".pdf" && !strings.HasPrefix(partContentType, "application/pdf") {
		http.Error(w, `{"error":"only pdf files are allowed"}`, http.StatusBadRequest)
		return
	}

	// Sniff the leading bytes; extension and declared type are client input.
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		http.Error(w, `{"error":"failed to read file"}`, http.StatusInternalServerError)
		return
	}
	head = head[:n]
	if !utils.DetectPDF(head) {
		http.Error(w, `{"error":"only pdf files are allowed"}`, http.StatusBadRequest)
		return
	}

	storedName, size, err := h.Files.Save(io.MultiReader(bytes.NewReader(head), file))
	if err != nil {
		http.Error(w, `{"error":"failed to store file"}`, http.StatusInternalServerError)
		return
	}

	book := &models.Book{
		Title:        title,
		Author:       strings.TrimSpace(r.FormValue("author")),
		Category:     strings.TrimSpace(r.FormValue("category")),
		Description:  strings.TrimSpace(r.FormValue("description")),
		StoredName:   storedName,
		OriginalName: header.Filename,
		SizeBytes:    size,
		UploadedBy:   claims.UserID,
	}
	h.Store.InsertBook(book)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(book)
}
