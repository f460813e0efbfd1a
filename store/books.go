package store

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"kitabghar/models"
)

// InsertBook assigns an ID and stores the book. Returns the new ID.
func (s *Store) InsertBook(book *models.Book) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	if book.UploadedAt.IsZero() {
		book.UploadedAt = time.Now()
	}
	cp := *book
	s.books[book.ID] = &cp
	s.persistLocked()
	return book.ID
}

func (s *Store) BookByID(id string) (*models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.books[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

// DeleteBook removes a book by ID and returns its stored filename so the
// caller can remove the backing file. The backing file must already be
// gone by the time this is called; see handlers.BooksHandler.Delete.
func (s *Store) DeleteBook(id string) (storedName string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return "", ErrNotFound
	}
	delete(s.books, id)
	s.persistLocked()
	return b.StoredName, nil
}

// UpdateBookMetadata updates the editable metadata fields. Nil fields are
// left unchanged; the stored file reference and counters never change here.
func (s *Store) UpdateBookMetadata(id string, title, author, category, description *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return ErrNotFound
	}
	if title != nil {
		b.Title = *title
	}
	if author != nil {
		b.Author = *author
	}
	if category != nil {
		b.Category = *category
	}
	if description != nil {
		b.Description = *description
	}
	s.persistLocked()
	return nil
}

// IncrementDownloads bumps the download counter by one and returns the
// new value.
func (s *Store) IncrementDownloads(id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return 0, ErrNotFound
	}
	b.Downloads++
	s.persistLocked()
	return b.Downloads, nil
}

// Search filters books: case-insensitive substring match of query against
// title, author, and description; exact category match; optional uploader
// scope. Empty arguments do not filter. Results are newest first.
func (s *Store) Search(query, category, uploaderID string) []models.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Book, 0, len(s.books))
	for _, b := range s.books {
		if uploaderID != "" && b.UploadedBy != uploaderID {
			continue
		}
		if category != "" && b.Category != category {
			continue
		}
		if query != "" {
			if !strings.Contains(strings.ToLower(b.Title), query) &&
				!strings.Contains(strings.ToLower(b.Author), query) &&
				!strings.Contains(strings.ToLower(b.Description), query) {
				continue
			}
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out
}

func (s *Store) AllBooks() []models.Book {
	return s.Search("", "", "")
}

// Recent returns up to n books, newest first.
func (s *Store) Recent(n int) []models.Book {
	books := s.AllBooks()
	if len(books) > n {
		books = books[:n]
	}
	return books
}

// Categories returns the distinct categories in use, sorted.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	for _, b := range s.books {
		if b.Category != "" {
			seen[b.Category] = true
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (s *Store) BooksCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books)
}

// DownloadsTotal sums the download counters across all books.
func (s *Store) DownloadsTotal() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, b := range s.books {
		total += b.Downloads
	}
	return total
}
