package store

import (
	"errors"
	"sync"

	"kitabghar/models"
)

var (
	// ErrNotFound is returned when a user or book id is unknown.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateUsername is returned when a username is already taken.
	ErrDuplicateUsername = errors.New("username already exists")
)

// Store holds the user and book records for the process. Both maps are
// guarded by a single RWMutex; reads take the read lock, every mutation
// takes the write lock and rewrites the snapshot when one is configured.
type Store struct {
	mu    sync.RWMutex
	users map[string]*models.User
	books map[string]*models.Book

	snapshotPath string
}

func New() *Store {
	return &Store{
		users: make(map[string]*models.User),
		books: make(map[string]*models.Book),
	}
}
