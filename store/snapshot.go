package store

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"kitabghar/models"
)

// snapshotUser is the on-disk form of a user. Password hashes are
// included here (and only here) so accounts survive a restart.
type snapshotUser struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

type snapshotBook struct {
	models.Book
	StoredName string `json:"storedName"`
}

// EnableSnapshot turns on snapshot persistence and loads any existing
// snapshot from path. Must be called before the stores are used.
func (s *Store) EnableSnapshot(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshotPath = path
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var snap struct {
		Users []snapshotUser `json:"users"`
		Books []snapshotBook `json:"books"`
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}
	for i := range snap.Users {
		u := snap.Users[i]
		s.users[u.ID] = &models.User{
			ID:           u.ID,
			Username:     u.Username,
			PasswordHash: u.PasswordHash,
			Email:        u.Email,
			Role:         u.Role,
			CreatedAt:    u.CreatedAt,
		}
	}
	for i := range snap.Books {
		b := snap.Books[i].Book
		b.StoredName = snap.Books[i].StoredName
		s.books[b.ID] = &b
	}
	return nil
}

// persistLocked rewrites the snapshot file. Callers hold the write lock.
// Persistence is best effort; a failed write is logged and the in-memory
// state stays authoritative.
func (s *Store) persistLocked() {
	if s.snapshotPath == "" {
		return
	}
	snap := struct {
		Users []snapshotUser `json:"users"`
		Books []snapshotBook `json:"books"`
	}{
		Users: make([]snapshotUser, 0, len(s.users)),
		Books: make([]snapshotBook, 0, len(s.books)),
	}
	for _, u := range s.users {
		snap.Users = append(snap.Users, snapshotUser{
			ID:           u.ID,
			Username:     u.Username,
			PasswordHash: u.PasswordHash,
			Email:        u.Email,
			Role:         u.Role,
			CreatedAt:    u.CreatedAt,
		})
	}
	for _, b := range s.books {
		snap.Books = append(snap.Books, snapshotBook{Book: *b, StoredName: b.StoredName})
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		log.Printf("snapshot: marshal: %v", err)
		return
	}
	if err := os.WriteFile(s.snapshotPath, data, 0o644); err != nil {
		log.Printf("snapshot: write %s: %v", s.snapshotPath, err)
	}
}

// Persist forces a snapshot write, used at shutdown.
func (s *Store) Persist() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persistLocked()
}
