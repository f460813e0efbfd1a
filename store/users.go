package store

import (
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"kitabghar/models"
)

// CreateUser assigns an ID and stores the user. Usernames are unique;
// a taken name returns ErrDuplicateUsername.
func (s *Store) CreateUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username {
			return ErrDuplicateUsername
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	cp := *user
	s.users[user.ID] = &cp
	s.persistLocked()
	return nil
}

func (s *Store) UserByName(username string) (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, true
		}
	}
	return nil, false
}

func (s *Store) UserByID(id string) (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, false
	}
	cp := *u
	return &cp, true
}

// ListUsers returns all users, oldest first.
func (s *Store) ListUsers() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *Store) DeleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	s.persistLocked()
	return nil
}

func (s *Store) UsersCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// AdminsCount returns the number of users with role admin.
func (s *Store) AdminsCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, u := range s.users {
		if u.Role == models.RoleAdmin {
			n++
		}
	}
	return n
}

// Seed installs the demo accounts when the user store is empty.
func (s *Store) Seed() {
	if s.UsersCount() > 0 {
		return
	}
	seed := []struct {
		username, email, password, role string
	}{
		{"admin", "admin@example.com", "admin123", models.RoleAdmin},
		{"author1", "author@example.com", "author123", models.RoleAuthor},
		{"reader1", "reader@example.com", "reader123", models.RoleReader},
	}
	for _, u := range seed {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("seed %s: %v", u.username, err)
			continue
		}
		err = s.CreateUser(&models.User{
			Username:     u.username,
			Email:        u.email,
			PasswordHash: string(hash),
			Role:         u.role,
		})
		if err != nil {
			log.Printf("seed %s: %v", u.username, err)
		}
	}
}
