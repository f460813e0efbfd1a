package store

import (
	"sync"
	"time"
)

// Revocations tracks the token IDs of logged-out sessions until their
// natural expiry, after which the entries are pruned.
type Revocations struct {
	mu   sync.Mutex
	jtis map[string]time.Time // token ID -> token expiry
}

func NewRevocations() *Revocations {
	return &Revocations{jtis: make(map[string]time.Time)}
}

// Revoke marks a token ID as logged out until expiresAt.
func (r *Revocations) Revoke(jti string, expiresAt time.Time) {
	if jti == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jtis[jti] = expiresAt
	r.pruneLocked()
}

// IsRevoked reports whether the token ID has been logged out.
func (r *Revocations) IsRevoked(jti string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked()
	exp, ok := r.jtis[jti]
	return ok && time.Now().Before(exp)
}

func (r *Revocations) pruneLocked() {
	now := time.Now()
	for jti, exp := range r.jtis {
		if now.After(exp) {
			delete(r.jtis, jti)
		}
	}
}
