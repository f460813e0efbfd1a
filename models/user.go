package models

import "time"

// Role constants for user authorization.
const (
	RoleReader = "reader"
	RoleAuthor = "author"
	RoleAdmin  = "admin"
)

var ValidRoles = []string{RoleReader, RoleAuthor, RoleAdmin}

// RegisterableRoles are the roles a user may pick at signup. Admin accounts
// come from seed data or another admin.
var RegisterableRoles = []string{RoleReader, RoleAuthor}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // bcrypt hash
	Email        string    `json:"email"`
	Role         string    `json:"role"` // reader, author, admin
	CreatedAt    time.Time `json:"createdAt"`
}

func RoleValid(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

func RoleRegisterable(role string) bool {
	for _, r := range RegisterableRoles {
		if r == role {
			return true
		}
	}
	return false
}
