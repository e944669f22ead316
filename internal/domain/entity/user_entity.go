package entity

import (
	"time"
)

// Role is the authorization role stored on a user and embedded in tokens.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the aggregate root for the identity domain.
// Password holds the bcrypt hash, never the plaintext.
type User struct {
	ID         string
	Email      string
	Password   string
	Name       string
	AvatarURL  string
	IsVerified bool
	Role       Role
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
