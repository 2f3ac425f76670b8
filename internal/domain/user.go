package domain

import (
	"errors"
	"time"
)

var (
	// ErrUserNotFound is returned by the store when no user matches.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned by the store on a unique username violation.
	ErrUsernameTaken = errors.New("username already taken")
)

// User is an account holder with a set of favourite item identifiers.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Favourites   []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
