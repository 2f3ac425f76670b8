package domain

import "time"

// Identity is the caller carried by a verified access token.
type Identity struct {
	UserID   string
	Username string
}

// Token represents issued access token metadata.
type Token struct {
	Value     string
	Identity  Identity
	IssuedAt  time.Time
	ExpiresAt time.Time
}
