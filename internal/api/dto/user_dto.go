package dto

import (
	"strings"
	"time"
)

// CredentialsRequest is the body of register and login. Older clients send userName.
type CredentialsRequest struct {
	Username  string `json:"username"`
	UserName  string `json:"userName"`
	Password  string `json:"password"`
	Password2 string `json:"password2,omitempty"`
}

// Name returns whichever username field the client populated.
func (r CredentialsRequest) Name() string {
	if strings.TrimSpace(r.Username) != "" {
		return r.Username
	}
	return r.UserName
}

// MessageResponse is the generic confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
