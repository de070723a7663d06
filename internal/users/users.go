// Package users backs the identity boundary: account storage and
// credential issuance. The core packages never consult it directly; they
// trust the identity carried by the request token.
package users

import (
	"errors"
	"time"
)

// User is an account with a role of teacher or student.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
