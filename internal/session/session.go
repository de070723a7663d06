// Package session implements the time-boxed attendance-collection window:
// opening sessions against a class, the signed token encoded into the QR
// artifact, and session listings.
package session

import (
	"errors"
	"time"
)

// Status classifies a session relative to a point in time.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusActive   Status = "active"
	StatusExpired  Status = "expired"
)

// Session is one attendance-collection window for a class. Rows are
// immutable after creation except for the token material written
// synchronously during Open; they are never deleted.
type Session struct {
	ID        string    `json:"id"`
	ClassID   string    `json:"class_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Token     string    `json:"token,omitempty"`
	QRCode    string    `json:"qr_code,omitempty"`
}

// StatusAt classifies the session at the given instant. Sessions opened
// by Open are active immediately, so upcoming only applies to listings
// that compare against a future creation time.
func (s Session) StatusAt(now time.Time) Status {
	switch {
	case now.Before(s.CreatedAt):
		return StatusUpcoming
	case now.Before(s.ExpiresAt):
		return StatusActive
	default:
		return StatusExpired
	}
}

// WithClass is a listing projection carrying the class name and subject.
type WithClass struct {
	Session
	ClassName string `json:"class_name"`
	Subject   string `json:"subject"`
}

// Schedule splits sessions into upcoming and past relative to now.
type Schedule struct {
	Upcoming []WithClass `json:"upcoming"`
	Past     []WithClass `json:"past"`
}

// ErrNotFound is returned when a session id does not resolve.
var ErrNotFound = errors.New("session not found")
