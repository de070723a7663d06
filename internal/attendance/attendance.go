// Package attendance implements the claim validation pipeline and the
// durable attendance record store.
package attendance

import (
	"time"

	"classtrack/internal/geo"
)

// Claim is an unverified student assertion of presence for a session.
// It exists only for the duration of one validation call.
type Claim struct {
	SessionID string
	StudentID string
	Location  *geo.Point
}

// Record is the durable, unique proof that a claim was accepted. At most
// one record exists per (session, student) pair.
type Record struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	StudentID string    `json:"student_id"`
	MarkedAt  time.Time `json:"marked_at"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordWithStudent is the session-roll projection.
type RecordWithStudent struct {
	Record
	StudentName  string `json:"student_name"`
	StudentEmail string `json:"student_email"`
}
