package attendance

import (
	"context"
	"errors"
	"log"
	"time"

	"classtrack/internal/classroom"
	"classtrack/internal/geo"
	"classtrack/internal/queue"
	"classtrack/internal/session"
)

// SessionStore resolves sessions; implemented by session.Repository.
type SessionStore interface {
	Get(ctx context.Context, id string) (session.Session, error)
}

// ClassDirectory resolves classes and enrollment; implemented by
// classroom.Repository.
type ClassDirectory interface {
	FindByID(ctx context.Context, classID string) (classroom.Class, error)
	IsEnrolled(ctx context.Context, classID, studentID string) (bool, error)
}

// RecordStore persists accepted claims; implemented by Repository.
type RecordStore interface {
	Insert(ctx context.Context, rec Record) (Record, error)
	ListBySession(ctx context.Context, sessionID string) ([]RecordWithStudent, error)
}

// Validator runs the ordered claim checks and persists accepted claims.
type Validator struct {
	sessions SessionStore
	classes  ClassDirectory
	records  RecordStore
	events   queue.Queue
	now      func() time.Time
}

// NewValidator creates a validator. events may be nil when no rollup
// refresh is wanted (tests, tooling).
func NewValidator(sessions SessionStore, classes ClassDirectory, records RecordStore, events queue.Queue) *Validator {
	return &Validator{
		sessions: sessions,
		classes:  classes,
		records:  records,
		events:   events,
		now:      time.Now,
	}
}

// Mark validates a claim and records it. Checks run in a fixed order and
// short-circuit: existence, expiry, enrollment, geofence, uniqueness.
// Every rejection is a *Rejection carrying its stable code; any other
// error is an internal failure.
func (v *Validator) Mark(ctx context.Context, claim Claim) (Record, error) {
	s, err := v.sessions.Get(ctx, claim.SessionID)
	if errors.Is(err, session.ErrNotFound) {
		return Record{}, v.reject(ErrSessionNotFound)
	}
	if err != nil {
		return Record{}, err
	}

	now := v.now().UTC()
	// Strict after: a claim at the expiry instant is still accepted.
	if now.After(s.ExpiresAt) {
		return Record{}, v.reject(ErrExpired)
	}

	cls, err := v.classes.FindByID(ctx, s.ClassID)
	if err != nil {
		return Record{}, err
	}
	enrolled, err := v.classes.IsEnrolled(ctx, s.ClassID, claim.StudentID)
	if err != nil {
		return Record{}, err
	}
	if !enrolled {
		return Record{}, v.reject(ErrNotEnrolled)
	}

	// Geofence applies only when the class has an anchor; without one the
	// check is not applicable rather than an automatic pass.
	if cls.Anchor != nil {
		if claim.Location == nil {
			return Record{}, v.reject(ErrLocationRequired)
		}
		if !geo.WithinRadius(*cls.Anchor, *claim.Location) {
			return Record{}, v.reject(ErrTooFar)
		}
	}

	rec, err := v.records.Insert(ctx, Record{
		SessionID: s.ID,
		StudentID: claim.StudentID,
		MarkedAt:  now,
	})
	if err != nil {
		var rej *Rejection
		if errors.As(err, &rej) {
			return Record{}, v.reject(rej)
		}
		return Record{}, err
	}

	claimsAccepted.Inc()
	if v.events != nil {
		msg := queue.Message{Type: queue.TypeAttendanceMarked, Body: []byte(cls.ID)}
		if err := v.events.Publish(ctx, msg); err != nil {
			log.Printf("rollup publish failed for class %s: %v", cls.ID, err)
		}
	}
	return rec, nil
}

// SessionRoll lists a session's records with student identity, failing
// with ErrSessionNotFound for unknown sessions.
func (v *Validator) SessionRoll(ctx context.Context, sessionID string) ([]RecordWithStudent, error) {
	if _, err := v.sessions.Get(ctx, sessionID); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return v.records.ListBySession(ctx, sessionID)
}

func (v *Validator) reject(rej *Rejection) *Rejection {
	claimsRejected.WithLabelValues(rej.Code).Inc()
	return rej
}
