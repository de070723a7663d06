package attendance

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"classtrack/internal/classroom"
	"classtrack/internal/geo"
	"classtrack/internal/queue"
	"classtrack/internal/session"
)

type fakeSessions struct {
	sessions map[string]session.Session
}

func (f *fakeSessions) Get(_ context.Context, id string) (session.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	return s, nil
}

type fakeClasses struct {
	classes  map[string]classroom.Class
	enrolled map[string]bool // key: classID+"/"+studentID
}

func (f *fakeClasses) FindByID(_ context.Context, id string) (classroom.Class, error) {
	cls, ok := f.classes[id]
	if !ok {
		return classroom.Class{}, classroom.ErrNotFound
	}
	return cls, nil
}

func (f *fakeClasses) IsEnrolled(_ context.Context, classID, studentID string) (bool, error) {
	return f.enrolled[classID+"/"+studentID], nil
}

// fakeRecords enforces the (session, student) uniqueness slot the way the
// database unique index does: atomically under one lock.
type fakeRecords struct {
	mu   sync.Mutex
	seen map[string]bool
	rows []Record
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{seen: make(map[string]bool)}
}

func (f *fakeRecords) Insert(_ context.Context, rec Record) (Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := rec.SessionID + "/" + rec.StudentID
	if f.seen[key] {
		return Record{}, ErrAlreadyMarked
	}
	f.seen[key] = true
	if rec.ID == "" {
		rec.ID = key
	}
	rec.CreatedAt = rec.MarkedAt
	f.rows = append(f.rows, rec)
	return rec, nil
}

func (f *fakeRecords) ListBySession(_ context.Context, sessionID string) ([]RecordWithStudent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []RecordWithStudent
	for _, r := range f.rows {
		if r.SessionID == sessionID {
			res = append(res, RecordWithStudent{Record: r})
		}
	}
	return res, nil
}

type fixture struct {
	validator *Validator
	records   *fakeRecords
	events    *queue.InMemory
	opened    time.Time
}

const (
	classID   = "class-1"
	sessionID = "session-1"
	studentID = "student-1"
)

// anchor and nearby/far points. pointAt returns a point the given
// distance due north of the anchor.
var anchor = geo.Point{Lat: 40.7128, Lng: -74.0060}

func pointAt(meters float64) *geo.Point {
	dLat := (meters / 6371008.8) * 180 / math.Pi
	return &geo.Point{Lat: anchor.Lat + dLat, Lng: anchor.Lng}
}

func newFixture(t *testing.T, cls classroom.Class) *fixture {
	t.Helper()
	opened := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	sessions := &fakeSessions{sessions: map[string]session.Session{
		sessionID: {
			ID:        sessionID,
			ClassID:   cls.ID,
			CreatedAt: opened,
			ExpiresAt: opened.Add(15 * time.Minute),
		},
	}}
	classes := &fakeClasses{
		classes:  map[string]classroom.Class{cls.ID: cls},
		enrolled: map[string]bool{cls.ID + "/" + studentID: true},
	}
	records := newFakeRecords()
	events := queue.NewInMemory(8)
	v := NewValidator(sessions, classes, records, events)
	v.now = func() time.Time { return opened.Add(time.Minute) }
	return &fixture{validator: v, records: records, events: events, opened: opened}
}

func plainClass() classroom.Class {
	return classroom.Class{ID: classID}
}

func anchoredClass() classroom.Class {
	return classroom.Class{ID: classID, Anchor: &anchor}
}

func TestMarkAccepted(t *testing.T) {
	fx := newFixture(t, plainClass())

	rec, err := fx.validator.Mark(context.Background(), Claim{SessionID: sessionID, StudentID: studentID})
	assert.NoError(t, err)
	assert.Equal(t, sessionID, rec.SessionID)
	assert.Equal(t, studentID, rec.StudentID)
	assert.Equal(t, fx.opened.Add(time.Minute), rec.MarkedAt)

	// Accepted claims trigger a rollup refresh message for the class.
	msgs, err := fx.events.Consume(context.Background())
	assert.NoError(t, err)
	msg := <-msgs
	assert.Equal(t, queue.TypeAttendanceMarked, msg.Type)
	assert.Equal(t, classID, string(msg.Body))
}

func TestMarkSessionNotFound(t *testing.T) {
	fx := newFixture(t, plainClass())
	_, err := fx.validator.Mark(context.Background(), Claim{SessionID: "missing", StudentID: studentID})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMarkExpiryBoundary(t *testing.T) {
	tests := []struct {
		name    string
		offset  time.Duration
		wantErr error
	}{
		{name: "one ns before expiry", offset: 15*time.Minute - time.Nanosecond},
		{name: "exactly at expiry", offset: 15 * time.Minute},
		{name: "one ns past expiry", offset: 15*time.Minute + time.Nanosecond, wantErr: ErrExpired},
		{name: "long past expiry", offset: time.Hour, wantErr: ErrExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t, plainClass())
			fx.validator.now = func() time.Time { return fx.opened.Add(tt.offset) }
			_, err := fx.validator.Mark(context.Background(), Claim{SessionID: sessionID, StudentID: studentID})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMarkNotEnrolled(t *testing.T) {
	// Enrollment is checked before the geofence: an outsider with a
	// perfect location and a valid window is still rejected.
	fx := newFixture(t, anchoredClass())
	_, err := fx.validator.Mark(context.Background(), Claim{
		SessionID: sessionID,
		StudentID: "stranger",
		Location:  &anchor,
	})
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestMarkGeofence(t *testing.T) {
	tests := []struct {
		name     string
		location *geo.Point
		wantErr  error
	}{
		{name: "no location", location: nil, wantErr: ErrLocationRequired},
		{name: "at anchor", location: &anchor},
		{name: "just inside radius", location: pointAt(99.99)},
		{name: "just past radius", location: pointAt(100.01), wantErr: ErrTooFar},
		{name: "far away", location: pointAt(3000), wantErr: ErrTooFar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t, anchoredClass())
			_, err := fx.validator.Mark(context.Background(), Claim{
				SessionID: sessionID,
				StudentID: studentID,
				Location:  tt.location,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMarkNoAnchorSkipsGeofence(t *testing.T) {
	// Without an anchor the geofence is not applicable: claims with no
	// location pass, as do claims from anywhere on the planet.
	fx := newFixture(t, plainClass())
	_, err := fx.validator.Mark(context.Background(), Claim{SessionID: sessionID, StudentID: studentID})
	assert.NoError(t, err)

	fx = newFixture(t, plainClass())
	_, err = fx.validator.Mark(context.Background(), Claim{
		SessionID: sessionID,
		StudentID: studentID,
		Location:  pointAt(500_000),
	})
	assert.NoError(t, err)
}

func TestMarkDuplicate(t *testing.T) {
	fx := newFixture(t, plainClass())
	claim := Claim{SessionID: sessionID, StudentID: studentID}

	_, err := fx.validator.Mark(context.Background(), claim)
	assert.NoError(t, err)
	_, err = fx.validator.Mark(context.Background(), claim)
	assert.ErrorIs(t, err, ErrAlreadyMarked)
}

func TestMarkConcurrentDuplicates(t *testing.T) {
	fx := newFixture(t, plainClass())
	claim := Claim{SessionID: sessionID, StudentID: studentID}

	const n = 16
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fx.validator.Mark(context.Background(), claim)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var accepted, rejected int
	for err := range errs {
		switch {
		case err == nil:
			accepted++
		case assert.ErrorIs(t, err, ErrAlreadyMarked):
			rejected++
		}
	}
	assert.Equal(t, 1, accepted)
	assert.Equal(t, n-1, rejected)
	assert.Len(t, fx.records.rows, 1)
}

func TestSessionRoll(t *testing.T) {
	fx := newFixture(t, plainClass())
	_, err := fx.validator.Mark(context.Background(), Claim{SessionID: sessionID, StudentID: studentID})
	assert.NoError(t, err)

	records, err := fx.validator.SessionRoll(context.Background(), sessionID)
	assert.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = fx.validator.SessionRoll(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
