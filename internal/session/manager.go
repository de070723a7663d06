package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"classtrack/internal/classroom"
)

// Store is the persistence surface the manager needs.
type Store interface {
	Create(ctx context.Context, s Session) error
	SetToken(ctx context.Context, id, token, qrCode string) error
	Get(ctx context.Context, id string) (Session, error)
	ListByClass(ctx context.Context, classID string) ([]Session, error)
	ListForStudent(ctx context.Context, studentID string) ([]WithClass, error)
	ListForTeacher(ctx context.Context, teacherID string) ([]WithClass, error)
}

// ClassDirectory resolves classes; implemented by classroom.Repository.
type ClassDirectory interface {
	FindByID(ctx context.Context, classID string) (classroom.Class, error)
}

// Renderer turns a token payload into a scannable artifact.
type Renderer func(payload string) (string, error)

// Manager opens sessions and serves listings.
type Manager struct {
	store   Store
	classes ClassDirectory
	render  Renderer
	ttl     time.Duration
	issuer  string
	signKey string
	now     func() time.Time
}

// NewManager creates a manager with the fixed session validity window.
func NewManager(store Store, classes ClassDirectory, render Renderer, ttl time.Duration, issuer, signKey string) *Manager {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Manager{
		store:   store,
		classes: classes,
		render:  render,
		ttl:     ttl,
		issuer:  issuer,
		signKey: signKey,
		now:     time.Now,
	}
}

// Open creates a session for classID valid from now until now+TTL. The
// row is persisted first, then the token binding {id, class, window} is
// signed and rendered; token material is saved back onto the row.
// Returns classroom.ErrNotFound when the class does not exist.
func (m *Manager) Open(ctx context.Context, classID string) (Session, error) {
	if _, err := m.classes.FindByID(ctx, classID); err != nil {
		return Session{}, err
	}

	now := m.now().UTC()
	s := Session{
		ID:        uuid.NewString(),
		ClassID:   classID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Create(ctx, s); err != nil {
		return Session{}, err
	}

	token, err := EncodeToken(s, m.issuer, m.signKey)
	if err != nil {
		return Session{}, err
	}
	qrCode, err := m.render(token)
	if err != nil {
		return Session{}, err
	}
	if err := m.store.SetToken(ctx, s.ID, token, qrCode); err != nil {
		return Session{}, err
	}

	s.Token = token
	s.QRCode = qrCode
	return s, nil
}

// Get returns a session by id.
func (m *Manager) Get(ctx context.Context, id string) (Session, error) {
	return m.store.Get(ctx, id)
}

// ListByClass returns a class's sessions, most recent first.
func (m *Manager) ListByClass(ctx context.Context, classID string) ([]Session, error) {
	return m.store.ListByClass(ctx, classID)
}

// ScheduleForStudent splits the sessions of a student's enrolled classes
// into upcoming and past.
func (m *Manager) ScheduleForStudent(ctx context.Context, studentID string) (Schedule, error) {
	all, err := m.store.ListForStudent(ctx, studentID)
	if err != nil {
		return Schedule{}, err
	}
	return m.split(all), nil
}

// ScheduleForTeacher splits the sessions of a teacher's classes into
// upcoming and past.
func (m *Manager) ScheduleForTeacher(ctx context.Context, teacherID string) (Schedule, error) {
	all, err := m.store.ListForTeacher(ctx, teacherID)
	if err != nil {
		return Schedule{}, err
	}
	return m.split(all), nil
}

func (m *Manager) split(all []WithClass) Schedule {
	now := m.now().UTC()
	var sched Schedule
	for _, wc := range all {
		if wc.CreatedAt.Before(now) {
			sched.Past = append(sched.Past, wc)
		} else {
			sched.Upcoming = append(sched.Upcoming, wc)
		}
	}
	return sched
}
