package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"classtrack/internal/classroom"
)

type fakeStore struct {
	created        []Session
	tokenAtCreate  string
	tokens         map[string][2]string
	forStudent     []WithClass
	forTeacher     []WithClass
}

func newFakeStore() *fakeStore {
	return &fakeStore{tokens: make(map[string][2]string)}
}

func (f *fakeStore) Create(_ context.Context, s Session) error {
	f.tokenAtCreate = s.Token
	f.created = append(f.created, s)
	return nil
}

func (f *fakeStore) SetToken(_ context.Context, id, token, qrCode string) error {
	f.tokens[id] = [2]string{token, qrCode}
	return nil
}

func (f *fakeStore) Get(_ context.Context, id string) (Session, error) {
	for _, s := range f.created {
		if s.ID == id {
			return s, nil
		}
	}
	return Session{}, ErrNotFound
}

func (f *fakeStore) ListByClass(_ context.Context, classID string) ([]Session, error) {
	var res []Session
	for _, s := range f.created {
		if s.ClassID == classID {
			res = append(res, s)
		}
	}
	return res, nil
}

func (f *fakeStore) ListForStudent(context.Context, string) ([]WithClass, error) {
	return f.forStudent, nil
}

func (f *fakeStore) ListForTeacher(context.Context, string) ([]WithClass, error) {
	return f.forTeacher, nil
}

type fakeClasses struct {
	known map[string]classroom.Class
}

func (f *fakeClasses) FindByID(_ context.Context, id string) (classroom.Class, error) {
	cls, ok := f.known[id]
	if !ok {
		return classroom.Class{}, classroom.ErrNotFound
	}
	return cls, nil
}

func passthroughRender(payload string) (string, error) { return "qr:" + payload, nil }

func newTestManager(store *fakeStore, classIDs ...string) *Manager {
	known := make(map[string]classroom.Class)
	for _, id := range classIDs {
		known[id] = classroom.Class{ID: id}
	}
	return NewManager(store, &fakeClasses{known: known}, passthroughRender, 15*time.Minute, testIssuer, testKey)
}

func TestOpenUnknownClass(t *testing.T) {
	m := newTestManager(newFakeStore())
	_, err := m.Open(context.Background(), "missing")
	assert.ErrorIs(t, err, classroom.ErrNotFound)
}

func TestOpenSetsExactWindow(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store, "class-1")
	opened := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return opened }

	s, err := m.Open(context.Background(), "class-1")
	assert.NoError(t, err)
	assert.Equal(t, opened, s.CreatedAt)
	assert.Equal(t, opened.Add(15*time.Minute), s.ExpiresAt)
	assert.Equal(t, StatusActive, s.StatusAt(opened))
}

func TestOpenPersistsRowBeforeToken(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store, "class-1")

	s, err := m.Open(context.Background(), "class-1")
	assert.NoError(t, err)

	// The row is created without token material; the token is written
	// afterwards, since it embeds the row's id.
	assert.Empty(t, store.tokenAtCreate)
	assert.NotEmpty(t, s.Token)
	assert.Equal(t, "qr:"+s.Token, s.QRCode)
	assert.Equal(t, [2]string{s.Token, s.QRCode}, store.tokens[s.ID])

	claims, err := DecodeToken(s.Token, testIssuer, testKey)
	assert.NoError(t, err)
	assert.Equal(t, s.ID, claims.SessionID)
	assert.Equal(t, "class-1", claims.ClassID)
	assert.Equal(t, s.ExpiresAt.Unix(), claims.ExpiresAt.Unix())
}

func TestScheduleSplit(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	past := WithClass{Session: Session{ID: "p", CreatedAt: now.Add(-time.Hour)}}
	future := WithClass{Session: Session{ID: "f", CreatedAt: now.Add(time.Hour)}}

	store := newFakeStore()
	store.forStudent = []WithClass{past, future}
	m := newTestManager(store)
	m.now = func() time.Time { return now }

	sched, err := m.ScheduleForStudent(context.Background(), "student-1")
	assert.NoError(t, err)
	assert.Len(t, sched.Past, 1)
	assert.Len(t, sched.Upcoming, 1)
	assert.Equal(t, "p", sched.Past[0].ID)
	assert.Equal(t, "f", sched.Upcoming[0].ID)
}
