package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const (
	testIssuer = "classtrack-test"
	testKey    = "test-signing-key"
)

func TestTokenRoundTrip(t *testing.T) {
	created := time.Now().UTC().Truncate(time.Second)
	s := Session{
		ID:        "6f1c2a34-0000-0000-0000-000000000001",
		ClassID:   "6f1c2a34-0000-0000-0000-000000000002",
		CreatedAt: created,
		ExpiresAt: created.Add(15 * time.Minute),
	}

	token, err := EncodeToken(s, testIssuer, testKey)
	assert.NoError(t, err)

	claims, err := DecodeToken(token, testIssuer, testKey)
	assert.NoError(t, err)
	assert.Equal(t, s.ID, claims.SessionID)
	assert.Equal(t, s.ClassID, claims.ClassID)
	assert.Equal(t, s.ExpiresAt.Unix(), claims.ExpiresAt.Unix())
	assert.Equal(t, s.CreatedAt.Unix(), claims.IssuedAt.Unix())
}

func TestDecodeTokenRejects(t *testing.T) {
	now := time.Now().UTC()
	valid := Session{ID: "sid", ClassID: "cid", CreatedAt: now, ExpiresAt: now.Add(15 * time.Minute)}
	expired := Session{ID: "sid", ClassID: "cid", CreatedAt: now.Add(-time.Hour), ExpiresAt: now.Add(-45 * time.Minute)}

	validToken, err := EncodeToken(valid, testIssuer, testKey)
	assert.NoError(t, err)
	expiredToken, err := EncodeToken(expired, testIssuer, testKey)
	assert.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		issuer string
		key    string
	}{
		{name: "garbage", token: "not-a-token", issuer: testIssuer, key: testKey},
		{name: "wrong key", token: validToken, issuer: testIssuer, key: "other-key"},
		{name: "wrong issuer", token: validToken, issuer: "someone-else", key: testKey},
		{name: "expired", token: expiredToken, issuer: testIssuer, key: testKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeToken(tt.token, tt.issuer, tt.key)
			assert.Error(t, err)
		})
	}
}

func TestStatusAt(t *testing.T) {
	created := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	s := Session{CreatedAt: created, ExpiresAt: created.Add(15 * time.Minute)}

	tests := []struct {
		name string
		now  time.Time
		want Status
	}{
		{name: "before creation", now: created.Add(-time.Minute), want: StatusUpcoming},
		{name: "at creation", now: created, want: StatusActive},
		{name: "mid window", now: created.Add(7 * time.Minute), want: StatusActive},
		{name: "just before expiry", now: s.ExpiresAt.Add(-time.Nanosecond), want: StatusActive},
		{name: "at expiry", now: s.ExpiresAt, want: StatusExpired},
		{name: "after expiry", now: s.ExpiresAt.Add(time.Nanosecond), want: StatusExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.StatusAt(tt.now); got != tt.want {
				t.Errorf("StatusAt() = %v, want %v", got, tt.want)
			}
		})
	}
}
