package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the payload encoded into a session's QR artifact. It
// binds the session to its class and validity window so a decoded token
// cannot be replayed past expiry or reassigned to another class. The
// store stays authoritative; signed expiry exists so scanners can check
// staleness offline.
type TokenClaims struct {
	SessionID string `json:"sid"`
	ClassID   string `json:"cid"`
	jwt.RegisteredClaims
}

// EncodeToken signs the token payload for a session.
func EncodeToken(s Session, issuer, key string) (string, error) {
	claims := TokenClaims{
		SessionID: s.ID,
		ClassID:   s.ClassID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   s.ID,
			IssuedAt:  jwt.NewNumericDate(s.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
}

// DecodeToken verifies signature, issuer and expiry, and returns the
// bound claims.
func DecodeToken(tokenStr, issuer, key string) (TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(key), nil
	}, jwt.WithIssuer(issuer), jwt.WithLeeway(time.Second))
	if err != nil {
		return TokenClaims{}, err
	}
	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok || !parsed.Valid {
		return TokenClaims{}, errors.New("invalid session token")
	}
	return *claims, nil
}
