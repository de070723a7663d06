package users

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"classtrack/internal/auth"
)

// Service handles registration and login.
type Service struct {
	repo       *Repository
	issuer     string
	signKey    string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewService creates a service.
func NewService(repo *Repository, issuer, signKey string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		repo:       repo,
		issuer:     issuer,
		signKey:    signKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Register creates an account and issues its first token pair.
func (s *Service) Register(ctx context.Context, name, email, password, role string) (User, auth.TokenPair, error) {
	if role != auth.RoleTeacher && role != auth.RoleStudent {
		return User{}, auth.TokenPair{}, ErrInvalidRole
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, auth.TokenPair{}, err
	}
	u, err := s.repo.Create(ctx, name, email, string(hash), role)
	if err != nil {
		return User{}, auth.TokenPair{}, err
	}
	pair, err := s.issue(ctx, u)
	return u, pair, err
}

// Login verifies credentials and issues a token pair.
func (s *Service) Login(ctx context.Context, email, password string) (User, auth.TokenPair, error) {
	u, hash, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return User{}, auth.TokenPair{}, err
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return User{}, auth.TokenPair{}, ErrInvalidCredentials
	}
	pair, err := s.issue(ctx, *u)
	return *u, pair, err
}

// Logout revokes a refresh token.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.repo.RevokeRefreshToken(ctx, refreshToken)
}

func (s *Service) issue(ctx context.Context, u User) (auth.TokenPair, error) {
	pair, err := auth.Issue(u.ID, u.Role, s.issuer, s.signKey, s.accessTTL, s.refreshTTL)
	if err != nil {
		return auth.TokenPair{}, err
	}
	if err := s.repo.SaveRefreshToken(ctx, u.ID, pair.RefreshToken, pair.RefreshExp); err != nil {
		return auth.TokenPair{}, err
	}
	return pair, nil
}
