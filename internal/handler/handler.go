// Package handler exposes the HTTP surface over gin.
package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"classtrack/internal/analytics"
	"classtrack/internal/attendance"
	"classtrack/internal/classroom"
	"classtrack/internal/session"
	"classtrack/internal/users"
)

// Handler bundles the services behind the API.
type Handler struct {
	users    *users.Service
	classes  *classroom.Repository
	sessions *session.Manager
	claims   *attendance.Validator
	stats    *analytics.Service
}

// New creates a handler.
func New(u *users.Service, c *classroom.Repository, s *session.Manager, v *attendance.Validator, a *analytics.Service) *Handler {
	return &Handler{users: u, classes: c, sessions: s, claims: v, stats: a}
}

// writeError maps domain errors to HTTP responses. Validation rejections
// surface their stable code verbatim; anything unexpected becomes a
// generic 500 and is logged.
func writeError(c *gin.Context, err error) {
	var rej *attendance.Rejection
	switch {
	case errors.As(err, &rej):
		c.JSON(statusForCode(rej.Code), gin.H{"code": rej.Code, "error": rej.Message})
	case errors.Is(err, classroom.ErrNotFound),
		errors.Is(err, classroom.ErrStudentNotFound),
		errors.Is(err, session.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": attendance.CodeNotFound, "error": err.Error()})
	case errors.Is(err, users.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"code": "email_taken", "error": err.Error()})
	case errors.Is(err, users.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"code": attendance.CodeValidationFailure, "error": err.Error()})
	case errors.Is(err, users.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"code": "invalid_credentials", "error": err.Error()})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": "internal", "error": "internal server error"})
	}
}

func statusForCode(code string) int {
	switch code {
	case attendance.CodeNotFound:
		return http.StatusNotFound
	case attendance.CodeExpired:
		return http.StatusGone
	case attendance.CodeForbidden, attendance.CodeTooFar:
		return http.StatusForbidden
	case attendance.CodeAlreadyMarked:
		return http.StatusConflict
	case attendance.CodeLocationRequired, attendance.CodeValidationFailure:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"code": attendance.CodeValidationFailure, "error": err.Error()})
}

// ---------- Auth ----------

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`
}

// RegisterUser creates an account and returns its first token pair.
func (h *Handler) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, pair, err := h.users.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"user":          u,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_at":    pair.AccessExp.Unix(),
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and returns a token pair.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, pair, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":          u,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_at":    pair.AccessExp.Unix(),
	})
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Logout revokes the presented refresh token.
func (h *Handler) Logout(c *gin.Context) {
	var req logoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.users.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}
