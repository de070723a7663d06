package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"classtrack/internal/auth"
	"classtrack/internal/session"
)

var sessionsOpened = promauto.NewCounter(prometheus.CounterOpts{
	Name: "classtrack_sessions_opened_total",
	Help: "Attendance sessions opened by teachers.",
})

type openSessionRequest struct {
	ClassID string `json:"class_id" binding:"required"`
}

// OpenSession opens an attendance window for a class and returns the
// session with its token and QR artifact.
func (h *Handler) OpenSession(c *gin.Context) {
	var req openSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s, err := h.sessions.Open(c.Request.Context(), req.ClassID)
	if err != nil {
		writeError(c, err)
		return
	}
	sessionsOpened.Inc()
	c.JSON(http.StatusCreated, sessionView(s))
}

// GetSession returns a session by id.
func (h *Handler) GetSession(c *gin.Context) {
	s, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionView(s))
}

// ListClassSessions returns a class's sessions, most recent first.
func (h *Handler) ListClassSessions(c *gin.Context) {
	list, err := h.sessions.ListByClass(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	views := make([]gin.H, 0, len(list))
	for _, s := range list {
		views = append(views, sessionView(s))
	}
	c.JSON(http.StatusOK, gin.H{"sessions": views})
}

// Schedule returns upcoming and past sessions for the caller: their
// owned classes for teachers, their enrolled classes for students.
func (h *Handler) Schedule(c *gin.Context) {
	caller := auth.CallerClaims(c)
	var (
		sched session.Schedule
		err   error
	)
	if caller.Role == auth.RoleTeacher {
		sched, err = h.sessions.ScheduleForTeacher(c.Request.Context(), caller.Subject)
	} else {
		sched, err = h.sessions.ScheduleForStudent(c.Request.Context(), caller.Subject)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	if sched.Upcoming == nil {
		sched.Upcoming = []session.WithClass{}
	}
	if sched.Past == nil {
		sched.Past = []session.WithClass{}
	}
	c.JSON(http.StatusOK, sched)
}

func sessionView(s session.Session) gin.H {
	return gin.H{
		"id":         s.ID,
		"class_id":   s.ClassID,
		"created_at": s.CreatedAt,
		"expires_at": s.ExpiresAt,
		"status":     s.StatusAt(time.Now().UTC()),
		"token":      s.Token,
		"qr_code":    s.QRCode,
	}
}
