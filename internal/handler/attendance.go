package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classtrack/internal/analytics"
	"classtrack/internal/attendance"
	"classtrack/internal/auth"
	"classtrack/internal/geo"
)

type markAttendanceRequest struct {
	SessionID string     `json:"session_id" binding:"required"`
	Location  *geo.Point `json:"location"`
}

// MarkAttendance validates the calling student's claim against a session
// and records it. Rejections carry a stable code the client can branch
// on ("move closer" reads differently from "already recorded").
func (h *Handler) MarkAttendance(c *gin.Context) {
	var req markAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	caller := auth.CallerClaims(c)
	rec, err := h.claims.Mark(c.Request.Context(), attendance.Claim{
		SessionID: req.SessionID,
		StudentID: caller.Subject,
		Location:  req.Location,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// SessionAttendance lists the records of one session with student
// identity joined in.
func (h *Handler) SessionAttendance(c *gin.Context) {
	records, err := h.claims.SessionRoll(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if records == nil {
		records = []attendance.RecordWithStudent{}
	}
	c.JSON(http.StatusOK, gin.H{"attendance": records})
}

// StudentHistory returns the calling student's Present/Absent rows
// across all sessions of their enrolled classes, most recent first.
func (h *Handler) StudentHistory(c *gin.Context) {
	caller := auth.CallerClaims(c)
	rows, err := h.stats.StudentHistory(c.Request.Context(), caller.Subject)
	if err != nil {
		writeError(c, err)
		return
	}
	if rows == nil {
		rows = []analytics.HistoryRow{}
	}
	c.JSON(http.StatusOK, gin.H{"history": rows})
}

// ClassAnalytics returns one attendance summary per class owned by the
// calling teacher.
func (h *Handler) ClassAnalytics(c *gin.Context) {
	caller := auth.CallerClaims(c)
	summaries, err := h.stats.ClassAnalytics(c.Request.Context(), caller.Subject)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"classes": summaries})
}
