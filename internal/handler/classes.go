package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classtrack/internal/auth"
	"classtrack/internal/classroom"
	"classtrack/internal/geo"
)

type createClassRequest struct {
	Name    string     `json:"name" binding:"required"`
	Subject string     `json:"subject" binding:"required"`
	Anchor  *geo.Point `json:"anchor"`
}

// CreateClass creates a class owned by the calling teacher. An anchor,
// when given, arms the geofence for every session of the class.
func (h *Handler) CreateClass(c *gin.Context) {
	var req createClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	caller := auth.CallerClaims(c)
	cls, err := h.classes.Create(c.Request.Context(), req.Name, req.Subject, caller.Subject, req.Anchor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cls)
}

// GetClass returns a class with its roster.
func (h *Handler) GetClass(c *gin.Context) {
	ctx := c.Request.Context()
	cls, err := h.classes.FindByID(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	students, err := h.classes.Students(ctx, cls.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	if students == nil {
		students = []classroom.Student{}
	}
	c.JSON(http.StatusOK, gin.H{"class": cls, "students": students})
}

type addStudentRequest struct {
	StudentEmail string `json:"student_email" binding:"required,email"`
}

// AddStudent enrolls a student (looked up by email) into a class.
// Re-enrolling is a no-op.
func (h *Handler) AddStudent(c *gin.Context) {
	var req addStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cls, err := h.classes.AddStudentByEmail(c.Request.Context(), c.Param("id"), req.StudentEmail)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cls)
}

// ListClassesForTeacher returns the calling teacher's classes.
func (h *Handler) ListClassesForTeacher(c *gin.Context) {
	caller := auth.CallerClaims(c)
	classes, err := h.classes.ListByTeacher(c.Request.Context(), caller.Subject)
	if err != nil {
		writeError(c, err)
		return
	}
	if classes == nil {
		classes = []classroom.Class{}
	}
	c.JSON(http.StatusOK, gin.H{"classes": classes})
}

// ListClassesForStudent returns the classes the calling student is
// enrolled in.
func (h *Handler) ListClassesForStudent(c *gin.Context) {
	caller := auth.CallerClaims(c)
	classes, err := h.classes.ListByStudent(c.Request.Context(), caller.Subject)
	if err != nil {
		writeError(c, err)
		return
	}
	if classes == nil {
		classes = []classroom.ClassWithTeacher{}
	}
	c.JSON(http.StatusOK, gin.H{"classes": classes})
}
