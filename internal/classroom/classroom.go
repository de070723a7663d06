package classroom

import (
	"errors"
	"time"

	"classtrack/internal/geo"
)

// Class is a taught class with an enrolled-student roster. Anchor, when
// set, is the location attendance claims are checked against.
type Class struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Subject   string     `json:"subject"`
	TeacherID string     `json:"teacher_id"`
	Anchor    *geo.Point `json:"anchor,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Student is the roster projection of a user.
type Student struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ClassWithTeacher is the student-facing listing projection.
type ClassWithTeacher struct {
	Class
	TeacherName  string `json:"teacher_name"`
	TeacherEmail string `json:"teacher_email"`
}

var (
	// ErrNotFound is returned when a class id does not resolve.
	ErrNotFound = errors.New("class not found")
	// ErrStudentNotFound is returned when an enrollment target does not exist.
	ErrStudentNotFound = errors.New("student not found")
)
