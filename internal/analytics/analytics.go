// Package analytics turns attendance rows into per-class and per-student
// read models.
package analytics

import (
	"math"
	"time"
)

// Attendance status in a student history row. Absence is the default
// outcome of the left join, not an error.
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
)

// ClassSummary is the per-class rollup for a teacher's dashboard.
// TotalStudents is the current roster size; historical sessions are not
// reconciled against past rosters.
type ClassSummary struct {
	ClassID              string  `json:"class_id"`
	Name                 string  `json:"name"`
	Subject              string  `json:"subject"`
	TotalSessions        int     `json:"total_sessions"`
	TotalStudents        int     `json:"total_students"`
	AttendanceMarked     int     `json:"attendance_marked"`
	AttendancePercentage float64 `json:"attendance_percentage"`
}

// HistoryRow is one (class session, student) outcome in a student's
// attendance history.
type HistoryRow struct {
	SessionID string    `json:"session_id"`
	Date      time.Time `json:"date"`
	ClassName string    `json:"class_name"`
	Subject   string    `json:"subject"`
	Status    string    `json:"status"`
}

// Counts are the raw per-class tallies a summary is computed from.
type Counts struct {
	Sessions int
	Students int
	Marked   int
}

// Percentage returns marked/(sessions*students)*100 rounded to two
// decimals, and 0 whenever the denominator is 0.
func Percentage(c Counts) float64 {
	denom := c.Sessions * c.Students
	if denom == 0 {
		return 0
	}
	return math.Round(float64(c.Marked)/float64(denom)*100*100) / 100
}
