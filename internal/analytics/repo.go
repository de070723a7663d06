package analytics

import (
	"context"
	"database/sql"
)

// Repository runs the aggregation queries against Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ClassCounts tallies sessions, current roster size and recorded
// attendance for one class.
func (r *Repository) ClassCounts(ctx context.Context, classID string) (Counts, error) {
	var c Counts
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM sessions s WHERE s.class_id = $1),
			(SELECT COUNT(*) FROM class_students cs WHERE cs.class_id = $1),
			(SELECT COUNT(*)
			   FROM attendance_records a
			   JOIN sessions s ON s.id = a.session_id
			  WHERE s.class_id = $1)
	`, classID).Scan(&c.Sessions, &c.Students, &c.Marked)
	return c, err
}

// StudentHistory left-joins the sessions of every class the student is
// enrolled in against their attendance records, most recent session
// first. Sessions without a record come back Absent.
func (r *Repository) StudentHistory(ctx context.Context, studentID string) ([]HistoryRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.created_at, c.name, c.subject, a.id IS NOT NULL
		FROM class_students cs
		JOIN classes c ON c.id = cs.class_id
		JOIN sessions s ON s.class_id = c.id
		LEFT JOIN attendance_records a
			ON a.session_id = s.id AND a.student_id = cs.student_id
		WHERE cs.student_id = $1
		ORDER BY s.created_at DESC
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []HistoryRow
	for rows.Next() {
		var (
			row     HistoryRow
			present bool
		)
		if err := rows.Scan(&row.SessionID, &row.Date, &row.ClassName, &row.Subject, &present); err != nil {
			return nil, err
		}
		row.Status = StatusAbsent
		if present {
			row.Status = StatusPresent
		}
		res = append(res, row)
	}
	return res, rows.Err()
}
