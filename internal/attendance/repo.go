package attendance

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// Repository persists attendance records in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a record, relying on the (session_id, student_id) unique
// index for deduplication. Two concurrent identical claims race on the
// index, not in application code: the loser gets ErrAlreadyMarked.
func (r *Repository) Insert(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance_records (id, session_id, student_id, marked_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (session_id, student_id) DO NOTHING
		RETURNING created_at
	`, rec.ID, rec.SessionID, rec.StudentID, rec.MarkedAt)
	if err := row.Scan(&rec.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrAlreadyMarked
		}
		return Record{}, err
	}
	return rec, nil
}

// ListBySession returns a session's records with student identity joined in.
func (r *Repository) ListBySession(ctx context.Context, sessionID string) ([]RecordWithStudent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, a.session_id, a.student_id, a.marked_at, a.created_at, u.name, u.email
		FROM attendance_records a
		JOIN users u ON u.id = a.student_id
		WHERE a.session_id = $1
		ORDER BY a.marked_at
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []RecordWithStudent
	for rows.Next() {
		var rec RecordWithStudent
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.StudentID, &rec.MarkedAt,
			&rec.CreatedAt, &rec.StudentName, &rec.StudentEmail); err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}
