package session

import (
	"context"
	"database/sql"
	"errors"
)

// Repository persists sessions in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a session row. The row must exist before the token is
// generated, because the token embeds the session id.
func (r *Repository) Create(ctx context.Context, s Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, class_id, created_at, expires_at)
		VALUES ($1,$2,$3,$4)
	`, s.ID, s.ClassID, s.CreatedAt, s.ExpiresAt)
	return err
}

// SetToken stores the token material generated at open time.
func (r *Repository) SetToken(ctx context.Context, id, token, qrCode string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET token = $2, qr_code = $3 WHERE id = $1
	`, id, token, qrCode)
	return err
}

// Get returns a session or ErrNotFound.
func (r *Repository) Get(ctx context.Context, id string) (Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, class_id, created_at, expires_at, token, qr_code
		FROM sessions WHERE id = $1
	`, id)
	var s Session
	err := row.Scan(&s.ID, &s.ClassID, &s.CreatedAt, &s.ExpiresAt, &s.Token, &s.QRCode)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, err
	}
	return s, nil
}

// ListByClass returns a class's sessions, most recent first.
func (r *Repository) ListByClass(ctx context.Context, classID string) ([]Session, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, class_id, created_at, expires_at, token, qr_code
		FROM sessions WHERE class_id = $1
		ORDER BY created_at DESC
	`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.ClassID, &s.CreatedAt, &s.ExpiresAt, &s.Token, &s.QRCode); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// ListForStudent returns sessions of every class the student is enrolled
// in, oldest first, with class name and subject attached.
func (r *Repository) ListForStudent(ctx context.Context, studentID string) ([]WithClass, error) {
	return r.listWithClass(ctx, `
		SELECT s.id, s.class_id, s.created_at, s.expires_at, c.name, c.subject
		FROM class_students cs
		JOIN sessions s ON s.class_id = cs.class_id
		JOIN classes c ON c.id = s.class_id
		WHERE cs.student_id = $1
		ORDER BY s.created_at
	`, studentID)
}

// ListForTeacher returns sessions of every class the teacher owns,
// oldest first, with class name and subject attached.
func (r *Repository) ListForTeacher(ctx context.Context, teacherID string) ([]WithClass, error) {
	return r.listWithClass(ctx, `
		SELECT s.id, s.class_id, s.created_at, s.expires_at, c.name, c.subject
		FROM sessions s
		JOIN classes c ON c.id = s.class_id
		WHERE c.teacher_id = $1
		ORDER BY s.created_at
	`, teacherID)
}

func (r *Repository) listWithClass(ctx context.Context, query, arg string) ([]WithClass, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []WithClass
	for rows.Next() {
		var wc WithClass
		if err := rows.Scan(&wc.ID, &wc.ClassID, &wc.CreatedAt, &wc.ExpiresAt, &wc.ClassName, &wc.Subject); err != nil {
			return nil, err
		}
		res = append(res, wc)
	}
	return res, rows.Err()
}
