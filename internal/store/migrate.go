package store

import (
	"context"
	"database/sql"
)

// schema is idempotent; statements run in order on every startup.
// The unique index on attendance_records is the one constraint the
// application relies on for correctness: concurrent duplicate marks must
// resolve to a single row at the database, not in application code.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		token TEXT PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		expires_at TIMESTAMPTZ NOT NULL,
		revoked BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS classes (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		subject TEXT NOT NULL,
		teacher_id UUID NOT NULL REFERENCES users(id),
		anchor_lat DOUBLE PRECISION,
		anchor_lng DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS class_students (
		class_id UUID NOT NULL REFERENCES classes(id),
		student_id UUID NOT NULL REFERENCES users(id),
		added_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (class_id, student_id)
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id UUID PRIMARY KEY,
		class_id UUID NOT NULL REFERENCES classes(id),
		created_at TIMESTAMPTZ NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		token TEXT NOT NULL DEFAULT '',
		qr_code TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_class_created
		ON sessions (class_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS attendance_records (
		id UUID PRIMARY KEY,
		session_id UUID NOT NULL REFERENCES sessions(id),
		student_id UUID NOT NULL REFERENCES users(id),
		marked_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_attendance_session_student
		ON attendance_records (session_id, student_id)`,
	`CREATE INDEX IF NOT EXISTS idx_attendance_student
		ON attendance_records (student_id)`,
}

// Migrate applies the schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
