package classroom

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"classtrack/internal/geo"
)

// Repository persists classes and enrollment in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new class owned by teacherID.
func (r *Repository) Create(ctx context.Context, name, subject, teacherID string, anchor *geo.Point) (Class, error) {
	cls := Class{
		ID:        uuid.NewString(),
		Name:      name,
		Subject:   subject,
		TeacherID: teacherID,
		Anchor:    anchor,
	}
	var lat, lng sql.NullFloat64
	if anchor != nil {
		lat = sql.NullFloat64{Float64: anchor.Lat, Valid: true}
		lng = sql.NullFloat64{Float64: anchor.Lng, Valid: true}
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO classes (id, name, subject, teacher_id, anchor_lat, anchor_lng)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at
	`, cls.ID, cls.Name, cls.Subject, cls.TeacherID, lat, lng)
	if err := row.Scan(&cls.CreatedAt); err != nil {
		return Class{}, err
	}
	return cls, nil
}

// FindByID returns a class or ErrNotFound.
func (r *Repository) FindByID(ctx context.Context, classID string) (Class, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, subject, teacher_id, anchor_lat, anchor_lng, created_at
		FROM classes WHERE id = $1
	`, classID)
	return scanClass(row)
}

// IsEnrolled reports whether studentID is on the class roster.
func (r *Repository) IsEnrolled(ctx context.Context, classID, studentID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM class_students WHERE class_id = $1 AND student_id = $2
		)
	`, classID, studentID).Scan(&exists)
	return exists, err
}

// AddStudentByEmail enrolls the user with the given email. Enrolling an
// already-enrolled student is a no-op.
func (r *Repository) AddStudentByEmail(ctx context.Context, classID, email string) (Class, error) {
	cls, err := r.FindByID(ctx, classID)
	if err != nil {
		return Class{}, err
	}

	var studentID string
	err = r.db.QueryRowContext(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&studentID)
	if errors.Is(err, sql.ErrNoRows) {
		return Class{}, ErrStudentNotFound
	}
	if err != nil {
		return Class{}, err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO class_students (class_id, student_id)
		VALUES ($1, $2)
		ON CONFLICT (class_id, student_id) DO NOTHING
	`, classID, studentID)
	return cls, err
}

// Students returns the roster for a class.
func (r *Repository) Students(ctx context.Context, classID string) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.id, u.name, u.email
		FROM class_students cs
		JOIN users u ON u.id = cs.student_id
		WHERE cs.class_id = $1
		ORDER BY u.name
	`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Student
	for rows.Next() {
		var s Student
		if err := rows.Scan(&s.ID, &s.Name, &s.Email); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// CountStudents returns the current roster size.
func (r *Repository) CountStudents(ctx context.Context, classID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM class_students WHERE class_id = $1
	`, classID).Scan(&n)
	return n, err
}

// ListByTeacher returns classes owned by teacherID, oldest first.
func (r *Repository) ListByTeacher(ctx context.Context, teacherID string) ([]Class, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, subject, teacher_id, anchor_lat, anchor_lng, created_at
		FROM classes WHERE teacher_id = $1
		ORDER BY created_at
	`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Class
	for rows.Next() {
		cls, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, cls)
	}
	return res, rows.Err()
}

// ListByStudent returns classes the student is enrolled in, with teacher info.
func (r *Repository) ListByStudent(ctx context.Context, studentID string) ([]ClassWithTeacher, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.subject, c.teacher_id, c.anchor_lat, c.anchor_lng, c.created_at,
		       u.name, u.email
		FROM class_students cs
		JOIN classes c ON c.id = cs.class_id
		JOIN users u ON u.id = c.teacher_id
		WHERE cs.student_id = $1
		ORDER BY c.created_at
	`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []ClassWithTeacher
	for rows.Next() {
		var (
			cwt      ClassWithTeacher
			lat, lng sql.NullFloat64
			created  time.Time
		)
		if err := rows.Scan(&cwt.ID, &cwt.Name, &cwt.Subject, &cwt.TeacherID,
			&lat, &lng, &created, &cwt.TeacherName, &cwt.TeacherEmail); err != nil {
			return nil, err
		}
		cwt.CreatedAt = created
		if lat.Valid && lng.Valid {
			cwt.Anchor = &geo.Point{Lat: lat.Float64, Lng: lng.Float64}
		}
		res = append(res, cwt)
	}
	return res, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClass(row rowScanner) (Class, error) {
	var (
		cls      Class
		lat, lng sql.NullFloat64
	)
	err := row.Scan(&cls.ID, &cls.Name, &cls.Subject, &cls.TeacherID, &lat, &lng, &cls.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Class{}, ErrNotFound
	}
	if err != nil {
		return Class{}, err
	}
	if lat.Valid && lng.Valid {
		cls.Anchor = &geo.Point{Lat: lat.Float64, Lng: lng.Float64}
	}
	return cls, nil
}
