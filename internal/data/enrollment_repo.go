package data

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"

	"github.com/digieduhack/aula-api/internal/data/pgxutil"
	"github.com/digieduhack/aula-api/internal/domain/model"
	apperrors "github.com/digieduhack/aula-api/internal/errors"
)

const (
	enrollmentInsertQuery = `
		INSERT INTO enrollments (user_id, course_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, course_id, created_at`

	enrollmentListByUserQuery = `
		SELECT e.id AS enrollment_id, e.created_at AS enrolled_at, c.id AS course_id,
		       c.title, c.category, c.difficulty_level, c.is_active
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.user_id = $1
		ORDER BY e.created_at DESC`

	enrollmentExistsQuery = `SELECT EXISTS (SELECT 1 FROM enrollments WHERE user_id = $1 AND course_id = $2)`
)

// EnrollmentRepo provides database operations for course enrollments.
type EnrollmentRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewEnrollmentRepo creates a new EnrollmentRepo with real time provider.
func NewEnrollmentRepo(db *sql.DB) *EnrollmentRepo {
	return &EnrollmentRepo{DB: db, timeProvider: systemClock{}}
}

// NewEnrollmentRepoWithTimeProvider creates a new EnrollmentRepo with a custom time provider (useful for tests).
func NewEnrollmentRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *EnrollmentRepo {
	return &EnrollmentRepo{DB: db, timeProvider: tp}
}

// Create enrolls userID in courseID. A second enrollment fails with model.ErrAlreadyEnrolled;
// concurrent attempts are arbitrated by the unique index.
func (r *EnrollmentRepo) Create(ctx context.Context, userID, courseID string) (*model.Enrollment, error) {
	if !isUUID(courseID) {
		return nil, model.ErrCourseNotFound
	}
	out, err := pgxutil.QueryOne[model.Enrollment](ctx, r.DB, enrollmentInsertQuery,
		userID, courseID, r.timeProvider.Now().UTC())
	if err != nil {
		mapped := mapErr(err, nil)
		if apperrors.IsConflict(mapped) {
			return nil, model.ErrAlreadyEnrolled.WithCause(err)
		}
		return nil, mapped
	}
	return &out, nil
}

// ListByUser returns the user's enrollments joined with their courses, newest first.
func (r *EnrollmentRepo) ListByUser(ctx context.Context, userID string) ([]*model.EnrolledCourse, error) {
	rows, err := pgxutil.QueryAll[model.EnrolledCourse](ctx, r.DB, enrollmentListByUserQuery, userID)
	if err != nil {
		return nil, mapErr(err, nil)
	}
	res := make([]*model.EnrolledCourse, len(rows))
	for i := range rows {
		res[i] = &rows[i]
	}
	return res, nil
}

// Exists reports whether userID is enrolled in courseID.
func (r *EnrollmentRepo) Exists(ctx context.Context, userID, courseID string) (bool, error) {
	if !isUUID(courseID) {
		return false, nil
	}
	var exists bool
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, enrollmentExistsQuery, userID, courseID).Scan(&exists)
	})
	if err != nil {
		return false, mapErr(err, nil)
	}
	return exists, nil
}
