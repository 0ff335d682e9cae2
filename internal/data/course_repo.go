package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/digieduhack/aula-api/internal/data/pgxutil"
	"github.com/digieduhack/aula-api/internal/domain/model"
)

// MaxCourseListLimit caps ListActive page sizes.
const MaxCourseListLimit = 100

const courseColumns = `id, title, description, category, difficulty_level, estimated_duration,
	prerequisites, learning_objectives, is_active, created_at, updated_at, created_by`

const (
	courseGetByIDQuery = `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`

	courseListActiveQuery = `
		SELECT ` + courseColumns + `
		FROM courses
		WHERE is_active
		ORDER BY created_at DESC, id DESC
		LIMIT $1`

	courseInsertQuery = `
		INSERT INTO courses (
			title, description, category, difficulty_level, estimated_duration,
			prerequisites, learning_objectives, is_active, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		RETURNING ` + courseColumns

	courseClaimOrphansQuery = `
		UPDATE courses SET created_by = $1, updated_at = $2
		WHERE created_by IS NULL`
)

// CourseRepo provides database operations for the course catalog.
type CourseRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewCourseRepo creates a new CourseRepo with real time provider.
func NewCourseRepo(db *sql.DB) *CourseRepo {
	return &CourseRepo{DB: db, timeProvider: systemClock{}}
}

// NewCourseRepoWithTimeProvider creates a new CourseRepo with a custom time provider (useful for tests).
func NewCourseRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *CourseRepo {
	return &CourseRepo{DB: db, timeProvider: tp}
}

// Create inserts a course. The request is stored as given; validation belongs to the caller.
func (r *CourseRepo) Create(ctx context.Context, req *model.CreateCourseRequest) (*model.Course, error) {
	if req == nil {
		return nil, errors.New("create course request is required")
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	out, err := pgxutil.QueryOne[model.Course](ctx, r.DB, courseInsertQuery,
		req.Title,
		req.Description,
		req.Category,
		req.DifficultyLevel,
		req.EstimatedDuration,
		nonNil(req.Prerequisites),
		nonNil(req.LearningObjectives),
		isActive,
		req.CreatedBy,
		r.timeProvider.Now().UTC(),
	)
	if err != nil {
		return nil, mapErr(err, nil)
	}
	return &out, nil
}

// GetByID retrieves a course by ID.
func (r *CourseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	if !isUUID(id) {
		return nil, model.ErrCourseNotFound
	}
	out, err := pgxutil.QueryOne[model.Course](ctx, r.DB, courseGetByIDQuery, id)
	if err != nil {
		return nil, mapErr(err, model.ErrCourseNotFound)
	}
	return &out, nil
}

// ListActive returns active courses, newest first. limit is clamped to 1..MaxCourseListLimit.
func (r *CourseRepo) ListActive(ctx context.Context, limit int) ([]*model.Course, error) {
	if limit <= 0 || limit > MaxCourseListLimit {
		limit = MaxCourseListLimit
	}
	rows, err := pgxutil.QueryAll[model.Course](ctx, r.DB, courseListActiveQuery, limit)
	if err != nil {
		return nil, mapErr(err, nil)
	}
	res := make([]*model.Course, len(rows))
	for i := range rows {
		res[i] = &rows[i]
	}
	return res, nil
}

// Update applies the provided fields of req. With nothing to change it returns the current row.
func (r *CourseRepo) Update(ctx context.Context, id string, req model.UpdateCourseRequest) (*model.Course, error) {
	if !isUUID(id) {
		return nil, model.ErrCourseNotFound
	}
	setClause, args := r.buildUpdateClause(req)
	if setClause == "" {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := "UPDATE courses SET " + setClause + " WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + courseColumns

	out, err := pgxutil.QueryOne[model.Course](ctx, r.DB, query, args...)
	if err != nil {
		return nil, mapErr(err, model.ErrCourseNotFound)
	}
	return &out, nil
}

// ClaimOrphans assigns every course without an owner to adminID in one statement
// and returns how many were claimed.
func (r *CourseRepo) ClaimOrphans(ctx context.Context, adminID string) (int64, error) {
	if strings.TrimSpace(adminID) == "" {
		return 0, errors.New("admin id is required")
	}
	n, err := pgxutil.Exec(ctx, r.DB, courseClaimOrphansQuery, adminID, r.timeProvider.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("claim orphan courses: %w", mapErr(err, nil))
	}
	return n, nil
}

// buildUpdateClause builds the SQL SET clause and args for updating a course based on the request.
func (r *CourseRepo) buildUpdateClause(req model.UpdateCourseRequest) (string, []any) {
	setParts := make([]string, 0, 9)
	args := make([]any, 0, 10)
	set := func(column string, value any) {
		args = append(args, value)
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.Title != nil {
		set("title", *req.Title)
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			setParts = append(setParts, "description = NULL")
		} else {
			set("description", *req.Description)
		}
	}
	if req.Category != nil {
		set("category", *req.Category)
	}
	if req.DifficultyLevel != nil {
		set("difficulty_level", *req.DifficultyLevel)
	}
	if req.EstimatedDuration != nil {
		set("estimated_duration", *req.EstimatedDuration)
	}
	if req.Prerequisites != nil {
		set("prerequisites", req.Prerequisites)
	}
	if req.LearningObjectives != nil {
		set("learning_objectives", req.LearningObjectives)
	}
	if req.IsActive != nil {
		set("is_active", *req.IsActive)
	}

	if len(setParts) == 0 {
		return "", nil
	}
	set("updated_at", r.timeProvider.Now().UTC())
	return strings.Join(setParts, ", "), args
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
