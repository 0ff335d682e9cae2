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

const sectionColumns = `id, course_id, title, description, order_index, created_at, updated_at`

const (
	sectionListByCourseQuery = `
		SELECT ` + sectionColumns + `
		FROM course_sections
		WHERE course_id = $1
		ORDER BY order_index, created_at`

	// The next position is computed in the same statement as the insert.
	sectionInsertQuery = `
		INSERT INTO course_sections (course_id, title, description, order_index, created_at, updated_at)
		SELECT $1::uuid, $2::text, $3::text, COALESCE(MAX(order_index), 0) + 1, $4::timestamptz, $4::timestamptz
		FROM course_sections
		WHERE course_id = $1::uuid
		RETURNING ` + sectionColumns

	sectionDeleteQuery = `DELETE FROM course_sections WHERE id = $1`
)

// SectionRepo provides database operations for ordered course content.
type SectionRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewSectionRepo creates a new SectionRepo with real time provider.
func NewSectionRepo(db *sql.DB) *SectionRepo {
	return &SectionRepo{DB: db, timeProvider: systemClock{}}
}

// NewSectionRepoWithTimeProvider creates a new SectionRepo with a custom time provider (useful for tests).
func NewSectionRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *SectionRepo {
	return &SectionRepo{DB: db, timeProvider: tp}
}

// Create appends a section at the end of its course.
func (r *SectionRepo) Create(ctx context.Context, req *model.CreateSectionRequest) (*model.Section, error) {
	if req == nil {
		return nil, errors.New("create section request is required")
	}
	if !isUUID(req.CourseID) {
		return nil, model.ErrCourseNotFound
	}
	out, err := pgxutil.QueryOne[model.Section](ctx, r.DB, sectionInsertQuery,
		req.CourseID,
		req.Title,
		req.Description,
		r.timeProvider.Now().UTC(),
	)
	if err != nil {
		return nil, mapErr(err, nil)
	}
	return &out, nil
}

// ListByCourse returns a course's sections in display order.
func (r *SectionRepo) ListByCourse(ctx context.Context, courseID string) ([]*model.Section, error) {
	if !isUUID(courseID) {
		return []*model.Section{}, nil
	}
	rows, err := pgxutil.QueryAll[model.Section](ctx, r.DB, sectionListByCourseQuery, courseID)
	if err != nil {
		return nil, mapErr(err, nil)
	}
	res := make([]*model.Section, len(rows))
	for i := range rows {
		res[i] = &rows[i]
	}
	return res, nil
}

// Update applies the provided fields of req to the section with id.
func (r *SectionRepo) Update(ctx context.Context, id string, req model.UpdateSectionRequest) (*model.Section, error) {
	if !isUUID(id) {
		return nil, model.ErrSectionNotFound
	}
	setParts := make([]string, 0, 4)
	args := make([]any, 0, 5)
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
	if req.OrderIndex != nil {
		set("order_index", *req.OrderIndex)
	}
	if len(setParts) == 0 {
		return nil, model.ErrNoUpdates
	}
	set("updated_at", r.timeProvider.Now().UTC())
	args = append(args, id)

	query := "UPDATE course_sections SET " + strings.Join(setParts, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args)) + " RETURNING " + sectionColumns
	out, err := pgxutil.QueryOne[model.Section](ctx, r.DB, query, args...)
	if err != nil {
		return nil, mapErr(err, model.ErrSectionNotFound)
	}
	return &out, nil
}

// Delete deletes a section by ID and reports whether a row was removed.
func (r *SectionRepo) Delete(ctx context.Context, id string) (bool, error) {
	if !isUUID(id) {
		return false, nil
	}
	n, err := pgxutil.Exec(ctx, r.DB, sectionDeleteQuery, id)
	if err != nil {
		return false, fmt.Errorf("delete section: %w", mapErr(err, nil))
	}
	return n > 0, nil
}
