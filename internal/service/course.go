package service

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/digieduhack/aula-api/internal/core"
	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
	"github.com/digieduhack/aula-api/internal/domain/model"
)

// Course listing bounds.
const (
	DefaultCourseListLimit = 100
	MaxCourseListLimit     = 100
)

// CourseServiceOptions groups dependencies for CourseService.
type CourseServiceOptions struct {
	Repo   core.CourseRepository // Required
	Logger *slog.Logger          // Optional
}

// CourseService implements the catalog use cases.
type CourseService struct {
	repo   core.CourseRepository
	logger *slog.Logger
}

// NewCourseService constructs a new CourseService.
func NewCourseService(opts CourseServiceOptions) *CourseService {
	if opts.Repo == nil {
		panic("CourseRepository is required")
	}
	return &CourseService{repo: opts.Repo, logger: opts.Logger}
}

// Create validates req and stores it owned by the calling admin.
func (s *CourseService) Create(
	ctx context.Context,
	principal *domainauth.Principal,
	req *model.CreateCourseRequest,
) (c *model.Course, err error) {
	ctx, span := startSpan(ctx, "course.create")
	defer func() { endSpan(span, err) }()

	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	owner := principal.UserID
	req.CreatedBy = &owner

	c, err = s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	span.SetAttributes(attribute.String("course_id", c.ID))
	if s.logger != nil {
		s.logger.InfoContext(ctx, "course created", "course_id", c.ID, "user_id", owner)
	}
	return c, nil
}

// ListActive returns active courses newest first. limit is clamped to 1..MaxCourseListLimit;
// non-positive values select DefaultCourseListLimit.
func (s *CourseService) ListActive(ctx context.Context, limit int) ([]*model.Course, error) {
	if limit <= 0 {
		limit = DefaultCourseListLimit
	}
	if limit > MaxCourseListLimit {
		limit = MaxCourseListLimit
	}
	courses, err := s.repo.ListActive(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list active courses: %w", err)
	}
	return courses, nil
}

// Get returns a course by id.
func (s *CourseService) Get(ctx context.Context, id string) (*model.Course, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	return c, nil
}

// Update applies the provided fields to a course.
func (s *CourseService) Update(
	ctx context.Context,
	principal *domainauth.Principal,
	id string,
	req model.UpdateCourseRequest,
) (*model.Course, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	c, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}
	return c, nil
}

// ClaimOrphans assigns every ownerless course to the calling admin.
func (s *CourseService) ClaimOrphans(ctx context.Context, principal *domainauth.Principal) (n int64, err error) {
	ctx, span := startSpan(ctx, "course.claim_orphans")
	defer func() { endSpan(span, err) }()

	if err := requireAdmin(principal); err != nil {
		return 0, err
	}
	n, err = s.repo.ClaimOrphans(ctx, principal.UserID)
	if err != nil {
		return 0, fmt.Errorf("claim orphan courses: %w", err)
	}
	span.SetAttributes(attribute.Int64("claimed", n))
	if s.logger != nil && n > 0 {
		s.logger.InfoContext(ctx, "orphan courses claimed", "count", n, "user_id", principal.UserID)
	}
	return n, nil
}
