package service

import (
	"context"
	"fmt"

	"github.com/digieduhack/aula-api/internal/core"
	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
	"github.com/digieduhack/aula-api/internal/domain/model"
)

// EnrollmentServiceOptions groups dependencies for EnrollmentService.
type EnrollmentServiceOptions struct {
	Enrollments core.EnrollmentRepository // Required
	Courses     core.CourseRepository     // Required
}

// EnrollmentService enrolls users in courses.
type EnrollmentService struct {
	enrollments core.EnrollmentRepository
	courses     core.CourseRepository
}

// NewEnrollmentService constructs a new EnrollmentService.
func NewEnrollmentService(opts EnrollmentServiceOptions) *EnrollmentService {
	if opts.Enrollments == nil || opts.Courses == nil {
		panic("EnrollmentRepository and CourseRepository are required")
	}
	return &EnrollmentService{enrollments: opts.Enrollments, courses: opts.Courses}
}

// Enroll enrolls the caller in an active course. Enrolling twice fails with ALREADY_ENROLLED.
func (s *EnrollmentService) Enroll(
	ctx context.Context,
	principal *domainauth.Principal,
	courseID string,
) (e *model.Enrollment, err error) {
	ctx, span := startSpan(ctx, "enrollment.create")
	defer func() { endSpan(span, err) }()

	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if !course.IsActive {
		return nil, model.ErrCourseInactive
	}
	// The unique index settles concurrent attempts.
	e, err = s.enrollments.Create(ctx, principal.UserID, course.ID)
	if err != nil {
		return nil, fmt.Errorf("create enrollment: %w", err)
	}
	return e, nil
}

// List returns the caller's enrollments with their courses.
func (s *EnrollmentService) List(ctx context.Context, principal *domainauth.Principal) ([]*model.EnrolledCourse, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	out, err := s.enrollments.ListByUser(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return out, nil
}
