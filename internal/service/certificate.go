package service

import (
	"context"
	"fmt"

	"github.com/digieduhack/aula-api/internal/core"
	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
	"github.com/digieduhack/aula-api/internal/domain/model"
)

// CertificateServiceOptions groups dependencies for CertificateService.
type CertificateServiceOptions struct {
	Certificates core.CertificateRepository // Required
	Enrollments  core.EnrollmentRepository  // Required
	Courses      core.CourseRepository      // Required
}

// CertificateService issues and lists course completion certificates.
type CertificateService struct {
	certificates core.CertificateRepository
	enrollments  core.EnrollmentRepository
	courses      core.CourseRepository
}

// NewCertificateService constructs a new CertificateService.
func NewCertificateService(opts CertificateServiceOptions) *CertificateService {
	if opts.Certificates == nil || opts.Enrollments == nil || opts.Courses == nil {
		panic("certificate, enrollment and course repositories are required")
	}
	return &CertificateService{
		certificates: opts.Certificates,
		enrollments:  opts.Enrollments,
		courses:      opts.Courses,
	}
}

// Issue records a certificate for an enrolled user, snapshotting the course title.
func (s *CertificateService) Issue(
	ctx context.Context,
	principal *domainauth.Principal,
	req *model.IssueCertificateRequest,
) (c *model.Certificate, err error) {
	ctx, span := startSpan(ctx, "certificate.issue")
	defer func() { endSpan(span, err) }()

	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	enrolled, err := s.enrollments.Exists(ctx, req.UserID, req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}
	if !enrolled {
		return nil, model.ErrNotEnrolled
	}
	course, err := s.courses.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	req.CourseTitle = course.Title

	c, err = s.certificates.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create certificate: %w", err)
	}
	return c, nil
}

// List returns the caller's certificates, newest first.
func (s *CertificateService) List(ctx context.Context, principal *domainauth.Principal) ([]*model.Certificate, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	out, err := s.certificates.ListByUser(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	return out, nil
}
