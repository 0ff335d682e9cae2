package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/digieduhack/aula-api/internal/core"
	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
	"github.com/digieduhack/aula-api/internal/domain/model"
	apperrors "github.com/digieduhack/aula-api/internal/errors"
)

// DashboardServiceOptions groups dependencies for DashboardService.
type DashboardServiceOptions struct {
	Profiles     core.ProfileRepository     // Required
	Enrollments  core.EnrollmentRepository  // Required
	Certificates core.CertificateRepository // Required
}

// DashboardService aggregates the caller's learning overview.
type DashboardService struct {
	profiles     core.ProfileRepository
	enrollments  core.EnrollmentRepository
	certificates core.CertificateRepository
}

// Dashboard is the caller's learning overview. Profile is nil for users without one.
type Dashboard struct {
	Principal    domainauth.Principal    `json:"principal"`
	Profile      *model.Profile          `json:"profile"`
	Enrollments  []*model.EnrolledCourse `json:"enrollments"`
	Certificates []*model.Certificate    `json:"certificates"`
}

// NewDashboardService constructs a new DashboardService.
func NewDashboardService(opts DashboardServiceOptions) *DashboardService {
	if opts.Profiles == nil || opts.Enrollments == nil || opts.Certificates == nil {
		panic("profile, enrollment and certificate repositories are required")
	}
	return &DashboardService{
		profiles:     opts.Profiles,
		enrollments:  opts.Enrollments,
		certificates: opts.Certificates,
	}
}

// Get fetches profile, enrollments and certificates concurrently.
func (s *DashboardService) Get(ctx context.Context, principal *domainauth.Principal) (d *Dashboard, err error) {
	ctx, span := startSpan(ctx, "dashboard.get")
	defer func() { endSpan(span, err) }()

	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}

	out := &Dashboard{Principal: *principal}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.profiles.GetByID(gctx, principal.UserID)
		if err != nil && !apperrors.IsNotFound(err) {
			return fmt.Errorf("get profile: %w", err)
		}
		out.Profile = p
		return nil
	})
	g.Go(func() error {
		e, err := s.enrollments.ListByUser(gctx, principal.UserID)
		if err != nil {
			return fmt.Errorf("list enrollments: %w", err)
		}
		out.Enrollments = e
		return nil
	})
	g.Go(func() error {
		c, err := s.certificates.ListByUser(gctx, principal.UserID)
		if err != nil {
			return fmt.Errorf("list certificates: %w", err)
		}
		out.Certificates = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
