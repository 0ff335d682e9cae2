package service

import (
	"context"
	"fmt"

	"github.com/digieduhack/aula-api/internal/core"
	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
	"github.com/digieduhack/aula-api/internal/domain/model"
)

// SectionServiceOptions groups dependencies for SectionService.
type SectionServiceOptions struct {
	Sections core.SectionRepository // Required
	Courses  core.CourseRepository  // Required
}

// SectionService manages the ordered content of a course.
type SectionService struct {
	sections core.SectionRepository
	courses  core.CourseRepository
}

// NewSectionService constructs a new SectionService.
func NewSectionService(opts SectionServiceOptions) *SectionService {
	if opts.Sections == nil || opts.Courses == nil {
		panic("SectionRepository and CourseRepository are required")
	}
	return &SectionService{sections: opts.Sections, courses: opts.Courses}
}

// Add appends a section to courseID.
func (s *SectionService) Add(
	ctx context.Context,
	principal *domainauth.Principal,
	courseID string,
	req *model.CreateSectionRequest,
) (*model.Section, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	req.CourseID = courseID
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	sec, err := s.sections.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create section: %w", err)
	}
	return sec, nil
}

// List returns the sections of courseID in order.
func (s *SectionService) List(ctx context.Context, courseID string) ([]*model.Section, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	out, err := s.sections.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return out, nil
}

// Update applies the provided fields to a section.
func (s *SectionService) Update(
	ctx context.Context,
	principal *domainauth.Principal,
	id string,
	req model.UpdateSectionRequest,
) (*model.Section, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	sec, err := s.sections.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("update section: %w", err)
	}
	return sec, nil
}

// Delete removes a section.
func (s *SectionService) Delete(ctx context.Context, principal *domainauth.Principal, id string) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	deleted, err := s.sections.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	if !deleted {
		return model.ErrSectionNotFound
	}
	return nil
}
