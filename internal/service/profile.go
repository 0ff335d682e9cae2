package service

import (
	"context"
	"fmt"

	"github.com/digieduhack/aula-api/internal/core"
	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
	"github.com/digieduhack/aula-api/internal/domain/model"
	apperrors "github.com/digieduhack/aula-api/internal/errors"
)

// ProfileServiceOptions groups dependencies for ProfileService.
type ProfileServiceOptions struct {
	Repo core.ProfileRepository // Required
}

// ProfileService reads and updates the caller's own profile.
type ProfileService struct {
	repo core.ProfileRepository
}

// NewProfileService constructs a new ProfileService.
func NewProfileService(opts ProfileServiceOptions) *ProfileService {
	if opts.Repo == nil {
		panic("ProfileRepository is required")
	}
	return &ProfileService{repo: opts.Repo}
}

// Get returns the caller's profile.
func (s *ProfileService) Get(ctx context.Context, principal *domainauth.Principal) (*model.Profile, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// Update applies the provided fields to the caller's profile.
// A username held by another user fails with USERNAME_TAKEN.
func (s *ProfileService) Update(
	ctx context.Context,
	principal *domainauth.Principal,
	req model.UpdateProfileRequest,
) (*model.Profile, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Username != nil {
		existing, err := s.repo.GetByUsername(ctx, *req.Username)
		switch {
		case err == nil && existing.ID != principal.UserID:
			return nil, model.ErrUsernameTaken
		case err != nil && !apperrors.IsNotFound(err):
			return nil, fmt.Errorf("check username: %w", err)
		}
	}
	p, err := s.repo.Update(ctx, principal.UserID, req)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}
