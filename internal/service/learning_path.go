package service

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/digieduhack/aula-api/internal/core"
	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
	"github.com/digieduhack/aula-api/internal/domain/model"
	apperrors "github.com/digieduhack/aula-api/internal/errors"
)

// LearningPathServiceOptions groups dependencies for LearningPathService.
type LearningPathServiceOptions struct {
	Repo   core.LearningPathRepository // Required
	Logger *slog.Logger                // Optional
}

// LearningPathService manages a user's own learning paths and reports roadmap progress.
type LearningPathService struct {
	repo   core.LearningPathRepository
	logger *slog.Logger
}

// NewLearningPathService constructs a new LearningPathService.
func NewLearningPathService(opts LearningPathServiceOptions) *LearningPathService {
	if opts.Repo == nil {
		panic("LearningPathRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &LearningPathService{repo: opts.Repo, logger: logger.With("component", "learning_path_service")}
}

// List returns the caller's paths, newest first, each with its progress.
func (s *LearningPathService) List(
	ctx context.Context,
	principal *domainauth.Principal,
) (out []*model.LearningPathSummary, err error) {
	ctx, span := startSpan(ctx, "learning_path.list")
	defer func() { endSpan(span, err) }()

	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	paths, err := s.repo.ListByUser(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("list learning paths: %w", err)
	}
	out = make([]*model.LearningPathSummary, len(paths))
	for i, p := range paths {
		out[i] = summarize(p)
	}
	span.SetAttributes(attribute.Int("learning_path.count", len(out)))
	return out, nil
}

// Create stores a new path owned by the caller.
func (s *LearningPathService) Create(
	ctx context.Context,
	principal *domainauth.Principal,
	req *model.CreateLearningPathRequest,
) (*model.LearningPathSummary, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.UserID = principal.UserID

	p, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create learning path: %w", err)
	}
	s.logger.InfoContext(ctx, "learning path created",
		slog.String("user_id", p.UserID), slog.String("path_id", p.ID))
	return summarize(p), nil
}

// Get returns one of the caller's paths. Paths owned by someone else are reported as
// not found so their ids are not disclosed.
func (s *LearningPathService) Get(
	ctx context.Context,
	principal *domainauth.Principal,
	id string,
) (*model.LearningPathSummary, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("get learning path: %w", err)
	}
	if p.UserID != principal.UserID {
		return nil, model.ErrLearningPathNotFound
	}
	return summarize(p), nil
}

func summarize(p *model.LearningPath) *model.LearningPathSummary {
	return &model.LearningPathSummary{LearningPath: p, Progress: p.PathData.Roadmap.Progress()}
}
