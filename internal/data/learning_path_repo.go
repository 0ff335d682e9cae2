package data

import (
	"context"
	"database/sql"
	"errors"

	"github.com/digieduhack/aula-api/internal/data/pgxutil"
	"github.com/digieduhack/aula-api/internal/domain/model"
)

const learningPathColumns = `id, user_id, title, description, status, path_data, created_at, updated_at`

const (
	learningPathInsertQuery = `
		INSERT INTO learning_paths (user_id, title, description, status, path_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING ` + learningPathColumns

	learningPathListByUserQuery = `
		SELECT ` + learningPathColumns + `
		FROM learning_paths
		WHERE user_id = $1
		ORDER BY created_at DESC, id`

	learningPathGetByIDQuery = `
		SELECT ` + learningPathColumns + `
		FROM learning_paths
		WHERE id = $1`
)

// LearningPathRepo provides database operations for personal learning paths.
// The roadmap is stored as JSONB and decoded by pgx.
type LearningPathRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewLearningPathRepo creates a new LearningPathRepo with real time provider.
func NewLearningPathRepo(db *sql.DB) *LearningPathRepo {
	return &LearningPathRepo{DB: db, timeProvider: systemClock{}}
}

// NewLearningPathRepoWithTimeProvider creates a new LearningPathRepo with a custom time provider.
func NewLearningPathRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *LearningPathRepo {
	return &LearningPathRepo{DB: db, timeProvider: tp}
}

// Create stores a validated path for req.UserID.
func (r *LearningPathRepo) Create(ctx context.Context, req *model.CreateLearningPathRequest) (*model.LearningPath, error) {
	if req == nil {
		return nil, errors.New("create learning path request is required")
	}
	out, err := pgxutil.QueryOne[model.LearningPath](ctx, r.DB, learningPathInsertQuery,
		req.UserID,
		req.Title,
		req.Description,
		string(req.Status),
		req.PathData,
		r.timeProvider.Now().UTC(),
	)
	if err != nil {
		return nil, mapErr(err, nil)
	}
	return &out, nil
}

// ListByUser returns the user's paths, newest first.
func (r *LearningPathRepo) ListByUser(ctx context.Context, userID string) ([]*model.LearningPath, error) {
	rows, err := pgxutil.QueryAll[model.LearningPath](ctx, r.DB, learningPathListByUserQuery, userID)
	if err != nil {
		return nil, mapErr(err, nil)
	}
	res := make([]*model.LearningPath, len(rows))
	for i := range rows {
		res[i] = &rows[i]
	}
	return res, nil
}

// GetByID returns the path with id regardless of owner.
func (r *LearningPathRepo) GetByID(ctx context.Context, id string) (*model.LearningPath, error) {
	if !isUUID(id) {
		return nil, model.ErrLearningPathNotFound
	}
	out, err := pgxutil.QueryOne[model.LearningPath](ctx, r.DB, learningPathGetByIDQuery, id)
	if err != nil {
		return nil, mapErr(err, model.ErrLearningPathNotFound)
	}
	return &out, nil
}
