package data

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/digieduhack/aula-api/internal/data/pgxutil"
	"github.com/digieduhack/aula-api/internal/domain/model"
	apperrors "github.com/digieduhack/aula-api/internal/errors"
)

const profileColumns = `id, email, full_name, username, avatar_url, learning_level, preferred_language,
	created_at, updated_at`

const (
	profileGetByIDQuery       = `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	profileGetByUsernameQuery = `SELECT ` + profileColumns + ` FROM profiles WHERE username = $1`
	profileInsertQuery        = `
		INSERT INTO profiles (id, email, full_name, username, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING ` + profileColumns
)

// ProfileRepo provides database operations for user profiles.
type ProfileRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewProfileRepo creates a new ProfileRepo with real time provider.
func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{DB: db, timeProvider: systemClock{}}
}

// NewProfileRepoWithTimeProvider creates a new ProfileRepo with a custom time provider (useful for tests).
func NewProfileRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ProfileRepo {
	return &ProfileRepo{DB: db, timeProvider: tp}
}

// Create inserts the profile created at sign-up.
func (r *ProfileRepo) Create(ctx context.Context, req model.CreateProfileRequest) (*model.Profile, error) {
	out, err := pgxutil.QueryOne[model.Profile](ctx, r.DB, profileInsertQuery,
		req.ID,
		req.Email,
		req.FullName,
		req.Username,
		r.timeProvider.Now().UTC(),
	)
	if err != nil {
		return nil, r.mapWriteErr(err)
	}
	return &out, nil
}

// GetByID retrieves a profile by user ID.
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	out, err := pgxutil.QueryOne[model.Profile](ctx, r.DB, profileGetByIDQuery, id)
	if err != nil {
		return nil, mapErr(err, model.ErrProfileNotFound)
	}
	return &out, nil
}

// GetByUsername retrieves a profile by its unique username.
func (r *ProfileRepo) GetByUsername(ctx context.Context, username string) (*model.Profile, error) {
	out, err := pgxutil.QueryOne[model.Profile](ctx, r.DB, profileGetByUsernameQuery, username)
	if err != nil {
		return nil, mapErr(err, model.ErrProfileNotFound)
	}
	return &out, nil
}

// Update applies the provided fields of req to the profile with id.
func (r *ProfileRepo) Update(ctx context.Context, id string, req model.UpdateProfileRequest) (*model.Profile, error) {
	setClause, args := r.buildUpdateClause(req)
	if setClause == "" {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := "UPDATE profiles SET " + setClause + " WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + profileColumns

	out, err := pgxutil.QueryOne[model.Profile](ctx, r.DB, query, args...)
	if err != nil {
		if apperrors.IsNotFound(mapErr(err, nil)) {
			return nil, model.ErrProfileNotFound
		}
		return nil, r.mapWriteErr(err)
	}
	return &out, nil
}

func (r *ProfileRepo) buildUpdateClause(req model.UpdateProfileRequest) (string, []any) {
	setParts := make([]string, 0, 6)
	args := make([]any, 0, 7)
	set := func(column string, value any) {
		args = append(args, value)
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	// Empty optional strings clear the column.
	setOptional := func(column string, value *string) {
		if strings.TrimSpace(*value) == "" {
			setParts = append(setParts, column+" = NULL")
			return
		}
		set(column, *value)
	}

	if req.FullName != nil {
		set("full_name", *req.FullName)
	}
	if req.Username != nil {
		set("username", *req.Username)
	}
	if req.AvatarURL != nil {
		setOptional("avatar_url", req.AvatarURL)
	}
	if req.LearningLevel != nil {
		set("learning_level", *req.LearningLevel)
	}
	if req.PreferredLanguage != nil {
		setOptional("preferred_language", req.PreferredLanguage)
	}

	if len(setParts) == 0 {
		return "", nil
	}
	set("updated_at", r.timeProvider.Now().UTC())
	return strings.Join(setParts, ", "), args
}

// mapWriteErr reports username collisions as ErrUsernameTaken.
func (r *ProfileRepo) mapWriteErr(err error) error {
	mapped := mapErr(err, nil)
	if apperrors.IsConflict(mapped) && apperrors.GetField(mapped) == "username" {
		return model.ErrUsernameTaken.WithCause(err)
	}
	return mapped
}
