package data

import (
	"context"
	"database/sql"
	"errors"

	"github.com/digieduhack/aula-api/internal/data/pgxutil"
	"github.com/digieduhack/aula-api/internal/domain/model"
	apperrors "github.com/digieduhack/aula-api/internal/errors"
)

const certificateColumns = `id, user_id, course_id, course_title, completion_date, certificate_url`

const (
	certificateInsertQuery = `
		INSERT INTO certificates (user_id, course_id, course_title, completion_date, certificate_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + certificateColumns

	certificateListByUserQuery = `
		SELECT ` + certificateColumns + `
		FROM certificates
		WHERE user_id = $1
		ORDER BY completion_date DESC`
)

// CertificateRepo provides database operations for course certificates.
type CertificateRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewCertificateRepo creates a new CertificateRepo with real time provider.
func NewCertificateRepo(db *sql.DB) *CertificateRepo {
	return &CertificateRepo{DB: db, timeProvider: systemClock{}}
}

// NewCertificateRepoWithTimeProvider creates a new CertificateRepo with a custom time provider (useful for tests).
func NewCertificateRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *CertificateRepo {
	return &CertificateRepo{DB: db, timeProvider: tp}
}

// Create stores a certificate completed now.
func (r *CertificateRepo) Create(ctx context.Context, req *model.IssueCertificateRequest) (*model.Certificate, error) {
	if req == nil {
		return nil, errors.New("issue certificate request is required")
	}
	if !isUUID(req.CourseID) {
		return nil, model.ErrCourseNotFound
	}
	out, err := pgxutil.QueryOne[model.Certificate](ctx, r.DB, certificateInsertQuery,
		req.UserID,
		req.CourseID,
		req.CourseTitle,
		r.timeProvider.Now().UTC(),
		req.CertificateURL,
	)
	if err != nil {
		mapped := mapErr(err, nil)
		if apperrors.IsConflict(mapped) {
			return nil, model.ErrAlreadyIssued.WithCause(err)
		}
		return nil, mapped
	}
	return &out, nil
}

// ListByUser returns the user's certificates, most recent first.
func (r *CertificateRepo) ListByUser(ctx context.Context, userID string) ([]*model.Certificate, error) {
	rows, err := pgxutil.QueryAll[model.Certificate](ctx, r.DB, certificateListByUserQuery, userID)
	if err != nil {
		return nil, mapErr(err, nil)
	}
	res := make([]*model.Certificate, len(rows))
	for i := range rows {
		res[i] = &rows[i]
	}
	return res, nil
}
