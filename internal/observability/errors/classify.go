// Package errors reduces errors to a small fixed set of labels for metrics and logs.
package errors

import (
	"context"
	goerrors "errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"

	apperrors "github.com/digieduhack/aula-api/internal/errors"
)

// Labels returned for errors that carry no application code.
const (
	LabelTimeout  = "timeout"
	LabelCanceled = "canceled"
	LabelDatabase = "database"
	LabelRedis    = "redis"
	LabelNetwork  = "network"
	LabelOther    = "other"
)

// Classify returns a metric label for err: the lowercased AppError code when
// present (e.g. "invalid_credentials"), otherwise one of the Label constants.
// A nil error yields "".
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if code := apperrors.GetCode(err); code != "" {
		return strings.ToLower(string(code))
	}

	var (
		pgErr  *pgconn.PgError
		netErr net.Error
	)
	switch {
	case goerrors.Is(err, context.DeadlineExceeded):
		return LabelTimeout
	case goerrors.Is(err, context.Canceled):
		return LabelCanceled
	case goerrors.As(err, &pgErr):
		return LabelDatabase
	case goerrors.Is(err, redis.Nil), goerrors.Is(err, redis.ErrClosed):
		return LabelRedis
	case goerrors.As(err, &netErr):
		if netErr.Timeout() {
			return LabelTimeout
		}
		return LabelNetwork
	default:
		return LabelOther
	}
}
