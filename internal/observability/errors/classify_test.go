package errors

import (
	"context"
	goerrors "errors"
	"fmt"
	"net"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/digieduhack/aula-api/internal/errors"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "app error", err: apperrors.InvalidCredentials("nope"), want: "invalid_credentials"},
		{name: "wrapped app error", err: fmt.Errorf("sign in: %w", apperrors.SessionInvalid(nil)), want: "session_invalid"},
		{name: "deadline", err: fmt.Errorf("verify: %w", context.DeadlineExceeded), want: LabelTimeout},
		{name: "canceled", err: context.Canceled, want: LabelCanceled},
		{name: "postgres", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "42P01"}), want: LabelDatabase},
		{name: "redis nil", err: fmt.Errorf("get: %w", redis.Nil), want: LabelRedis},
		{name: "dial refused", err: &net.OpError{Op: "dial", Net: "tcp", Err: goerrors.New("connection refused")}, want: LabelNetwork},
		{name: "net timeout", err: timeoutErr{}, want: LabelTimeout},
		{name: "plain", err: goerrors.New("x"), want: LabelOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
