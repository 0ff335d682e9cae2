package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapDBError_Passthrough(t *testing.T) {
	assert.NoError(t, MapDBError(nil))

	std := errors.New("boom")
	assert.Same(t, std, MapDBError(std))
}

func TestMapDBError_ContextAndNoRows(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{name: "deadline", err: context.DeadlineExceeded, want: ErrCodeTimeout},
		{name: "wrapped deadline", err: fmt.Errorf("query: %w", context.DeadlineExceeded), want: ErrCodeTimeout},
		{name: "canceled", err: context.Canceled, want: ErrCodeCanceled},
		{name: "no rows", err: pgx.ErrNoRows, want: ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetCode(MapDBError(tt.err)))
		})
	}
}

func TestMapDBError_UniqueViolation(t *testing.T) {
	tests := []struct {
		name      string
		pgErr     *pgconn.PgError
		wantField string
	}{
		{
			name:      "column metadata",
			pgErr:     &pgconn.PgError{Code: pgerrcode.UniqueViolation, ColumnName: "username"},
			wantField: "username",
		},
		{
			name: "detail message",
			pgErr: &pgconn.PgError{
				Code:   pgerrcode.UniqueViolation,
				Detail: `Key (email)=(ana@alumno.buap.mx) already exists.`,
			},
			wantField: "email",
		},
		{
			name: "multi-column detail",
			pgErr: &pgconn.PgError{
				Code:   pgerrcode.UniqueViolation,
				Detail: `Key (user_id, course_id)=(u1, c1) already exists.`,
			},
			wantField: "user_id, course_id",
		},
		{
			name:      "constraint name",
			pgErr:     &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "profiles_username_key"},
			wantField: "username",
		},
		{
			name:      "ambiguous constraint",
			pgErr:     &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "enrollments_user_id_course_id_key"},
			wantField: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(tt.pgErr)
			assert.True(t, IsConflict(err))
			assert.Equal(t, tt.wantField, GetField(err))
		})
	}
}

func TestMapDBError_KnownConstraintReasons(t *testing.T) {
	tests := map[string]struct {
		field  string
		reason string
	}{
		"identity_accounts_email_key":  {field: "email", reason: "EMAIL_TAKEN"},
		"profiles_username_key":        {field: "username", reason: "USERNAME_TAKEN"},
		"enrollments_user_course_key":  {field: "courseId", reason: "ALREADY_ENROLLED"},
		"certificates_user_course_key": {field: "courseId", reason: "CERTIFICATE_EXISTS"},
	}
	for constraint, want := range tests {
		t.Run(constraint, func(t *testing.T) {
			err := MapDBError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: constraint})
			assert.True(t, IsConflict(err))
			assert.Equal(t, want.field, GetField(err))
			assert.Equal(t, want.reason, GetReason(err))
		})
	}

	taken := &AppError{Code: ErrCodeConflict, Reason: "USERNAME_TAKEN"}
	err := MapDBError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "profiles_username_key"})
	assert.ErrorIs(t, err, taken)
}

func TestMapDBError_ForeignKeyViolation(t *testing.T) {
	tests := []struct {
		name         string
		pgErr        *pgconn.PgError
		wantContains string
	}{
		{
			name: "parent still referenced",
			pgErr: &pgconn.PgError{
				Code:   pgerrcode.ForeignKeyViolation,
				Detail: `Key (id)=(c1) is still referenced from table "enrollments".`,
			},
			wantContains: "in use by Enrollment",
		},
		{
			name: "missing parent",
			pgErr: &pgconn.PgError{
				Code:   pgerrcode.ForeignKeyViolation,
				Detail: `Key (course_id)=(c9) is not present in table "courses".`,
			},
			wantContains: "referenced Course does not exist",
		},
		{
			name:         "table metadata",
			pgErr:        &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, TableName: "course_sections"},
			wantContains: "Course Section",
		},
		{
			name:         "constraint name",
			pgErr:        &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "course_sections_course_id_fkey"},
			wantContains: "sections",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapDBError(tt.pgErr)
			assert.Equal(t, ErrCodeForeignKey, GetCode(err))
			var appErr *AppError
			if assert.ErrorAs(t, err, &appErr) {
				assert.Contains(t, appErr.Message, tt.wantContains)
			}
		})
	}
}

func TestMapDBError_NotNullAndCheck(t *testing.T) {
	notNull := MapDBError(&pgconn.PgError{Code: pgerrcode.NotNullViolation, ColumnName: "title"})
	assert.True(t, IsValidation(notNull))
	assert.Equal(t, "title", GetField(notNull))

	check := MapDBError(&pgconn.PgError{Code: pgerrcode.CheckViolation, ColumnName: "difficulty_level"})
	assert.True(t, IsValidation(check))
	assert.Equal(t, "difficulty_level", GetField(check))

	bare := MapDBError(&pgconn.PgError{Code: pgerrcode.CheckViolation})
	assert.True(t, IsValidation(bare))
	assert.Empty(t, GetField(bare))
}

func TestMapDBError_UnknownPgError(t *testing.T) {
	err := MapDBError(&pgconn.PgError{Code: "99999", Message: "unknown"})
	assert.Equal(t, ErrCodeInternal, GetCode(err))
}

func TestInferFieldFromConstraint(t *testing.T) {
	tests := map[string]string{
		"profiles_username_key": "username",
		"courses_title_unique":  "title",
		"profiles_lower_key":    "",
		"a_b_c_key":             "",
		"profiles_key":          "",
		"":                      "",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, inferFieldFromConstraint(in))
		})
	}
}

func TestInferForeignKeyMessage(t *testing.T) {
	tests := map[string]string{
		"course_sections_course_id_fkey": "sections",
		"enrollments_course_id_fkey":     "enrollments",
		"certificates_course_id_fkey":    "certificates",
		"courses_parent_fkey":            "does not exist",
		"unknown_fkey":                   "in use",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Contains(t, strings.ToLower(inferForeignKeyMessage(in)), want)
		})
	}
}

func TestMapTableToDomain(t *testing.T) {
	assert.Equal(t, "Course", mapTableToDomain("courses"))
	assert.Equal(t, "Course Section", mapTableToDomain("  COURSE_SECTIONS "))
	assert.Equal(t, "Account", mapTableToDomain("identity_accounts"))
	assert.Equal(t, "Learning Paths", mapTableToDomain("learning_paths"))
}
