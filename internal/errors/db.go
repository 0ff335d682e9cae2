package errors

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// "Key (email)=(ana@alumno.buap.mx) already exists."
	reDetailKey = regexp.MustCompile(`Key \(([^)]+)\)=`)
	// "Key (id)=(...) is still referenced from table "enrollments"."
	reStillReferenced = regexp.MustCompile(`is still referenced from table "?([^"]+)"?`)
	// "Key (course_id)=(...) is not present in table "courses"."
	reMissingParent = regexp.MustCompile(`is not present in table "?([^"]+)"?`)
)

// constraintRule describes how a known schema constraint surfaces to API callers.
type constraintRule struct {
	field   string
	reason  string
	message string
}

// knownConstraints maps constraint names from internal/migrate to API-facing errors.
// Unlisted constraints fall back to Detail and name heuristics.
var knownConstraints = map[string]constraintRule{
	"identity_accounts_email_key": {
		field: "email", reason: "EMAIL_TAKEN", message: "An account with this email already exists.",
	},
	"profiles_username_key": {
		field: "username", reason: "USERNAME_TAKEN", message: "This username is already taken.",
	},
	"enrollments_user_course_key": {
		field: "courseId", reason: "ALREADY_ENROLLED", message: "You are already enrolled in this course.",
	},
	"certificates_user_course_key": {
		field: "courseId", reason: "CERTIFICATE_EXISTS", message: "A certificate for this course was already issued.",
	},
}

// tableNouns names tables the way error messages refer to them.
var tableNouns = map[string]string{
	"identity_accounts": "Account",
	"profiles":          "Profile",
	"courses":           "Course",
	"course_sections":   "Course Section",
	"enrollments":       "Enrollment",
	"certificates":      "Certificate",
}

// sqlFunctions are expression-index function names that never name a column.
var sqlFunctions = map[string]bool{
	"lower": true, "upper": true, "trim": true, "ltrim": true, "rtrim": true,
	"md5": true, "encode": true, "decode": true,
}

// MapDBError translates driver and context errors into AppErrors:
//
//	context.DeadlineExceeded  TIMEOUT
//	context.Canceled          CANCELED
//	pgx.ErrNoRows             NOT_FOUND
//	unique_violation          CONFLICT (field, and reason for known constraints)
//	foreign_key_violation     FOREIGN_KEY
//	not_null / check          VALIDATION_ERROR
//
// Other PostgreSQL errors become INTERNAL. Anything else is returned unchanged.
func MapDBError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(err, ErrCodeTimeout, "The database did not respond in time.")
	case errors.Is(err, context.Canceled):
		return Wrap(err, ErrCodeCanceled, "Request was canceled.")
	case errors.Is(err, pgx.ErrNoRows):
		return Wrap(err, ErrCodeNotFound, "Resource not found.")
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return uniqueViolation(pgErr)
	case pgerrcode.ForeignKeyViolation:
		return &AppError{Code: ErrCodeForeignKey, Message: foreignKeyMessage(pgErr), Cause: pgErr}
	case pgerrcode.NotNullViolation:
		return columnViolation(pgErr, "This field is required.", "Required field is missing.")
	case pgerrcode.CheckViolation:
		return columnViolation(pgErr, "This field has an invalid value.", "Invalid data.")
	default:
		return Wrap(pgErr, ErrCodeInternal, "A database error occurred. Please try again.")
	}
}

func uniqueViolation(pgErr *pgconn.PgError) *AppError {
	if rule, ok := knownConstraints[pgErr.ConstraintName]; ok {
		return &AppError{
			Code:    ErrCodeConflict,
			Reason:  rule.reason,
			Message: rule.message,
			Field:   rule.field,
			Cause:   pgErr,
		}
	}

	field := pgErr.ColumnName
	if field == "" {
		if m := reDetailKey.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
			field = m[1]
		}
	}
	if field == "" {
		field = inferFieldFromConstraint(pgErr.ConstraintName)
	}
	return &AppError{
		Code:    ErrCodeConflict,
		Message: "This value already exists. Please choose a different one.",
		Field:   field,
		Cause:   pgErr,
	}
}

func foreignKeyMessage(pgErr *pgconn.PgError) string {
	if m := reStillReferenced.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		return "Cannot delete because this item is in use by " + mapTableToDomain(m[1]) + "."
	}
	if m := reMissingParent.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		return "Cannot complete operation because the referenced " + mapTableToDomain(m[1]) + " does not exist."
	}
	if pgErr.TableName != "" {
		return "Cannot complete operation because this item is in use by " + mapTableToDomain(pgErr.TableName) + "."
	}
	return inferForeignKeyMessage(pgErr.ConstraintName)
}

func columnViolation(pgErr *pgconn.PgError, fieldMsg, genericMsg string) *AppError {
	msg := genericMsg
	if pgErr.ColumnName != "" {
		msg = fieldMsg
	}
	return &AppError{
		Code:    ErrCodeValidation,
		Message: msg,
		Field:   pgErr.ColumnName,
		Cause:   pgErr,
	}
}

// inferFieldFromConstraint reads the column out of "<table>_<column>_<suffix>".
// Multi-column and expression constraints yield "".
func inferFieldFromConstraint(name string) string {
	parts := strings.Split(name, "_")
	if len(parts) != 3 || sqlFunctions[strings.ToLower(parts[1])] {
		return ""
	}
	return parts[1]
}

func mapTableToDomain(table string) string {
	table = strings.ToLower(strings.TrimSpace(table))
	if noun, ok := tableNouns[table]; ok {
		return noun
	}
	words := strings.Fields(strings.ReplaceAll(table, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// inferForeignKeyMessage guesses from the constraint name. Child tables are
// checked before "course" since all of them reference courses.
func inferForeignKeyMessage(name string) string {
	name = strings.ToLower(name)
	for _, child := range []string{"sections", "enrollments", "certificates"} {
		if strings.Contains(name, strings.TrimSuffix(child, "s")) {
			return "Cannot complete operation because the course has " + child + "."
		}
	}
	if strings.Contains(name, "course") {
		return "Cannot complete operation because the course does not exist."
	}
	return "Cannot complete operation because this item is in use."
}
