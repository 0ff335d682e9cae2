package model

import (
	"regexp"
	"strings"
	"time"

	apperrors "github.com/digieduhack/aula-api/internal/errors"
)

const (
	minUsernameLen = 1
	// MaxUsernameLen bounds usernames, including generated suffixes.
	MaxUsernameLen = 32
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9._-]+$`)

// Profile validation errors.
var (
	ErrInvalidUsername = apperrors.ValidationReason("username", "INVALID_USERNAME",
		"Username must be 1-32 characters of letters, digits, dots, dashes or underscores.")
	ErrInvalidLearningLevel = apperrors.ValidationReason("learningLevel", "INVALID_DIFFICULTY",
		"Learning level must be beginner, intermediate or advanced.")
	ErrUsernameTaken   = apperrors.ConflictReason("username", "USERNAME_TAKEN", "This username is already taken.")
	ErrProfileNotFound = &apperrors.AppError{Code: apperrors.ErrCodeNotFound, Reason: "PROFILE_NOT_FOUND", Message: "Profile not found."}
)

// Profile is the user-facing record keyed by the identity provider's subject.
type Profile struct {
	ID                string      `json:"id"                          db:"id"`
	Email             string      `json:"email"                       db:"email"`
	FullName          string      `json:"fullName"                    db:"full_name"`
	Username          string      `json:"username"                    db:"username"`
	AvatarURL         *string     `json:"avatarUrl,omitempty"         db:"avatar_url"`
	LearningLevel     *Difficulty `json:"learningLevel,omitempty"     db:"learning_level"`
	PreferredLanguage *string     `json:"preferredLanguage,omitempty" db:"preferred_language"`
	CreatedAt         time.Time   `json:"createdAt"                   db:"created_at"`
	UpdatedAt         time.Time   `json:"updatedAt"                   db:"updated_at"`
}

// CreateProfileRequest represents parameters to create a Profile at sign-up.
type CreateProfileRequest struct {
	ID       string
	Email    string
	FullName string
	Username string
}

// UpdateProfileRequest represents the fields a user may change on their own profile.
type UpdateProfileRequest struct {
	FullName          *string     `json:"fullName,omitempty"`
	Username          *string     `json:"username,omitempty"`
	AvatarURL         *string     `json:"avatarUrl,omitempty"`
	LearningLevel     *Difficulty `json:"learningLevel,omitempty"`
	PreferredLanguage *string     `json:"preferredLanguage,omitempty"`
}

// HasUpdates reports whether any field is set in UpdateProfileRequest.
func (r *UpdateProfileRequest) HasUpdates() bool {
	return r.FullName != nil || r.Username != nil || r.AvatarURL != nil || r.LearningLevel != nil ||
		r.PreferredLanguage != nil
}

// Validate normalizes provided fields and checks username and level rules.
func (r *UpdateProfileRequest) Validate() error {
	if !r.HasUpdates() {
		return ErrNoUpdates
	}
	if r.FullName != nil {
		n := strings.TrimSpace(*r.FullName)
		r.FullName = &n
	}
	if r.Username != nil {
		u, err := NormalizeUsername(*r.Username)
		if err != nil {
			return err
		}
		r.Username = &u
	}
	if r.LearningLevel != nil {
		d, ok := ParseDifficulty(string(*r.LearningLevel))
		if !ok {
			return ErrInvalidLearningLevel
		}
		r.LearningLevel = &d
	}
	return nil
}

// NormalizeUsername lowercases and trims a username and validates its shape.
func NormalizeUsername(raw string) (string, error) {
	u := strings.ToLower(strings.TrimSpace(raw))
	if len(u) < minUsernameLen || len(u) > MaxUsernameLen || !usernamePattern.MatchString(u) {
		return "", ErrInvalidUsername
	}
	return u, nil
}

// DefaultUsername derives a username candidate from the local part of an email address.
// Characters outside the allowed set are dropped; an empty result falls back to "user".
func DefaultUsername(email string) string {
	local := strings.ToLower(strings.TrimSpace(email))
	if at := strings.IndexByte(local, '@'); at >= 0 {
		local = local[:at]
	}
	var b strings.Builder
	for _, r := range local {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	u := b.String()
	if u == "" {
		u = "user"
	}
	if len(u) > MaxUsernameLen {
		u = u[:MaxUsernameLen]
	}
	return u
}
