// Package model defines the catalog, profile and learning records exchanged between use cases and repositories.
package model

import (
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/digieduhack/aula-api/internal/errors"
)

const maxCourseTitleLen = 200

// Difficulty is the closed set of course difficulty levels.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Valid reports whether d is one of the supported levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	default:
		return false
	}
}

// ParseDifficulty normalizes a difficulty string and reports whether it is supported.
func ParseDifficulty(value string) (Difficulty, bool) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(value)))
	if d.Valid() {
		return d, true
	}
	return "", false
}

// UnmarshalText implements encoding.TextUnmarshaler without validating,
// so invalid levels reach the use case and fail with INVALID_DIFFICULTY.
func (d *Difficulty) UnmarshalText(text []byte) error {
	*d = Difficulty(strings.ToLower(strings.TrimSpace(string(text))))
	return nil
}

// Course validation errors.
var (
	ErrTitleRequired     = apperrors.ValidationReason("title", "TITLE_REQUIRED", "Title is required.")
	ErrTitleTooLong      = apperrors.ValidationReason("title", "TITLE_TOO_LONG", "Title cannot exceed 200 characters.")
	ErrCategoryRequired  = apperrors.ValidationReason("category", "CATEGORY_REQUIRED", "Category is required.")
	ErrInvalidDifficulty = apperrors.ValidationReason("difficultyLevel", "INVALID_DIFFICULTY", "Difficulty must be beginner, intermediate or advanced.")
	ErrInvalidDuration   = apperrors.ValidationReason("estimatedDuration", "INVALID_DURATION", "Estimated duration cannot be negative.")
	ErrNoUpdates         = apperrors.ValidationReason("", "NO_UPDATES", "At least one field must be updated.")
	ErrCourseNotFound    = &apperrors.AppError{Code: apperrors.ErrCodeNotFound, Reason: "COURSE_NOT_FOUND", Message: "Course not found."}
	ErrCourseInactive    = apperrors.ValidationReason("courseId", "COURSE_INACTIVE", "This course is not currently active.")
)

// Course is a catalog entry. CreatedBy is nil for legacy orphan courses.
type Course struct {
	ID                 string     `json:"id"                          db:"id"`
	Title              string     `json:"title"                       db:"title"`
	Description        *string    `json:"description,omitempty"       db:"description"`
	Category           string     `json:"category"                    db:"category"`
	DifficultyLevel    Difficulty `json:"difficultyLevel"             db:"difficulty_level"`
	EstimatedDuration  *int       `json:"estimatedDuration,omitempty" db:"estimated_duration"`
	Prerequisites      []string   `json:"prerequisites"               db:"prerequisites"`
	LearningObjectives []string   `json:"learningObjectives"          db:"learning_objectives"`
	IsActive           bool       `json:"isActive"                    db:"is_active"`
	CreatedAt          time.Time  `json:"createdAt"                   db:"created_at"`
	UpdatedAt          time.Time  `json:"updatedAt"                   db:"updated_at"`
	CreatedBy          *string    `json:"createdBy"                   db:"created_by"`
}

// IsOrphan reports whether the course has no owner.
func (c Course) IsOrphan() bool { return c.CreatedBy == nil }

// CreateCourseRequest represents parameters to create a Course.
// CreatedBy is set by the caller from the authenticated principal, never from input.
type CreateCourseRequest struct {
	Title              string     `json:"title"`
	Description        *string    `json:"description,omitempty"`
	Category           string     `json:"category"`
	DifficultyLevel    Difficulty `json:"difficultyLevel"`
	EstimatedDuration  *int       `json:"estimatedDuration,omitempty"`
	Prerequisites      []string   `json:"prerequisites,omitempty"`
	LearningObjectives []string   `json:"learningObjectives,omitempty"`
	IsActive           *bool      `json:"isActive,omitempty"`
	CreatedBy          *string    `json:"-"`
}

// Validate checks presence and enum rules and normalizes the request in place.
func (r *CreateCourseRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return ErrTitleRequired
	}
	if utf8.RuneCountInString(r.Title) > maxCourseTitleLen {
		return ErrTitleTooLong
	}
	r.Category = strings.TrimSpace(r.Category)
	if r.Category == "" {
		return ErrCategoryRequired
	}
	d, ok := ParseDifficulty(string(r.DifficultyLevel))
	if !ok {
		return ErrInvalidDifficulty
	}
	r.DifficultyLevel = d
	if r.EstimatedDuration != nil && *r.EstimatedDuration < 0 {
		return ErrInvalidDuration
	}
	r.Prerequisites = compactStrings(r.Prerequisites)
	r.LearningObjectives = compactStrings(r.LearningObjectives)
	if r.IsActive == nil {
		active := true
		r.IsActive = &active
	}
	return nil
}

// UpdateCourseRequest represents parameters to update a Course.
type UpdateCourseRequest struct {
	Title              *string     `json:"title,omitempty"`
	Description        *string     `json:"description,omitempty"`
	Category           *string     `json:"category,omitempty"`
	DifficultyLevel    *Difficulty `json:"difficultyLevel,omitempty"`
	EstimatedDuration  *int        `json:"estimatedDuration,omitempty"`
	Prerequisites      []string    `json:"prerequisites,omitempty"`
	LearningObjectives []string    `json:"learningObjectives,omitempty"`
	IsActive           *bool       `json:"isActive,omitempty"`
}

// HasUpdates reports whether any field is set in UpdateCourseRequest.
func (r *UpdateCourseRequest) HasUpdates() bool {
	return r.Title != nil || r.Description != nil || r.Category != nil || r.DifficultyLevel != nil ||
		r.EstimatedDuration != nil || r.Prerequisites != nil || r.LearningObjectives != nil || r.IsActive != nil
}

// Validate applies the create rules to every provided field.
func (r *UpdateCourseRequest) Validate() error {
	if !r.HasUpdates() {
		return ErrNoUpdates
	}
	if r.Title != nil {
		t := strings.TrimSpace(*r.Title)
		if t == "" {
			return ErrTitleRequired
		}
		if utf8.RuneCountInString(t) > maxCourseTitleLen {
			return ErrTitleTooLong
		}
		r.Title = &t
	}
	if r.Category != nil {
		c := strings.TrimSpace(*r.Category)
		if c == "" {
			return ErrCategoryRequired
		}
		r.Category = &c
	}
	if r.DifficultyLevel != nil {
		d, ok := ParseDifficulty(string(*r.DifficultyLevel))
		if !ok {
			return ErrInvalidDifficulty
		}
		r.DifficultyLevel = &d
	}
	if r.EstimatedDuration != nil && *r.EstimatedDuration < 0 {
		return ErrInvalidDuration
	}
	if r.Prerequisites != nil {
		r.Prerequisites = compactStrings(r.Prerequisites)
	}
	if r.LearningObjectives != nil {
		r.LearningObjectives = compactStrings(r.LearningObjectives)
	}
	return nil
}

// compactStrings trims entries and drops empty ones. It never returns nil.
func compactStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
