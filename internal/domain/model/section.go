package model

import (
	"strings"
	"time"

	apperrors "github.com/digieduhack/aula-api/internal/errors"
)

// Section errors.
var (
	ErrSectionNotFound   = &apperrors.AppError{Code: apperrors.ErrCodeNotFound, Reason: "SECTION_NOT_FOUND", Message: "Section not found."}
	ErrInvalidOrderIndex = apperrors.ValidationReason("orderIndex", "INVALID_ORDER", "Order index must be 1 or greater.")
)

// Section is an ordered unit of course content.
type Section struct {
	ID          string    `json:"id"                    db:"id"`
	CourseID    string    `json:"courseId"              db:"course_id"`
	Title       string    `json:"title"                 db:"title"`
	Description *string   `json:"description,omitempty" db:"description"`
	OrderIndex  int       `json:"orderIndex"            db:"order_index"`
	CreatedAt   time.Time `json:"createdAt"             db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"             db:"updated_at"`
}

// CreateSectionRequest represents parameters to append a Section to a course.
// The order index is assigned by the store as the next position.
type CreateSectionRequest struct {
	CourseID    string  `json:"-"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// Validate validates CreateSectionRequest.
func (r *CreateSectionRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(r.CourseID) == "" {
		return ErrCourseNotFound
	}
	return nil
}

// UpdateSectionRequest represents parameters to update a Section.
type UpdateSectionRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	OrderIndex  *int    `json:"orderIndex,omitempty"`
}

// Validate validates UpdateSectionRequest.
func (r *UpdateSectionRequest) Validate() error {
	if r.Title == nil && r.Description == nil && r.OrderIndex == nil {
		return ErrNoUpdates
	}
	if r.Title != nil {
		t := strings.TrimSpace(*r.Title)
		if t == "" {
			return ErrTitleRequired
		}
		r.Title = &t
	}
	if r.OrderIndex != nil && *r.OrderIndex < 1 {
		return ErrInvalidOrderIndex
	}
	return nil
}
