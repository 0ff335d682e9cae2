package model

import (
	"strings"
	"time"

	apperrors "github.com/digieduhack/aula-api/internal/errors"
)

// Certificate errors.
var (
	ErrNotEnrolled    = apperrors.ValidationReason("userId", "NOT_ENROLLED", "The user is not enrolled in this course.")
	ErrUserIDRequired = apperrors.ValidationReason("userId", "USER_REQUIRED", "User is required.")
	ErrCourseRequired = apperrors.ValidationReason("courseId", "COURSE_REQUIRED", "Course is required.")
	ErrAlreadyIssued  = apperrors.ConflictReason("courseId", "ALREADY_ISSUED", "A certificate was already issued for this course.")
)

// Certificate records a user's completion of a course.
// CourseTitle is a snapshot taken at issue time.
type Certificate struct {
	ID             string    `json:"id"                       db:"id"`
	UserID         string    `json:"userId"                   db:"user_id"`
	CourseID       string    `json:"courseId"                 db:"course_id"`
	CourseTitle    string    `json:"courseTitle"              db:"course_title"`
	CompletionDate time.Time `json:"completionDate"           db:"completion_date"`
	CertificateURL *string   `json:"certificateUrl,omitempty" db:"certificate_url"`
}

// IssueCertificateRequest represents parameters to issue a Certificate.
type IssueCertificateRequest struct {
	UserID         string  `json:"userId"`
	CourseID       string  `json:"courseId"`
	CertificateURL *string `json:"certificateUrl,omitempty"`
	CourseTitle    string  `json:"-"`
}

// Validate validates IssueCertificateRequest.
func (r *IssueCertificateRequest) Validate() error {
	r.UserID = strings.TrimSpace(r.UserID)
	if r.UserID == "" {
		return ErrUserIDRequired
	}
	r.CourseID = strings.TrimSpace(r.CourseID)
	if r.CourseID == "" {
		return ErrCourseRequired
	}
	return nil
}
