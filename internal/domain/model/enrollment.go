package model

import (
	"time"

	apperrors "github.com/digieduhack/aula-api/internal/errors"
)

// ErrAlreadyEnrolled is returned when a user enrolls twice in the same course.
var ErrAlreadyEnrolled = apperrors.ConflictReason("courseId", "ALREADY_ENROLLED", "You are already enrolled in this course.")

// Enrollment links a user to a course. The (UserID, CourseID) pair is unique.
type Enrollment struct {
	ID        string    `json:"id"        db:"id"`
	UserID    string    `json:"userId"    db:"user_id"`
	CourseID  string    `json:"courseId"  db:"course_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// EnrolledCourse is an enrollment joined with the course it points at.
type EnrolledCourse struct {
	EnrollmentID string     `json:"enrollmentId"    db:"enrollment_id"`
	EnrolledAt   time.Time  `json:"enrolledAt"      db:"enrolled_at"`
	CourseID     string     `json:"courseId"        db:"course_id"`
	Title        string     `json:"title"           db:"title"`
	Category     string     `json:"category"        db:"category"`
	Difficulty   Difficulty `json:"difficultyLevel" db:"difficulty_level"`
	IsActive     bool       `json:"isActive"        db:"is_active"`
}
