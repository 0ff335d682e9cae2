// Package core defines the repository ports the use cases depend on.
package core

import (
	"context"

	"github.com/digieduhack/aula-api/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// Repositories store what they are given; validation belongs to the service layer.

// CourseRepository defines the interface for course catalog operations.
type CourseRepository interface {
	Create(ctx context.Context, req *model.CreateCourseRequest) (*model.Course, error)
	GetByID(ctx context.Context, id string) (*model.Course, error)
	// ListActive returns active courses ordered by creation time, newest first.
	ListActive(ctx context.Context, limit int) ([]*model.Course, error)
	Update(ctx context.Context, id string, req model.UpdateCourseRequest) (*model.Course, error)
	// ClaimOrphans assigns every ownerless course to adminID and returns the count.
	ClaimOrphans(ctx context.Context, adminID string) (int64, error)
}

// ProfileRepository defines the interface for user profile operations.
type ProfileRepository interface {
	Create(ctx context.Context, req model.CreateProfileRequest) (*model.Profile, error)
	GetByID(ctx context.Context, id string) (*model.Profile, error)
	GetByUsername(ctx context.Context, username string) (*model.Profile, error)
	Update(ctx context.Context, id string, req model.UpdateProfileRequest) (*model.Profile, error)
}

// SectionRepository defines the interface for ordered course content operations.
type SectionRepository interface {
	// Create appends the section after the course's last one.
	Create(ctx context.Context, req *model.CreateSectionRequest) (*model.Section, error)
	ListByCourse(ctx context.Context, courseID string) ([]*model.Section, error)
	Update(ctx context.Context, id string, req model.UpdateSectionRequest) (*model.Section, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// EnrollmentRepository defines the interface for enrollment operations.
type EnrollmentRepository interface {
	Create(ctx context.Context, userID, courseID string) (*model.Enrollment, error)
	ListByUser(ctx context.Context, userID string) ([]*model.EnrolledCourse, error)
	Exists(ctx context.Context, userID, courseID string) (bool, error)
}

// CertificateRepository defines the interface for certificate operations.
type CertificateRepository interface {
	Create(ctx context.Context, req *model.IssueCertificateRequest) (*model.Certificate, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Certificate, error)
}

// LearningPathRepository defines the interface for personal learning path operations.
type LearningPathRepository interface {
	Create(ctx context.Context, req *model.CreateLearningPathRequest) (*model.LearningPath, error)
	// ListByUser returns the user's paths, newest first.
	ListByUser(ctx context.Context, userID string) ([]*model.LearningPath, error)
	GetByID(ctx context.Context, id string) (*model.LearningPath, error)
}
