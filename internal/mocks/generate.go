// Package mocks provides gomock implementations of the repository and auth ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	courses := mocks.NewMockCourseRepository(ctrl)
//	courses.EXPECT().Create(gomock.Any(), gomock.Any()).Return(course, nil)
package mocks

// Repository ports from internal/core.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=course_repository_mock.go github.com/digieduhack/aula-api/internal/core CourseRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=profile_repository_mock.go github.com/digieduhack/aula-api/internal/core ProfileRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=section_repository_mock.go github.com/digieduhack/aula-api/internal/core SectionRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=enrollment_repository_mock.go github.com/digieduhack/aula-api/internal/core EnrollmentRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=certificate_repository_mock.go github.com/digieduhack/aula-api/internal/core CertificateRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=learning_path_repository_mock.go github.com/digieduhack/aula-api/internal/core LearningPathRepository

// Auth ports from internal/ports. Hand-written doubles for the same ports live in mocks/auth.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=identity_provider_mock.go github.com/digieduhack/aula-api/internal/ports IdentityProvider
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_store_mock.go github.com/digieduhack/aula-api/internal/ports SessionStore
