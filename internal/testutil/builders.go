package testutil

import (
	"github.com/digieduhack/aula-api/internal/domain/model"
)

// CourseRequestBuilder provides a fluent interface for building CreateCourseRequest values in tests.
type CourseRequestBuilder struct {
	req model.CreateCourseRequest
}

// NewCourseRequest creates a CourseRequestBuilder with valid defaults.
func NewCourseRequest() *CourseRequestBuilder {
	return &CourseRequestBuilder{
		req: model.CreateCourseRequest{
			Title:           "Introducción a Go",
			Category:        "programming",
			DifficultyLevel: model.DifficultyBeginner,
		},
	}
}

// WithTitle sets the title.
func (b *CourseRequestBuilder) WithTitle(title string) *CourseRequestBuilder {
	b.req.Title = title
	return b
}

// WithCategory sets the category.
func (b *CourseRequestBuilder) WithCategory(category string) *CourseRequestBuilder {
	b.req.Category = category
	return b
}

// WithDifficulty sets the difficulty level.
func (b *CourseRequestBuilder) WithDifficulty(d model.Difficulty) *CourseRequestBuilder {
	b.req.DifficultyLevel = d
	return b
}

// WithDuration sets the estimated duration in minutes.
func (b *CourseRequestBuilder) WithDuration(minutes int) *CourseRequestBuilder {
	b.req.EstimatedDuration = &minutes
	return b
}

// Inactive marks the course inactive.
func (b *CourseRequestBuilder) Inactive() *CourseRequestBuilder {
	b.req.IsActive = Ptr(false)
	return b
}

// CreatedBy sets the owning user.
func (b *CourseRequestBuilder) CreatedBy(userID string) *CourseRequestBuilder {
	b.req.CreatedBy = &userID
	return b
}

// Build returns the request.
func (b *CourseRequestBuilder) Build() model.CreateCourseRequest {
	return b.req
}

// BuildValidated returns the request after Validate has normalized it.
// It panics on invalid input, which only happens when a test misconfigures the builder.
func (b *CourseRequestBuilder) BuildValidated() *model.CreateCourseRequest {
	req := b.req
	if err := req.Validate(); err != nil {
		panic(err)
	}
	return &req
}
