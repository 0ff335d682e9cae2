package model

import (
	"strings"
	"time"

	apperrors "github.com/digieduhack/aula-api/internal/errors"
)

const maxPathTitleLen = 200

// Learning path errors.
var (
	ErrPathTitleRequired = apperrors.ValidationReason("title", "TITLE_REQUIRED", "Title is required.")
	ErrPathTitleTooLong  = apperrors.ValidationReason("title", "TITLE_TOO_LONG", "Title must be at most 200 characters.")
	ErrInvalidPathStatus = apperrors.ValidationReason("status", "INVALID_STATUS",
		"Status must be active, completed or paused.")
	ErrLearningPathNotFound = &apperrors.AppError{
		Code: apperrors.ErrCodeNotFound, Reason: "LEARNING_PATH_NOT_FOUND", Message: "Learning path not found.",
	}
)

// PathStatus is the lifecycle state of a learning path.
type PathStatus string

// Learning path states.
const (
	PathActive    PathStatus = "active"
	PathCompleted PathStatus = "completed"
	PathPaused    PathStatus = "paused"
)

// ParsePathStatus accepts a status name in any case.
func ParsePathStatus(s string) (PathStatus, bool) {
	switch st := PathStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case PathActive, PathCompleted, PathPaused:
		return st, true
	}
	return "", false
}

// LearningPath is a personal study plan owned by one user.
type LearningPath struct {
	ID          string     `json:"id"          db:"id"`
	UserID      string     `json:"userId"      db:"user_id"`
	Title       string     `json:"title"       db:"title"`
	Description string     `json:"description" db:"description"`
	Status      PathStatus `json:"status"      db:"status"`
	PathData    PathData   `json:"pathData"    db:"path_data"`
	CreatedAt   time.Time  `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt"   db:"updated_at"`
}

// PathData is the free-form plan stored as JSON alongside the path.
type PathData struct {
	Difficulty        string   `json:"difficulty,omitempty"`
	EstimatedDuration int      `json:"estimatedDuration,omitempty"` // weeks
	TargetSkills      []string `json:"targetSkills,omitempty"`
	Roadmap           Roadmap  `json:"roadmap"`
}

// Roadmap splits a path into weeks of resources.
type Roadmap struct {
	Weeks []RoadmapWeek `json:"weeks"`
}

// RoadmapWeek groups resources. A completed week counts all of its resources as done.
type RoadmapWeek struct {
	Title     string            `json:"title,omitempty"`
	Completed bool              `json:"completed,omitempty"`
	Resources []RoadmapResource `json:"resources"`
}

// RoadmapResource is one item to study.
type RoadmapResource struct {
	Title     string `json:"title"`
	URL       string `json:"url,omitempty"`
	Type      string `json:"type,omitempty"`
	Completed bool   `json:"completed,omitempty"`
}

// PathProgress counts finished resources.
type PathProgress struct {
	Done    int `json:"done"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

// Progress counts resources across all weeks. Weeks without resources are skipped,
// and Percent rounds to the nearest whole number.
func (r Roadmap) Progress() PathProgress {
	var p PathProgress
	for _, w := range r.Weeks {
		p.Total += len(w.Resources)
		for _, res := range w.Resources {
			if res.Completed || w.Completed {
				p.Done++
			}
		}
	}
	if p.Total > 0 {
		p.Percent = (p.Done*100 + p.Total/2) / p.Total
	}
	return p
}

// LearningPathSummary is a path with its computed progress.
type LearningPathSummary struct {
	*LearningPath
	Progress PathProgress `json:"progress"`
}

// CreateLearningPathRequest represents parameters to create a LearningPath.
// UserID is set from the caller's session.
type CreateLearningPathRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      PathStatus `json:"status,omitempty"`
	PathData    PathData   `json:"pathData"`
	UserID      string     `json:"-"`
}

// Validate trims text fields, defaults the status to active and checks the title.
func (r *CreateLearningPathRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return ErrPathTitleRequired
	}
	if len(r.Title) > maxPathTitleLen {
		return ErrPathTitleTooLong
	}
	r.Description = strings.TrimSpace(r.Description)
	if r.Status == "" {
		r.Status = PathActive
	} else {
		st, ok := ParsePathStatus(string(r.Status))
		if !ok {
			return ErrInvalidPathStatus
		}
		r.Status = st
	}
	if r.PathData.Roadmap.Weeks == nil {
		r.PathData.Roadmap.Weeks = []RoadmapWeek{}
	}
	for i := range r.PathData.Roadmap.Weeks {
		if r.PathData.Roadmap.Weeks[i].Resources == nil {
			r.PathData.Roadmap.Weeks[i].Resources = []RoadmapResource{}
		}
	}
	return nil
}
