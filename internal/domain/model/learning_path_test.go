package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/digieduhack/aula-api/internal/errors"
)

func TestRoadmap_Progress(t *testing.T) {
	res := func(done ...bool) []RoadmapResource {
		out := make([]RoadmapResource, len(done))
		for i, d := range done {
			out[i] = RoadmapResource{Title: "r", Completed: d}
		}
		return out
	}

	tests := []struct {
		name  string
		weeks []RoadmapWeek
		want  PathProgress
	}{
		{name: "no weeks", want: PathProgress{}},
		{name: "empty weeks are skipped", weeks: []RoadmapWeek{{Completed: true}, {Resources: res(true, false)}}, want: PathProgress{Done: 1, Total: 2, Percent: 50}},
		{name: "completed week counts every resource", weeks: []RoadmapWeek{{Completed: true, Resources: res(false, false)}, {Resources: res(false)}}, want: PathProgress{Done: 2, Total: 3, Percent: 67}},
		{name: "all done", weeks: []RoadmapWeek{{Resources: res(true)}, {Resources: res(true, true)}}, want: PathProgress{Done: 3, Total: 3, Percent: 100}},
		{name: "rounds down below half", weeks: []RoadmapWeek{{Resources: res(true, false, false)}}, want: PathProgress{Done: 1, Total: 3, Percent: 33}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Roadmap{Weeks: tt.weeks}.Progress())
		})
	}
}

func TestCreateLearningPathRequest_Validate(t *testing.T) {
	req := CreateLearningPathRequest{Title: "  Backend en Go ", Description: " APIs "}
	require.NoError(t, req.Validate())
	assert.Equal(t, "Backend en Go", req.Title)
	assert.Equal(t, "APIs", req.Description)
	assert.Equal(t, PathActive, req.Status)
	assert.NotNil(t, req.PathData.Roadmap.Weeks)

	req = CreateLearningPathRequest{Title: "t", Status: "Paused"}
	require.NoError(t, req.Validate())
	assert.Equal(t, PathPaused, req.Status)

	tests := []struct {
		name   string
		req    CreateLearningPathRequest
		reason string
	}{
		{name: "blank title", req: CreateLearningPathRequest{Title: "  "}, reason: "TITLE_REQUIRED"},
		{name: "long title", req: CreateLearningPathRequest{Title: strings.Repeat("a", 201)}, reason: "TITLE_TOO_LONG"},
		{name: "unknown status", req: CreateLearningPathRequest{Title: "t", Status: "archived"}, reason: "INVALID_STATUS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, tt.reason, apperrors.GetReason(err))
		})
	}
}

func TestLearningPathSummary_JSON(t *testing.T) {
	s := LearningPathSummary{
		LearningPath: &LearningPath{ID: "p1", Title: "Go", Status: PathActive},
		Progress:     PathProgress{Done: 1, Total: 2, Percent: 50},
	}
	b, err := json.Marshal(s)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "p1", got["id"])
	assert.Equal(t, "active", got["status"])
	assert.Equal(t, map[string]any{"done": 1.0, "total": 2.0, "percent": 50.0}, got["progress"])
}
