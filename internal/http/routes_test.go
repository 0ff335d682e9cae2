package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/digieduhack/aula-api/internal/domain/model"
	apperrors "github.com/digieduhack/aula-api/internal/errors"
	"github.com/digieduhack/aula-api/internal/testutil"
)

func TestRoutes_GateOnJSONRoutes(t *testing.T) {
	ts := newTestServer(t)
	student := ts.signIn(t, studentEmail)

	tests := []struct {
		name     string
		method   string
		target   string
		cookie   *http.Cookie
		wantCode int
		wantErr  apperrors.ErrorCode
	}{
		{"anonymous dashboard", http.MethodGet, "/api/v3/dashboard", nil, http.StatusUnauthorized, apperrors.ErrCodeSessionRequired},
		{"anonymous enrollments", http.MethodGet, "/api/v3/enrollments", nil, http.StatusUnauthorized, apperrors.ErrCodeSessionRequired},
		{"anonymous course create", http.MethodPost, "/api/v3/courses", nil, http.StatusUnauthorized, apperrors.ErrCodeSessionRequired},
		{"student course create", http.MethodPost, "/api/v3/courses", student, http.StatusForbidden, apperrors.ErrCodeForbidden},
		{"student claim orphans", http.MethodPost, "/api/v3/courses/orphans/claim", student, http.StatusForbidden, apperrors.ErrCodeForbidden},
		{"student delete section", http.MethodDelete, "/api/v3/sections/s1", student, http.StatusForbidden, apperrors.ErrCodeForbidden},
		{"student issue certificate", http.MethodPost, "/api/v3/certificates", student, http.StatusForbidden, apperrors.ErrCodeForbidden},
		{"anonymous learning paths", http.MethodGet, "/api/v3/learning-paths", nil, http.StatusUnauthorized, apperrors.ErrCodeSessionRequired},
		{"anonymous learning path create", http.MethodPost, "/api/v3/learning-paths", nil, http.StatusUnauthorized, apperrors.ErrCodeSessionRequired},
		{
			"tampered cookie", http.MethodGet, "/api/v3/profile",
			&http.Cookie{Name: testCookieName, Value: student.Value + "x"},
			http.StatusUnauthorized, apperrors.ErrCodeSessionInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, tt.method, tt.target, map[string]string{}, tt.cookie)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			assert.Equal(t, string(tt.wantErr), decodeBody[ErrorBody](t, rec).Code)
		})
	}
}

func TestRoutes_CourseCatalog(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.signIn(t, adminEmail)
	now := testutil.TestTime()

	t.Run("public list clamps limit", func(t *testing.T) {
		ts.courses.EXPECT().ListActive(gomock.Any(), 100).Return(nil, nil)
		rec := ts.do(t, http.MethodGet, "/api/v3/courses?limit=5000", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("admin creates course owned by caller", func(t *testing.T) {
		ts.courses.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req *model.CreateCourseRequest) (*model.Course, error) {
				require.NotNil(t, req.CreatedBy)
				return &model.Course{
					ID:              "c1",
					Title:           req.Title,
					Category:        req.Category,
					DifficultyLevel: req.DifficultyLevel,
					IsActive:        true,
					CreatedAt:       now,
					UpdatedAt:       now,
					CreatedBy:       req.CreatedBy,
				}, nil
			})

		rec := ts.do(t, http.MethodPost, "/api/v3/courses", map[string]any{
			"title":           "Go 101",
			"category":        "programming",
			"difficultyLevel": "Beginner",
		}, admin)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		c := decodeBody[model.Course](t, rec)
		assert.Equal(t, model.DifficultyBeginner, c.DifficultyLevel)
		assert.NotNil(t, c.CreatedBy)
	})

	t.Run("invalid difficulty never reaches the store", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v3/courses", map[string]any{
			"title":           "Go 101",
			"category":        "programming",
			"difficultyLevel": "expert",
		}, admin)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_DIFFICULTY", decodeBody[ErrorBody](t, rec).Reason)
	})

	t.Run("missing course", func(t *testing.T) {
		ts.courses.EXPECT().GetByID(gomock.Any(), "nope").Return(nil, model.ErrCourseNotFound)
		rec := ts.do(t, http.MethodGet, "/api/v3/courses/nope", nil, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("claim orphans", func(t *testing.T) {
		ts.courses.EXPECT().ClaimOrphans(gomock.Any(), gomock.Any()).Return(int64(3), nil)
		rec := ts.do(t, http.MethodPost, "/api/v3/courses/orphans/claim", nil, admin)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"claimed":3}`, rec.Body.String())
	})
}

func TestRoutes_Enrollment(t *testing.T) {
	ts := newTestServer(t)
	student := ts.signIn(t, studentEmail)
	course := &model.Course{ID: "c1", Title: "Go 101", IsActive: true}

	ts.courses.EXPECT().GetByID(gomock.Any(), "c1").Return(course, nil).Times(2)
	first := ts.enrollments.EXPECT().Create(gomock.Any(), gomock.Any(), "c1").
		Return(&model.Enrollment{ID: "e1", CourseID: "c1"}, nil)
	ts.enrollments.EXPECT().Create(gomock.Any(), gomock.Any(), "c1").
		Return(nil, model.ErrAlreadyEnrolled).After(first)

	rec := ts.do(t, http.MethodPost, "/api/v3/courses/c1/enroll", nil, student)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/api/v3/courses/c1/enroll", nil, student)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_ENROLLED", decodeBody[ErrorBody](t, rec).Reason)
}

func TestRoutes_SectionDelete(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.signIn(t, adminEmail)

	ts.sections.EXPECT().Delete(gomock.Any(), "s1").Return(true, nil)
	ts.sections.EXPECT().Delete(gomock.Any(), "s2").Return(false, nil)

	rec := ts.do(t, http.MethodDelete, "/api/v3/sections/s1", nil, admin)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/v3/sections/s2", nil, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoutes_Dashboard(t *testing.T) {
	ts := newTestServer(t)
	student := ts.signIn(t, studentEmail)

	ts.profiles.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(nil, model.ErrProfileNotFound)
	ts.enrollments.EXPECT().ListByUser(gomock.Any(), gomock.Any()).Return(nil, nil)
	ts.certificates.EXPECT().ListByUser(gomock.Any(), gomock.Any()).Return(nil, nil)

	rec := ts.do(t, http.MethodGet, "/api/v3/dashboard", nil, student)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody[map[string]any](t, rec)
	assert.Nil(t, body["profile"])
	assert.Equal(t, []any{}, body["enrollments"])
	assert.Equal(t, []any{}, body["certificates"])
}

func TestRoutes_LearningPaths(t *testing.T) {
	ts := newTestServer(t)
	student := ts.signIn(t, studentEmail)

	var owner string
	ts.paths.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req *model.CreateLearningPathRequest) (*model.LearningPath, error) {
			owner = req.UserID
			return &model.LearningPath{ID: "p1", UserID: req.UserID, Title: req.Title, Status: req.Status, PathData: req.PathData}, nil
		})

	rec := ts.do(t, http.MethodPost, "/api/v3/learning-paths", map[string]any{
		"title": "Backend en Go",
		"pathData": map[string]any{
			"roadmap": map[string]any{"weeks": []any{
				map[string]any{"completed": true, "resources": []any{map[string]any{"title": "Tour of Go"}}},
				map[string]any{"resources": []any{map[string]any{"title": "pgx"}}},
			}},
		},
	}, student)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotEmpty(t, owner)
	created := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "active", created["status"])
	assert.Equal(t, map[string]any{"done": 1.0, "total": 2.0, "percent": 50.0}, created["progress"])

	ts.paths.EXPECT().ListByUser(gomock.Any(), owner).Return(nil, nil)
	rec = ts.do(t, http.MethodGet, "/api/v3/learning-paths", nil, student)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	ts.paths.EXPECT().GetByID(gomock.Any(), "p1").Return(&model.LearningPath{ID: "p1", UserID: owner}, nil)
	rec = ts.do(t, http.MethodGet, "/api/v3/learning-paths/p1", nil, student)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	ts.paths.EXPECT().GetByID(gomock.Any(), "p2").Return(&model.LearningPath{ID: "p2", UserID: "someone-else"}, nil)
	rec = ts.do(t, http.MethodGet, "/api/v3/learning-paths/p2", nil, student)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "LEARNING_PATH_NOT_FOUND", decodeBody[ErrorBody](t, rec).Reason)

	rec = ts.do(t, http.MethodPost, "/api/v3/learning-paths", map[string]any{"title": " "}, student)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "TITLE_REQUIRED", decodeBody[ErrorBody](t, rec).Reason)
}

func TestRoutes_Pages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>home</h1>"), 0o600))
	ts := newTestServer(t, testServerOptions{FrontendDir: dir})
	student := ts.signIn(t, studentEmail)
	admin := ts.signIn(t, adminEmail)

	tests := []struct {
		name     string
		target   string
		cookie   *http.Cookie
		wantCode int
		location string
	}{
		{"public root", "/", nil, http.StatusOK, ""},
		{"public course page", "/courses/c1", nil, http.StatusOK, ""},
		{"anonymous dashboard", "/dashboard?tab=1", nil, http.StatusSeeOther, "/auth/login?next=%2Fdashboard%3Ftab%3D1"},
		{"student dashboard", "/dashboard", student, http.StatusOK, ""},
		{"anonymous manage", "/manage", nil, http.StatusSeeOther, "/dashboard"},
		{"student manage", "/manage/courses", student, http.StatusSeeOther, "/dashboard"},
		{"admin manage", "/manage/courses", admin, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodGet, tt.target, nil, tt.cookie)
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, rec.Header().Get("Location"))
			}
		})
	}
}

func TestRoutes_UnknownAPIPath(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/api/v3/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(apperrors.ErrCodeNotFound), decodeBody[ErrorBody](t, rec).Code)
}

func TestRoutes_UpstreamTimeout(t *testing.T) {
	ts := newTestServer(t)
	ts.courses.EXPECT().ListActive(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ int) ([]*model.Course, error) {
			<-ctx.Done()
			return nil, apperrors.MapDBError(ctx.Err())
		})
	h := Timeout(10 * time.Millisecond)(ts.handler)

	req, err := http.NewRequest(http.MethodGet, "/api/v3/courses", nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Equal(t, string(apperrors.ErrCodeTimeout), decodeBody[ErrorBody](t, rec).Code)
}
