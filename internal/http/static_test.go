package httpx

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFrontend(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"index.html":        "<html>app</html>",
		"auth/login.html":   "<html>login</html>",
		"assets/app.js":     "console.log('aula')",
		"assets/styles.css": "body{}",
	}
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	return dir
}

func TestFrontend(t *testing.T) {
	h := Frontend(writeFrontend(t))

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{name: "root", path: "/", wantStatus: http.StatusOK, wantBody: "<html>app</html>"},
		{name: "asset", path: "/assets/app.js", wantStatus: http.StatusOK, wantBody: "console.log('aula')"},
		{name: "html fallback", path: "/auth/login", wantStatus: http.StatusOK, wantBody: "<html>login</html>"},
		{name: "client route", path: "/courses/c1", wantStatus: http.StatusOK, wantBody: "<html>app</html>"},
		{name: "missing asset", path: "/assets/missing.js", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestFrontend_NoDirectory(t *testing.T) {
	rec := httptest.NewRecorder()
	Frontend("").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not found.","code":"NOT_FOUND"}`, rec.Body.String())
}
