package httpx

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	apperrors "github.com/digieduhack/aula-api/internal/errors"
)

// NotFound answers a JSON 404.
func NotFound(w http.ResponseWriter, r *http.Request) {
	WriteAppError(w, r, apperrors.NotFound("Not found."))
}

// Frontend serves the prebuilt frontend from dir. Paths without a file extension
// that do not exist fall back to "<path>.html" and then index.html for client-side routing.
// An empty dir answers a JSON 404.
func Frontend(dir string) http.Handler {
	notFound := http.HandlerFunc(NotFound)
	if dir == "" {
		return notFound
	}

	root := os.DirFS(dir)
	files := http.FileServerFS(root)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if name == "" {
			name = "."
		}
		if _, err := fs.Stat(root, name); err != nil {
			if !errors.Is(err, fs.ErrNotExist) || path.Ext(name) != "" {
				notFound(w, r)
				return
			}
			if _, err := fs.Stat(root, name+".html"); err == nil {
				http.ServeFileFS(w, r, root, name+".html")
				return
			}
			http.ServeFileFS(w, r, root, "index.html")
			return
		}
		files.ServeHTTP(w, r)
	})
}
