package httpx

import (
	"net/http"

	"github.com/digieduhack/aula-api/internal/domain/model"
	"github.com/digieduhack/aula-api/internal/service"
)

// CourseHandlers provides HTTP handlers for the course catalog.
type CourseHandlers struct {
	Svc *service.CourseService
}

// List handles GET /api/v3/courses?limit=N.
func (h *CourseHandlers) List(w http.ResponseWriter, r *http.Request) {
	courses, err := h.Svc.ListActive(r.Context(), parseIntQuery(r, "limit", service.DefaultCourseListLimit))
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(courses))
}

// Create handles POST /api/v3/courses.
func (h *CourseHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCourseRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	c, err := h.Svc.Create(r.Context(), PrincipalFromContext(r.Context()), &req)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, c)
}

// Get handles GET /api/v3/courses/{id}.
func (h *CourseHandlers) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.Svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, c)
}

// Update handles PATCH /api/v3/courses/{id}.
func (h *CourseHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateCourseRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	c, err := h.Svc.Update(r.Context(), PrincipalFromContext(r.Context()), r.PathValue("id"), req)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, c)
}

// ClaimOrphans handles POST /api/v3/courses/orphans/claim.
func (h *CourseHandlers) ClaimOrphans(w http.ResponseWriter, r *http.Request) {
	n, err := h.Svc.ClaimOrphans(r.Context(), PrincipalFromContext(r.Context()))
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]int64{"claimed": n})
}

// nonNil keeps empty lists serialized as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
