package httpx

import (
	"net/http"

	"github.com/digieduhack/aula-api/internal/domain/model"
	"github.com/digieduhack/aula-api/internal/service"
)

// SectionHandlers provides HTTP handlers for course sections.
type SectionHandlers struct {
	Svc *service.SectionService
}

// List handles GET /api/v3/courses/{id}/sections.
func (h *SectionHandlers) List(w http.ResponseWriter, r *http.Request) {
	sections, err := h.Svc.List(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(sections))
}

// Add handles POST /api/v3/courses/{id}/sections.
func (h *SectionHandlers) Add(w http.ResponseWriter, r *http.Request) {
	var req model.CreateSectionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	s, err := h.Svc.Add(r.Context(), PrincipalFromContext(r.Context()), r.PathValue("id"), &req)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, s)
}

// Update handles PATCH /api/v3/sections/{id}.
func (h *SectionHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateSectionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	s, err := h.Svc.Update(r.Context(), PrincipalFromContext(r.Context()), r.PathValue("id"), req)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, s)
}

// Delete handles DELETE /api/v3/sections/{id}.
func (h *SectionHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), PrincipalFromContext(r.Context()), r.PathValue("id")); err != nil {
		WriteAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EnrollmentHandlers provides HTTP handlers for enrollments.
type EnrollmentHandlers struct {
	Svc *service.EnrollmentService
}

// Enroll handles POST /api/v3/courses/{id}/enroll. A repeated enrollment answers 409.
func (h *EnrollmentHandlers) Enroll(w http.ResponseWriter, r *http.Request) {
	e, err := h.Svc.Enroll(r.Context(), PrincipalFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, e)
}

// List handles GET /api/v3/enrollments.
func (h *EnrollmentHandlers) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.Svc.List(r.Context(), PrincipalFromContext(r.Context()))
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(out))
}

// ProfileHandlers provides HTTP handlers for the caller's own profile.
type ProfileHandlers struct {
	Svc *service.ProfileService
}

// Get handles GET /api/v3/profile.
func (h *ProfileHandlers) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Svc.Get(r.Context(), PrincipalFromContext(r.Context()))
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, p)
}

// Update handles PATCH /api/v3/profile.
func (h *ProfileHandlers) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateProfileRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	p, err := h.Svc.Update(r.Context(), PrincipalFromContext(r.Context()), req)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, p)
}

// CertificateHandlers provides HTTP handlers for certificates.
type CertificateHandlers struct {
	Svc *service.CertificateService
}

// List handles GET /api/v3/certificates.
func (h *CertificateHandlers) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.Svc.List(r.Context(), PrincipalFromContext(r.Context()))
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(out))
}

// Issue handles POST /api/v3/certificates.
func (h *CertificateHandlers) Issue(w http.ResponseWriter, r *http.Request) {
	var req model.IssueCertificateRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	c, err := h.Svc.Issue(r.Context(), PrincipalFromContext(r.Context()), &req)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, c)
}

// DashboardHandlers provides the dashboard endpoint.
type DashboardHandlers struct {
	Svc *service.DashboardService
}

// Get handles GET /api/v3/dashboard.
func (h *DashboardHandlers) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.Svc.Get(r.Context(), PrincipalFromContext(r.Context()))
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	d.Enrollments = nonNil(d.Enrollments)
	d.Certificates = nonNil(d.Certificates)
	WriteJSON(w, http.StatusOK, d)
}

// LearningPathHandlers provides HTTP handlers for the caller's learning paths.
type LearningPathHandlers struct {
	Svc *service.LearningPathService
}

// List handles GET /api/v3/learning-paths.
func (h *LearningPathHandlers) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.Svc.List(r.Context(), PrincipalFromContext(r.Context()))
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNil(out))
}

// Create handles POST /api/v3/learning-paths.
func (h *LearningPathHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateLearningPathRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	p, err := h.Svc.Create(r.Context(), PrincipalFromContext(r.Context()), &req)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, p)
}

// Get handles GET /api/v3/learning-paths/{id}.
func (h *LearningPathHandlers) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Svc.Get(r.Context(), PrincipalFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, p)
}
