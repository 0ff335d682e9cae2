// Package httpx provides the HTTP boundary of the aula API: JSON handlers,
// session cookies, route guards and middleware.
package httpx

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/digieduhack/aula-api/internal/authz"
	"github.com/digieduhack/aula-api/internal/observability/metrics"
	"github.com/digieduhack/aula-api/internal/service"
)

// legacyAuthEndpoints are the retired /api/v2/auth names answered with 410.
//
//nolint:gochecknoglobals // read-only
var legacyAuthEndpoints = []string{"login", "register", "session", "logout"}

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth         AuthServiceInterface // Required
	Courses      *service.CourseService
	Sections     *service.SectionService
	Enrollments  *service.EnrollmentService
	Profiles     *service.ProfileService
	Certificates *service.CertificateService
	Dashboard    *service.DashboardService
	Paths        *service.LearningPathService

	Cookies *SessionCookies
	Health  []HealthCheck

	// Optional: request metrics and the scrape endpoint.
	Metrics        *metrics.HTTP
	MetricsHandler http.Handler
	MetricsPath    string

	FrontendDir string
	Logger      *slog.Logger
}

type router struct {
	mux     *http.ServeMux
	guard   *Guard
	metrics *metrics.HTTP
}

// handle registers h under pattern behind the gate for class.
func (rt *router) handle(pattern string, class authz.Class, h http.HandlerFunc) {
	route := pattern
	if _, p, ok := strings.Cut(pattern, " "); ok {
		route = p
	}
	rt.mux.Handle(pattern, instrument(rt.metrics, route, rt.guard.Require(class, h)))
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	if services.Auth == nil {
		panic("auth service is required")
	}
	cookies := services.Cookies
	if cookies == nil {
		cookies = &SessionCookies{}
	}

	rt := &router{
		mux:     http.NewServeMux(),
		guard:   &Guard{Sessions: services.Auth, Cookies: cookies},
		metrics: services.Metrics,
	}

	registerAuthRoutes(rt, &AuthHandlers{Svc: services.Auth, Cookies: cookies, Logger: services.Logger})
	registerCatalogRoutes(rt, services)
	registerLearningRoutes(rt, services)

	health := &HealthHandlers{Checks: services.Health}
	rt.handle("GET /healthz", authz.Public, health.Health)
	rt.handle("HEAD /healthz", authz.Public, health.Health)
	if services.MetricsHandler != nil && services.MetricsPath != "" {
		rt.mux.Handle("GET "+services.MetricsPath, services.MetricsHandler)
	}

	rt.mux.Handle("/api/", instrument(rt.metrics, "/api/", http.HandlerFunc(NotFound)))
	rt.mux.Handle("/", instrument(rt.metrics, "/", rt.guard.Pages(Frontend(services.FrontendDir))))

	return rt.mux
}

func registerAuthRoutes(rt *router, h *AuthHandlers) {
	rt.handle("POST /api/v3/auth/login", authz.Public, h.Login)
	rt.handle("POST /api/v3/auth/register", authz.Public, h.Register)
	rt.handle("GET /api/v3/auth/session", authz.Public, h.Session)
	rt.handle("POST /api/v3/auth/logout", authz.Public, h.Logout)

	for _, name := range legacyAuthEndpoints {
		rt.handle("/api/v2/auth/"+name, authz.Public, Deprecated(name).ServeHTTP)
	}
}

func registerCatalogRoutes(rt *router, s RouterServices) {
	if s.Courses != nil {
		h := &CourseHandlers{Svc: s.Courses}
		rt.handle("GET /api/v3/courses", authz.Public, h.List)
		rt.handle("POST /api/v3/courses", authz.Admin, h.Create)
		rt.handle("GET /api/v3/courses/{id}", authz.Public, h.Get)
		rt.handle("PATCH /api/v3/courses/{id}", authz.Admin, h.Update)
		rt.handle("POST /api/v3/courses/orphans/claim", authz.Admin, h.ClaimOrphans)
	}
	if s.Sections != nil {
		h := &SectionHandlers{Svc: s.Sections}
		rt.handle("GET /api/v3/courses/{id}/sections", authz.Authenticated, h.List)
		rt.handle("POST /api/v3/courses/{id}/sections", authz.Admin, h.Add)
		rt.handle("PATCH /api/v3/sections/{id}", authz.Admin, h.Update)
		rt.handle("DELETE /api/v3/sections/{id}", authz.Admin, h.Delete)
	}
}

func registerLearningRoutes(rt *router, s RouterServices) {
	if s.Enrollments != nil {
		h := &EnrollmentHandlers{Svc: s.Enrollments}
		rt.handle("POST /api/v3/courses/{id}/enroll", authz.Authenticated, h.Enroll)
		rt.handle("GET /api/v3/enrollments", authz.Authenticated, h.List)
	}
	if s.Profiles != nil {
		h := &ProfileHandlers{Svc: s.Profiles}
		rt.handle("GET /api/v3/profile", authz.Authenticated, h.Get)
		rt.handle("PATCH /api/v3/profile", authz.Authenticated, h.Update)
	}
	if s.Certificates != nil {
		h := &CertificateHandlers{Svc: s.Certificates}
		rt.handle("GET /api/v3/certificates", authz.Authenticated, h.List)
		rt.handle("POST /api/v3/certificates", authz.Admin, h.Issue)
	}
	if s.Dashboard != nil {
		h := &DashboardHandlers{Svc: s.Dashboard}
		rt.handle("GET /api/v3/dashboard", authz.Authenticated, h.Get)
	}
	if s.Paths != nil {
		h := &LearningPathHandlers{Svc: s.Paths}
		rt.handle("GET /api/v3/learning-paths", authz.Authenticated, h.List)
		rt.handle("POST /api/v3/learning-paths", authz.Authenticated, h.Create)
		rt.handle("GET /api/v3/learning-paths/{id}", authz.Authenticated, h.Get)
	}
}
