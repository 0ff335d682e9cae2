package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/digieduhack/aula-api/internal/domain/auth"
	"github.com/digieduhack/aula-api/internal/mocks"
	authmocks "github.com/digieduhack/aula-api/internal/mocks/auth"
	"github.com/digieduhack/aula-api/internal/service"
	"github.com/digieduhack/aula-api/internal/session"
)

const (
	testCookieName = "session"
	adminEmail     = "ana@alumno.buap.mx"
	studentEmail   = "bo@gmail.com"
	testPassword   = "secret1"
)

type testServer struct {
	handler      http.Handler
	idp          *authmocks.FakeIdentityProvider
	store        *authmocks.MemorySessionStore
	courses      *mocks.MockCourseRepository
	profiles     *mocks.MockProfileRepository
	sections     *mocks.MockSectionRepository
	enrollments  *mocks.MockEnrollmentRepository
	certificates *mocks.MockCertificateRepository
	paths        *mocks.MockLearningPathRepository
	auth         *service.AuthService
}

type testServerOptions struct {
	FrontendDir string
}

func newTestServer(t *testing.T, opts ...testServerOptions) *testServer {
	t.Helper()
	ctrl := gomock.NewController(t)

	idp := authmocks.NewFakeIdentityProvider()
	idp.AddAccount(adminEmail, testPassword)
	idp.AddAccount(studentEmail, testPassword)
	store := authmocks.NewMemorySessionStore()

	codec, err := session.NewCodec([]byte("0123456789abcdef0123456789abcdef"), nil)
	require.NoError(t, err)
	policy := domainauth.NewAdminPolicy("alumno.buap.mx")
	issuer, err := session.NewIssuer(session.IssuerOptions{Provider: idp, Store: store, Codec: codec})
	require.NoError(t, err)
	verifier, err := session.NewVerifier(session.VerifierOptions{
		Store:    store,
		Codec:    codec,
		Policy:   policy,
		CacheTTL: -1,
	})
	require.NoError(t, err)

	ts := &testServer{
		idp:          idp,
		store:        store,
		courses:      mocks.NewMockCourseRepository(ctrl),
		profiles:     mocks.NewMockProfileRepository(ctrl),
		sections:     mocks.NewMockSectionRepository(ctrl),
		enrollments:  mocks.NewMockEnrollmentRepository(ctrl),
		certificates: mocks.NewMockCertificateRepository(ctrl),
		paths:        mocks.NewMockLearningPathRepository(ctrl),
	}
	ts.auth = service.NewAuthService(service.AuthServiceOptions{
		Provider: idp,
		Sessions: service.AuthSessions{Issuer: issuer, Verifier: verifier},
		Profiles: ts.profiles,
		Policy:   policy,
	})

	var frontend string
	if len(opts) > 0 {
		frontend = opts[0].FrontendDir
	}
	ts.handler = NewRouter(RouterServices{
		Auth:     ts.auth,
		Courses:  service.NewCourseService(service.CourseServiceOptions{Repo: ts.courses}),
		Sections: service.NewSectionService(service.SectionServiceOptions{Sections: ts.sections, Courses: ts.courses}),
		Enrollments: service.NewEnrollmentService(service.EnrollmentServiceOptions{
			Enrollments: ts.enrollments,
			Courses:     ts.courses,
		}),
		Profiles: service.NewProfileService(service.ProfileServiceOptions{Repo: ts.profiles}),
		Certificates: service.NewCertificateService(service.CertificateServiceOptions{
			Certificates: ts.certificates,
			Enrollments:  ts.enrollments,
			Courses:      ts.courses,
		}),
		Dashboard: service.NewDashboardService(service.DashboardServiceOptions{
			Profiles:     ts.profiles,
			Enrollments:  ts.enrollments,
			Certificates: ts.certificates,
		}),
		Paths:       service.NewLearningPathService(service.LearningPathServiceOptions{Repo: ts.paths}),
		Cookies:     &SessionCookies{Name: testCookieName},
		FrontendDir: frontend,
	})
	return ts
}

// do sends a request with an optional JSON body and session cookie.
func (ts *testServer) do(t *testing.T, method, target string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

// signIn logs in and returns the session cookie.
func (ts *testServer) signIn(t *testing.T, email string) *http.Cookie {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/v3/auth/login", map[string]string{"email": email, "password": testPassword}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	c := sessionCookie(rec)
	require.NotNil(t, c)
	return c
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookieName {
			return c
		}
	}
	return nil
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
