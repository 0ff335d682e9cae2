package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digieduhack/aula-api/config"
	"github.com/digieduhack/aula-api/internal/adapters/localidp"
	apperrors "github.com/digieduhack/aula-api/internal/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildIdentityProvider_Mock(t *testing.T) {
	ctx := context.Background()
	prov, err := BuildIdentityProvider(ctx, IdentityConfig{
		Auth: config.AuthConfig{
			Mode:               config.AuthModeMock,
			IdentitySigningKey: testSessionKey,
			DevAuth:            config.DevAuthConfig{Accounts: []string{"ana@alumno.buap.mx:secret1", "broken"}},
		},
		Logger: discardLogger(),
	})
	require.NoError(t, err)
	assert.IsType(t, &localidp.Provider{}, prov)

	token, err := prov.SignIn(ctx, "ana@alumno.buap.mx", "secret1")
	require.NoError(t, err)
	id, err := prov.VerifyIdentityToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "ana@alumno.buap.mx", id.Email)

	_, err = prov.SignIn(ctx, "ana@alumno.buap.mx", "wrong")
	assert.True(t, apperrors.IsInvalidCredentials(err))
}

func TestBuildIdentityProvider_Errors(t *testing.T) {
	discovery := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(discovery.Close)

	tests := []struct {
		name string
		auth config.AuthConfig
	}{
		{
			name: "password without database",
			auth: config.AuthConfig{Mode: config.AuthModePassword, IdentitySigningKey: testSessionKey},
		},
		{
			name: "mock with short signing key",
			auth: config.AuthConfig{
				Mode:               config.AuthModeMock,
				IdentitySigningKey: "short",
				DevAuth:            config.DevAuthConfig{Accounts: []string{"a@b.c:pw"}},
			},
		},
		{
			name: "oidc discovery unavailable",
			auth: config.AuthConfig{
				Mode: config.AuthModeOIDC,
				OIDC: config.OIDCConfig{ClientID: "aula-web", DiscoveryURL: discovery.URL},
			},
		},
		{
			name: "unknown mode",
			auth: config.AuthConfig{Mode: "ldap"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prov, err := BuildIdentityProvider(context.Background(), IdentityConfig{
				Auth:       tt.auth,
				HTTPClient: discovery.Client(),
				Logger:     discardLogger(),
			})
			require.Error(t, err)
			assert.Nil(t, prov)
		})
	}
}
