package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresSecret(t *testing.T) {
	_, err := New(context.Background(), "client", "", "http://localhost/cb")
	assert.Error(t, err)
}

func TestNewUsesDiscovery(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"issuer":                 srv.URL,
			"authorization_endpoint": srv.URL + "/o/oauth2/v2/auth",
			"token_endpoint":         srv.URL + "/token",
			"jwks_uri":               srv.URL + "/certs",
		})
	}))
	defer srv.Close()

	prev := issuer
	issuer = srv.URL
	defer func() { issuer = prev }()

	p, err := New(context.Background(), "client", "secret", "http://localhost/cb")
	require.NoError(t, err)
	assert.Equal(t, "google", p.Name())
	assert.Contains(t, p.AuthCodeURL("s", "v"), srv.URL+"/o/oauth2/v2/auth?")
}
