package keycloak

import (
	"context"
	"errors"
	"strings"

	"auth-gateway/internal/auth/provider"
)

const providerName = "keycloak"

type Config struct {
	// Issuer is the realm issuer URL as seen from this service, e.g.
	// http://keycloak:8080/realms/auth-service
	Issuer      string
	ClientID    string
	RedirectURL string

	// PublicBaseURL is the Keycloak root the browser can reach. When set
	// the authorization endpoint is rewritten onto it.
	PublicBaseURL string
	Realm         string
}

// New initializes a Keycloak OIDC provider using discovery.
func New(ctx context.Context, cfg Config) (*provider.OIDC, error) {
	if cfg.Issuer == "" || cfg.ClientID == "" || cfg.RedirectURL == "" {
		return nil, errors.New("keycloak oauth config missing required fields")
	}

	return provider.NewOIDC(ctx, provider.OIDCConfig{
		Name:        providerName,
		Issuer:      cfg.Issuer,
		ClientID:    cfg.ClientID,
		RedirectURL: cfg.RedirectURL,
		AuthURL:     publicAuthURL(cfg.PublicBaseURL, cfg.Realm),
	})
}

func publicAuthURL(base, realm string) string {
	if base == "" || realm == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/realms/" + realm + "/protocol/openid-connect/auth"
}
