package google

import (
	"context"
	"errors"

	"auth-gateway/internal/auth/provider"
)

const providerName = "google"

var issuer = "https://accounts.google.com"

// New builds the Google provider from OIDC discovery. Google issues a
// confidential client, so the secret is required.
func New(
	ctx context.Context,
	clientID string,
	clientSecret string,
	redirectURL string,
) (*provider.OIDC, error) {

	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("google oauth config missing required fields")
	}

	return provider.NewOIDC(ctx, provider.OIDCConfig{
		Name:         providerName,
		Issuer:       issuer,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
	})
}
