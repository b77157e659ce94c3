package app

import (
	"context"

	"auth-gateway/internal/auth/provider"
	"auth-gateway/internal/auth/provider/facebook"
	"auth-gateway/internal/auth/provider/google"
	"auth-gateway/internal/auth/provider/keycloak"
	"auth-gateway/internal/config"
	"auth-gateway/internal/logger"
)

// setupProviders registers every provider whose settings are present.
// A configured provider that fails discovery aborts startup.
func setupProviders(ctx context.Context, cfg config.Config) (*provider.Registry, error) {
	var list []provider.OAuthProvider

	if cfg.GoogleEnabled() {
		p, err := google.New(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	if cfg.KeycloakEnabled() {
		p, err := keycloak.New(ctx, keycloak.Config{
			Issuer:        cfg.KeycloakIssuer,
			ClientID:      cfg.KeycloakClientID,
			RedirectURL:   cfg.KeycloakRedirectURL,
			PublicBaseURL: cfg.KeycloakPublicBaseURL,
			Realm:         cfg.KeycloakRealm,
		})
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	if cfg.FacebookEnabled() {
		p, err := facebook.New(cfg.FacebookClientID, cfg.FacebookClientSecret, cfg.FacebookRedirectURL)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	registry := provider.NewRegistry(list...)
	logger.Info("oauth providers registered", map[string]any{
		"providers": registry.Names(),
	})
	return registry, nil
}
