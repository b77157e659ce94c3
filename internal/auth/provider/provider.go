package provider

import (
	"context"

	"auth-gateway/internal/auth"
)

// OAuthProvider defines the contract every external auth provider
// must implement. Implementations return identity facts only and
// must not perform account creation, linking, or session management.
type OAuthProvider interface {
	// Name returns the provider identifier (e.g. "google", "facebook").
	Name() string

	// AuthCodeURL returns the authorization URL. The S256 code challenge
	// is derived from verifier; state is echoed back on the callback.
	AuthCodeURL(state string, verifier string) string

	// ExchangeCode exchanges the authorization code for provider credentials
	// and returns a normalized identity. No auth decisions are made here.
	ExchangeCode(
		ctx context.Context,
		code string,
		verifier string,
	) (*auth.Identity, error)
}
