package federation

import (
	"context"
	"errors"

	"auth-gateway/internal/auth"
	"auth-gateway/internal/auth/provider"
	"auth-gateway/internal/auth/resolver"
)

// Federated exposes one OAuth provider as an auth.Strategy: the proof is
// an authorization code plus its PKCE verifier.
func Federated(p provider.OAuthProvider, r resolver.Resolver) auth.Strategy {
	return federatedStrategy{provider: p, resolver: r}
}

type federatedStrategy struct {
	provider provider.OAuthProvider
	resolver resolver.Resolver
}

func (s federatedStrategy) Name() string { return s.provider.Name() }

func (s federatedStrategy) Authenticate(ctx context.Context, proof auth.Proof) (*auth.Account, error) {
	if proof.Code == "" {
		return nil, &auth.FederationError{Reason: "missing authorization code"}
	}

	identity, err := s.provider.ExchangeCode(ctx, proof.Code, proof.CodeVerifier)
	if err != nil {
		return nil, &auth.FederationError{Reason: "code exchange failed", Err: err}
	}
	if identity == nil || identity.ProviderUserID == "" {
		return nil, &auth.FederationError{Reason: "provider returned no identity"}
	}
	// the registry name wins over whatever the provider reports
	identity.Provider = s.provider.Name()

	acct, err := s.resolver.Resolve(ctx, identity)
	if err != nil {
		var fe *auth.FederationError
		if errors.As(err, &fe) {
			return nil, err
		}
		return nil, auth.Infra("resolve identity", err)
	}
	return acct, nil
}
