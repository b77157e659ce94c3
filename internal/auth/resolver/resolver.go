package resolver

import (
	"context"

	"auth-gateway/internal/auth"
)

// Resolver determines which account an external identity belongs to.
// It is the only place where identity-to-account mapping lives.
type Resolver interface {
	Resolve(
		ctx context.Context,
		identity *auth.Identity,
	) (*auth.Account, error)
}
