package auth

import "context"

// Proof carries whatever a strategy needs to authenticate a caller.
// Local strategies read Username and Password; federated strategies read
// Code and CodeVerifier.
type Proof struct {
	Username string
	Password string

	Code         string
	CodeVerifier string
}

// Strategy authenticates a caller and yields an Account. Every variant
// reports failures with the same error taxonomy, so the gateway handles
// them uniformly.
type Strategy interface {
	Name() string
	Authenticate(ctx context.Context, proof Proof) (*Account, error)
}
