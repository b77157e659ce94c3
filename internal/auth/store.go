package auth

import "context"

// AccountStore is the narrow contract the auth core needs from the
// account database. Implementations own uniqueness enforcement.
type AccountStore interface {
	FindByID(ctx context.Context, id string) (*Account, error)

	// FindByUsername matches case-insensitively.
	FindByUsername(ctx context.Context, username string) (*Account, error)

	FindByIdentity(ctx context.Context, provider, providerUserID string) (*Account, error)

	// Create persists a new account and its external identity, if any.
	// It returns ErrUsernameTaken or ErrIdentityTaken when a uniqueness
	// constraint rejects the insert.
	Create(ctx context.Context, account *Account) error

	List(ctx context.Context) ([]Account, error)
}
