package resolver

import (
	"context"
	"errors"

	"auth-gateway/internal/auth"
	"auth-gateway/internal/logger"
)

// StoreResolver maps an identity to the account linked to
// (provider, provider user id), creating a federation-only account on
// first sight. Accounts are never linked by email.
type StoreResolver struct {
	accounts     auth.AccountStore
	defaultRoles []string
}

func NewStoreResolver(accounts auth.AccountStore, defaultRoles []string) *StoreResolver {
	return &StoreResolver{
		accounts:     accounts,
		defaultRoles: append([]string(nil), defaultRoles...),
	}
}

func (r *StoreResolver) Resolve(
	ctx context.Context,
	identity *auth.Identity,
) (*auth.Account, error) {

	if identity == nil || identity.Provider == "" || identity.ProviderUserID == "" {
		return nil, errors.New("resolver: incomplete identity")
	}

	// 1. Existing link
	acct, err := r.accounts.FindByIdentity(ctx, identity.Provider, identity.ProviderUserID)
	if err == nil {
		return acct, nil
	}
	if !errors.Is(err, auth.ErrAccountNotFound) {
		return nil, auth.Infra("find identity", err)
	}

	// 2. First login with this identity
	acct = &auth.Account{
		Roles: append([]string(nil), r.defaultRoles...),
		External: &auth.ExternalIdentity{
			Provider:       identity.Provider,
			ProviderUserID: identity.ProviderUserID,
			Token:          identity.Token,
			DisplayName:    identity.DisplayName,
		},
	}
	err = r.accounts.Create(ctx, acct)
	if err == nil {
		logger.Info("federated account created", map[string]any{
			"provider":   identity.Provider,
			"account_id": acct.ID,
		})
		return acct, nil
	}
	if !errors.Is(err, auth.ErrIdentityTaken) {
		return nil, auth.Infra("create federated account", err)
	}

	// 3. A concurrent callback for the same identity won the insert
	acct, err = r.accounts.FindByIdentity(ctx, identity.Provider, identity.ProviderUserID)
	if err != nil {
		return nil, auth.Infra("find identity after conflict", err)
	}
	return acct, nil
}

var _ Resolver = (*StoreResolver)(nil)
