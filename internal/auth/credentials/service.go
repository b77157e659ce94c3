package credentials

import (
	"context"
	"errors"

	"auth-gateway/internal/auth"
)

const strategyName = "local"

type Service struct {
	accounts     auth.AccountStore
	hasher       Hasher
	defaultRoles []string

	// compared against when the account does not exist, so both failure
	// paths pay for one hash comparison
	dummyDigest string
}

func NewService(accounts auth.AccountStore, hasher Hasher, defaultRoles []string) (*Service, error) {
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, err
	}
	return &Service{
		accounts:     accounts,
		hasher:       hasher,
		defaultRoles: append([]string(nil), defaultRoles...),
		dummyDigest:  dummy,
	}, nil
}

// Register creates a local account. Uniqueness is left to the store: a
// concurrent signup for the same username loses with auth.ErrUsernameTaken.
func (s *Service) Register(ctx context.Context, creds Credentials) (*auth.Account, error) {
	if err := creds.ValidateSignup(); err != nil {
		return nil, err
	}
	username := auth.NormalizeUsername(creds.Username)

	// fast path; the insert below is still the source of truth
	_, err := s.accounts.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, auth.ErrUsernameTaken
	case !errors.Is(err, auth.ErrAccountNotFound):
		return nil, auth.Infra("find account", err)
	}

	hash, err := s.hasher.Hash(creds.Password)
	if err != nil {
		return nil, auth.Infra("hash password", err)
	}

	acct := &auth.Account{
		Username:     username,
		PasswordHash: hash,
		Roles:        append([]string(nil), s.defaultRoles...),
	}
	if err := s.accounts.Create(ctx, acct); err != nil {
		if errors.Is(err, auth.ErrConflict) {
			return nil, auth.ErrUsernameTaken
		}
		return nil, auth.Infra("create account", err)
	}
	return acct, nil
}

// Authenticate returns the account for a valid username/password pair.
// Unknown users, federation-only accounts and wrong passwords all yield
// auth.ErrAuthentication.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (*auth.Account, error) {
	if err := creds.ValidateLogin(); err != nil {
		return nil, err
	}

	acct, err := s.accounts.FindByUsername(ctx, auth.NormalizeUsername(creds.Username))
	if errors.Is(err, auth.ErrAccountNotFound) {
		s.hasher.Verify(creds.Password, s.dummyDigest)
		return nil, auth.ErrAuthentication
	}
	if err != nil {
		return nil, auth.Infra("find account", err)
	}

	if !acct.HasPassword() {
		s.hasher.Verify(creds.Password, s.dummyDigest)
		return nil, auth.ErrAuthentication
	}
	if !s.hasher.Verify(creds.Password, acct.PasswordHash) {
		return nil, auth.ErrAuthentication
	}
	return acct, nil
}

// Local exposes the service as the username/password auth.Strategy.
func (s *Service) Local() auth.Strategy {
	return localStrategy{s: s}
}

type localStrategy struct {
	s *Service
}

func (l localStrategy) Name() string { return strategyName }

func (l localStrategy) Authenticate(ctx context.Context, proof auth.Proof) (*auth.Account, error) {
	return l.s.Authenticate(ctx, Credentials{Username: proof.Username, Password: proof.Password})
}
