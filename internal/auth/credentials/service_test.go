package credentials

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"auth-gateway/internal/auth"
	"auth-gateway/internal/auth/accounts"
	"auth-gateway/internal/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockAccountStore struct {
	findByUsernameFn func(ctx context.Context, username string) (*auth.Account, error)
	createFn         func(ctx context.Context, account *auth.Account) error
}

func (m *mockAccountStore) FindByID(ctx context.Context, id string) (*auth.Account, error) {
	return nil, auth.ErrAccountNotFound
}

func (m *mockAccountStore) FindByUsername(ctx context.Context, username string) (*auth.Account, error) {
	if m.findByUsernameFn != nil {
		return m.findByUsernameFn(ctx, username)
	}
	return nil, auth.ErrAccountNotFound
}

func (m *mockAccountStore) FindByIdentity(ctx context.Context, provider, providerUserID string) (*auth.Account, error) {
	return nil, auth.ErrAccountNotFound
}

func (m *mockAccountStore) Create(ctx context.Context, account *auth.Account) error {
	if m.createFn != nil {
		return m.createFn(ctx, account)
	}
	return nil
}

func (m *mockAccountStore) List(ctx context.Context) ([]auth.Account, error) {
	return nil, nil
}

func newSQLiteService(t *testing.T) *Service {
	t.Helper()
	database, err := db.Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "accounts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	svc, err := NewService(accounts.NewSQLStore(database), NewBcryptHasher(bcrypt.MinCost), []string{"student"})
	require.NoError(t, err)
	return svc
}

func TestRegisterThenAuthenticate(t *testing.T) {
	svc := newSQLiteService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, Credentials{Username: "Alice", Password: "wonderland"})
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Username)
	assert.Equal(t, []string{"student"}, created.Roles)
	assert.NotEqual(t, "wonderland", created.PasswordHash)

	got, err := svc.Authenticate(ctx, Credentials{Username: "alice", Password: "wonderland"})
	require.NoError(t, err)
	assert.Equal(t, created.Profile(), got.Profile())

	_, err = svc.Register(ctx, Credentials{Username: "ALICE", Password: "wonderland"})
	assert.ErrorIs(t, err, auth.ErrUsernameTaken)
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	svc := newSQLiteService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, Credentials{Username: "bob", Password: "builder1"})
	require.NoError(t, err)

	_, wrongPassword := svc.Authenticate(ctx, Credentials{Username: "bob", Password: "builder2"})
	_, unknownUser := svc.Authenticate(ctx, Credentials{Username: "robert", Password: "builder1"})

	assert.ErrorIs(t, wrongPassword, auth.ErrAuthentication)
	assert.ErrorIs(t, unknownUser, auth.ErrAuthentication)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestAuthenticateFederationOnlyAccount(t *testing.T) {
	store := &mockAccountStore{
		findByUsernameFn: func(ctx context.Context, username string) (*auth.Account, error) {
			return &auth.Account{ID: "a-1", Username: username}, nil
		},
	}
	svc, err := NewService(store, NewBcryptHasher(bcrypt.MinCost), nil)
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), Credentials{Username: "carol", Password: "anything"})
	assert.ErrorIs(t, err, auth.ErrAuthentication)
}

func TestStoreErrorsAreInfrastructure(t *testing.T) {
	boom := errors.New("connection refused")
	store := &mockAccountStore{
		findByUsernameFn: func(ctx context.Context, username string) (*auth.Account, error) {
			return nil, boom
		},
	}
	svc, err := NewService(store, NewBcryptHasher(bcrypt.MinCost), nil)
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), Credentials{Username: "dave", Password: "password1"})
	assert.True(t, auth.IsInfrastructure(err))
	assert.NotErrorIs(t, err, auth.ErrAuthentication)

	_, err = svc.Register(context.Background(), Credentials{Username: "dave", Password: "password1"})
	assert.True(t, auth.IsInfrastructure(err))
}

func TestRegisterLosingRaceMapsToConflict(t *testing.T) {
	store := &mockAccountStore{
		createFn: func(ctx context.Context, account *auth.Account) error {
			return auth.ErrUsernameTaken
		},
	}
	svc, err := NewService(store, NewBcryptHasher(bcrypt.MinCost), nil)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), Credentials{Username: "erin", Password: "password1"})
	assert.ErrorIs(t, err, auth.ErrUsernameTaken)
}

func TestLocalStrategy(t *testing.T) {
	svc := newSQLiteService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, Credentials{Username: "frank", Password: "password1"})
	require.NoError(t, err)

	strategy := svc.Local()
	assert.Equal(t, "local", strategy.Name())

	acct, err := strategy.Authenticate(ctx, auth.Proof{Username: "FRANK", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, "frank", acct.Username)
}
