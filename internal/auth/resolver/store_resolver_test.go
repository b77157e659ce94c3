package resolver

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"auth-gateway/internal/auth"
	"auth-gateway/internal/auth/accounts"
	"auth-gateway/internal/db"
	"auth-gateway/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAccountStore struct {
	findByIdentity func(ctx context.Context, provider, providerUserID string) (*auth.Account, error)
	create         func(ctx context.Context, account *auth.Account) error
}

func (m *mockAccountStore) FindByID(ctx context.Context, id string) (*auth.Account, error) {
	return nil, auth.ErrAccountNotFound
}

func (m *mockAccountStore) FindByUsername(ctx context.Context, username string) (*auth.Account, error) {
	return nil, auth.ErrAccountNotFound
}

func (m *mockAccountStore) FindByIdentity(ctx context.Context, provider, providerUserID string) (*auth.Account, error) {
	return m.findByIdentity(ctx, provider, providerUserID)
}

func (m *mockAccountStore) Create(ctx context.Context, account *auth.Account) error {
	return m.create(ctx, account)
}

func (m *mockAccountStore) List(ctx context.Context) ([]auth.Account, error) {
	return nil, nil
}

func newSQLiteStore(t *testing.T) *accounts.SQLStore {
	t.Helper()
	database, err := db.Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "resolver.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return accounts.NewSQLStore(database)
}

func fbIdentity(id string) *auth.Identity {
	return &auth.Identity{
		Provider:       "facebook",
		ProviderUserID: id,
		DisplayName:    "Grace",
		Token:          "tok-" + id,
	}
}

func TestResolveCreatesThenFinds(t *testing.T) {
	logger.SetOutput(io.Discard)
	store := newSQLiteStore(t)
	r := NewStoreResolver(store, []string{"student"})
	ctx := context.Background()

	first, err := r.Resolve(ctx, fbIdentity("fb-1"))
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	assert.Empty(t, first.Username)
	assert.Equal(t, []string{"student"}, first.Roles)
	assert.Equal(t, "Grace", first.External.DisplayName)

	again, err := r.Resolve(ctx, fbIdentity("fb-1"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	other, err := r.Resolve(ctx, fbIdentity("fb-2"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestResolveSameIdentityOnDifferentProviders(t *testing.T) {
	logger.SetOutput(io.Discard)
	r := NewStoreResolver(newSQLiteStore(t), nil)
	ctx := context.Background()

	fb, err := r.Resolve(ctx, &auth.Identity{Provider: "facebook", ProviderUserID: "42"})
	require.NoError(t, err)
	g, err := r.Resolve(ctx, &auth.Identity{Provider: "google", ProviderUserID: "42"})
	require.NoError(t, err)
	assert.NotEqual(t, fb.ID, g.ID)
}

func TestResolveConcurrentFirstLogin(t *testing.T) {
	logger.SetOutput(io.Discard)
	r := NewStoreResolver(newSQLiteStore(t), nil)
	ctx := context.Background()

	const n = 6
	ids := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			acct, err := r.Resolve(ctx, fbIdentity("fb-race"))
			if err != nil {
				t.Errorf("resolve: %v", err)
				return
			}
			ids[i] = acct.ID
		}(i)
	}
	wg.Wait()

	for _, id := range ids[1:] {
		assert.Equal(t, ids[0], id)
	}
}

func TestResolveRetriesLookupAfterConflict(t *testing.T) {
	winner := &auth.Account{ID: "acct-winner"}
	lookups := 0
	store := &mockAccountStore{
		findByIdentity: func(ctx context.Context, provider, providerUserID string) (*auth.Account, error) {
			lookups++
			if lookups == 1 {
				return nil, auth.ErrAccountNotFound
			}
			return winner, nil
		},
		create: func(ctx context.Context, account *auth.Account) error {
			return auth.ErrIdentityTaken
		},
	}

	acct, err := NewStoreResolver(store, nil).Resolve(context.Background(), fbIdentity("fb-1"))
	require.NoError(t, err)
	assert.Equal(t, "acct-winner", acct.ID)
	assert.Equal(t, 2, lookups)
}

func TestResolveStoreFailures(t *testing.T) {
	boom := errors.New("connection refused")

	store := &mockAccountStore{
		findByIdentity: func(ctx context.Context, provider, providerUserID string) (*auth.Account, error) {
			return nil, boom
		},
	}
	_, err := NewStoreResolver(store, nil).Resolve(context.Background(), fbIdentity("fb-1"))
	assert.True(t, auth.IsInfrastructure(err))
	assert.ErrorIs(t, err, boom)

	store = &mockAccountStore{
		findByIdentity: func(ctx context.Context, provider, providerUserID string) (*auth.Account, error) {
			return nil, auth.ErrAccountNotFound
		},
		create: func(ctx context.Context, account *auth.Account) error {
			return boom
		},
	}
	_, err = NewStoreResolver(store, nil).Resolve(context.Background(), fbIdentity("fb-1"))
	assert.True(t, auth.IsInfrastructure(err))

	_, err = NewStoreResolver(store, nil).Resolve(context.Background(), &auth.Identity{Provider: "facebook"})
	assert.Error(t, err)
}
