package session

import (
	"context"
	"testing"

	"auth-gateway/internal/auth"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStoreTest(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return NewRedisStore(rdb), mr
}

type stubAccounts map[string]*auth.Account

func (s stubAccounts) FindByID(ctx context.Context, id string) (*auth.Account, error) {
	if a, ok := s[id]; ok {
		return a, nil
	}
	return nil, auth.ErrAccountNotFound
}

func (s stubAccounts) FindByUsername(ctx context.Context, username string) (*auth.Account, error) {
	return nil, auth.ErrAccountNotFound
}

func (s stubAccounts) FindByIdentity(ctx context.Context, provider, providerUserID string) (*auth.Account, error) {
	return nil, auth.ErrAccountNotFound
}

func (s stubAccounts) Create(ctx context.Context, account *auth.Account) error { return nil }

func (s stubAccounts) List(ctx context.Context) ([]auth.Account, error) { return nil, nil }

func mustID(t *testing.T) string {
	t.Helper()
	id, err := GenerateID()
	if err != nil {
		t.Fatalf("generate id: %v", err)
	}
	return id
}
