package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindGetUnbind(t *testing.T) {
	store, mr := newRedisStoreTest(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Bind(ctx, Session{
		SessionID: "sid-1",
		AccountID: "acct-1",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}, ""))

	got, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "acct-1", got.AccountID)
	assert.Equal(t, now.Add(time.Hour).Unix(), got.ExpiresAt.Unix())
	assert.True(t, mr.TTL("session:sid-1") > 0)

	require.NoError(t, store.Unbind(ctx, "sid-1"))
	require.NoError(t, store.Unbind(ctx, "sid-1"))

	got, err = store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBindReplacesPreviousSession(t *testing.T) {
	store, _ := newRedisStoreTest(t)
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	require.NoError(t, store.Bind(ctx, Session{SessionID: "old", AccountID: "acct-1", ExpiresAt: exp}, ""))
	require.NoError(t, store.Bind(ctx, Session{SessionID: "new", AccountID: "acct-2", ExpiresAt: exp}, "old"))

	old, err := store.Get(ctx, "old")
	require.NoError(t, err)
	assert.Nil(t, old)

	cur, err := store.Get(ctx, "new")
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, "acct-2", cur.AccountID)
}

func TestBindValidates(t *testing.T) {
	store, _ := newRedisStoreTest(t)
	ctx := context.Background()

	assert.Error(t, store.Bind(ctx, Session{SessionID: "sid", ExpiresAt: time.Now().Add(time.Hour)}, ""))
	assert.Error(t, store.Bind(ctx, Session{SessionID: "sid", AccountID: "a", ExpiresAt: time.Now().Add(-time.Second)}, ""))
}

func TestTakeHandshakeFieldsIsConsumeOnce(t *testing.T) {
	store, _ := newRedisStoreTest(t)
	ctx := context.Background()

	require.NoError(t, store.ResetHandshake(ctx, "sid", map[string]string{
		"state":     "s-1",
		"return_to": "/profile",
	}, time.Minute))

	first, err := store.TakeHandshakeFields(ctx, "sid", "state", "verifier")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"state": "s-1"}, first)

	second, err := store.TakeHandshakeFields(ctx, "sid", "state")
	require.NoError(t, err)
	assert.Empty(t, second)

	// untouched fields survive
	rest, err := store.TakeHandshakeFields(ctx, "sid", "return_to")
	require.NoError(t, err)
	assert.Equal(t, "/profile", rest["return_to"])
}

func TestResetHandshakeDropsStaleFields(t *testing.T) {
	store, mr := newRedisStoreTest(t)
	ctx := context.Background()

	require.NoError(t, store.SetHandshakeFields(ctx, "sid", map[string]string{"return_to": "/old"}, time.Minute))
	require.NoError(t, store.ResetHandshake(ctx, "sid", map[string]string{"state": "s-2"}, time.Minute))

	got, err := store.TakeHandshakeFields(ctx, "sid", "return_to", "state")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"state": "s-2"}, got)

	require.NoError(t, store.SetHandshakeFields(ctx, "sid", map[string]string{"return_to": "/x"}, time.Minute))
	mr.FastForward(2 * time.Minute)
	got, err = store.TakeHandshakeFields(ctx, "sid", "return_to")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHandshakeKeysAreScopedPerSession(t *testing.T) {
	store, _ := newRedisStoreTest(t)
	ctx := context.Background()

	require.NoError(t, store.ResetHandshake(ctx, "a", map[string]string{"state": "for-a"}, time.Minute))
	require.NoError(t, store.ResetHandshake(ctx, "b", map[string]string{"state": "for-b"}, time.Minute))

	got, err := store.TakeHandshakeFields(ctx, "b", "state")
	require.NoError(t, err)
	assert.Equal(t, "for-b", got["state"])

	require.NoError(t, store.ClearHandshake(ctx, "a"))
	got, err = store.TakeHandshakeFields(ctx, "a", "state")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStoreReportsRedisFailure(t *testing.T) {
	store, mr := newRedisStoreTest(t)
	mr.Close()

	_, err := store.Get(context.Background(), "sid")
	assert.Error(t, err)
}
