package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fieldAccountID = "account_id"
	fieldCreatedAt = "created_at"
	fieldExpiresAt = "expires_at"
)

// takeFieldsScript returns the requested hash fields and deletes them in
// the same step, so a duplicated callback cannot read them twice.
const takeFieldsScript = `
local values = redis.call("HMGET", KEYS[1], unpack(ARGV))
redis.call("HDEL", KEYS[1], unpack(ARGV))
return values
`

var takeFieldsLua = redis.NewScript(takeFieldsScript)

type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "session:",
	}
}

func (r *RedisStore) key(sessionID string) string {
	return r.prefix + sessionID
}

func (r *RedisStore) handshakeKey(sessionID string) string {
	return r.prefix + sessionID + ":handshake"
}

func (r *RedisStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	vals, err := r.client.HGetAll(ctx, r.key(sessionID)).Result()
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 || vals[fieldAccountID] == "" {
		return nil, nil // not found
	}

	s := &Session{
		SessionID: sessionID,
		AccountID: vals[fieldAccountID],
	}
	if s.CreatedAt, err = parseUnix(vals[fieldCreatedAt]); err != nil {
		return nil, fmt.Errorf("session: bad created_at: %w", err)
	}
	if s.ExpiresAt, err = parseUnix(vals[fieldExpiresAt]); err != nil {
		return nil, fmt.Errorf("session: bad expires_at: %w", err)
	}
	return s, nil
}

func (r *RedisStore) Bind(ctx context.Context, s Session, previousID string) error {
	if s.SessionID == "" || s.AccountID == "" {
		return fmt.Errorf("session: missing session_id or account_id")
	}
	if !time.Now().Before(s.ExpiresAt) {
		return fmt.Errorf("session: expires_at must be in the future")
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if previousID != "" && previousID != s.SessionID {
			pipe.Del(ctx, r.key(previousID))
		}
		key := r.key(s.SessionID)
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key,
			fieldAccountID, s.AccountID,
			fieldCreatedAt, strconv.FormatInt(s.CreatedAt.Unix(), 10),
			fieldExpiresAt, strconv.FormatInt(s.ExpiresAt.Unix(), 10),
		)
		pipe.ExpireAt(ctx, key, s.ExpiresAt)
		return nil
	})
	return err
}

func (r *RedisStore) Unbind(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.key(sessionID)).Err()
}

func (r *RedisStore) ResetHandshake(
	ctx context.Context,
	sessionID string,
	fields map[string]string,
	ttl time.Duration,
) error {
	return r.writeHandshake(ctx, sessionID, fields, ttl, true)
}

func (r *RedisStore) SetHandshakeFields(
	ctx context.Context,
	sessionID string,
	fields map[string]string,
	ttl time.Duration,
) error {
	return r.writeHandshake(ctx, sessionID, fields, ttl, false)
}

func (r *RedisStore) writeHandshake(
	ctx context.Context,
	sessionID string,
	fields map[string]string,
	ttl time.Duration,
	replace bool,
) error {
	if sessionID == "" {
		return fmt.Errorf("session: missing session_id")
	}
	if ttl <= 0 {
		return fmt.Errorf("session: handshake ttl must be positive")
	}

	values := make([]any, 0, 2*len(fields))
	for k, v := range fields {
		if v == "" {
			continue
		}
		values = append(values, k, v)
	}

	key := r.handshakeKey(sessionID)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if replace {
			pipe.Del(ctx, key)
		}
		if len(values) > 0 {
			pipe.HSet(ctx, key, values...)
			pipe.Expire(ctx, key, ttl)
		}
		return nil
	})
	return err
}

func (r *RedisStore) TakeHandshakeFields(
	ctx context.Context,
	sessionID string,
	fields ...string,
) (map[string]string, error) {
	if len(fields) == 0 {
		return map[string]string{}, nil
	}

	args := make([]any, len(fields))
	for i, f := range fields {
		args[i] = f
	}

	res, err := takeFieldsLua.Run(ctx, r.client, []string{r.handshakeKey(sessionID)}, args...).Slice()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	out := make(map[string]string, len(fields))
	for i, v := range res {
		if i >= len(fields) {
			break
		}
		if s, ok := v.(string); ok && s != "" {
			out[fields[i]] = s
		}
	}
	return out, nil
}

func (r *RedisStore) ClearHandshake(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.handshakeKey(sessionID)).Err()
}

func parseUnix(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	sec, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(sec, 0), nil
}

var _ Store = (*RedisStore)(nil)
