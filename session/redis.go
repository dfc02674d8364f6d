package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisTimeout = 3 * time.Second

// RedisStore keeps the session record under a fixed key pair in Redis, for
// deployments where the console host has no durable disk. The [Store]
// surface is synchronous, so each operation runs under an internal timeout
// rather than a caller-supplied context.
type RedisStore struct {
	rdb     *redis.Client
	prefix  string
	timeout time.Duration
}

// NewRedisStore creates a RedisStore using the given client and key prefix.
// Keys are "<prefix>:auth" and "<prefix>:token".
func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "backoffice"
	}
	return &RedisStore{rdb: rdb, prefix: prefix, timeout: defaultRedisTimeout}
}

func (r *RedisStore) slotKey() string   { return r.prefix + ":" + SlotKey }
func (r *RedisStore) legacyKey() string { return r.prefix + ":" + LegacySlotKey }

// Read loads the persisted session; missing keys, Redis errors, and
// malformed payloads all report absent.
func (r *RedisStore) Read() (*Session, bool) {
	ctx, cancel := r.opContext()
	defer cancel()

	data, err := r.rdb.Get(ctx, r.slotKey()).Bytes()
	if err != nil {
		return nil, false
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, false
	}
	if !sess.valid() {
		return nil, false
	}
	return &sess, true
}

// Write persists the full record. Both slots are set in one transaction so
// no reader observes the legacy token diverging from the session record.
func (r *RedisStore) Write(token, tokenType string, user *User) error {
	if err := checkWrite(token, user); err != nil {
		return err
	}

	data, err := json.Marshal(&Session{Token: token, TokenType: tokenType, User: user})
	if err != nil {
		return err
	}

	ctx, cancel := r.opContext()
	defer cancel()

	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, r.slotKey(), data, 0)
	pipe.Set(ctx, r.legacyKey(), token, 0)
	_, err = pipe.Exec(ctx)
	return err
}

// Clear deletes both slots. Deleting absent keys is a no-op in Redis, which
// gives Clear its idempotence for free.
func (r *RedisStore) Clear() error {
	ctx, cancel := r.opContext()
	defer cancel()

	return r.rdb.Del(ctx, r.slotKey(), r.legacyKey()).Err()
}

func (r *RedisStore) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.timeout)
}
