package onetime

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)

// consumeScript deletes the pending code only if it still matches the
// submitted value, so two concurrent verifications of the same code yield
// exactly one success.
var consumeScript = redis.NewScript(`
if redis.call('HGET', KEYS[1], 'code') == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

// failScript charges one wrong submission against the pending code and
// discards the code once the budget is spent. The EXISTS guard prevents
// recreating a key that expired between the read and this call.
var failScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
local attempts = redis.call('HINCRBY', KEYS[1], 'attempts', 1)
if attempts >= tonumber(ARGV[1]) then
	redis.call('DEL', KEYS[1])
end
return attempts
`)

// RedisStore keeps pending codes in Redis hashes. Key TTL enforces expiry;
// consume and attempt accounting run as server-side scripts so the
// PENDING to CONSUMED transition is atomic across processes.
type RedisStore struct {
	client redis.UniversalClient
	opts   options
}

// NewRedisStore creates a Redis-backed one-time code store.
func NewRedisStore(client redis.UniversalClient, opts ...Option) *RedisStore {
	s := &RedisStore{
		client: client,
		opts:   defaultOptions(),
	}
	for _, opt := range opts {
		opt(&s.opts)
	}
	return s
}

func (s *RedisStore) key(key string) string {
	return s.opts.keyPrefix + key
}

// Generate creates a new pending code for the key. Any prior pending code
// for the same key becomes unverifiable: the hash is replaced in a single
// transaction, so there is never more than one live code per key.
func (s *RedisStore) Generate(ctx context.Context, key string) (string, error) {
	code, err := generateCode(s.opts.codeLength)
	if err != nil {
		return "", err
	}

	now := time.Now()
	rkey := s.key(key)

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, rkey)
	pipe.HSet(ctx, rkey,
		"code", code,
		"attempts", 0,
		"created_at", now.Unix(),
	)
	pipe.Expire(ctx, rkey, s.opts.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("onetime: failed to store code: %w", err)
	}

	return code, nil
}

// Verify consumes the pending code for the key.
func (s *RedisStore) Verify(ctx context.Context, key, code string) error {
	rkey := s.key(key)

	stored, err := s.client.HGet(ctx, rkey, "code").Result()
	if err == redis.Nil {
		return ErrCodeExpired
	}
	if err != nil {
		return fmt.Errorf("onetime: failed to read code: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		// Charge the attempt budget; -1 means the key vanished in between,
		// which still reads as a wrong submission to the caller.
		if _, err := failScript.Run(ctx, s.client, []string{rkey}, strconv.Itoa(s.opts.maxAttempts)).Int(); err != nil {
			return fmt.Errorf("onetime: failed to record attempt: %w", err)
		}
		return ErrCodeMismatch
	}

	deleted, err := consumeScript.Run(ctx, s.client, []string{rkey}, stored).Int()
	if err != nil {
		return fmt.Errorf("onetime: failed to consume code: %w", err)
	}
	if deleted == 0 {
		// Lost the race: another verification consumed the code, or a fresh
		// code replaced it after our read.
		return ErrCodeExpired
	}

	return nil
}
