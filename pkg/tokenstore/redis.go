package tokenstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisPrefix = "pollaroo:tokens:"

	fieldAccessToken  = "access_token"
	fieldRefreshToken = "refresh_token"
)

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithRedisKeyPrefix overrides the key prefix. Empty prefixes are ignored.
func WithRedisKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithRedisTTL expires stored pairs after d. Zero keeps them until cleared.
func WithRedisTTL(d time.Duration) RedisOption {
	return func(s *RedisStore) { s.ttl = d }
}

// RedisStore implements Store on a Redis hash per origin. Useful when several
// processes share one credential set, such as bot fleets running against the
// same account.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed token store. The client must be
// configured and reachable; this constructor does not ping.
func NewRedisStore(client *redis.Client, opts ...RedisOption) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("tokenstore: redis client must not be nil")
	}

	s := &RedisStore{client: client, prefix: defaultRedisPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *RedisStore) key(origin string) string {
	return s.prefix + origin
}

// Load returns the pair stored for origin, or ErrNotFound.
func (s *RedisStore) Load(ctx context.Context, origin string) (Pair, error) {
	if origin == "" {
		return Pair{}, ErrInvalidOrigin
	}

	fields, err := s.client.HGetAll(ctx, s.key(origin)).Result()
	if err != nil {
		return Pair{}, err
	}
	if len(fields) == 0 {
		return Pair{}, ErrNotFound
	}
	return Pair{
		Access:  fields[fieldAccessToken],
		Refresh: fields[fieldRefreshToken],
	}, nil
}

// Save stores the pair for origin, applying the configured TTL if any.
func (s *RedisStore) Save(ctx context.Context, origin string, pair Pair) error {
	if origin == "" {
		return ErrInvalidOrigin
	}

	key := s.key(origin)
	if err := s.client.HSet(ctx, key,
		fieldAccessToken, pair.Access,
		fieldRefreshToken, pair.Refresh,
	).Err(); err != nil {
		return err
	}

	if s.ttl > 0 {
		return s.client.Expire(ctx, key, s.ttl).Err()
	}
	return nil
}

// Clear removes the pair for origin.
func (s *RedisStore) Clear(ctx context.Context, origin string) error {
	if origin == "" {
		return ErrInvalidOrigin
	}
	return s.client.Del(ctx, s.key(origin)).Err()
}
