package persist

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	werrors "github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/nav"
)

// RedisConfig configures a [RedisStore].
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// KeyPrefix namespaces keys inside the Redis database. Defaults to "waypoint:state:".
	KeyPrefix string
	TTL       time.Duration
}

// RedisStore keeps partial states as Redis string values.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, werrors.New(werrors.ErrCodeInvalidConfig, "redis address is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	err := RetryWithBackoff(ctx, func() error {
		return classify(client.Ping(ctx).Err())
	})
	if err != nil {
		_ = client.Close()
		return nil, werrors.Wrap(werrors.ErrCodeStore, err, "connect to redis at %s", cfg.Addr)
	}
	return NewRedisStoreFromClient(client, cfg.KeyPrefix, cfg.TTL), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "waypoint:state:"
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

// Load reads the state stored under key.
func (s *RedisStore) Load(ctx context.Context, key string) (*nav.State, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	var data []byte
	err := RetryWithBackoff(ctx, func() error {
		b, err := s.client.Get(ctx, s.prefix+key).Bytes()
		if err != nil {
			return classify(err)
		}
		data = b
		return nil
	})
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, werrors.Wrap(werrors.ErrCodeStore, err, "redis get %s", key)
	}

	state, err := nav.DecodePartial(data)
	if err != nil {
		return nil, werrors.Wrap(werrors.ErrCodeStore, err, "decode %s", key)
	}
	return state, nil
}

// Save writes the partial projection of state under key.
func (s *RedisStore) Save(ctx context.Context, key string, state *nav.State) error {
	if err := checkKey(key); err != nil {
		return err
	}
	data, err := encode(state)
	if err != nil {
		return err
	}
	err = RetryWithBackoff(ctx, func() error {
		return classify(s.client.Set(ctx, s.prefix+key, data, s.ttl).Err())
	})
	if err != nil {
		return werrors.Wrap(werrors.ErrCodeStore, err, "redis set %s", key)
	}
	return nil
}

// Delete removes key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	err := RetryWithBackoff(ctx, func() error {
		return classify(s.client.Del(ctx, s.prefix+key).Err())
	})
	if err != nil {
		return werrors.Wrap(werrors.ErrCodeStore, err, "redis del %s", key)
	}
	return nil
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
