package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/akowalsk/scopeview/pkg/errors"
	"github.com/akowalsk/scopeview/pkg/observability"
)

// RedisStore is a Redis-backed marker store for shared lab deployments,
// so markers placed on one workstation show up on others viewing the
// same capture.
type RedisStore struct {
	client *redis.Client
}

// RedisConfig configures the Redis connection.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "redis %s", cfg.Addr)
	}

	return &RedisStore{client: client}, nil
}

// Load retrieves all marker collections for a capture.
func (s *RedisStore) Load(ctx context.Context, captureID string) (map[int64][]Marker, error) {
	data, err := s.client.Get(ctx, s.key(captureID)).Bytes()
	if err == redis.Nil {
		observability.Store().OnMarkerLoad(ctx, "redis", 0, nil)
		return make(map[int64][]Marker), nil
	}
	if err != nil {
		observability.Store().OnMarkerLoad(ctx, "redis", 0, err)
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "load markers for %s", captureID)
	}

	markers, err := decodeMarkers(data)
	observability.Store().OnMarkerLoad(ctx, "redis", countMarkers(markers), err)
	if err != nil {
		return nil, err
	}
	return markers, nil
}

// Save stores all marker collections for a capture. Entries have no TTL;
// markers are user data, not a cache.
func (s *RedisStore) Save(ctx context.Context, captureID string, markers map[int64][]Marker) error {
	data, err := encodeMarkers(markers)
	if err != nil {
		observability.Store().OnMarkerSave(ctx, "redis", 0, err)
		return err
	}
	err = s.client.Set(ctx, s.key(captureID), data, 0).Err()
	observability.Store().OnMarkerSave(ctx, "redis", countMarkers(markers), err)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "save markers for %s", captureID)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error { return s.client.Close() }

// key maps a capture ID to its Redis key.
func (s *RedisStore) key(captureID string) string {
	return "scopeview:markers:" + captureID
}

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
