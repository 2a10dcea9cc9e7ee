package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/rueidis"

	"github.com/codyseavey/cardledger/backend/internal/config"
	"github.com/codyseavey/cardledger/backend/internal/models"
)

// RedisStore is the shared tier. Keys expire server-side with SET EX.
type RedisStore struct {
	client rueidis.Client
	prefix string
	now    func() time.Time
}

// NewRedisStore connects to the configured Redis.
func NewRedisStore(cfg config.RedisConfig) (*RedisStore, error) {
	if len(cfg.Addrs) == 0 {
		return nil, errors.New("redis addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Password:     cfg.Password,
		DisableCache: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create redis client")
	}
	return NewRedisStoreWithClient(client, cfg.KeyPrefix), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client rueidis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

func (s *RedisStore) Name() string { return "redis" }

func (s *RedisStore) b() rueidis.Builder {
	return s.client.B()
}

func (s *RedisStore) Get(ctx context.Context, key string) (models.CacheEntry, error) {
	cmd := s.b().Get().Key(s.prefix + key).Build()
	data, err := s.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return models.CacheEntry{}, ErrMiss
		}
		return models.CacheEntry{}, errors.Wrap(err, "redis get")
	}

	var entry models.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return models.CacheEntry{}, errors.Wrap(err, "failed to decode cache entry")
	}
	return entry, nil
}

func (s *RedisStore) Set(ctx context.Context, entry models.CacheEntry) error {
	ttl := entry.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	// EX takes whole seconds.
	if ttl < time.Second {
		ttl = time.Second
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(err, "failed to encode cache entry")
	}

	cmd := s.b().Set().Key(s.prefix + entry.QueryHash).Value(string(data)).Ex(ttl).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	cmd := s.b().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return errors.Wrap(err, "redis ping")
	}
	return nil
}

// Close shuts down the client.
func (s *RedisStore) Close() {
	s.client.Close()
}
