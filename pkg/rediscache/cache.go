package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-overrides/components/overrides"
)

const defaultPrefix = "overrides:entity:"

// Client is the subset of go-redis client methods the cache uses.
type Client interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

// Config holds Redis connection and key settings.
type Config struct {
	Address  string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// Cache is an overrides.EntityCache stored in Redis as JSON documents, so
// several server replicas share the same authoritative entities.
type Cache struct {
	cfg    Config
	client Client
}

var _ overrides.EntityCache = (*Cache)(nil)

// New connects to Redis and verifies the connection with PING.
func New(ctx context.Context, cfg Config) (*Cache, error) {
	opts := &redis.Options{Addr: cfg.Address, DB: cfg.DB}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("rediscache: ping %s: %w", cfg.Address, err)
	}
	return NewWithClient(cfg, client), nil
}

// NewWithClient builds a cache over an existing client.
func NewWithClient(cfg Config, client Client) *Cache {
	if cfg.Prefix == "" {
		cfg.Prefix = defaultPrefix
	}
	return &Cache{cfg: cfg, client: client}
}

// Entity loads a cached entity. A missing key is a miss, not an error.
func (c *Cache) Entity(ctx context.Context, entityID string) (overrides.Entity, bool, error) {
	raw, err := c.client.Get(ctx, c.key(entityID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return overrides.Entity{}, false, nil
	}
	if err != nil {
		return overrides.Entity{}, false, fmt.Errorf("rediscache: get %s: %w", entityID, err)
	}
	var entity overrides.Entity
	if err := json.Unmarshal(raw, &entity); err != nil {
		return overrides.Entity{}, false, fmt.Errorf("rediscache: decode %s: %w", entityID, err)
	}
	return entity, true, nil
}

// Replace stores the entity wholesale.
func (c *Cache) Replace(ctx context.Context, entityID string, entity overrides.Entity) error {
	if entityID == "" {
		return errors.New("rediscache: entity id is required")
	}
	raw, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("rediscache: encode %s: %w", entityID, err)
	}
	if err := c.client.Set(ctx, c.key(entityID), raw, c.cfg.TTL).Err(); err != nil {
		return fmt.Errorf("rediscache: set %s: %w", entityID, err)
	}
	return nil
}

// Invalidate drops the cached entity.
func (c *Cache) Invalidate(ctx context.Context, entityID string) error {
	return c.client.Del(ctx, c.key(entityID)).Err()
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) key(entityID string) string {
	return c.cfg.Prefix + entityID
}
