// Package redis implements the tenant cache port on Redis.
//
// Every request resolves its tenant by name; the directory row changes
// rarely, so a short TTL cache in front of PostgreSQL absorbs almost
// all of that traffic. Cache errors are advisory: callers fall back to
// the repository.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Haleralex/ledgerhub/internal/application/ports"
	"github.com/Haleralex/ledgerhub/internal/domain/entities"
)

// Compile-time check
var _ ports.BusinessCache = (*BusinessCache)(nil)

// Config holds the Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// DefaultConfig returns local development settings.
func DefaultConfig() Config {
	return Config{
		Addr: "localhost:6379",
		TTL:  5 * time.Minute,
	}
}

// BusinessCache caches tenant rows by name.
type BusinessCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBusinessCache creates the cache and pings Redis.
func NewBusinessCache(ctx context.Context, cfg Config) (*BusinessCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &BusinessCache{client: client, ttl: ttl}, nil
}

// cachedBusiness is the storable projection of a tenant. Entities keep
// their fields unexported, so the cache maintains its own wire form.
type cachedBusiness struct {
	UID       uuid.UUID               `json:"uid"`
	Name      string                  `json:"name"`
	Domain    string                  `json:"domain"`
	OwnerID   uuid.UUID               `json:"owner_id"`
	Config    entities.BusinessConfig `json:"config"`
	Metadata  map[string]any          `json:"meta_data,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

func key(name string) string {
	return "business:" + name
}

// Get returns the cached tenant, or (nil, nil) on a miss.
func (c *BusinessCache) Get(ctx context.Context, name string) (*entities.Business, error) {
	raw, err := c.client.Get(ctx, key(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read business cache: %w", err)
	}

	var cached cachedBusiness
	if err := json.Unmarshal(raw, &cached); err != nil {
		// A corrupt entry behaves like a miss.
		_ = c.client.Del(ctx, key(name)).Err()
		return nil, nil
	}

	return entities.ReconstructBusiness(
		cached.UID, cached.Name, cached.Domain, cached.OwnerID,
		cached.Config, cached.Metadata,
		cached.CreatedAt, cached.UpdatedAt, false,
	), nil
}

// Set stores the tenant with the configured TTL.
func (c *BusinessCache) Set(ctx context.Context, business *entities.Business) error {
	raw, err := json.Marshal(cachedBusiness{
		UID:       business.UID(),
		Name:      business.Name(),
		Domain:    business.Domain(),
		OwnerID:   business.OwnerID(),
		Config:    business.Config(),
		Metadata:  business.Metadata(),
		CreatedAt: business.CreatedAt(),
		UpdatedAt: business.UpdatedAt(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal business for cache: %w", err)
	}
	if err := c.client.Set(ctx, key(business.Name()), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write business cache: %w", err)
	}
	return nil
}

// Invalidate drops a tenant from the cache.
func (c *BusinessCache) Invalidate(ctx context.Context, name string) error {
	if err := c.client.Del(ctx, key(name)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate business cache: %w", err)
	}
	return nil
}

// Ping checks the Redis connection, for readiness probes.
func (c *BusinessCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *BusinessCache) Close() error {
	return c.client.Close()
}
