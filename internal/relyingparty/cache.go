// Package relyingparty resolves OIDC relying-party descriptions during
// registration enrichment. Descriptions change rarely, so lookups are cached
// with a short TTL to keep reconciliation off the vendor's slow path.
package relyingparty

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"cdcaccount/internal/cdc"
	"cdcaccount/internal/platform/config"
)

const cacheKeyPrefix = "cdc:rp:"

// Source is the vendor lookup behind the cache.
type Source interface {
	GetRelyingParty(ctx context.Context, clientID string) (*cdc.RelyingParty, error)
}

// Getter is what the reconciler consumes.
type Getter interface {
	Get(ctx context.Context, clientID string) (*cdc.RelyingParty, error)
}

// Cache is a read-through redis cache over Source. Without redis configured
// it degrades to a passthrough.
type Cache struct {
	source Source
	redis  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// Option configures the Cache.
type Option func(*Cache)

// WithRedis enables caching on the given client.
func WithRedis(client *redis.Client) Option {
	return func(c *Cache) {
		c.redis = client
	}
}

// WithTTL overrides the default retention.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithLogger sets a logger for cache diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// New creates a Cache.
func New(source Source, opts ...Option) (*Cache, error) {
	if source == nil {
		return nil, fmt.Errorf("relying party source is required")
	}

	c := &Cache{
		source: source,
		ttl:    config.RelyingPartyCacheTTL,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get returns the relying-party record for clientID, from cache when fresh.
// Cache failures degrade to a vendor lookup; they are never fatal.
func (c *Cache) Get(ctx context.Context, clientID string) (*cdc.RelyingParty, error) {
	if rp := c.lookup(ctx, clientID); rp != nil {
		return rp, nil
	}

	rp, err := c.source.GetRelyingParty(ctx, clientID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, clientID, rp)
	return rp, nil
}

func (c *Cache) lookup(ctx context.Context, clientID string) *cdc.RelyingParty {
	if c.redis == nil {
		return nil
	}

	raw, err := c.redis.Get(ctx, cacheKeyPrefix+clientID).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "relying party cache read failed", "clientID", clientID, "error", err)
		}
		return nil
	}

	var rp cdc.RelyingParty
	if err := json.Unmarshal(raw, &rp); err != nil {
		c.logger.WarnContext(ctx, "relying party cache entry corrupt", "clientID", clientID, "error", err)
		return nil
	}
	return &rp
}

func (c *Cache) store(ctx context.Context, clientID string, rp *cdc.RelyingParty) {
	if c.redis == nil {
		return
	}

	raw, err := json.Marshal(rp)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, cacheKeyPrefix+clientID, raw, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "relying party cache write failed", "clientID", clientID, "error", err)
	}
}
