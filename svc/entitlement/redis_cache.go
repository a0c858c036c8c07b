package entitlement

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/prepstack/entitlement/pkg/entitlement"
)

const defaultCacheKeyPrefix = "entitlement:state:"

// RedisStateCache is a StateCache backed by Redis, for deployments where a
// user may land on any instance and the first paint should not wait for a
// store read. Entries expire after the TTL so a dead write path cannot pin
// a stale tier forever.
type RedisStateCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	prefix string
}

// NewRedisStateCache creates a RedisStateCache. Panics if client is nil to
// fail fast during initialization. A zero ttl stores entries without
// expiry; prefer a bounded TTL in production.
func NewRedisStateCache(client redis.UniversalClient, ttl time.Duration, prefix string) *RedisStateCache {
	if client == nil {
		panic("entitlement: redis client is required")
	}
	if prefix == "" {
		prefix = defaultCacheKeyPrefix
	}
	return &RedisStateCache{client: client, ttl: ttl, prefix: prefix}
}

// NewRedisStateCacheFromConfig creates a RedisStateCache from an
// env-loaded Config.
func NewRedisStateCacheFromConfig(client redis.UniversalClient, cfg Config) *RedisStateCache {
	return NewRedisStateCache(client, cfg.CacheTTL, cfg.CacheKeyPrefix)
}

type cachedState struct {
	Tier    string `json:"tier"`
	Active  bool   `json:"active"`
	Premium bool   `json:"premium"`
}

// Get retrieves a cached state. Any transport or decode failure is a miss:
// a broken cache must degrade to a cold start, never to a wrong decision.
func (c *RedisStateCache) Get(ctx context.Context, userID uuid.UUID) (entitlement.State, bool) {
	raw, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err != nil {
		return entitlement.State{}, false
	}

	var cached cachedState
	if err := json.Unmarshal(raw, &cached); err != nil {
		return entitlement.State{}, false
	}

	tier, ok := entitlement.ParseTier(cached.Tier)
	if !ok {
		return entitlement.State{}, false
	}

	return entitlement.State{
		Tier:    tier,
		Active:  cached.Active,
		Premium: cached.Premium,
	}, true
}

// Set stores a resolved state. Loading states are never cached: a pending
// decision is not a decision.
func (c *RedisStateCache) Set(ctx context.Context, userID uuid.UUID, st entitlement.State) error {
	if st.Loading {
		return errors.New("refusing to cache a loading state")
	}

	raw, err := json.Marshal(cachedState{
		Tier:    st.Tier.String(),
		Active:  st.Active,
		Premium: st.Premium,
	})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(userID), raw, c.ttl).Err()
}

// Delete removes a cached state.
func (c *RedisStateCache) Delete(ctx context.Context, userID uuid.UUID) error {
	return c.client.Del(ctx, c.key(userID)).Err()
}

func (c *RedisStateCache) key(userID uuid.UUID) string {
	return c.prefix + userID.String()
}
