package entitlement

import "time"

// Config carries the tunables for the entitlement session and fetcher.
// Load it with pkg/config.
type Config struct {
	FetchTimeout       time.Duration `env:"ENTITLEMENT_FETCH_TIMEOUT" envDefault:"10s"`         // FetchTimeout is the per-attempt deadline and the ceiling after which the loading flag clears.
	FetchRetryAttempts int           `env:"ENTITLEMENT_FETCH_RETRY_ATTEMPTS" envDefault:"3"`    // FetchRetryAttempts is the number of read attempts before failing closed.
	FetchRetryInterval time.Duration `env:"ENTITLEMENT_FETCH_RETRY_INTERVAL" envDefault:"200ms"` // FetchRetryInterval is the base delay between read attempts.

	CacheTTL       time.Duration `env:"ENTITLEMENT_CACHE_TTL" envDefault:"15m"`                        // CacheTTL bounds how long a cached state may warm a new session.
	CacheKeyPrefix string        `env:"ENTITLEMENT_CACHE_KEY_PREFIX" envDefault:"entitlement:state:"` // CacheKeyPrefix namespaces cache keys per deployment.
}
