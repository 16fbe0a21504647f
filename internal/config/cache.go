package config

import (
    "strings"
    "time"
)

// CacheConfig defines settings for the response cache middleware.  Only
// catalog reads are cached: PathPrefixes lists the route prefixes eligible
// for caching, and anything derived from reservations or billing is never
// listed.  When Enabled is false or no Redis client is configured, caching
// is disabled.
type CacheConfig struct {
    Enabled      bool
    TTL          time.Duration
    Prefix       string
    MaxBodyBytes int
    PathPrefixes []string
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
func LoadCacheConfig() CacheConfig {
    return CacheConfig{
        Enabled:      envBool("CACHE_ENABLED", true),
        TTL:          envDur("CACHE_TTL", 30*time.Second),
        Prefix:       envStr("CACHE_PREFIX", "cache"),
        MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
        PathPrefixes: splitList(envStr("CACHE_PATHS", "/v1/room-types,/v1/addons")),
    }
}

func splitList(s string) []string {
    var out []string
    for _, p := range strings.Split(s, ",") {
        if p = strings.TrimSpace(p); p != "" {
            out = append(out, p)
        }
    }
    return out
}
