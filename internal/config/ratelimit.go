package config

import "time"

// RateLimitConfig drives the Redis token bucket.  KeyStrategy is one of
// "ip", "actor", "ip_actor" or "ip_actor_route".  Anonymous callers (guests
// booking online) draw from a bucket of AnonymousCapacity tokens instead of
// Capacity.
type RateLimitConfig struct {
    Enabled           bool
    Capacity          int
    AnonymousCapacity int
    RefillTokens      int
    RefillInterval    time.Duration
    TTL               time.Duration
    KeyStrategy       string
    Prefix            string
}

func LoadRateLimitConfig() RateLimitConfig {
    cfg := RateLimitConfig{
        Enabled:           envBool("RATE_LIMIT_ENABLED", true),
        Capacity:          envInt("RATE_LIMIT_CAPACITY", 120),
        AnonymousCapacity: envInt("RATE_LIMIT_ANON_CAPACITY", 30),
        RefillTokens:      envInt("RATE_LIMIT_REFILL_TOKENS", 2),
        RefillInterval:    envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
        TTL:               envDur("RATE_LIMIT_TTL", 10*time.Minute),
        KeyStrategy:       envStr("RATE_LIMIT_KEY_STRATEGY", "ip_actor_route"),
        Prefix:            envStr("RATE_LIMIT_PREFIX", "rl"),
    }
    cfg.Capacity = max(cfg.Capacity, 1)
    cfg.RefillTokens = max(cfg.RefillTokens, 1)
    if cfg.AnonymousCapacity < 1 || cfg.AnonymousCapacity > cfg.Capacity {
        cfg.AnonymousCapacity = cfg.Capacity
    }
    if cfg.RefillInterval <= 0 {
        cfg.RefillInterval = time.Second
    }
    // a bucket must outlive a full refill
    cfg.TTL = max(cfg.TTL, 5*cfg.RefillInterval)
    return cfg
}

// CapacityFor is the bucket size for a caller; actorID 0 means anonymous.
func (c RateLimitConfig) CapacityFor(actorID uint64) int {
    if actorID == 0 {
        return c.AnonymousCapacity
    }
    return c.Capacity
}
