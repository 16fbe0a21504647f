package config

import (
	"reflect"
	"testing"
	"time"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"/v1/room-types,/v1/addons", []string{"/v1/room-types", "/v1/addons"}},
		{" /v1/addons , ,", []string{"/v1/addons"}},
		{"", nil},
	}
	for _, tt := range tests {
		if got := splitList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoadCacheConfigDefaults(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "")
	t.Setenv("CACHE_TTL", "")
	t.Setenv("CACHE_PATHS", "")

	cfg := LoadCacheConfig()
	if !cfg.Enabled || cfg.TTL != 30*time.Second || cfg.Prefix != "cache" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.PathPrefixes, []string{"/v1/room-types", "/v1/addons"}) {
		t.Fatalf("prefixes = %v", cfg.PathPrefixes)
	}
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	t.Setenv("RATE_LIMIT_ENABLED", "off")

	cfg := LoadRateLimitConfig()
	if cfg.Enabled {
		t.Error("expected disabled")
	}
	if cfg.Capacity != 1 || cfg.RefillTokens != 1 {
		t.Errorf("capacity=%d refill=%d, want 1 and 1", cfg.Capacity, cfg.RefillTokens)
	}
	if cfg.TTL != 10*time.Second {
		t.Errorf("ttl = %s, want 10s", cfg.TTL)
	}
}

func TestEnvFallbacks(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_BOOL", "maybe")
	t.Setenv("X_DUR", "soon")
	if envInt("X_INT", 4) != 4 || !envBool("X_BOOL", true) || envDur("X_DUR", time.Minute) != time.Minute {
		t.Fatal("unparseable values should fall back to defaults")
	}
}

func TestAnonymousCapacity(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "100")
	t.Setenv("RATE_LIMIT_ANON_CAPACITY", "")
	cfg := LoadRateLimitConfig()
	if cfg.CapacityFor(0) != 30 || cfg.CapacityFor(7) != 100 {
		t.Fatalf("anon=%d staff=%d", cfg.CapacityFor(0), cfg.CapacityFor(7))
	}

	// an anonymous bucket never exceeds the staff one
	t.Setenv("RATE_LIMIT_ANON_CAPACITY", "500")
	if got := LoadRateLimitConfig().CapacityFor(0); got != 100 {
		t.Fatalf("anon capacity = %d, want 100", got)
	}
}
