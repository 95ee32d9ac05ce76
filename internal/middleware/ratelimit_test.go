package middleware

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/inkwell-app/inkwell/internal/config"
)

func rateTestCfg(strategy string) config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       10,
		RefillTokens:   1,
		RefillInterval: time.Second,
		TTL:            time.Minute,
		KeyStrategy:    strategy,
		Prefix:         "rl",
	}
}

// The limiter runs after JWTAuth, which stores the numeric subject
// claim as float64. Per-user strategies must key on that id, not on
// the shared anon bucket.
func TestRateKeyUsesAuthenticatedUser(t *testing.T) {
	cfg := rateTestCfg("user")
	c := ctxWithUser(http.MethodGet, "/journal", float64(42))

	key := buildRateKey(cfg, c)
	if !strings.Contains(key, ":user:42") {
		t.Fatalf("key %q does not carry user id 42", key)
	}
	if strings.Contains(key, "anon") {
		t.Fatalf("authenticated request fell into the anon bucket: %q", key)
	}
}

func TestRateKeyStrategies(t *testing.T) {
	c := ctxWithUser(http.MethodGet, "/journal", float64(7))

	cases := []struct {
		strategy string
		want     []string
	}{
		{"user", []string{"user:7"}},
		{"user_route", []string{"user:7", "GET /journal"}},
		{"ip_user", []string{"ip:", "user:7"}},
		{"route", []string{"route:GET /journal"}},
	}
	for _, tc := range cases {
		t.Run(tc.strategy, func(t *testing.T) {
			key := buildRateKey(rateTestCfg(tc.strategy), c)
			for _, w := range tc.want {
				if !strings.Contains(key, w) {
					t.Fatalf("strategy %s: key %q missing %q", tc.strategy, key, w)
				}
			}
		})
	}
}

func TestRateKeyUnauthenticatedIsAnon(t *testing.T) {
	c := ctxWithUser(http.MethodPost, "/auth/login", nil)
	key := buildRateKey(rateTestCfg("user"), c)
	if !strings.Contains(key, ":user:anon") {
		t.Fatalf("unauthenticated key %q not in anon bucket", key)
	}
}
