package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/inkwell-app/inkwell/internal/config"
)

func cacheTestCfg(strategy string) config.CacheConfig {
	return config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{"GET": true},
		TTL:         time.Minute,
		KeyStrategy: strategy,
		Prefix:      "cache",
	}
}

func ctxWithUser(method, target string, uid interface{}) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(strings.SplitN(target, "?", 2)[0])
	if uid != nil {
		c.Set("user_id", uid)
	}
	return c
}

// Every strategy must produce keys under the user's prefix, otherwise
// the mutation-side flush cannot find them and soft-deleted entries
// would keep being served until the TTL.
func TestCacheKeysAlwaysUnderUserPrefix(t *testing.T) {
	strategies := []string{"route", "route_query", "user_route", "user_method_route", "user_route_query"}
	for _, s := range strategies {
		t.Run(s, func(t *testing.T) {
			cfg := cacheTestCfg(s)
			c := ctxWithUser(http.MethodGet, "/journal?page=2", float64(42))
			key := cacheKeyFrom(cfg, c)
			want := userCachePrefix(cfg, "42")
			if !strings.HasPrefix(key, want) {
				t.Fatalf("key %q does not start with user prefix %q", key, want)
			}
		})
	}
}

func TestCacheKeysSeparateUsersAndRoutes(t *testing.T) {
	cfg := cacheTestCfg("user_route_query")

	a := cacheKeyFrom(cfg, ctxWithUser(http.MethodGet, "/journal", float64(1)))
	b := cacheKeyFrom(cfg, ctxWithUser(http.MethodGet, "/journal", float64(2)))
	if a == b {
		t.Fatalf("users share cache key %q", a)
	}

	list := cacheKeyFrom(cfg, ctxWithUser(http.MethodGet, "/journal", float64(1)))
	detail := cacheKeyFrom(cfg, ctxWithUser(http.MethodGet, "/analytics", float64(1)))
	if list == detail {
		t.Fatalf("routes share cache key %q", list)
	}
	if !strings.HasPrefix(detail, userCachePrefix(cfg, "1")) {
		t.Fatalf("detail key %q escapes the user prefix", detail)
	}
}

func TestCacheInvalidatorDisabledPassesThrough(t *testing.T) {
	cfg := cacheTestCfg("user_route_query")
	cfg.Enabled = false

	called := false
	mw := NewCacheInvalidator(cfg, nil)
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	c := ctxWithUser(http.MethodDelete, "/journal/1", float64(1))
	if err := h(c); err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	if !called {
		t.Fatal("next handler not invoked")
	}
}
