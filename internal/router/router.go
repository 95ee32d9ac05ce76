// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/inkwell-app/inkwell/internal/handler"
	"github.com/inkwell-app/inkwell/internal/middleware"
)

// Deps carries everything route registration needs.
type Deps struct {
	JWTSecret string
	Auth      *handler.AuthHandler
	Journal   *handler.JournalHandler
	Category  *handler.LabelHandler
	Tag       *handler.LabelHandler
	Analytics *handler.AnalyticsHandler
	AI        *handler.AIHandler
	Health    echo.HandlerFunc
	// RateLimit runs inside every group, after JWTAuth on the
	// protected ones so per-user key strategies see the user id.
	RateLimit echo.MiddlewareFunc
	// Cache wraps the read-only groups; Invalidate wraps the mutating
	// ones and flushes the user's cached reads. Both must run after
	// JWTAuth for user-scoped keys.
	Cache      echo.MiddlewareFunc
	Invalidate echo.MiddlewareFunc
}

func passthrough(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error { return next(c) }
}

// Register mounts all routes. Everything except the auth entry points
// and the health check sits behind JWT authentication.
func Register(e *echo.Echo, d Deps) {
	limit := d.RateLimit
	if limit == nil {
		limit = passthrough
	}
	cache := d.Cache
	if cache == nil {
		cache = passthrough
	}
	invalidate := d.Invalidate
	if invalidate == nil {
		invalidate = passthrough
	}

	e.GET("/healthz", d.Health)

	// Unauthenticated callers share ip buckets.
	auth := e.Group("/auth", limit)
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/forgot-password", d.Auth.ForgotPassword)
	auth.POST("/reset-password", d.Auth.ResetPassword)

	jwtmw := middleware.JWTAuth(d.JWTSecret)

	authed := e.Group("", jwtmw, limit, invalidate)
	authed.POST("/auth/logout", d.Auth.Logout)
	authed.POST("/auth/change-password", d.Auth.ChangePassword)
	authed.GET("/me", d.Auth.Me)
	authed.PUT("/me", d.Auth.UpdateProfile)
	authed.POST("/ai/analyze", d.AI.Analyze)

	// Only GETs go through the cache; mutations go through the
	// invalidator instead.
	cached := e.Group("", jwtmw, limit, cache)

	authed.POST("/journal", d.Journal.Create)
	authed.PUT("/journal/:id", d.Journal.Update)
	authed.DELETE("/journal/:id", d.Journal.Delete)
	cached.GET("/journal", d.Journal.List)
	cached.GET("/journal/:id", d.Journal.Get)

	registerLabelRoutes(authed, cached, "/categories", d.Category)
	registerLabelRoutes(authed, cached, "/tags", d.Tag)

	cached.GET("/analytics", d.Analytics.Summary)
}

func registerLabelRoutes(authed, cached *echo.Group, prefix string, h *handler.LabelHandler) {
	authed.POST(prefix, h.Create)
	authed.PUT(prefix+"/:id", h.Rename)
	authed.DELETE(prefix+"/:id", h.Delete)
	cached.GET(prefix, h.List)
	cached.GET(prefix+"/:id/journals", h.ListJournals)
}
