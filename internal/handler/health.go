package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Health reports liveness plus a database ping so load balancers can
// tell a hung DB pool apart from a healthy process.
func Health(db *sql.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		status := "ok"
		code := http.StatusOK
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
		}
		return c.JSON(code, echo.Map{"status": status, "time": time.Now().UTC().Format(time.RFC3339)})
	}
}
