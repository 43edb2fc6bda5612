package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthChecker is satisfied by *service.AnalyticsClient
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler reports database reachability. An unreachable analytics
// service is reported but does not fail the check.
func HealthHandler(db Pinger, analytics HealthChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		body := fiber.Map{"status": "ok", "database": "ok", "analytics": "unknown"}
		status := fiber.StatusOK

		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				body["status"] = "degraded"
				body["database"] = "unreachable"
				status = fiber.StatusServiceUnavailable
			}
		}
		if analytics != nil {
			body["analytics"] = "ok"
			if err := analytics.Health(ctx); err != nil {
				body["analytics"] = "unreachable"
			}
		}

		return c.Status(status).JSON(body)
	}
}
