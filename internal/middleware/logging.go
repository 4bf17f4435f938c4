package middleware

import (
	"time"

	"glimpse/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequestLogging returns a Fiber middleware that assigns a correlation ID to
// each request and logs method, path, status and latency on completion.
func RequestLogging() fiber.Handler {
	return func(c *fiber.Ctx) error {
		correlationID := c.Get("X-Correlation-ID")
		if correlationID == "" {
			correlationID = uuid.NewString()
		}
		c.Locals("correlation_id", correlationID)
		c.Set("X-Correlation-ID", correlationID)

		start := time.Now()
		err := c.Next()

		observability.GlobalLogger.Info("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"latency_ms", time.Since(start).Milliseconds(),
			"correlation_id", correlationID,
		)
		return err
	}
}
