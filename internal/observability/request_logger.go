package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request and feeds the metrics counters.
// It must run outside the error middleware so it sees the final status.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		status := c.Response().StatusCode()
		metrics.RecordRequest(RouteKey(c), c.Method(), status, elapsed)

		requestID, _ := c.Locals("requestid").(string)
		logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", elapsed),
			zap.String("ip", c.IP()),
		)
		return err
	}
}

// UnmatchedRoute is the metrics key for requests that reached no route of their own.
const UnmatchedRoute = "unmatched"

// RouteKey returns the route template that served the request. Raw paths never
// become keys, so the key set stays bounded whatever URLs clients send.
func RouteKey(c *fiber.Ctx) string {
	route := c.Route()
	if len(route.Handlers) == 0 || route.Path == "" {
		return UnmatchedRoute
	}
	if route.Method == "USE" && route.Path == "/" {
		return UnmatchedRoute
	}
	return route.Path
}
