package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// RequestIDHeader carries the request id between services.
	RequestIDHeader = "X-Request-ID"

	loggerKey = "logger"
)

// RequestLogger assigns a request id, stores a request-scoped logger and logs each request once it completes.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDHeader, requestID)

		reqLogger := logger.With(zap.String("request_id", requestID))
		c.Locals(loggerKey, reqLogger)

		err := c.Next()

		status := c.Response().StatusCode()
		path := c.Route().Path
		latency := time.Since(start)
		metrics.RecordRequest(path, c.Method(), status, latency)

		reqLogger.Info("http request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("ip", c.IP()),
		)
		return err
	}
}

// LoggerFromContext returns the request-scoped logger, or fallback when none was stored.
func LoggerFromContext(c *fiber.Ctx, fallback *zap.Logger) *zap.Logger {
	if l, ok := c.Locals(loggerKey).(*zap.Logger); ok && l != nil {
		return l
	}
	return fallback
}
