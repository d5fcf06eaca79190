package middleware

import (
	"log/slog"
	"time"

	"github.com/strata-go/strata"
	"github.com/strata-go/strata/pkg/logger"
)

// LoggingConfig configures the request logging middleware.
type LoggingConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx *strata.Context) bool

	// Logger is the slog logger to use (default: slog.Default())
	Logger *slog.Logger

	// LogLevel for request logging (default: slog.LevelInfo)
	LogLevel slog.Level

	// SlowRequestThreshold logs slow requests at warning level (default: 5s)
	SlowRequestThreshold time.Duration

	// Component name for structured logging
	Component string
}

// Logging creates a request logging middleware with default configuration.
// It logs one line per request with method, path, status, response size,
// client IP, and latency.
func Logging() strata.Middleware {
	return LoggingWithConfig(LoggingConfig{})
}

// LoggingWithLogger creates a logging middleware with a custom logger.
func LoggingWithLogger(log *slog.Logger) strata.Middleware {
	return LoggingWithConfig(LoggingConfig{Logger: log})
}

// LoggingWithConfig creates a request logging middleware with custom
// configuration.
func LoggingWithConfig(cfg LoggingConfig) strata.Middleware {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}
	if cfg.Component == "" {
		cfg.Component = "http"
	}

	return func(ctx *strata.Context, next strata.Next) error {
		if cfg.Skip != nil && cfg.Skip(ctx) {
			return next()
		}

		start := time.Now()
		err := next()
		elapsed := time.Since(start)

		// The serializer runs after the chain, so middleware that wrote to
		// the raw transport is the only source of on-wire bytes here; fall
		// back to the intended length otherwise.
		size := ctx.Response().BytesWritten()
		if size == 0 {
			size = ctx.Response().Length()
		}

		attrs := []any{
			logger.Component(cfg.Component),
			logger.Method(ctx.Method()),
			logger.Path(ctx.Path()),
			logger.StatusCode(ctx.Status()),
			logger.ClientIP(ctx.Request().IP()),
			logger.BytesOut(size),
			logger.Latency(elapsed),
		}
		if id, ok := GetRequestID(ctx); ok {
			attrs = append(attrs, logger.RequestID(id))
		}
		if err != nil {
			attrs = append(attrs, logger.Error(err))
		}

		switch {
		case err != nil:
			cfg.Logger.Error("request failed", attrs...)
		case elapsed >= cfg.SlowRequestThreshold:
			cfg.Logger.Warn("slow request", attrs...)
		default:
			cfg.Logger.Log(ctx, cfg.LogLevel, "request completed", attrs...)
		}

		return err
	}
}
