package middleware

import (
	"github.com/google/uuid"

	"github.com/strata-go/strata"
)

// requestIDStateKey is the state bag key holding the request ID.
const requestIDStateKey = "middleware.request_id"

// DefaultRequestIDHeader is the header carrying the request ID.
const DefaultRequestIDHeader = "X-Request-ID"

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx *strata.Context) bool
	// Generator creates new request IDs (default: UUID v4)
	Generator func() string
	// HeaderName specifies the header name for the request ID (default: "X-Request-ID")
	HeaderName string
	// UseExisting determines whether to reuse a request ID sent by the client
	UseExisting bool
}

// RequestID creates a request ID middleware with default configuration.
// It generates a new UUID for each request and includes it in both the
// context state and the response headers.
func RequestID() strata.Middleware {
	return RequestIDWithConfig(RequestIDConfig{})
}

// RequestIDWithConfig creates a request ID middleware with custom
// configuration.
func RequestIDWithConfig(cfg RequestIDConfig) strata.Middleware {
	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultRequestIDHeader
	}
	if cfg.Generator == nil {
		cfg.Generator = func() string {
			return uuid.New().String()
		}
	}

	return func(ctx *strata.Context, next strata.Next) error {
		if cfg.Skip != nil && cfg.Skip(ctx) {
			return next()
		}

		var requestID string
		if cfg.UseExisting {
			requestID = ctx.Request().Get(cfg.HeaderName)
		}
		if requestID == "" {
			requestID = cfg.Generator()
		}

		ctx.Set(requestIDStateKey, requestID)
		ctx.Response().Set(cfg.HeaderName, requestID)

		return next()
	}
}

// GetRequestID retrieves the request ID from the context state.
// It returns the ID and a boolean indicating whether it was found.
func GetRequestID(ctx *strata.Context) (string, bool) {
	id, ok := ctx.Get(requestIDStateKey)
	if !ok {
		return "", false
	}
	s, ok := id.(string)
	return s, ok
}
