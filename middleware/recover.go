package middleware

import (
	"fmt"
	"net/http"

	"github.com/strata-go/strata"
)

// RecoverConfig configures the panic recovery middleware.
type RecoverConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx *strata.Context) bool
	// Handler maps the recovered panic value to the error returned to the
	// pipeline (default: 500 error wrapping the panic value)
	Handler func(ctx *strata.Context, v any) error
}

// Recover creates a middleware that converts panics in downstream
// middleware into ordinary pipeline errors. The dispatcher already keeps
// panics from crossing the transport boundary; recovering here instead
// lets upstream middleware (logging, metrics) observe the failure as an
// error with a status.
func Recover() strata.Middleware {
	return RecoverWithConfig(RecoverConfig{})
}

// RecoverWithConfig creates a panic recovery middleware with custom
// configuration.
func RecoverWithConfig(cfg RecoverConfig) strata.Middleware {
	if cfg.Handler == nil {
		cfg.Handler = func(ctx *strata.Context, v any) error {
			httpErr := strata.NewHTTPError(http.StatusInternalServerError, "")
			if err, ok := v.(error); ok {
				httpErr.Err = err
			} else {
				httpErr.Err = fmt.Errorf("panic: %v", v)
			}
			return httpErr
		}
	}

	return func(ctx *strata.Context, next strata.Next) (err error) {
		if cfg.Skip != nil && cfg.Skip(ctx) {
			return next()
		}

		defer func() {
			if v := recover(); v != nil {
				err = cfg.Handler(ctx, v)
			}
		}()
		return next()
	}
}
