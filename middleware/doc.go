// Package middleware provides ready-made middleware for strata applications:
// request IDs, structured request logging, panic recovery, per-client rate
// limiting, and Prometheus metrics.
//
// Each middleware follows the same pattern: a bare constructor with sensible
// defaults and a WithConfig variant for customization. All of them support a
// Skip function to bypass specific requests:
//
//	app.Use(middleware.RequestID())
//	app.Use(middleware.LoggingWithConfig(middleware.LoggingConfig{
//		Skip: func(ctx *strata.Context) bool {
//			return ctx.Path() == "/health"
//		},
//	}))
package middleware
