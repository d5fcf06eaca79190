// Package strata is a minimalist HTTP middleware framework core. It composes
// an ordered stack of middleware into a single request pipeline, wraps each
// request/response pair in a mutable per-request Context, and provides default
// response serialization and error reporting.
//
// An Application collects middleware with Use and exposes the composed
// pipeline as a standard http.Handler:
//
//	app := strata.New()
//	app.Use(func(ctx *strata.Context, next strata.Next) error {
//		start := time.Now()
//		if err := next(); err != nil {
//			return err
//		}
//		log.Printf("%s %s %s", ctx.Method(), ctx.Path(), time.Since(start))
//		return nil
//	})
//	app.Use(func(ctx *strata.Context, next strata.Next) error {
//		ctx.Response().SetBody("Hello World")
//		return nil
//	})
//	http.ListenAndServe(":8080", app)
//
// Middleware run in registration order before next is called and in reverse
// order after it resolves, forming the usual onion model. Errors returned by
// any layer short-circuit the pipeline and are routed through the
// application's error policy.
package strata

// Next invokes the remainder of the middleware chain. Each middleware may
// call its Next at most once; further calls fail the pipeline run with
// ErrMultipleNext.
type Next func() error

// Middleware participates in the composed request pipeline. It may inspect
// and mutate the context, run code before and after calling next, and may
// decline to call next to short-circuit the chain.
type Middleware func(ctx *Context, next Next) error

// Handler is a fully composed pipeline ready to run against one context.
type Handler func(ctx *Context) error

// Composer turns an ordered middleware list into a single Handler.
// Applications use Compose unless overridden with WithComposer.
type Composer func(mws []Middleware) Handler

// ErrorHandler reports errors that escaped the middleware chain or were
// signaled by the transport. See (*Application).onerror for the default
// reporting policy.
type ErrorHandler func(err error)
