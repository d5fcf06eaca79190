package strata

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"runtime/debug"
	"sync"
)

// Application holds the middleware stack and the shared per-instance
// configuration every request context refers back to. Create one with New,
// register middleware with Use, and serve it as a standard http.Handler.
//
// The middleware list is expected to be fully registered before serving
// traffic; calling Use concurrently with request handling is undefined
// behavior. A pipeline composed for a request is a snapshot, so later Use
// calls only affect pipelines composed afterwards.
type Application struct {
	proxy              bool
	subdomainOffset    int
	proxyIPHeader      string
	maxIPsCount        int
	env                string
	keys               []string
	silent             bool
	contextPropagation bool

	middleware []Middleware
	compose    Composer
	onError    ErrorHandler
	logger     *slog.Logger

	once    sync.Once
	handler http.Handler
}

// New creates an Application with the given options.
func New(opts ...Option) *Application {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	app := &Application{
		subdomainOffset: 2,
		proxyIPHeader:   "X-Forwarded-For",
		env:             env,
		compose:         Compose,
		logger:          slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// Use appends a middleware to the stack and returns the application for
// chaining. Registering a nil middleware is a programmer error and panics
// with ErrNilMiddleware without mutating the stack.
func (app *Application) Use(m Middleware) *Application {
	if m == nil {
		panic(ErrNilMiddleware)
	}
	app.middleware = append(app.middleware, m)
	return app
}

// Env returns the configured environment name.
func (app *Application) Env() string {
	return app.env
}

// Keys returns the configured signing keys, newest first.
func (app *Application) Keys() []string {
	return app.keys
}

// Handler composes the current middleware stack into a single pipeline and
// returns an http.Handler that dispatches each request through it. The
// stack is snapshotted at call time.
func (app *Application) Handler() http.Handler {
	pipeline := app.compose(app.middleware)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := app.createContext(w, r)
		app.handleRequest(ctx, pipeline)
	})
}

// ServeHTTP implements http.Handler. The pipeline is composed once, on the
// first request.
func (app *Application) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	app.once.Do(func() {
		app.handler = app.Handler()
	})
	app.handler.ServeHTTP(w, r)
}

// handleRequest drives one request's lifecycle: preset the not-found
// status, arm the transport finalization hook, run the pipeline, and hand
// the outcome to the serializer or the error policy. Finalization is
// guaranteed on every path.
func (app *Application) handleRequest(ctx *Context, h Handler) {
	ctx.response.setDefaultStatus(http.StatusNotFound)

	// Transport failures surface outside pipeline control flow; route them
	// through the same error policy.
	ctx.w.onFinish = func(err error) {
		if err != nil {
			app.report(err)
		}
	}
	defer ctx.w.finish()

	if err := app.run(ctx, h); err != nil {
		app.handleError(ctx, err)
		return
	}
	respond(ctx)
}

// run executes the pipeline, converting panics into *PanicError so one
// request's defect never takes down the process.
func (app *Application) run(ctx *Context, h Handler) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &PanicError{value: v, stack: debug.Stack()}
		}
	}()
	return h(ctx)
}

// handleError reports err through the error policy and, when the response
// is still writable with headers unsent, produces a minimal failure
// response so the client is not left hanging.
func (app *Application) handleError(ctx *Context, err error) {
	app.report(err)

	res := &ctx.response
	if !res.Writable() || res.HeaderWritten() {
		return
	}

	status := errorStatus(err)
	body := statusMessage(status)
	if errorExposed(err) {
		body = err.Error()
	}

	// Drop headers the failed handler may have half-set.
	res.Remove("Content-Length")
	res.Remove("Transfer-Encoding")
	res.SetType("text/plain; charset=utf-8")
	ctx.w.end(status, []byte(body))
}

// report invokes the configured error handler, defaulting to onerror.
func (app *Application) report(err error) {
	if app.onError != nil {
		app.onError(err)
		return
	}
	app.onerror(err)
}

// onerror is the default error policy. Recovered panics indicate
// programming defects and are always logged with their stack. Not-found
// errors, errors marked safe for client visibility, and everything in
// silent mode are ignored; the rest get a structured diagnostic on the
// application's logger.
func (app *Application) onerror(err error) {
	var pe *PanicError
	if errors.As(err, &pe) {
		app.logger.Error("panic recovered",
			slog.String("error", pe.Error()),
			slog.String("stack", string(pe.Stack())),
		)
		return
	}

	status := errorStatus(err)
	if status == http.StatusNotFound || errorExposed(err) || app.silent {
		return
	}

	app.logger.Error("request error",
		slog.Int("status", status),
		slog.Any("error", err),
	)
}

// MarshalJSON exposes the introspection snapshot used for debugging and
// diagnostics output.
func (app *Application) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		SubdomainOffset int    `json:"subdomainOffset"`
		Proxy           bool   `json:"proxy"`
		Env             string `json:"env"`
	}{
		SubdomainOffset: app.subdomainOffset,
		Proxy:           app.proxy,
		Env:             app.env,
	})
}
