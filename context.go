package strata

import (
	"context"
	"net/http"
	"time"
)

// Context is the per-request aggregate: a request view and a response view
// over one transport pair, a free-form state bag for user data, and a
// back-reference to the owning Application. Exactly one Context exists per
// request and it is never reused.
//
// Context implements context.Context by delegating to the request's context,
// so it can be passed directly to APIs that accept one.
type Context struct {
	app *Application
	req *http.Request
	w   *responseWriter

	request  Request
	response Response

	state       map[string]any
	originalURL string
	respond     bool
}

// contextKey carries the active Context inside the request's
// context.Context when propagation is enabled.
type contextKey struct{}

// createContext builds a fresh Context for one transport pair. It wires the
// request/response sub-views back to the owning context and application and
// records the originating URL before any middleware can rewrite it.
func (app *Application) createContext(w http.ResponseWriter, r *http.Request) *Context {
	ww := newResponseWriter(w)

	ctx := &Context{
		app:         app,
		req:         r,
		w:           ww,
		state:       make(map[string]any),
		originalURL: r.RequestURI,
		respond:     true,
	}
	ctx.request = Request{ctx: ctx}
	ctx.response = Response{ctx: ctx}

	if app.contextPropagation {
		r = r.WithContext(context.WithValue(r.Context(), contextKey{}, ctx))
		ctx.req = r
	}

	return ctx
}

// FromContext recovers the active request Context from a context.Context.
// It only succeeds for requests served by an Application created with
// WithContextPropagation; the association is request-scoped and goes away
// with the request.
func FromContext(ctx context.Context) (*Context, bool) {
	c, ok := ctx.Value(contextKey{}).(*Context)
	return c, ok
}

// App returns the owning Application.
func (c *Context) App() *Application {
	return c.app
}

// Request returns the request view.
func (c *Context) Request() *Request {
	return &c.request
}

// Response returns the response view.
func (c *Context) Response() *Response {
	return &c.response
}

// OriginalURL returns the request target as received from the transport,
// before any middleware had a chance to rewrite the URL.
func (c *Context) OriginalURL() string {
	return c.originalURL
}

// Set stores a value in the request-scoped state bag.
func (c *Context) Set(key string, val any) {
	c.state[key] = val
}

// Get retrieves a value from the request-scoped state bag.
func (c *Context) Get(key string) (any, bool) {
	val, ok := c.state[key]
	return val, ok
}

// State returns the state bag itself for bulk access.
func (c *Context) State() map[string]any {
	return c.state
}

// Respond reports whether the built-in response serializer will run for
// this request.
func (c *Context) Respond() bool {
	return c.respond
}

// SetRespond toggles the built-in response serializer. Middleware that
// writes to the raw transport directly should disable it.
func (c *Context) SetRespond(respond bool) {
	c.respond = respond
}

// OnError routes an error through the application's error policy. A nil
// error is a no-op.
func (c *Context) OnError(err error) {
	if err == nil {
		return
	}
	c.app.handleError(c, err)
}

// Method is shorthand for Request().Method().
func (c *Context) Method() string {
	return c.request.Method()
}

// Path is shorthand for Request().Path().
func (c *Context) Path() string {
	return c.request.Path()
}

// Status is shorthand for Response().Status().
func (c *Context) Status() int {
	return c.response.Status()
}

// SetStatus is shorthand for Response().SetStatus(code).
func (c *Context) SetStatus(code int) {
	c.response.SetStatus(code)
}

// Deadline delegates to the request's context.
func (c *Context) Deadline() (deadline time.Time, ok bool) {
	return c.req.Context().Deadline()
}

// Done delegates to the request's context.
func (c *Context) Done() <-chan struct{} {
	return c.req.Context().Done()
}

// Err delegates to the request's context.
func (c *Context) Err() error {
	return c.req.Context().Err()
}

// Value delegates to the request's context.
func (c *Context) Value(key any) any {
	return c.req.Context().Value(key)
}
