package strata_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/strata-go/strata"
)

// Benchmark a minimal app serving a JSON body.
func BenchmarkJSONResponse(b *testing.B) {
	app := strata.New(strata.WithSilent(true))
	app.Use(func(ctx *strata.Context, next strata.Next) error {
		ctx.Response().SetBody(map[string]any{
			"id":      123,
			"name":    "test",
			"enabled": true,
			"tags":    []string{"tag1", "tag2", "tag3"},
		})
		return nil
	})
	handler := app.Handler()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		handler.ServeHTTP(w, req)
	}
}

func BenchmarkStringResponse(b *testing.B) {
	app := strata.New(strata.WithSilent(true))
	app.Use(func(ctx *strata.Context, next strata.Next) error {
		ctx.Response().SetBody("Hello, World! This is a test response.")
		return nil
	})
	handler := app.Handler()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		handler.ServeHTTP(w, req)
	}
}

// Benchmark dispatch overhead as the middleware stack grows.
func BenchmarkMiddlewareChain(b *testing.B) {
	app := strata.New(strata.WithSilent(true))
	for i := 0; i < 10; i++ {
		app.Use(func(ctx *strata.Context, next strata.Next) error {
			return next()
		})
	}
	app.Use(func(ctx *strata.Context, next strata.Next) error {
		ctx.Response().SetBody([]byte("ok"))
		return nil
	})
	handler := app.Handler()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		handler.ServeHTTP(w, req)
	}
}

func BenchmarkStreamedResponse(b *testing.B) {
	payload := make([]byte, 4096)
	app := strata.New(strata.WithSilent(true))
	app.Use(func(ctx *strata.Context, next strata.Next) error {
		ctx.Response().SetBody(io.NopCloser(newRepeatReader(payload, 16)))
		return nil
	})
	handler := app.Handler()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		handler.ServeHTTP(w, req)
	}
}

// repeatReader yields the same chunk a fixed number of times.
type repeatReader struct {
	chunk []byte
	left  int
}

func newRepeatReader(chunk []byte, n int) *repeatReader {
	return &repeatReader{chunk: chunk, left: n}
}

func (r *repeatReader) Read(p []byte) (int, error) {
	if r.left == 0 {
		return 0, io.EOF
	}
	r.left--
	n := copy(p, r.chunk)
	return n, nil
}
