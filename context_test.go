package strata_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strata-go/strata"
)

func TestContextsAreIndependent(t *testing.T) {
	t.Parallel()

	app := strata.New()
	var first, second *strata.Context

	app.Use(func(ctx *strata.Context, next strata.Next) error {
		if first == nil {
			first = ctx
			ctx.Set("who", "first")
		} else {
			second = ctx
			ctx.Set("who", "second")
		}
		ctx.Response().SetBody("ok")
		return next()
	})

	serve(t, app, httptest.NewRequest(http.MethodGet, "/a", nil))
	serve(t, app, httptest.NewRequest(http.MethodGet, "/b", nil))

	require.NotNil(t, first)
	require.NotNil(t, second)
	require.NotSame(t, first, second)

	v1, _ := first.Get("who")
	v2, _ := second.Get("who")
	assert.Equal(t, "first", v1)
	assert.Equal(t, "second", v2)

	// Mutating one state bag never affects the other.
	first.Set("extra", 1)
	_, ok := second.Get("extra")
	assert.False(t, ok)
}

func TestContextBackReferences(t *testing.T) {
	t.Parallel()

	app := strata.New()
	app.Use(func(ctx *strata.Context, next strata.Next) error {
		assert.Same(t, app, ctx.App())
		assert.Same(t, ctx, ctx.Request().Context())
		assert.Same(t, ctx, ctx.Response().Context())
		ctx.Response().SetBody("ok")
		return next()
	})

	serve(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestContextOriginalURL(t *testing.T) {
	t.Parallel()

	app := strata.New()
	app.Use(func(ctx *strata.Context, next strata.Next) error {
		// Rewrite the URL; the original target must survive.
		ctx.Request().Raw().URL.Path = "/rewritten"
		assert.Equal(t, "/original?q=1", ctx.OriginalURL())
		ctx.Response().SetBody("ok")
		return next()
	})

	serve(t, app, httptest.NewRequest(http.MethodGet, "/original?q=1", nil))
}

func TestContextPropagation(t *testing.T) {
	t.Parallel()

	app := strata.New(strata.WithContextPropagation(true))
	app.Use(func(ctx *strata.Context, next strata.Next) error {
		// Deep code receiving only a context.Context can recover the
		// active request context.
		recovered, ok := strata.FromContext(ctx.Request().Raw().Context())
		require.True(t, ok)
		assert.Same(t, ctx, recovered)

		// Context itself satisfies context.Context.
		recovered, ok = strata.FromContext(ctx)
		require.True(t, ok)
		assert.Same(t, ctx, recovered)

		ctx.Response().SetBody("ok")
		return next()
	})

	serve(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestContextPropagationDisabled(t *testing.T) {
	t.Parallel()

	app := strata.New()
	app.Use(func(ctx *strata.Context, next strata.Next) error {
		_, ok := strata.FromContext(ctx.Request().Raw().Context())
		assert.False(t, ok)
		ctx.Response().SetBody("ok")
		return next()
	})

	serve(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestFromContextMiss(t *testing.T) {
	t.Parallel()

	_, ok := strata.FromContext(context.Background())
	assert.False(t, ok)
}

func TestContextDelegatesToRequestContext(t *testing.T) {
	t.Parallel()

	type key struct{}

	app := strata.New()
	app.Use(func(ctx *strata.Context, next strata.Next) error {
		assert.Equal(t, "val", ctx.Value(key{}))
		assert.NoError(t, ctx.Err())
		ctx.Response().SetBody("ok")
		return next()
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), key{}, "val"))
	serve(t, app, req)
}
