package strata_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strata-go/strata"
)

func TestApplicationDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")

	app := strata.New()
	data, err := json.Marshal(app)
	require.NoError(t, err)
	assert.JSONEq(t, `{"subdomainOffset":2,"proxy":false,"env":"development"}`, string(data))
}

func TestApplicationIntrospection(t *testing.T) {
	t.Parallel()

	app := strata.New(
		strata.WithProxy(true),
		strata.WithSubdomainOffset(3),
		strata.WithEnv("production"),
		strata.WithKeys("secret"),
	)

	data, err := json.Marshal(app)
	require.NoError(t, err)

	// Keys must never leak through introspection.
	assert.JSONEq(t, `{"subdomainOffset":3,"proxy":true,"env":"production"}`, string(data))
	assert.Equal(t, "production", app.Env())
	assert.Equal(t, []string{"secret"}, app.Keys())
}

func TestApplicationErrorProducesFailureResponse(t *testing.T) {
	t.Parallel()

	app := strata.New(strata.WithSilent(true))
	app.Use(func(ctx *strata.Context, next strata.Next) error {
		return errors.New("boom")
	})

	w := serve(t, app, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal Server Error", w.Body.String())
}

func TestApplicationHTTPErrorStatus(t *testing.T) {
	t.Parallel()

	app := strata.New(strata.WithSilent(true))
	app.Use(func(ctx *strata.Context, next strata.Next) error {
		return strata.NewHTTPError(http.StatusForbidden, "no entry")
	})

	w := serve(t, app, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	// 4xx errors are exposable by default, so the message reaches the client.
	assert.Equal(t, "no entry", w.Body.String())
}

func TestApplicationUnexposedErrorHidesMessage(t *testing.T) {
	t.Parallel()

	app := strata.New(strata.WithSilent(true))
	app.Use(func(ctx *strata.Context, next strata.Next) error {
		return &strata.HTTPError{Status: http.StatusBadGateway, Message: "upstream secret detail"}
	})

	w := serve(t, app, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Bad Gateway", w.Body.String())
}

func TestApplicationPanicRecovery(t *testing.T) {
	t.Parallel()

	var reported error
	app := strata.New(strata.WithErrorHandler(func(err error) {
		reported = err
	}))
	app.Use(func(ctx *strata.Context, next strata.Next) error {
		panic("kaboom")
	})

	w := serve(t, app, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var pe *strata.PanicError
	require.ErrorAs(t, reported, &pe)
	assert.Equal(t, "kaboom", pe.Value())
	assert.NotEmpty(t, pe.Stack())
}

func TestApplicationErrorHandlerOverride(t *testing.T) {
	t.Parallel()

	var handled []error
	app := strata.New(strata.WithErrorHandler(func(err error) {
		handled = append(handled, err)
	}))
	app.Use(func(ctx *strata.Context, next strata.Next) error {
		return errors.New("custom handled")
	})

	serve(t, app, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Len(t, handled, 1)
	assert.EqualError(t, handled[0], "custom handled")
}

func TestApplicationErrorAfterHeadersSent(t *testing.T) {
	t.Parallel()

	app := strata.New(strata.WithSilent(true))
	app.Use(func(ctx *strata.Context, next strata.Next) error {
		w := ctx.Response().Raw()
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("partial")); err != nil {
			return err
		}
		return errors.New("too late")
	})

	w := serve(t, app, httptest.NewRequest(http.MethodGet, "/", nil))

	// The partial response stands; no failure body is appended.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "partial", w.Body.String())
}

func TestOnErrorRoutesThroughPolicy(t *testing.T) {
	t.Parallel()

	var reported error
	app := strata.New(strata.WithErrorHandler(func(err error) {
		reported = err
	}))
	app.Use(func(ctx *strata.Context, next strata.Next) error {
		ctx.OnError(errors.New("reported manually"))
		ctx.OnError(nil) // no-op
		return nil
	})

	serve(t, app, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Error(t, reported)
	assert.EqualError(t, reported, "reported manually")
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	cfg := strata.Config{
		Proxy:           true,
		SubdomainOffset: 4,
		ProxyIPHeader:   "X-Real-IP",
		Env:             "staging",
		Keys:            "new, old",
	}

	app := strata.NewFromConfig(cfg)

	data, err := json.Marshal(app)
	require.NoError(t, err)
	assert.JSONEq(t, `{"subdomainOffset":4,"proxy":true,"env":"staging"}`, string(data))
	assert.Equal(t, []string{"new", "old"}, app.Keys())
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := strata.DefaultConfig()
	assert.False(t, cfg.Proxy)
	assert.Equal(t, 2, cfg.SubdomainOffset)
	assert.Equal(t, "X-Forwarded-For", cfg.ProxyIPHeader)
	assert.Equal(t, "development", cfg.Env)
}
