package strata

import "log/slog"

// Option configures an Application during creation.
type Option func(*Application)

// WithProxy enables trust in proxy-supplied headers (X-Forwarded-For,
// X-Forwarded-Host, X-Forwarded-Proto).
func WithProxy(trust bool) Option {
	return func(app *Application) {
		app.proxy = trust
	}
}

// WithSubdomainOffset sets how many trailing host labels are ignored when
// computing subdomains. Default is 2 (host and TLD).
func WithSubdomainOffset(offset int) Option {
	return func(app *Application) {
		if offset >= 0 {
			app.subdomainOffset = offset
		}
	}
}

// WithProxyIPHeader sets the header carrying the client address chain when
// proxy trust is enabled. Default is "X-Forwarded-For".
func WithProxyIPHeader(header string) Option {
	return func(app *Application) {
		if header != "" {
			app.proxyIPHeader = header
		}
	}
}

// WithMaxIPsCount caps how many proxy hop entries are read from the proxy
// IP header. Zero means unlimited.
func WithMaxIPsCount(max int) Option {
	return func(app *Application) {
		if max >= 0 {
			app.maxIPsCount = max
		}
	}
}

// WithEnv sets the environment name, overriding the APP_ENV default.
func WithEnv(env string) Option {
	return func(app *Application) {
		if env != "" {
			app.env = env
		}
	}
}

// WithKeys sets the signing keys used for signed cookies, newest first.
// Older keys remain valid for verification, enabling rotation.
func WithKeys(keys ...string) Option {
	return func(app *Application) {
		app.keys = keys
	}
}

// WithSilent suppresses the default error policy's diagnostics entirely.
// Recovered panics are still reported.
func WithSilent(silent bool) Option {
	return func(app *Application) {
		app.silent = silent
	}
}

// WithLogger sets the logger used by the default error policy.
func WithLogger(log *slog.Logger) Option {
	return func(app *Application) {
		if log != nil {
			app.logger = log
		}
	}
}

// WithErrorHandler replaces the default error policy. Set it before
// serving traffic.
func WithErrorHandler(h ErrorHandler) Option {
	return func(app *Application) {
		app.onError = h
	}
}

// WithComposer overrides the middleware composition algorithm.
func WithComposer(c Composer) Option {
	return func(app *Application) {
		if c != nil {
			app.compose = c
		}
	}
}

// WithContextPropagation makes the active Context retrievable from any
// context.Context derived from the request via FromContext.
func WithContextPropagation(enabled bool) Option {
	return func(app *Application) {
		app.contextPropagation = enabled
	}
}
