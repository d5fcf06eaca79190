package middleware

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/strata-go/strata"
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx *strata.Context) bool
	// RPS is the sustained requests-per-second budget per key (default: 5)
	RPS float64
	// Burst is the burst allowance per key (default: 10)
	Burst int
	// KeyFunc extracts the rate limiting key from a request (default: client IP)
	KeyFunc func(ctx *strata.Context) string
	// ErrorHandler maps a rejected request to the pipeline error
	// (default: 429 Too Many Requests)
	ErrorHandler func(ctx *strata.Context) error
}

// limiterPool lazily creates one token bucket per key.
type limiterPool struct {
	mu    sync.Mutex
	m     map[string]*rate.Limiter
	rps   float64
	burst int
}

func (p *limiterPool) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if l, ok := p.m[key]; ok {
		return l
	}
	l := rate.NewLimiter(rate.Limit(p.rps), p.burst)
	p.m[key] = l
	return l
}

func (p *limiterPool) allow(key string) bool {
	return p.get(key).Allow()
}

// RateLimit creates a rate limiting middleware with default configuration:
// 5 requests per second with a burst of 10, keyed by client IP.
func RateLimit() strata.Middleware {
	return RateLimitWithConfig(RateLimitConfig{})
}

// RateLimitWithConfig creates a rate limiting middleware with custom
// configuration. Requests over budget fail the pipeline with a 429 error,
// which the default error policy leaves unlogged (it is exposable).
func RateLimitWithConfig(cfg RateLimitConfig) strata.Middleware {
	if cfg.RPS <= 0 {
		cfg.RPS = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(ctx *strata.Context) string {
			return ctx.Request().IP()
		}
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(ctx *strata.Context) error {
			return strata.NewHTTPError(http.StatusTooManyRequests, "")
		}
	}

	pool := &limiterPool{
		m:     make(map[string]*rate.Limiter),
		rps:   cfg.RPS,
		burst: cfg.Burst,
	}

	return func(ctx *strata.Context, next strata.Next) error {
		if cfg.Skip != nil && cfg.Skip(ctx) {
			return next()
		}

		if !pool.allow(cfg.KeyFunc(ctx)) {
			return cfg.ErrorHandler(ctx)
		}
		return next()
	}
}
