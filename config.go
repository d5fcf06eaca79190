package strata

import (
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application configuration with environment variable support.
type Config struct {
	Proxy              bool   `env:"STRATA_PROXY" envDefault:"false"`
	SubdomainOffset    int    `env:"STRATA_SUBDOMAIN_OFFSET" envDefault:"2"`
	ProxyIPHeader      string `env:"STRATA_PROXY_IP_HEADER" envDefault:"X-Forwarded-For"`
	MaxIPsCount        int    `env:"STRATA_MAX_IPS_COUNT" envDefault:"0"`
	Env                string `env:"APP_ENV" envDefault:"development"`
	Keys               string `env:"STRATA_KEYS" envDefault:""`
	Silent             bool   `env:"STRATA_SILENT" envDefault:"false"`
	ContextPropagation bool   `env:"STRATA_CONTEXT_PROPAGATION" envDefault:"false"`
}

// DefaultConfig returns a Config with the documented defaults.
func DefaultConfig() Config {
	return Config{
		SubdomainOffset: 2,
		ProxyIPHeader:   "X-Forwarded-For",
		Env:             "development",
	}
}

// LoadConfig reads configuration from the environment, loading a .env file
// first when one is present.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// NewFromConfig creates an Application from configuration. Additional
// options can override config values.
func NewFromConfig(cfg Config, opts ...Option) *Application {
	configOpts := []Option{
		WithProxy(cfg.Proxy),
		WithSubdomainOffset(cfg.SubdomainOffset),
		WithProxyIPHeader(cfg.ProxyIPHeader),
		WithMaxIPsCount(cfg.MaxIPsCount),
		WithEnv(cfg.Env),
		WithSilent(cfg.Silent),
		WithContextPropagation(cfg.ContextPropagation),
	}
	if keys := cfg.parseKeys(); len(keys) > 0 {
		configOpts = append(configOpts, WithKeys(keys...))
	}

	configOpts = append(configOpts, opts...)
	return New(configOpts...)
}

// parseKeys splits comma-separated signing keys for rotation support.
// Empty entries are filtered out.
func (c Config) parseKeys() []string {
	if c.Keys == "" {
		return nil
	}

	parts := strings.Split(c.Keys, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if k := strings.TrimSpace(p); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
