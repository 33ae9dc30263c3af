package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the storefront needs from the environment.
// Values are read with the STOREFRONT_ prefix, e.g. STOREFRONT_API_BASE_URL.
type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	// Base URL of the backend storefront API (cart, profile, orders).
	APIBaseURL string `envconfig:"API_BASE_URL" default:"http://localhost:8081"`

	UpstreamTimeout time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"10s"`

	// Sessions idle longer than this are swept, engine and notices included.
	SessionIdleTTL time.Duration `envconfig:"SESSION_IDLE_TTL" default:"30m"`

	// How long transient notices stay visible before the sink dismisses them.
	ToastTTL   time.Duration `envconfig:"TOAST_TTL" default:"1600ms"`
	MessageTTL time.Duration `envconfig:"MESSAGE_TTL" default:"1800ms"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("storefront", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
