// Package config loads the service configuration from the environment,
// optionally seeded from a local .env file.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type HTTPConfig struct {
	Addr            string        `env:"HTTP_ADDR" env-default:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type StoreConfig struct {
	// Driver selects the snapshot store: memory, redis or sqlite.
	Driver     string `env:"STORE_DRIVER" env-default:"memory"`
	RedisAddr  string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	SQLitePath string `env:"SQLITE_PATH" env-default:"./data/storefront.db"`
	Namespace  string `env:"STORE_NAMESPACE" env-default:"storefront"`

	// CartTTL is how long an idle cart survives in Redis. Zero disables
	// expiry. Ignored by the other drivers.
	CartTTL time.Duration `env:"CART_TTL" env-default:"720h"`
}

type PricingConfig struct {
	TaxRate      float64 `env:"TAX_RATE" env-default:"0.10"`
	FlatShipping float64 `env:"FLAT_SHIPPING" env-default:"5.00"`
}

type CatalogConfig struct {
	// SeedPath points at a JSON product file; empty uses the built-in set.
	SeedPath string `env:"CATALOG_SEED" env-default:""`
}

type TelemetryConfig struct {
	ServiceName     string `env:"OTEL_SERVICE_NAME" env-default:"storefront"`
	LogLevel        string `env:"LOG_LEVEL" env-default:"info"`
	TracingDisabled bool   `env:"TRACING_DISABLED" env-default:"false"`
}

type Config struct {
	HTTP      HTTPConfig
	Store     StoreConfig
	Pricing   PricingConfig
	Catalog   CatalogConfig
	Telemetry TelemetryConfig
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read environment: %w", err)
	}
	return &cfg, nil
}
