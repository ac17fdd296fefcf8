package testcfg

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds test-specific configuration for collector acceptance tests
// NOTE: All values are test-optimized (smaller, faster) compared to production
type Config struct {
	PageSize          int           `env:"COLLECTOR_TEST_PAGE_SIZE" envDefault:"2"` // vs 1000 in production
	MaxSkip           int           `env:"COLLECTOR_TEST_MAX_SKIP" envDefault:"4"`  // vs 5000 in production
	CallTimeout       time.Duration `env:"COLLECTOR_TEST_CALL_TIMEOUT" envDefault:"2s"`
	HttpClientTimeout time.Duration `env:"COLLECTOR_TEST_HTTP_CLIENT_TIMEOUT" envDefault:"5s"`
	MigrationsDir     string        `env:"COLLECTOR_TEST_MIGRATIONS_DIR" envDefault:"../migrator/migrations"`

	// Test execution timeouts
	ShutdownTimeout time.Duration `env:"COLLECTOR_TEST_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// parseConfig wraps env.Parse to return (Config, error) for use with env.Must
func parseConfig() (Config, error) {
	var cfg Config
	err := env.Parse(&cfg)
	return cfg, err
}

// New loads test configuration from environment variables
func New() Config {
	return env.Must(parseConfig())
}
