package testcfg

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds test-specific configuration for subgraph client acceptance tests
type Config struct {
	First       int           `env:"THEGRAPH_TEST_FIRST" envDefault:"5"`
	Skip        int           `env:"THEGRAPH_TEST_SKIP" envDefault:"100"`
	HTTPTimeout time.Duration `env:"THEGRAPH_TEST_HTTP_TIMEOUT" envDefault:"30s"`
	URL         string        `env:"THEGRAPH_TEST_URL" envDefault:"https://api.thegraph.com/subgraphs/name/uniswap/uniswap-v2"`
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
