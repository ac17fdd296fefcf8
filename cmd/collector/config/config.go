package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/screwyprof/dexactivity/collector"
	"github.com/screwyprof/dexactivity/pkg/thegraph"
)

// ErrInvalidArgs is returned when the command line cannot be parsed
var ErrInvalidArgs = errors.New("invalid arguments")

// Config holds all configuration loaded from environment variables
type Config struct {
	// Upstream services
	EtherscanToken string  `env:"ETHERSCAN_TOKEN,required,notEmpty"`
	ProviderURL    string  `env:"PROVIDER,required,notEmpty"`
	GraphURL       string  `env:"COLLECTOR_GRAPH_URL" envDefault:"https://api.thegraph.com/subgraphs/name/uniswap/uniswap-v2"`
	ExplorerURL    string  `env:"COLLECTOR_EXPLORER_URL" envDefault:"https://api.etherscan.io"`
	ExplorerRate   float64 `env:"COLLECTOR_EXPLORER_RATE" envDefault:"5"`

	// Paging
	PageSize int `env:"COLLECTOR_PAGE_SIZE" envDefault:"1000"`
	MaxSkip  int `env:"COLLECTOR_MAX_SKIP" envDefault:"5000"`

	// Timeouts
	HttpClientTimeout time.Duration `env:"COLLECTOR_HTTP_CLIENT_TIMEOUT" envDefault:"30s"`
	CallTimeout       time.Duration `env:"COLLECTOR_CALL_TIMEOUT" envDefault:"30s"`

	// Optional PostgreSQL mirror of the output file
	DatabaseURL   string `env:"COLLECTOR_DATABASE_URL"`
	MigrationsDir string `env:"COLLECTOR_MIGRATIONS_DIR" envDefault:"migrator/migrations"`

	// Logging configuration
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	LogHumanFriendly bool   `env:"LOG_HUMAN_FRIENDLY" envDefault:"false"`
}

// New loads all configuration from environment variables
func New() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.PageSize <= 0 || c.PageSize > thegraph.MaxFirst {
		return fmt.Errorf("COLLECTOR_PAGE_SIZE must be in 1..%d, got %d", thegraph.MaxFirst, c.PageSize)
	}
	if c.MaxSkip < 0 || c.MaxSkip > thegraph.MaxSkip {
		return fmt.Errorf("COLLECTOR_MAX_SKIP must be in 0..%d, got %d", thegraph.MaxSkip, c.MaxSkip)
	}
	if c.ExplorerRate <= 0 {
		return fmt.Errorf("COLLECTOR_EXPLORER_RATE must be positive, got %v", c.ExplorerRate)
	}
	if c.CallTimeout <= 0 {
		return fmt.Errorf("COLLECTOR_CALL_TIMEOUT must be positive, got %s", c.CallTimeout)
	}
	if c.HttpClientTimeout < 0 {
		return fmt.Errorf("COLLECTOR_HTTP_CLIENT_TIMEOUT must not be negative, got %s", c.HttpClientTimeout)
	}
	return nil
}

// Args holds the command line arguments of a run
type Args struct {
	Run collector.Run
	Out string
}

// ParseArgs parses the command line. Every flag is required and has a short
// and a long name.
func ParseArgs(name string, args []string, output io.Writer) (Args, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)

	var a Args
	fs.IntVar(&a.Run.Target, "n", 0, "number of rows to collect")
	fs.IntVar(&a.Run.Target, "num", 0, "number of rows to collect")
	fs.Uint64Var(&a.Run.StartBlock, "s", 0, "first block of the counting range")
	fs.Uint64Var(&a.Run.StartBlock, "start", 0, "first block of the counting range")
	fs.Uint64Var(&a.Run.EndBlock, "e", 0, "last block of the counting range")
	fs.Uint64Var(&a.Run.EndBlock, "end", 0, "last block of the counting range")
	fs.StringVar(&a.Out, "o", "", "output CSV file")
	fs.StringVar(&a.Out, "out", "", "output CSV file")

	if err := fs.Parse(args); err != nil {
		return Args{}, fmt.Errorf("%w: %w", ErrInvalidArgs, err)
	}
	if fs.NArg() > 0 {
		return Args{}, fmt.Errorf("%w: unexpected arguments %v", ErrInvalidArgs, fs.Args())
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	var missing []string
	for _, pair := range [][2]string{{"n", "num"}, {"s", "start"}, {"e", "end"}, {"o", "out"}} {
		if !set[pair[0]] && !set[pair[1]] {
			missing = append(missing, "-"+pair[0]+"/--"+pair[1])
		}
	}
	if len(missing) > 0 {
		return Args{}, fmt.Errorf("%w: missing required flags %v", ErrInvalidArgs, missing)
	}

	// the database mirror stores blocks as BIGINT
	if a.Run.StartBlock > math.MaxInt64 || a.Run.EndBlock > math.MaxInt64 {
		return Args{}, fmt.Errorf("%w: block numbers must not exceed %d", ErrInvalidArgs, int64(math.MaxInt64))
	}
	if a.Out == "" {
		return Args{}, fmt.Errorf("%w: output path must not be empty", ErrInvalidArgs)
	}
	if err := a.Run.Validate(); err != nil {
		return Args{}, fmt.Errorf("%w: %w", ErrInvalidArgs, err)
	}
	return a, nil
}
