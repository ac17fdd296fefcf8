package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/time/rate"

	"github.com/screwyprof/dexactivity/cmd/collector/config"
	"github.com/screwyprof/dexactivity/collector"
	"github.com/screwyprof/dexactivity/collector/store/csvstore"
	"github.com/screwyprof/dexactivity/collector/store/pgxstore"
	"github.com/screwyprof/dexactivity/collector/store/tee"
	"github.com/screwyprof/dexactivity/migrator"
	"github.com/screwyprof/dexactivity/pkg/etherscan"
	"github.com/screwyprof/dexactivity/pkg/ethrpc"
	"github.com/screwyprof/dexactivity/pkg/logger"
	"github.com/screwyprof/dexactivity/pkg/pgxdb"
	"github.com/screwyprof/dexactivity/pkg/thegraph"
)

func main() {
	os.Exit(run())
}

func run() int {
	args, err := config.ParseArgs(os.Args[0], os.Args[1:], os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	// Load configuration
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	// Initialize logger and set as default; stdout is left to the user
	log := logger.NewFromConfig(logger.Config{
		LogLevel:         cfg.LogLevel,
		LogHumanFriendly: cfg.LogHumanFriendly,
		Output:           os.Stderr,
	})
	slog.SetDefault(log)

	// Prepare context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// HTTP client shared by every upstream
	httpClient := &http.Client{
		Timeout:   cfg.HttpClientTimeout,
		Transport: logger.NewTransport(log, nil),
	}

	resolver, err := ethrpc.Dial(ctx, cfg.ProviderURL,
		ethrpc.WithHTTPClient(httpClient),
		ethrpc.WithCallTimeout(cfg.CallTimeout),
	)
	if err != nil {
		log.ErrorContext(ctx, "Failed to connect to provider", slog.Any("error", err))
		return 1
	}
	defer resolver.Close()

	if rate.Limit(cfg.ExplorerRate) > etherscan.DefaultRate {
		log.WarnContext(ctx, "Explorer rate is above the free tier limit",
			slog.Float64("rate", cfg.ExplorerRate),
			slog.Float64("freeTier", float64(etherscan.DefaultRate)),
		)
	}

	feed := thegraph.NewClient(httpClient, cfg.GraphURL)
	counter := etherscan.NewClient(httpClient, cfg.ExplorerURL, cfg.EtherscanToken,
		etherscan.WithRate(rate.Limit(cfg.ExplorerRate)),
	)

	// Output file
	csvStore, err := csvstore.Open(args.Out)
	if err != nil {
		log.ErrorContext(ctx, "Failed to open output file", slog.String("path", args.Out), slog.Any("error", err))
		return 1
	}
	defer func() {
		if err := csvStore.Close(); err != nil {
			log.ErrorContext(ctx, "Failed to close output file", slog.Any("error", err))
		}
	}()

	var store collector.Store = csvStore
	if cfg.DatabaseURL != "" {
		pgStore, closer, err := openDatabase(ctx, log, cfg)
		if err != nil {
			log.ErrorContext(ctx, "Failed to prepare database", slog.Any("error", err))
			return 1
		}
		defer closer()
		store = tee.New(csvStore, pgStore)
	}

	// Create collector service
	svc := collector.NewService(feed, resolver, counter, store,
		collector.WithPageSize(cfg.PageSize),
		collector.WithMaxSkip(cfg.MaxSkip),
		collector.WithCallTimeout(cfg.CallTimeout),
	)

	log.InfoContext(ctx, "Starting activity collector",
		slog.Int("num", args.Run.Target),
		slog.Uint64("startBlock", args.Run.StartBlock),
		slog.Uint64("endBlock", args.Run.EndBlock),
		slog.String("out", args.Out),
		slog.Bool("database", cfg.DatabaseURL != ""),
	)
	events, done := svc.Start(ctx, args.Run)

	// Subscribe to events for logging
	exitCode := 0
	subCloser := setupEventLogging(ctx, events, log, &exitCode)

	// Wait for the run to finish
	<-done
	subCloser()

	return exitCode
}

// openDatabase connects to the mirror database and brings its schema up to date
func openDatabase(ctx context.Context, log *slog.Logger, cfg config.Config) (*pgxstore.Store, func(), error) {
	db, err := pgxdb.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	n, err := migrator.ApplyMigrations(db, cfg.MigrationsDir)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	log.InfoContext(ctx, "Database migrations applied", slog.Int("applied", n))

	store, closer := pgxstore.New(db)
	return store, closer, nil
}

// setupEventLogging configures event handlers using slog directly
func setupEventLogging(ctx context.Context, events <-chan collector.Event, log *slog.Logger, exitCode *int) func() {
	return collector.NewSubscriber(events,
		collector.OnRunStarted(func(event collector.RunStarted) {
			log.InfoContext(ctx, "Run started",
				slog.String("startedAt", event.StartedAt.Format(logger.BritishTimeFormat)),
				slog.Int("target", event.Run.Target),
				slog.Int("pageSize", event.PageSize),
			)
		}),
		collector.OnPageCompleted(func(event collector.PageCompleted) {
			log.InfoContext(ctx, "Page completed",
				slog.Int("skip", event.Skip),
				slog.Int("resolved", event.Resolved),
				slog.Int("appended", event.Appended),
				slog.Int("rows", event.Rows),
			)
		}),
		collector.OnPageSkipped(func(event collector.PageSkipped) {
			log.WarnContext(ctx, "Page skipped",
				slog.Int("skip", event.Skip),
				slog.Int("nextSkip", event.NextSkip),
				slog.Any("error", event.Err),
			)
		}),
		collector.OnAddressSkipped(func(event collector.AddressSkipped) {
			log.DebugContext(ctx, "Address skipped",
				slog.String("address", event.Address),
				slog.Any("error", event.Err),
			)
		}),
		collector.OnRunDone(func(event collector.RunDone) {
			log.InfoContext(ctx, "Run completed",
				slog.Int("rows", len(event.Rows)),
				slog.Int("pages", event.Pages),
				slog.Duration("duration", event.Duration),
			)
		}),
		collector.OnRunShutdown(func(event collector.RunShutdown) {
			log.InfoContext(ctx, "Run stopped",
				slog.String("reason", event.Reason.Error()),
				slog.Int("rows", event.Rows),
			)
		}),
		collector.OnRunError(func(event collector.RunError) {
			log.ErrorContext(ctx, "Run failed",
				slog.Any("error", event.Err),
				slog.Int("rows", event.Rows),
			)
			*exitCode = 1
		}),
	)
}
