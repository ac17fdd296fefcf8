package collector

import (
	"context"
	"errors"
	"time"

	"github.com/screwyprof/dexactivity/pkg/etherscan"
	"github.com/screwyprof/dexactivity/pkg/thegraph"
)

// Sentinel errors for failure cases
var (
	ErrFeedFailed       = errors.New("transaction feed failed")
	ErrResolutionFailed = errors.New("address resolution failed")
	ErrCountFailed      = errors.New("activity count failed")
	ErrFlushFailed      = errors.New("flushing rows failed")
	ErrInvalidRun       = errors.New("invalid run parameters")
)

// Default configuration values, matching the limits of the hosted subgraph
const (
	DefaultPageSize    = thegraph.MaxFirst
	DefaultMaxSkip     = thegraph.MaxSkip
	DefaultCallTimeout = 30 * time.Second
	DefaultFlushWait   = 10 * time.Second
)

// Feed pages through recent exchange transactions
// -----------------------------------------------
type Feed interface {
	Transactions(ctx context.Context, req thegraph.TransactionsRequest) ([]thegraph.Transaction, error)
}

// Resolver maps transaction ids to the addresses that sent them, in order.
// A failure fails the whole batch.
type Resolver interface {
	Senders(ctx context.Context, ids []string) ([]string, error)
}

// Counter counts an address's transactions within a block range
type Counter interface {
	CountTransactions(ctx context.Context, req etherscan.TxListRequest) (int, error)
}

// Store persists rows. Append must write the whole batch or nothing,
// and must never rewrite rows appended earlier.
type Store interface {
	Append(ctx context.Context, rows []Row) error
}

// Clock abstracts time for production and testing
// ------------------------------------------------
type Clock interface {
	Now() time.Time
}

// Run describes one collection run
// --------------------------------
type Run struct {
	// Target is the number of rows after which the run stops
	Target     int
	StartBlock uint64
	EndBlock   uint64
}

// Event represents a run lifecycle event
// --------------------------------------
type Event any

type RunStarted struct {
	StartedAt time.Time
	Run       Run
	PageSize  int
}

// PageCompleted is emitted after a page's rows have been flushed
type PageCompleted struct {
	Skip     int
	NextSkip int
	Resolved int
	Appended int
	Rows     int
}

// PageSkipped is emitted when the feed or the resolver failed for a page
type PageSkipped struct {
	Skip     int
	NextSkip int
	Err      error
}

// AddressSkipped is emitted when an address could not be counted
type AddressSkipped struct {
	Address string
	Err     error
}

type RunDone struct {
	Rows     []Row
	Pages    int
	Duration time.Duration
}

type RunShutdown struct {
	Reason error // Why shutdown occurred (ctx.Err())
	Rows   int
}

type RunError struct {
	Err  error
	Rows int
}
