package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/screwyprof/dexactivity/pkg/clock"
	"github.com/screwyprof/dexactivity/pkg/etherscan"
	"github.com/screwyprof/dexactivity/pkg/remote"
	"github.com/screwyprof/dexactivity/pkg/thegraph"
)

// Option configures the Service
// ------------------------------------------------
type Option func(*Service)

// WithClock injects a custom Clock (e.g., for testing)
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithPageSize sets the number of feed transactions requested per page
func WithPageSize(n int) Option {
	return func(s *Service) { s.pageSize = n }
}

// WithMaxSkip sets the deepest feed offset before paging wraps to zero
func WithMaxSkip(n int) Option {
	return func(s *Service) { s.maxSkip = n }
}

// WithCallTimeout bounds every feed and counter call.
// A non-positive duration keeps the default.
func WithCallTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.callTimeout = d
		}
	}
}

// Service samples feed pages into an append-only table of address activity
// -------------------------------------------------------------------------
type Service struct {
	feed        Feed
	resolver    Resolver
	counter     Counter
	store       Store
	clock       Clock
	pageSize    int
	maxSkip     int
	callTimeout time.Duration
	events      chan Event
}

// NewService constructs a Service with required dependencies and options
// ---------------------------------------------------------------------
// By default, it uses a real clock, pages of 1000 up to an offset of 5000,
// and a 30s timeout per call.
func NewService(feed Feed, resolver Resolver, counter Counter, store Store, opts ...Option) *Service {
	s := &Service{
		feed:        feed,
		resolver:    resolver,
		counter:     counter,
		store:       store,
		clock:       clock.SystemClock{},
		pageSize:    DefaultPageSize,
		maxSkip:     DefaultMaxSkip,
		callTimeout: DefaultCallTimeout,
		events:      make(chan Event, 10),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the run and returns the events channel and done channel.
//
// Shutdown pattern:
//  1. Cancel context to request shutdown: cancel()
//  2. Service flushes collected rows, emits RunShutdown and closes events channel
//  3. Wait for complete shutdown: <-done
//
// The run itself is sequential: one request at a time, and the table and the
// feed offset are only touched by the run goroutine.
func (s *Service) Start(ctx context.Context, run Run) (<-chan Event, <-chan struct{}) {
	done := make(chan struct{})
	go func() {
		defer close(s.events)
		defer close(done)
		s.run(ctx, run)
	}()
	return s.events, done
}

// NextSkip advances the feed offset by one page, wrapping to zero past maxSkip
func NextSkip(skip, pageSize, maxSkip int) int {
	skip += pageSize
	if skip > maxSkip {
		return 0
	}
	return skip
}

// Validate checks the run parameters
func (r Run) Validate() error {
	if r.Target <= 0 {
		return fmt.Errorf("%w: target must be positive, got %d", ErrInvalidRun, r.Target)
	}
	if r.StartBlock > r.EndBlock {
		return fmt.Errorf("%w: start block %d is after end block %d", ErrInvalidRun, r.StartBlock, r.EndBlock)
	}
	return nil
}

// run pages through the feed until the table holds at least run.Target rows.
// The target is checked between pages, so the last page may overshoot it.
func (s *Service) run(ctx context.Context, run Run) {
	start := s.clock.Now()

	if err := run.Validate(); err != nil {
		s.events <- RunError{Err: err}
		return
	}

	s.events <- RunStarted{
		StartedAt: start,
		Run:       run,
		PageSize:  s.pageSize,
	}

	var (
		table Table
		skip  int
		pages int
	)
	for table.Len() < run.Target {
		if err := ctx.Err(); err != nil {
			s.stop(ctx, &table, err)
			return
		}

		pageSkip := skip
		skip = NextSkip(skip, s.pageSize, s.maxSkip)
		pages++

		addresses, err := s.page(ctx, pageSkip)
		if err != nil {
			if !s.recoverable(ctx, err) {
				s.stop(ctx, &table, err)
				return
			}
			s.events <- PageSkipped{Skip: pageSkip, NextSkip: skip, Err: err}
			continue
		}

		appended, err := s.count(ctx, &table, run, addresses)
		if err != nil {
			s.stop(ctx, &table, err)
			return
		}

		if err := s.flush(ctx, &table); err != nil {
			s.events <- RunError{Err: err, Rows: table.Len()}
			return
		}

		s.events <- PageCompleted{
			Skip:     pageSkip,
			NextSkip: skip,
			Resolved: len(addresses),
			Appended: appended,
			Rows:     table.Len(),
		}
	}

	s.events <- RunDone{
		Rows:     table.Rows(),
		Pages:    pages,
		Duration: s.clock.Now().Sub(start),
	}
}

// page fetches one feed page and resolves it to sender addresses.
// The page fails as a unit: either every address or none.
func (s *Service) page(ctx context.Context, skip int) ([]string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	txs, err := s.feed.Transactions(callCtx, thegraph.TransactionsRequest{
		First: s.pageSize,
		Skip:  skip,
	})
	cancel()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFeedFailed, err)
	}

	ids := make([]string, len(txs))
	for i, tx := range txs {
		ids[i] = tx.ID
	}

	// the resolver bounds each of its lookups itself
	addresses, err := s.resolver.Senders(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResolutionFailed, err)
	}
	return addresses, nil
}

// count appends a row for every address the counter succeeds on.
// Remote faults skip the address; any other error is returned.
func (s *Service) count(ctx context.Context, table *Table, run Run, addresses []string) (int, error) {
	var appended int
	for _, addr := range addresses {
		callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
		n, err := s.counter.CountTransactions(callCtx, etherscan.TxListRequest{
			Address:    addr,
			StartBlock: run.StartBlock,
			EndBlock:   run.EndBlock,
			Sort:       etherscan.SortDesc,
		})
		cancel()
		if err != nil {
			err = fmt.Errorf("%w: %s: %w", ErrCountFailed, addr, err)
			if !s.recoverable(ctx, err) {
				return appended, err
			}
			s.events <- AddressSkipped{Address: addr, Err: err}
			continue
		}

		table.Append(Row{
			Address:    addr,
			NumTxns:    n,
			StartBlock: run.StartBlock,
			EndBlock:   run.EndBlock,
		})
		appended++
	}
	return appended, nil
}

// flush appends the rows collected since the last flush to the store
func (s *Service) flush(ctx context.Context, table *Table) error {
	pending := table.Pending()
	if len(pending) == 0 {
		return nil
	}
	if err := s.store.Append(ctx, pending); err != nil {
		return fmt.Errorf("%w: %w", ErrFlushFailed, err)
	}
	table.MarkFlushed()
	return nil
}

// recoverable reports whether err is a remote fault the run can skip past
func (s *Service) recoverable(ctx context.Context, err error) bool {
	return ctx.Err() == nil && remote.IsFault(err)
}

// stop flushes what has been collected and ends the run, as a shutdown when
// the context is done and as an error otherwise
func (s *Service) stop(ctx context.Context, table *Table, cause error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultFlushWait)
		defer cancel()

		if err := s.flush(flushCtx, table); err != nil {
			s.events <- RunError{Err: err, Rows: table.Len()}
			return
		}
		s.events <- RunShutdown{Reason: ctxErr, Rows: table.Len()}
		return
	}

	if err := s.flush(ctx, table); err != nil {
		cause = errors.Join(cause, err)
	}
	s.events <- RunError{Err: cause, Rows: table.Len()}
}
