package collector_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screwyprof/dexactivity/collector"
	"github.com/screwyprof/dexactivity/pkg/etherscan"
	"github.com/screwyprof/dexactivity/pkg/remote"
	"github.com/screwyprof/dexactivity/pkg/thegraph"
)

const (
	startBlock = uint64(12000000)
	endBlock   = uint64(12045000)
)

// TestServiceCollectionBehavior tests core collection business logic
func TestServiceCollectionBehavior(t *testing.T) {
	t.Parallel()

	t.Run("it collects one page into exactly the target rows", func(t *testing.T) {
		t.Parallel()

		// Arrange
		feed := feedWithPages(page("0x01", "0x02"))
		resolver := resolverWith(map[string]string{"0x01": "A", "0x02": "B"})
		counter := counterWith(map[string]int{"A": 3, "B": 0})
		store := &memStore{}

		svc := collector.NewService(feed, resolver, counter, store, collector.WithPageSize(2))

		// Act
		events := runUntilFinished(t, svc, run(2))

		// Assert
		require.NotNil(t, events.done, "run should finish")
		assert.Equal(t, []collector.Row{
			{Address: "A", NumTxns: 3, StartBlock: startBlock, EndBlock: endBlock},
			{Address: "B", NumTxns: 0, StartBlock: startBlock, EndBlock: endBlock},
		}, events.done.Rows)
		assert.Equal(t, 1, events.done.Pages, "run should stop after one page")
		assert.Equal(t, events.done.Rows, store.all())
		assert.Equal(t, []int{0}, feed.skips())
	})

	t.Run("it checks the target between pages and may overshoot", func(t *testing.T) {
		t.Parallel()

		// Arrange
		feed := feedWithPages(page("0x01", "0x02", "0x03"))
		resolver := resolverWith(map[string]string{"0x01": "A", "0x02": "B", "0x03": "C"})
		counter := counterWith(map[string]int{"A": 1, "B": 2, "C": 3})

		svc := collector.NewService(feed, resolver, counter, &memStore{}, collector.WithPageSize(3))

		// Act
		events := runUntilFinished(t, svc, run(1))

		// Assert
		require.NotNil(t, events.done)
		assert.Len(t, events.done.Rows, 3, "the whole page is kept even though the target was 1")
		assert.Equal(t, 1, events.done.Pages)
	})

	t.Run("it keeps paging until the target is reached", func(t *testing.T) {
		t.Parallel()

		// Arrange
		feed := feedWithPages(page("0x01"), page("0x02"), page("0x03"))
		resolver := resolverWith(map[string]string{"0x01": "A", "0x02": "B", "0x03": "C"})
		counter := counterWith(map[string]int{"A": 1, "B": 2, "C": 3})
		store := &memStore{}

		svc := collector.NewService(feed, resolver, counter, store, collector.WithPageSize(1))

		// Act
		events := runUntilFinished(t, svc, run(3))

		// Assert
		require.NotNil(t, events.done)
		assert.Equal(t, []int{0, 1, 2}, feed.skips())
		assert.Equal(t, []int{1, 1, 1}, store.batchSizes(), "every page is flushed on its own")
		assert.Equal(t, []int{1, 2, 3}, pageRowCounts(events.pages), "row count never decreases")
	})

	t.Run("it does not deduplicate addresses", func(t *testing.T) {
		t.Parallel()

		// Arrange - the same transaction comes back on every page
		feed := feedWithPages(page("0x01"), page("0x01"))
		resolver := resolverWith(map[string]string{"0x01": "A"})
		counter := counterWith(map[string]int{"A": 5})

		svc := collector.NewService(feed, resolver, counter, &memStore{}, collector.WithPageSize(1))

		// Act
		events := runUntilFinished(t, svc, run(2))

		// Assert
		require.NotNil(t, events.done)
		assert.Equal(t, []collector.Row{
			{Address: "A", NumTxns: 5, StartBlock: startBlock, EndBlock: endBlock},
			{Address: "A", NumTxns: 5, StartBlock: startBlock, EndBlock: endBlock},
		}, events.done.Rows)
	})

	t.Run("it asks for descending transactions in the run's block range", func(t *testing.T) {
		t.Parallel()

		// Arrange
		feed := feedWithPages(page("0x01"))
		resolver := resolverWith(map[string]string{"0x01": "A"})
		counter := counterWith(map[string]int{"A": 1})

		svc := collector.NewService(feed, resolver, counter, &memStore{}, collector.WithPageSize(1))

		// Act
		runUntilFinished(t, svc, run(1))

		// Assert
		reqs := counter.requests()
		require.Len(t, reqs, 1)
		assert.Equal(t, etherscan.TxListRequest{
			Address:    "A",
			StartBlock: startBlock,
			EndBlock:   endBlock,
			Sort:       etherscan.SortDesc,
		}, reqs[0])
	})
}

// TestServiceFaultTolerance tests how remote faults are absorbed
func TestServiceFaultTolerance(t *testing.T) {
	t.Parallel()

	t.Run("it skips a failed feed page but still advances the offset", func(t *testing.T) {
		t.Parallel()

		// Arrange
		feed := feedWithPages(feedFault(), page("0x01", "0x02"))
		resolver := resolverWith(map[string]string{"0x01": "A", "0x02": "B"})
		counter := counterWith(map[string]int{"A": 1, "B": 2})
		store := &memStore{}

		svc := collector.NewService(feed, resolver, counter, store, collector.WithPageSize(2))

		// Act
		events := runUntilFinished(t, svc, run(2))

		// Assert
		require.Len(t, events.skipped, 1)
		assert.Equal(t, 0, events.skipped[0].Skip)
		assert.Equal(t, 2, events.skipped[0].NextSkip)
		assert.ErrorIs(t, events.skipped[0].Err, collector.ErrFeedFailed)

		assert.Equal(t, []int{0, 2}, feed.skips(), "the next page starts after the failed one")
		assert.Equal(t, []int{2}, store.batchSizes(), "nothing is flushed for the failed page")
		require.NotNil(t, events.done)
		assert.Len(t, events.done.Rows, 2)
	})

	t.Run("it skips a page whose addresses cannot be resolved", func(t *testing.T) {
		t.Parallel()

		// Arrange - 0xdead is unknown to the resolver
		feed := feedWithPages(page("0x01", "0xdead"), page("0x02"))
		resolver := resolverWith(map[string]string{"0x01": "A", "0x02": "B"})
		counter := counterWith(map[string]int{"A": 1, "B": 2})
		store := &memStore{}

		svc := collector.NewService(feed, resolver, counter, store, collector.WithPageSize(2))

		// Act
		events := runUntilFinished(t, svc, run(1))

		// Assert
		require.Len(t, events.skipped, 1)
		assert.ErrorIs(t, events.skipped[0].Err, collector.ErrResolutionFailed)
		assert.Empty(t, counter.requestedAddresses("A"), "no counting happens for a failed page")

		require.NotNil(t, events.done)
		assert.Equal(t, []collector.Row{
			{Address: "B", NumTxns: 2, StartBlock: startBlock, EndBlock: endBlock},
		}, store.all())
	})

	t.Run("it omits an address whose count fails and keeps the rest of the page", func(t *testing.T) {
		t.Parallel()

		// Arrange - the counter knows nothing about B
		feed := feedWithPages(page("0x01", "0x02", "0x03"))
		resolver := resolverWith(map[string]string{"0x01": "A", "0x02": "B", "0x03": "C"})
		counter := counterWith(map[string]int{"A": 4, "C": 6})

		svc := collector.NewService(feed, resolver, counter, &memStore{}, collector.WithPageSize(3))

		// Act
		events := runUntilFinished(t, svc, run(2))

		// Assert
		require.Len(t, events.addressSkipped, 1)
		assert.Equal(t, "B", events.addressSkipped[0].Address)
		assert.ErrorIs(t, events.addressSkipped[0].Err, collector.ErrCountFailed)

		require.NotNil(t, events.done)
		assert.Equal(t, []collector.Row{
			{Address: "A", NumTxns: 4, StartBlock: startBlock, EndBlock: endBlock},
			{Address: "C", NumTxns: 6, StartBlock: startBlock, EndBlock: endBlock},
		}, events.done.Rows)

		require.Len(t, events.pages, 1)
		assert.Equal(t, 3, events.pages[0].Resolved)
		assert.Equal(t, 2, events.pages[0].Appended)
	})

	t.Run("it treats an expired call deadline as a skip", func(t *testing.T) {
		t.Parallel()

		// Arrange
		feed := feedWithPages(page("0x01", "0x02"))
		resolver := resolverWith(map[string]string{"0x01": "slow", "0x02": "B"})
		counter := counterWith(map[string]int{"B": 2})
		counter.hang("slow")

		svc := collector.NewService(feed, resolver, counter, &memStore{},
			collector.WithPageSize(2),
			collector.WithCallTimeout(20*time.Millisecond),
		)

		// Act
		events := runUntilFinished(t, svc, run(1))

		// Assert
		require.Len(t, events.addressSkipped, 1)
		assert.ErrorIs(t, events.addressSkipped[0].Err, context.DeadlineExceeded)
		require.NotNil(t, events.done)
		assert.Len(t, events.done.Rows, 1)
	})

	t.Run("it keeps collecting when given a zero call timeout", func(t *testing.T) {
		t.Parallel()

		// Arrange - the feed fails once its call deadline has passed
		feed := feedWithPages(page("0x01"))
		feed.honourDeadline = true
		resolver := resolverWith(map[string]string{"0x01": "A"})
		counter := counterWith(map[string]int{"A": 1})

		svc := collector.NewService(feed, resolver, counter, &memStore{},
			collector.WithPageSize(1),
			collector.WithCallTimeout(0),
		)

		// Act
		events := runUntilFinished(t, svc, run(1))

		// Assert
		assert.Empty(t, events.skipped)
		require.NotNil(t, events.done)
		assert.Len(t, events.done.Rows, 1)
	})

	t.Run("it surfaces unexpected feed errors instead of skipping", func(t *testing.T) {
		t.Parallel()

		// Arrange
		errBug := errors.New("nil page handed to decoder")
		feed := feedWithPages(pageErr(errBug))

		svc := collector.NewService(feed, resolverWith(nil), counterWith(nil), &memStore{})

		// Act
		events := runUntilFinished(t, svc, run(1))

		// Assert
		assert.Nil(t, events.done)
		require.NotNil(t, events.err)
		assert.ErrorIs(t, events.err.Err, errBug)
		assert.Empty(t, events.skipped)
	})

	t.Run("it flushes collected rows before surfacing an unexpected count error", func(t *testing.T) {
		t.Parallel()

		// Arrange
		errBug := errors.New("unexpected")
		feed := feedWithPages(page("0x01", "0x02"))
		resolver := resolverWith(map[string]string{"0x01": "A", "0x02": "B"})
		counter := counterWith(map[string]int{"A": 1})
		counter.fail("B", errBug)
		store := &memStore{}

		svc := collector.NewService(feed, resolver, counter, store, collector.WithPageSize(2))

		// Act
		events := runUntilFinished(t, svc, run(2))

		// Assert
		require.NotNil(t, events.err)
		assert.ErrorIs(t, events.err.Err, errBug)
		assert.Equal(t, 1, events.err.Rows)
		assert.Equal(t, []collector.Row{
			{Address: "A", NumTxns: 1, StartBlock: startBlock, EndBlock: endBlock},
		}, store.all())
	})

	t.Run("it stops when the store cannot flush", func(t *testing.T) {
		t.Parallel()

		// Arrange
		errDisk := errors.New("disk full")
		feed := feedWithPages(page("0x01"))
		resolver := resolverWith(map[string]string{"0x01": "A"})
		counter := counterWith(map[string]int{"A": 1})

		svc := collector.NewService(feed, resolver, counter, &memStore{err: errDisk}, collector.WithPageSize(1))

		// Act
		events := runUntilFinished(t, svc, run(5))

		// Assert
		require.NotNil(t, events.err)
		assert.ErrorIs(t, events.err.Err, collector.ErrFlushFailed)
		assert.ErrorIs(t, events.err.Err, errDisk)
	})
}

// TestServiceOffsetBookkeeping tests how the feed offset moves
func TestServiceOffsetBookkeeping(t *testing.T) {
	t.Parallel()

	t.Run("it wraps the offset to zero past the feed ceiling", func(t *testing.T) {
		t.Parallel()

		// Arrange - pages of 1000 up to 5000, then back to 0
		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()

		feed := feedWithPages(emptyPages(7)...)
		feed.afterRequests(7, cancel)

		svc := collector.NewService(feed, resolverWith(nil), counterWith(nil), &memStore{})

		// Act
		events := runWithContext(t, ctx, svc, run(1))

		// Assert
		require.NotNil(t, events.shutdown)
		assert.Equal(t, []int{0, 1000, 2000, 3000, 4000, 5000, 0}, feed.skips())
	})

	t.Run("it shuts down cleanly on cancellation and flushes the current page", func(t *testing.T) {
		t.Parallel()

		// Arrange - cancellation arrives while counting the second address
		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()

		feed := feedWithPages(page("0x01", "0x02"))
		resolver := resolverWith(map[string]string{"0x01": "A", "0x02": "B"})
		counter := counterWith(map[string]int{"A": 1})
		counter.onCount("B", cancel)
		store := &memStore{}

		svc := collector.NewService(feed, resolver, counter, store, collector.WithPageSize(2))

		// Act
		events := runWithContext(t, ctx, svc, run(10))

		// Assert
		require.NotNil(t, events.shutdown)
		assert.ErrorIs(t, events.shutdown.Reason, context.Canceled)
		assert.Equal(t, 1, events.shutdown.Rows)
		assert.Nil(t, events.err)
		assert.Equal(t, []collector.Row{
			{Address: "A", NumTxns: 1, StartBlock: startBlock, EndBlock: endBlock},
		}, store.all())
	})
}

func TestNextSkip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		skip, pageSize, maxSkip, want int
	}{
		{skip: 0, pageSize: 1000, maxSkip: 5000, want: 1000},
		{skip: 4000, pageSize: 1000, maxSkip: 5000, want: 5000},
		{skip: 5000, pageSize: 1000, maxSkip: 5000, want: 0},
		{skip: 4500, pageSize: 1000, maxSkip: 5000, want: 0},
		{skip: 0, pageSize: 2, maxSkip: 5000, want: 2},
	}

	for _, tc := range tests {
		t.Run(fmt.Sprintf("%d+%d", tc.skip, tc.pageSize), func(t *testing.T) {
			t.Parallel()

			got := collector.NextSkip(tc.skip, tc.pageSize, tc.maxSkip)

			assert.Equal(t, tc.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, tc.maxSkip)
		})
	}
}

func TestRunValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, collector.Run{Target: 1, StartBlock: 5, EndBlock: 5}.Validate())
	assert.ErrorIs(t, collector.Run{Target: 0, StartBlock: 1, EndBlock: 2}.Validate(), collector.ErrInvalidRun)
	assert.ErrorIs(t, collector.Run{Target: 1, StartBlock: 3, EndBlock: 2}.Validate(), collector.ErrInvalidRun)
}

func TestServiceRejectsInvalidRun(t *testing.T) {
	t.Parallel()

	feed := feedWithPages()
	svc := collector.NewService(feed, resolverWith(nil), counterWith(nil), &memStore{})

	events := runUntilFinished(t, svc, collector.Run{Target: 1, StartBlock: 10, EndBlock: 1})

	require.NotNil(t, events.err)
	assert.ErrorIs(t, events.err.Err, collector.ErrInvalidRun)
	assert.Nil(t, events.started)
	assert.Empty(t, feed.skips())
}

// TestServiceEventEmission tests observability and event emission
func TestServiceEventEmission(t *testing.T) {
	t.Parallel()

	// Arrange
	feed := feedWithPages(page("0x01"))
	resolver := resolverWith(map[string]string{"0x01": "A"})
	counter := counterWith(map[string]int{"A": 1})
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), step: time.Second}

	svc := collector.NewService(feed, resolver, counter, &memStore{},
		collector.WithClock(clock),
		collector.WithPageSize(1),
	)

	// Act
	events := runUntilFinished(t, svc, run(1))

	// Assert
	require.NotNil(t, events.started)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), events.started.StartedAt)
	assert.Equal(t, run(1), events.started.Run)
	assert.Equal(t, 1, events.started.PageSize)

	require.Len(t, events.pages, 1)
	assert.Equal(t, collector.PageCompleted{Skip: 0, NextSkip: 1, Resolved: 1, Appended: 1, Rows: 1}, events.pages[0])

	require.NotNil(t, events.done)
	assert.Equal(t, time.Second, events.done.Duration)
}

// Test data helpers

func run(target int) collector.Run {
	return collector.Run{Target: target, StartBlock: startBlock, EndBlock: endBlock}
}

type feedPage struct {
	txs []thegraph.Transaction
	err error
}

func page(ids ...string) feedPage {
	txs := make([]thegraph.Transaction, len(ids))
	for i, id := range ids {
		txs[i] = thegraph.Transaction{ID: id, BlockNumber: "12000000", Timestamp: "1620000000"}
	}
	return feedPage{txs: txs}
}

func emptyPages(n int) []feedPage {
	pages := make([]feedPage, n)
	for i := range pages {
		pages[i] = page()
	}
	return pages
}

func feedFault() feedPage {
	return pageErr(remote.Wrap(thegraph.Service, thegraph.ErrUnexpectedStatus))
}

func pageErr(err error) feedPage {
	return feedPage{err: err}
}

// Mock implementations

// fakeFeed serves pages in order and empty pages once they run out
type fakeFeed struct {
	mu       sync.Mutex
	pages    []feedPage
	requests []thegraph.TransactionsRequest
	hookAt   int
	hook     func()

	honourDeadline bool
}

func feedWithPages(pages ...feedPage) *fakeFeed {
	return &fakeFeed{pages: pages}
}

// afterRequests calls fn once the feed has served n requests
func (f *fakeFeed) afterRequests(n int, fn func()) {
	f.hookAt, f.hook = n, fn
}

func (f *fakeFeed) Transactions(ctx context.Context, req thegraph.TransactionsRequest) ([]thegraph.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.honourDeadline && ctx.Err() != nil {
		return nil, remote.Wrap(thegraph.Service, ctx.Err())
	}

	f.requests = append(f.requests, req)
	if f.hook != nil && len(f.requests) == f.hookAt {
		f.hook()
	}
	if len(f.pages) == 0 {
		return nil, nil
	}
	p := f.pages[0]
	f.pages = f.pages[1:]
	return p.txs, p.err
}

func (f *fakeFeed) skips() []int {
	f.mu.Lock()
	defer f.mu.Unlock()

	skips := make([]int, len(f.requests))
	for i, r := range f.requests {
		skips[i] = r.Skip
	}
	return skips
}

// fakeResolver maps ids to senders and fails the batch on unknown ids
type fakeResolver struct {
	senders map[string]string
}

func resolverWith(senders map[string]string) *fakeResolver {
	return &fakeResolver{senders: senders}
}

func (r *fakeResolver) Senders(_ context.Context, ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		sender, ok := r.senders[id]
		if !ok {
			return nil, remote.Wrap("ethrpc", fmt.Errorf("transaction not found: %s", id))
		}
		out = append(out, sender)
	}
	return out, nil
}

// fakeCounter returns counts per address and a remote fault for unknown ones
type fakeCounter struct {
	mu     sync.Mutex
	counts map[string]int
	errs   map[string]error
	hangs  map[string]bool
	hooks  map[string]func()
	reqs   []etherscan.TxListRequest
}

func counterWith(counts map[string]int) *fakeCounter {
	return &fakeCounter{
		counts: counts,
		errs:   map[string]error{},
		hangs:  map[string]bool{},
		hooks:  map[string]func(){},
	}
}

func (c *fakeCounter) fail(addr string, err error) { c.errs[addr] = err }
func (c *fakeCounter) hang(addr string)            { c.hangs[addr] = true }
func (c *fakeCounter) onCount(addr string, fn func()) {
	c.hooks[addr] = fn
}

func (c *fakeCounter) CountTransactions(ctx context.Context, req etherscan.TxListRequest) (int, error) {
	c.mu.Lock()
	c.reqs = append(c.reqs, req)
	hook := c.hooks[req.Address]
	c.mu.Unlock()

	if hook != nil {
		hook()
		<-ctx.Done()
		return 0, remote.Wrap(etherscan.Service, ctx.Err())
	}
	if c.hangs[req.Address] {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	if err, ok := c.errs[req.Address]; ok {
		return 0, err
	}
	n, ok := c.counts[req.Address]
	if !ok {
		return 0, remote.Wrap(etherscan.Service, etherscan.ErrAPIError)
	}
	return n, nil
}

func (c *fakeCounter) requests() []etherscan.TxListRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]etherscan.TxListRequest(nil), c.reqs...)
}

func (c *fakeCounter) requestedAddresses(addr string) []etherscan.TxListRequest {
	var out []etherscan.TxListRequest
	for _, r := range c.requests() {
		if r.Address == addr {
			out = append(out, r)
		}
	}
	return out
}

// memStore keeps every appended batch in memory
type memStore struct {
	mu      sync.Mutex
	batches [][]collector.Row
	err     error
}

func (s *memStore) Append(_ context.Context, rows []collector.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	s.batches = append(s.batches, append([]collector.Row(nil), rows...))
	return nil
}

func (s *memStore) all() []collector.Row {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []collector.Row
	for _, b := range s.batches {
		rows = append(rows, b...)
	}
	return rows
}

func (s *memStore) batchSizes() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	sizes := make([]int, len(s.batches))
	for i, b := range s.batches {
		sizes[i] = len(b)
	}
	return sizes
}

// fakeClock advances by step on every call
type fakeClock struct {
	now  time.Time
	step time.Duration
	n    int
}

func (f *fakeClock) Now() time.Time {
	t := f.now.Add(time.Duration(f.n) * f.step)
	f.n++
	return t
}

// Event capture

type capturedEvents struct {
	started        *collector.RunStarted
	pages          []collector.PageCompleted
	skipped        []collector.PageSkipped
	addressSkipped []collector.AddressSkipped
	done           *collector.RunDone
	shutdown       *collector.RunShutdown
	err            *collector.RunError
}

func runUntilFinished(t *testing.T, svc *collector.Service, r collector.Run) capturedEvents {
	t.Helper()
	return runWithContext(t, t.Context(), svc, r)
}

func runWithContext(t *testing.T, ctx context.Context, svc *collector.Service, r collector.Run) capturedEvents {
	t.Helper()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	events, done := svc.Start(ctx, r)

	var captured capturedEvents
	closer := collector.NewSubscriber(events,
		collector.OnRunStarted(func(e collector.RunStarted) { captured.started = &e }),
		collector.OnPageCompleted(func(e collector.PageCompleted) { captured.pages = append(captured.pages, e) }),
		collector.OnPageSkipped(func(e collector.PageSkipped) { captured.skipped = append(captured.skipped, e) }),
		collector.OnAddressSkipped(func(e collector.AddressSkipped) {
			captured.addressSkipped = append(captured.addressSkipped, e)
		}),
		collector.OnRunDone(func(e collector.RunDone) { captured.done = &e }),
		collector.OnRunShutdown(func(e collector.RunShutdown) { captured.shutdown = &e }),
		collector.OnRunError(func(e collector.RunError) { captured.err = &e }),
	)

	<-done
	closer()

	return captured
}

func pageRowCounts(pages []collector.PageCompleted) []int {
	counts := make([]int, len(pages))
	for i, p := range pages {
		counts[i] = p.Rows
	}
	return counts
}
