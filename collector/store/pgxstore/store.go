package pgxstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/screwyprof/dexactivity/collector"
	"github.com/screwyprof/dexactivity/collector/store/dbrow"
)

// Sentinel errors for store operations
var (
	ErrTransactionFailed = errors.New("transaction failed")
	ErrCopyFailed        = errors.New("bulk copy operation failed")
	ErrShortCopy         = errors.New("bulk copy wrote fewer rows than expected")
	ErrQueryFailed       = errors.New("failed to read rows")
)

// Store implements collector.Store interface using pgx
type Store struct {
	pool *pgxpool.Pool
}

// New creates a new PostgreSQL store with an existing connection pool
// Returns the store and a closer function
func New(pool *pgxpool.Pool) (*Store, func()) {
	store := &Store{pool: pool}
	closer := func() {
		pool.Close()
	}
	return store, closer
}

// Append inserts a batch of rows in a single transaction using pgx CopyFrom.
// Rows are never deduplicated; a failed batch leaves no rows behind.
func (s *Store) Append(ctx context.Context, rows []collector.Row) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransactionFailed, err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // No-op if commit succeeds

	n, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"activity_rows"},
		dbrow.Columns,
		pgx.CopyFromRows(dbrow.CollectorRowsToRows(rows)),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCopyFailed, err)
	}
	if n != int64(len(rows)) {
		return fmt.Errorf("%w: %d of %d", ErrShortCopy, n, len(rows))
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrTransactionFailed, err)
	}

	return nil
}

// Rows returns every stored row in insertion order
func (s *Store) Rows(ctx context.Context) ([]dbrow.ActivityRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, address, num_txns, start_block, end_block
		FROM activity_rows
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}

	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[dbrow.ActivityRow])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	return out, nil
}
