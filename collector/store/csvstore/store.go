// Package csvstore appends activity rows to a CSV file.
package csvstore

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/screwyprof/dexactivity/collector"
)

// Sentinel errors for store operations
var (
	ErrOpenFailed   = errors.New("opening output file failed")
	ErrEncodeFailed = errors.New("encoding rows failed")
	ErrWriteFailed  = errors.New("writing rows failed")
	ErrSyncFailed   = errors.New("syncing output file failed")
)

// Header is the first record of every output file
var Header = []string{"address", "num_txns", "startblock", "endblock"}

// Store implements collector.Store on top of an append-only file.
// Each batch is encoded up front and written with a single write call,
// so rows already in the file are never touched.
type Store struct {
	file          *os.File
	headerWritten bool
}

// Open opens path for appending, creating it if needed.
// The header is written with the first batch when the file is empty.
func Open(path string) (*Store, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}

	return &Store{
		file:          f,
		headerWritten: info.Size() > 0,
	}, nil
}

// Close closes the output file
func (s *Store) Close() error {
	return s.file.Close()
}

// Append writes rows to the end of the file and syncs it to disk
func (s *Store) Append(ctx context.Context, rows []collector.Row) error {
	if len(rows) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if !s.headerWritten {
		_ = w.Write(Header)
	}
	for _, r := range rows {
		_ = w.Write(record(r))
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrEncodeFailed, err)
	}

	if _, err := s.file.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("%w: %w", ErrSyncFailed, err)
	}

	s.headerWritten = true
	return nil
}

func record(r collector.Row) []string {
	return []string{
		r.Address,
		strconv.Itoa(r.NumTxns),
		strconv.FormatUint(r.StartBlock, 10),
		strconv.FormatUint(r.EndBlock, 10),
	}
}
