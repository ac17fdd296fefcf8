// Package tee fans a batch of rows out to several stores.
package tee

import (
	"context"

	"github.com/screwyprof/dexactivity/collector"
)

// Store appends every batch to each of its stores in order
type Store struct {
	stores []collector.Store
}

// New creates a Store writing to stores in the given order
func New(stores ...collector.Store) *Store {
	return &Store{stores: stores}
}

// Append stops at the first store that fails
func (s *Store) Append(ctx context.Context, rows []collector.Row) error {
	for _, store := range s.stores {
		if err := store.Append(ctx, rows); err != nil {
			return err
		}
	}
	return nil
}
