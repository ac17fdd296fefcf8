package dbrow

import (
	"github.com/screwyprof/dexactivity/collector"
)

// Columns lists the activity_rows columns written by the collector, in copy order
var Columns = []string{"address", "num_txns", "start_block", "end_block"}

// ActivityRow represents an activity row as stored in the database
type ActivityRow struct {
	ID         int64  `db:"id"`
	Address    string `db:"address"`
	NumTxns    int64  `db:"num_txns"`
	StartBlock int64  `db:"start_block"`
	EndBlock   int64  `db:"end_block"`
	// collected_at is handled by database DEFAULT CURRENT_TIMESTAMP
}

// CollectorRowsToRows converts collector rows directly to [][]any for pgx.CopyFromRows
func CollectorRowsToRows(rows []collector.Row) [][]any {
	out := make([][]any, len(rows))

	for i, r := range rows {
		out[i] = []any{
			r.Address,
			int64(r.NumTxns),
			int64(r.StartBlock),
			int64(r.EndBlock),
		}
	}

	return out
}
