package collector

// Row correlates an address with its transaction count in a block window
type Row struct {
	Address    string
	NumTxns    int
	StartBlock uint64
	EndBlock   uint64
}

// Table is the append-only result table of a run.
// It remembers how many of its rows have already been flushed.
type Table struct {
	rows    []Row
	flushed int
}

// Append adds a row to the end of the table
func (t *Table) Append(r Row) {
	t.rows = append(t.rows, r)
}

// Len returns the number of rows, flushed or not
func (t *Table) Len() int {
	return len(t.rows)
}

// Pending returns the rows appended since the last MarkFlushed
func (t *Table) Pending() []Row {
	return t.rows[t.flushed:]
}

// MarkFlushed records that every row appended so far has been persisted
func (t *Table) MarkFlushed() {
	t.flushed = len(t.rows)
}

// Rows returns a copy of all rows
func (t *Table) Rows() []Row {
	return append([]Row(nil), t.rows...)
}
