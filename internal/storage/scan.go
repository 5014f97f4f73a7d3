package storage

// RowScanner is the subset of *sql.Rows used by the backends' row decoders.
type RowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}
