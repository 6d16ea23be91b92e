package eventlog

// Store abstracts generation history storage. FileStore keeps a flat text
// log; SQLiteStore keeps runs and their assets in two related tables.
type Store interface {
	// Write
	Log(run Run) error

	// Read
	Runs(limit int) ([]Run, error) // most recent runs, oldest first; 0 = all
	ReadContent() (string, error)  // history rendered as log text

	// Maintenance
	Clean(days int) (int, error) // remove runs older than N days, return removed count
	Clear() error                // delete all data

	// Metadata
	Path() string
	Close() error
}
