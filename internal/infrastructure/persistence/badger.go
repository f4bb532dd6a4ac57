package persistence

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// NewBadgerDB opens an embedded Badger store at path. An empty path opens an in-memory store.
func NewBadgerDB(path string) (*badger.DB, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return db, nil
}
