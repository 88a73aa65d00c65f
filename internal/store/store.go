// internal/store/store.go
package store

import (
	"database/sql"

	"greenmatch/internal/common/logger"
)

// Store provides read access to the entity directory and append-only writes
// for reports and usage accounting. No update/delete semantics exist beyond
// the report view counter.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func New(db *sql.DB, log logger.Logger) *Store {
	return &Store{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "store"}),
	}
}
