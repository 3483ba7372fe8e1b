package database

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection. It is the single gateway for all
// reads and writes; callers construct one per process and Close it on
// shutdown.
type DB struct {
	*sql.DB
	path string
	mu   sync.Mutex
}

// New opens the database at path and ensures the schema exists.
func New(path string) (*DB, error) {
	// WAL mode plus enforced foreign keys. The busy timeout keeps concurrent
	// writers from failing immediately with SQLITE_BUSY.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// One shared connection for the life of the process. Writes additionally
	// serialize behind the mutex so multi-statement cascades never interleave.
	db.SetMaxOpenConns(1)

	log.Debug().Str("path", path).Msg("Database connection established")

	d := &DB{
		DB:   db,
		path: path,
	}

	if err := d.EnsureSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return d, nil
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// IsFirstRun checks if this is the first run (no users exist)
func (db *DB) IsFirstRun() (bool, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM Users").Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check users: %w", err)
	}
	return count == 0, nil
}

// Transaction wraps a function in a database transaction
func (db *DB) Transaction(fn func(*sql.Tx) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", ErrUnavailable, err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("Failed to rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit transaction: %v", ErrUnavailable, err)
	}

	return nil
}
