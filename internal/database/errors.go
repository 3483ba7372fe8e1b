package database

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by accessor operations. Callers match with
// errors.Is; the wrapped message carries the driver detail.
var (
	// ErrNotFound is returned by single-row lookups on a missing id.
	ErrNotFound = errors.New("record not found")
	// ErrForeignKey is returned when a write references a missing parent row.
	ErrForeignKey = errors.New("foreign key violation")
	// ErrUniqueConstraint is returned on duplicate unique columns (e.g. email).
	ErrUniqueConstraint = errors.New("unique constraint violation")
	// ErrUnavailable is returned when the store itself fails (connection,
	// transaction begin/commit).
	ErrUnavailable = errors.New("store unavailable")
)

// classify maps SQLite constraint failures onto the sentinel taxonomy.
// The driver exposes constraint violations only through the message text.
func classify(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", ErrUniqueConstraint, err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %v", ErrForeignKey, err)
	}
	return err
}
