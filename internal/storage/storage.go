package storage

import (
	"context"

	"github.com/IshaanNene/FlavoScrape/internal/types"
)

// Storage is the interface for all final-output backends.
type Storage interface {
	// Store persists records.
	Store(ctx context.Context, records []types.Record) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the storage backend identifier.
	Name() string
}
