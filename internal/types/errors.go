package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrNoFields         = errors.New("entry has neither systematic name nor SMILES")
	ErrCheckpointExists = errors.New("checkpoint already exists")
	ErrMissingHref      = errors.New("next-page anchor has no href")
	ErrInvalidURL       = errors.New("invalid URL")
	ErrEmptyResponse    = errors.New("empty response body")
	ErrBodyTooLarge     = errors.New("response body exceeds size limit")
)

// FetchError wraps errors that occur during fetching.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError wraps errors that occur during parsing.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error for %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StorageError wraps errors that occur during storage/export.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// CheckpointError wraps errors that occur reading or writing a batch checkpoint.
type CheckpointError struct {
	Batch int
	Path  string
	Err   error
}

func (e *CheckpointError) Error() string {
	return fmt.Sprintf("checkpoint error for batch %d (%s): %v", e.Batch, e.Path, e.Err)
}

func (e *CheckpointError) Unwrap() error { return e.Err }
