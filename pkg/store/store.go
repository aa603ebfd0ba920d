// Package store persists the raw connection settings blob. The codec only
// ever sees byte arrays; whether those bytes live in memory, in a single
// file or in a pebble database is this package's concern. Backends that
// version prior blobs implement Versioned on top of Store.
package store

import "time"

// Store is the persistence boundary for the raw settings blob.
type Store interface {
	// RawBytes returns the current blob, or ErrNoSettings when nothing has
	// been stored yet.
	RawBytes() ([]byte, error)
	// SetRawBytes replaces the current blob. Versioned backends snapshot
	// the previous blob first.
	SetRawBytes(data []byte) error
	Close() error
}

// Versioned is implemented by stores that keep prior blobs on overwrite.
// Backup IDs are ksuids, so lexicographic order is chronological.
type Versioned interface {
	// Backups lists snapshots, newest first.
	Backups() ([]BackupInfo, error)
	// Backup returns the blob stored under id, or ErrBackupNotFound.
	Backup(id string) ([]byte, error)
}

// BackupInfo describes one stored snapshot.
type BackupInfo struct {
	ID      string
	Size    int
	Created time.Time
}

// Errors
var (
	ErrNoSettings     = &StoreError{"no settings blob stored"}
	ErrBackupNotFound = &StoreError{"backup not found"}
	ErrClosed         = &StoreError{"store is closed"}
)

// StoreError represents a settings store error
type StoreError struct {
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}
