package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
)

const (
	currentKey   = "settings/current"
	backupPrefix = "settings/backup/"
)

// PebbleStoreConfig holds configuration for the pebble-backed store
type PebbleStoreConfig struct {
	Dir        string // pebble database directory
	MaxBackups int    // snapshots kept after pruning; 0 means unlimited
}

// PebbleStore keeps the blob and its backup history in a pebble database.
// The current blob lives under a fixed key; every overwrite snapshots the
// previous value under a ksuid-named backup key, so key order doubles as
// chronological order.
type PebbleStore struct {
	config PebbleStoreConfig
	db     *pebble.DB
	mutex  sync.Mutex
	closed bool
	// seq hands out strictly increasing ksuids; bare ksuid.New gives a
	// random order for ids minted within the same second.
	seq ksuid.Sequence
}

// NewPebbleStore opens (or creates) the database at config.Dir.
func NewPebbleStore(config PebbleStoreConfig) (*PebbleStore, error) {
	if config.Dir == "" {
		return nil, &StoreError{"pebble store requires a directory"}
	}
	db, err := pebble.Open(config.Dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble database: %w", err)
	}
	return &PebbleStore{config: config, db: db, seq: ksuid.Sequence{Seed: ksuid.New()}}, nil
}

// RawBytes returns the current blob.
func (p *PebbleStore) RawBytes() ([]byte, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.closed {
		return nil, ErrClosed
	}
	return p.get(currentKey, ErrNoSettings)
}

// SetRawBytes snapshots the previous blob and writes the new one in a
// single synced batch.
func (p *PebbleStore) SetRawBytes(data []byte) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.closed {
		return ErrClosed
	}

	batch := p.db.NewBatch()
	defer batch.Close()

	prev, err := p.get(currentKey, nil)
	if err != nil {
		return err
	}
	if prev != nil {
		id, err := p.seq.Next()
		if err != nil {
			return fmt.Errorf("failed to mint backup id: %w", err)
		}
		if err := batch.Set([]byte(backupPrefix+id.String()), prev, nil); err != nil {
			return fmt.Errorf("failed to stage backup: %w", err)
		}
	}
	if err := batch.Set([]byte(currentKey), data, nil); err != nil {
		return fmt.Errorf("failed to stage settings blob: %w", err)
	}
	if err := p.db.Apply(batch, pebble.Sync); err != nil {
		return fmt.Errorf("failed to commit settings blob: %w", err)
	}

	if p.config.MaxBackups > 0 {
		return p.pruneBackups()
	}
	return nil
}

// Close releases the database.
func (p *PebbleStore) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.db.Close()
}

// Backups lists snapshots, newest first.
func (p *PebbleStore) Backups() ([]BackupInfo, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.closed {
		return nil, ErrClosed
	}

	iter, err := p.newBackupIter()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var infos []BackupInfo
	for iter.First(); iter.Valid(); iter.Next() {
		id := strings.TrimPrefix(string(iter.Key()), backupPrefix)
		info := BackupInfo{ID: id, Size: len(iter.Value())}
		if k, err := ksuid.Parse(id); err == nil {
			info.Created = k.Time()
		}
		infos = append(infos, info)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to scan backups: %w", err)
	}
	// Iteration is ascending (oldest first); flip to newest first.
	for i, j := 0, len(infos)-1; i < j; i, j = i+1, j-1 {
		infos[i], infos[j] = infos[j], infos[i]
	}
	return infos, nil
}

// Backup returns the snapshot stored under id.
func (p *PebbleStore) Backup(id string) ([]byte, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.closed {
		return nil, ErrClosed
	}
	if _, err := ksuid.Parse(id); err != nil {
		return nil, ErrBackupNotFound
	}
	return p.get(backupPrefix+id, ErrBackupNotFound)
}

// get copies the value under key. A missing key returns missingErr, or
// (nil, nil) when missingErr is nil.
func (p *PebbleStore) get(key string, missingErr error) ([]byte, error) {
	value, closer, err := p.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, missingErr
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	out := make([]byte, len(value))
	copy(out, value)
	if err := closer.Close(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *PebbleStore) newBackupIter() (*pebble.Iterator, error) {
	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(backupPrefix),
		UpperBound: []byte(backupPrefix[:len(backupPrefix)-1] + "0"), // '/'+1
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open backup iterator: %w", err)
	}
	return iter, nil
}

// pruneBackups deletes the oldest snapshots past MaxBackups.
func (p *PebbleStore) pruneBackups() error {
	iter, err := p.newBackupIter()
	if err != nil {
		return err
	}
	defer iter.Close()

	var keys [][]byte
	for iter.First(); iter.Valid(); iter.Next() {
		key := make([]byte, len(iter.Key()))
		copy(key, iter.Key())
		keys = append(keys, key)
	}
	if err := iter.Error(); err != nil {
		return fmt.Errorf("failed to scan backups: %w", err)
	}

	for len(keys) > p.config.MaxBackups {
		if err := p.db.Delete(keys[0], pebble.Sync); err != nil {
			return fmt.Errorf("failed to prune backup: %w", err)
		}
		keys = keys[1:]
	}
	return nil
}
