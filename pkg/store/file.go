package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/segmentio/ksuid"
)

const backupExt = ".blob"

// FileStoreConfig holds configuration for the file-backed store
type FileStoreConfig struct {
	Path       string // path of the blob file
	BackupDir  string // snapshot directory; empty disables versioning
	MaxBackups int    // snapshots kept after pruning; 0 means unlimited
}

// FileStore persists the blob as a single file. Writes go through a
// temporary file plus rename, so readers in other processes never observe a
// torn blob. When a backup directory is configured, every overwrite first
// snapshots the previous blob under a ksuid name.
type FileStore struct {
	config FileStoreConfig
	mutex  sync.Mutex
	// seq hands out strictly increasing ksuids; bare ksuid.New gives a
	// random order for ids minted within the same second.
	seq ksuid.Sequence
}

// NewFileStore creates a file store and ensures its directories exist.
func NewFileStore(config FileStoreConfig) (*FileStore, error) {
	if config.Path == "" {
		return nil, &StoreError{"file store requires a path"}
	}
	if err := os.MkdirAll(filepath.Dir(config.Path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	if config.BackupDir != "" {
		if err := os.MkdirAll(config.BackupDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create backup directory: %w", err)
		}
	}
	return &FileStore{config: config, seq: ksuid.Sequence{Seed: ksuid.New()}}, nil
}

// RawBytes returns the current blob.
func (f *FileStore) RawBytes() ([]byte, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	data, err := os.ReadFile(f.config.Path)
	if os.IsNotExist(err) {
		return nil, ErrNoSettings
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings blob: %w", err)
	}
	return data, nil
}

// SetRawBytes snapshots the previous blob (when versioning is on) and
// atomically replaces the file.
func (f *FileStore) SetRawBytes(data []byte) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.config.BackupDir != "" {
		if err := f.snapshotCurrent(); err != nil {
			return err
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.config.Path), ".settings-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write settings blob: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to set blob permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.config.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace settings blob: %w", err)
	}

	if f.config.BackupDir != "" && f.config.MaxBackups > 0 {
		return f.pruneBackups()
	}
	return nil
}

// Close is a no-op; the file is not held open between calls.
func (f *FileStore) Close() error {
	return nil
}

// Backups lists snapshots, newest first.
func (f *FileStore) Backups() ([]BackupInfo, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	ids, err := f.backupIDs()
	if err != nil {
		return nil, err
	}

	infos := make([]BackupInfo, 0, len(ids))
	for _, id := range ids {
		stat, err := os.Stat(f.backupPath(id))
		if err != nil {
			continue // pruned between listing and stat
		}
		info := BackupInfo{ID: id, Size: int(stat.Size())}
		if k, err := ksuid.Parse(id); err == nil {
			info.Created = k.Time()
		}
		infos = append(infos, info)
	}
	// ksuids are k-sortable: descending string order is newest first.
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID > infos[j].ID })
	return infos, nil
}

// Backup returns the snapshot stored under id.
func (f *FileStore) Backup(id string) ([]byte, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if _, err := ksuid.Parse(id); err != nil {
		return nil, ErrBackupNotFound
	}
	data, err := os.ReadFile(f.backupPath(id))
	if os.IsNotExist(err) {
		return nil, ErrBackupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}
	return data, nil
}

func (f *FileStore) backupPath(id string) string {
	return filepath.Join(f.config.BackupDir, id+backupExt)
}

// snapshotCurrent copies the present blob, if any, into the backup dir.
func (f *FileStore) snapshotCurrent() error {
	data, err := os.ReadFile(f.config.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read blob for backup: %w", err)
	}
	id, err := f.seq.Next()
	if err != nil {
		return fmt.Errorf("failed to mint backup id: %w", err)
	}
	name := f.backupPath(id.String())
	if err := os.WriteFile(name, data, 0600); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}

func (f *FileStore) backupIDs() ([]string, error) {
	entries, err := os.ReadDir(f.config.BackupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, backupExt) {
			continue
		}
		id := strings.TrimSuffix(name, backupExt)
		if _, err := ksuid.Parse(id); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids) // oldest first
	return ids, nil
}

// pruneBackups drops the oldest snapshots past MaxBackups.
func (f *FileStore) pruneBackups() error {
	ids, err := f.backupIDs()
	if err != nil {
		return err
	}
	for len(ids) > f.config.MaxBackups {
		if err := os.Remove(f.backupPath(ids[0])); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to prune backup: %w", err)
		}
		ids = ids[1:]
	}
	return nil
}
