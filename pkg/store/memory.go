package store

import "sync"

// MemoryStore keeps the blob in process memory. Used by tests and as an
// embedding target; contents do not survive the process.
type MemoryStore struct {
	mutex sync.RWMutex
	data  []byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// RawBytes returns a copy of the current blob.
func (m *MemoryStore) RawBytes() ([]byte, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.data == nil {
		return nil, ErrNoSettings
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

// SetRawBytes replaces the blob with a copy of data.
func (m *MemoryStore) SetRawBytes(data []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.data = make([]byte, len(data))
	copy(m.data, data)
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
