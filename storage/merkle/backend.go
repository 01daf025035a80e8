package merkle

import "sync"

// Backend is the pluggable, content-addressed byte store the tree engine
// reads and writes serialized nodes through. Keys are always HashLen bytes
// (a node's own content hash); values are opaque serialized node buffers.
//
// The engine performs a strict sequence of blocking Get/Put calls and never
// holds more than one backend open at a time (single-writer semantics, see
// the concurrency model) — implementations are not required to support
// concurrent mutation, only to not corrupt state under that usage pattern.
type Backend interface {
	// Get returns the bytes stored under key, or ok == false if absent.
	Get(key Hash) (value []byte, ok bool, err error)
	// Put stores value under key. Nodes are content-addressed and
	// immutable once written, so Put is expected to be idempotent for a
	// given key.
	Put(key Hash, value []byte) error
	// Delete removes key. The tree engine does not currently invoke this;
	// it is reserved for a future orphan-purge pass.
	Delete(key Hash) error
	// InitBatch/FinishBatch bracket a sequence of Put calls produced by a
	// batch tree operation (Inserts/Removes). Implementations that have no
	// notion of batching may treat both as no-ops.
	InitBatch() error
	FinishBatch() error
}

// MemoryBackend is the default Backend: a plain, mutex-guarded map. It
// mirrors monotree's default HashMap-backed database and is the backend
// every package-level example and most unit tests in this module use.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[Hash][]byte
}

// NewMemoryBackend returns an empty, ready-to-use MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[Hash][]byte)}
}

// Get implements Backend.
func (m *MemoryBackend) Get(key Hash) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Put implements Backend.
func (m *MemoryBackend) Put(key Hash, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[key] = cp
	return nil
}

// Delete implements Backend.
func (m *MemoryBackend) Delete(key Hash) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// InitBatch implements Backend. The in-memory map needs no batching hooks.
func (m *MemoryBackend) InitBatch() error { return nil }

// FinishBatch implements Backend.
func (m *MemoryBackend) FinishBatch() error { return nil }

// Len returns the number of entries currently stored. Mainly useful in
// tests checking what Put and Delete leave in the map.
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
