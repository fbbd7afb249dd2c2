// Package storetest provides an in-memory store.Persistence for tests.
package storetest

import (
	"context"
	"errors"
	"sort"
	"sync"

	"tableflip.dev/rpt/pkg/store"
)

// Memory is a map-backed Persistence. Set FailWrites to make every write
// fail, which lets callers exercise their error paths.
type Memory struct {
	mu         sync.Mutex
	slots      map[string][]byte
	writes     int
	FailWrites bool
}

var _ store.Persistence = (*Memory)(nil)

// ErrWriteFailed is returned by writes while FailWrites is set.
var ErrWriteFailed = errors.New("storetest: write failed")

// NewMemory seeds a Memory with raw slot documents.
func NewMemory(seed map[string]string) *Memory {
	m := &Memory{slots: make(map[string][]byte)}
	for k, v := range seed {
		m.slots[k] = []byte(v)
	}
	return m
}

func (m *Memory) Read(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.slots[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *Memory) Write(key string, val []byte) error {
	return m.WriteBatch(map[string][]byte{key: val})
}

func (m *Memory) WriteBatch(batch map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrWriteFailed
	}
	for k, v := range batch {
		cp := make([]byte, len(v))
		copy(cp, v)
		m.slots[k] = cp
	}
	m.writes++
	return nil
}

func (m *Memory) Erase(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, key)
	return nil
}

func (m *Memory) Keys(_ context.Context) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.slots))
	for k := range m.slots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *Memory) Watch(_ context.Context) (<-chan store.Event, error) {
	return nil, errors.New("storetest: watch not supported")
}

func (m *Memory) Path() string {
	return ":memory:"
}

func (m *Memory) Close() error {
	return nil
}

// Raw returns the stored document for key, or "" when absent.
func (m *Memory) Raw(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.slots[key])
}

// Batches counts successful Write and WriteBatch calls.
func (m *Memory) Batches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
