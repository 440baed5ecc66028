package store

import (
	"context"
	"sync"
)

// KV is the persistent key-value store the workflow engine writes through.
// Namespaces carry the order key, so two orders never share records.
type KV interface {
	Get(ctx context.Context, namespace, key string) (string, bool, error)
	Set(ctx context.Context, namespace, key, value string) error
	List(ctx context.Context, namespace string) (map[string]string, error)
}

// MemoryKV keeps everything in a mutex-guarded map. Used in tests and as
// a fallback when no Mongo connection is configured.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: map[string]map[string]string{}}
}

func (m *MemoryKV) Get(_ context.Context, namespace, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ns, ok := m.data[namespace]
	if !ok {
		return "", false, nil
	}
	value, ok := ns[key]
	return value, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, namespace, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns, ok := m.data[namespace]
	if !ok {
		ns = map[string]string{}
		m.data[namespace] = ns
	}
	ns[key] = value
	return nil
}

func (m *MemoryKV) List(_ context.Context, namespace string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := map[string]string{}
	for k, v := range m.data[namespace] {
		out[k] = v
	}
	return out, nil
}
