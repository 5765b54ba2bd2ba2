package kv

import (
	"context"
	"sync"
)

// Memory is an in-process [Medium]. The zero value is not usable; use
// [NewMemory].
type Memory struct {
	mu     sync.Mutex
	data   map[string]string
	closed bool
}

// NewMemory returns an empty in-memory medium.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return "", false, ErrClosed
	}

	v, ok := m.data[key]

	return v, ok, nil
}

func (m *Memory) Put(_ context.Context, items ...Item) error {
	if err := validateItems(items); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	for _, it := range items {
		m.data[it.Key] = it.Value
	}

	return nil
}

func (m *Memory) Remove(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	for _, k := range keys {
		delete(m.data, k)
	}

	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true

	return nil
}
