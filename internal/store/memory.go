package store

import (
	"context"
	"sync"
)

// Memory is a map-backed store. The Fail* fields make the matching
// operation return that error instead, for exercising failure paths.
type Memory struct {
	mu     sync.Mutex
	values map[string]string

	FailGet    error
	FailSet    error
	FailDelete error

	sets    int
	deletes int
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailGet != nil {
		return "", m.FailGet
	}
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSet != nil {
		return m.FailSet
	}
	m.values[key] = value
	m.sets++
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailDelete != nil {
		return m.FailDelete
	}
	delete(m.values, key)
	m.deletes++
	return nil
}

func (m *Memory) Close() error { return nil }

// SetFailures swaps the injected errors under the lock.
func (m *Memory) SetFailures(get, set, del error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailGet, m.FailSet, m.FailDelete = get, set, del
}

// Writes reports how many successful Set and Delete calls have landed.
func (m *Memory) Writes() (sets, deletes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets, m.deletes
}
