package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is a process-local key store with expiry, used for one-time tokens
// when Redis is not reachable.
type Memory struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

type memoryItem struct {
	value     string
	expiresAt time.Time
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]memoryItem), now: time.Now}
}

func (m *Memory) SetIfNotExists(_ context.Context, key string, value string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now)
	if _, ok := m.items[key]; ok {
		return false, nil
	}
	m.items[key] = memoryItem{value: value, expiresAt: now.Add(ttl)}
	return true, nil
}

func (m *Memory) ConsumeKey(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.items[key]
	if !ok {
		return "", false, nil
	}
	delete(m.items, key)
	if !m.now().Before(it.expiresAt) {
		return "", false, nil
	}
	return it.value, true, nil
}

func (m *Memory) sweep(now time.Time) {
	for k, it := range m.items {
		if !now.Before(it.expiresAt) {
			delete(m.items, k)
		}
	}
}
