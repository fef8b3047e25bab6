package repository

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryCache is the in-process fallback used when redis is absent or
// unreachable.
type MemoryCache struct {
	entries   sync.Map
	lastSweep atomic.Int64
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

const sweepInterval = time.Minute

func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, ok := m.entries.Load(key)
	if !ok {
		return nil, false, nil
	}
	entry := val.(memoryEntry)
	if time.Now().After(entry.expiresAt) {
		m.entries.Delete(key)
		return nil, false, nil
	}
	return entry.payload, true, nil
}

func (m *MemoryCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	now := time.Now()
	m.entries.Store(key, memoryEntry{payload: payload, expiresAt: now.Add(ttl)})
	m.maybeSweep(now)
	return nil
}

// maybeSweep drops expired entries at most once per sweepInterval, so
// keys that are never read again do not accumulate.
func (m *MemoryCache) maybeSweep(now time.Time) {
	last := m.lastSweep.Load()
	if now.UnixNano()-last < int64(sweepInterval) {
		return
	}
	if !m.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	m.entries.Range(func(k, v any) bool {
		if now.After(v.(memoryEntry).expiresAt) {
			m.entries.Delete(k)
		}
		return true
	})
}

func (m *MemoryCache) Invalidate(ctx context.Context, prefix string) error {
	m.entries.Range(func(k, _ any) bool {
		if strings.HasPrefix(k.(string), prefix) {
			m.entries.Delete(k)
		}
		return true
	})
	return nil
}
