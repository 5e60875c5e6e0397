package ratelimit

import (
	"context"
	"sync"
	"time"
)

// sweepEvery bounds how often Increment scans for expired entries.
const sweepEvery = time.Minute

type entry struct {
	count   int64
	ruleKey string
	start   time.Time
	expires time.Time
}

// Compile-time interface check.
var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps counters in process memory.
// It is safe for concurrent use. Counters are lost on process restart and are
// not shared between processes; expired entries are dropped during Increment.
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]*entry
	lastSweep time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*entry)}
}

// Increment adds one to the counter for key, starting a new window when the
// previous one expired or was counted under another rule.
func (m *MemoryStore) Increment(_ context.Context, key string, w Window) (Counter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if w.Now.Sub(m.lastSweep) >= sweepEvery {
		m.sweep(w.Now)
	}

	e, ok := m.entries[key]
	if !ok || e.ruleKey != w.RuleKey || !w.Now.Before(e.start.Add(w.Period)) {
		e = &entry{ruleKey: w.RuleKey, start: w.Now, expires: w.Now.Add(w.Period)}
		m.entries[key] = e
	}

	e.count++
	return Counter{Count: e.count, ResetAt: e.start.Add(w.Period)}, nil
}

// sweep removes entries whose window ended at or before now. Caller holds mu.
func (m *MemoryStore) sweep(now time.Time) {
	for k, e := range m.entries {
		if !now.Before(e.expires) {
			delete(m.entries, k)
		}
	}
	m.lastSweep = now
}

func (m *MemoryStore) Reset(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
