package redissvc

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	count     int64
	expiresAt time.Time
}

// MemoryStore implements Store in process. It is used when no Redis URL is
// configured and in tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	log     [][]byte
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]*memoryEntry{}, now: time.Now}
}

// SetClock replaces the time source.
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// get returns a live entry; expired entries are dropped. Caller holds mu.
func (m *MemoryStore) get(key string) *memoryEntry {
	e, ok := m.entries[key]
	if !ok {
		return nil
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return nil
	}
	return e
}

func (m *MemoryStore) set(key string, ttl time.Duration) {
	m.entries[key] = &memoryEntry{count: 1, expiresAt: m.now().Add(ttl)}
}

func (m *MemoryStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(revokedPrefix+tokenID, ttl)
	return nil
}

func (m *MemoryStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(revokedPrefix+tokenID) != nil, nil
}

func (m *MemoryStore) Strike(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e := m.get(strikesPrefix + key); e != nil {
		e.count++
		return e.count, nil
	}
	m.set(strikesPrefix+key, window)
	return 1, nil
}

func (m *MemoryStore) Ban(_ context.Context, key string, d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(bannedPrefix+key, d)
	delete(m.entries, strikesPrefix+key)
	return nil
}

func (m *MemoryStore) IsBanned(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(bannedPrefix+key) != nil, nil
}

func (m *MemoryStore) AppendLog(_ context.Context, entry []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log = append(m.log, entry)
	return nil
}

// Log returns a copy of the appended ban log entries.
func (m *MemoryStore) Log() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.log...)
}

func (m *MemoryStore) DrainLog(context.Context) ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.log
	m.log = nil
	return out, nil
}

func (m *MemoryStore) Ping(context.Context) error {
	return nil
}
