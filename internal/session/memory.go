package session

import (
	"context"
	"sync"
	"time"

	"github.com/example/sacsbot/internal/dialogue"
)

type item struct {
	sess      dialogue.Session
	expiresAt time.Time
}

// MemoryStore is a process-local Store. Sessions untouched for ttl are
// dropped by a reaper goroutine; call Stop to end it.
type MemoryStore struct {
	mu     sync.RWMutex
	items  map[int64]item
	ttl    time.Duration
	stopCh chan struct{}
	once   sync.Once
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	m := &MemoryStore{
		items:  make(map[int64]item),
		ttl:    ttl,
		stopCh: make(chan struct{}),
	}
	go m.reaper()
	return m
}

func (m *MemoryStore) reaper() {
	t := time.NewTicker(m.ttl)
	defer t.Stop()
	for {
		select {
		case <-m.stopCh:
			return
		case now := <-t.C:
			m.mu.Lock()
			for id, it := range m.items {
				if now.After(it.expiresAt) {
					delete(m.items, id)
				}
			}
			m.mu.Unlock()
		}
	}
}

// Stop stops the reaper goroutine.
func (m *MemoryStore) Stop() { m.once.Do(func() { close(m.stopCh) }) }

func (m *MemoryStore) Load(_ context.Context, chatID int64) (dialogue.Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.items[chatID]
	if !ok || time.Now().After(it.expiresAt) {
		return dialogue.Session{}, false, nil
	}
	return it.sess, true, nil
}

func (m *MemoryStore) Save(_ context.Context, s dialogue.Session) error {
	m.mu.Lock()
	m.items[s.ChatID] = item{sess: s, expiresAt: time.Now().Add(m.ttl)}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, chatID int64) error {
	m.mu.Lock()
	delete(m.items, chatID)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

// Len returns the number of stored sessions, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
