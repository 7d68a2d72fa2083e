package session

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/example/sacsbot/internal/dialogue"
	"golang.org/x/sync/singleflight"
)

type cached struct {
	sess      dialogue.Session
	found     bool
	expiresAt time.Time
}

type loadResult struct {
	sess  dialogue.Session
	found bool
}

// CachedStore fronts a slower Store with a short-lived local cache.
// Concurrent misses for the same chat share a single backend load.
// Writes go through to the backend before the cache is updated. A load
// that overlaps a write for the same chat is returned but not cached.
type CachedStore struct {
	backend Store
	ttl     time.Duration
	mu      sync.RWMutex
	items   map[int64]cached
	writes  map[int64]uint64
	group   singleflight.Group
}

func NewCachedStore(backend Store, ttl time.Duration) *CachedStore {
	return &CachedStore{
		backend: backend,
		ttl:     ttl,
		items:   make(map[int64]cached),
		writes:  make(map[int64]uint64),
	}
}

func (c *CachedStore) Load(ctx context.Context, chatID int64) (dialogue.Session, bool, error) {
	c.mu.RLock()
	it, ok := c.items[chatID]
	if ok && time.Now().Before(it.expiresAt) {
		c.mu.RUnlock()
		return it.sess, it.found, nil
	}
	c.mu.RUnlock()

	res, err, _ := c.group.Do(strconv.FormatInt(chatID, 10), func() (interface{}, error) {
		c.mu.RLock()
		seen := c.writes[chatID]
		c.mu.RUnlock()
		sess, found, err := c.backend.Load(ctx, chatID)
		if err != nil {
			return nil, err
		}
		c.fill(chatID, seen, sess, found)
		return loadResult{sess: sess, found: found}, nil
	})
	if err != nil {
		return dialogue.Session{}, false, err
	}
	lr := res.(loadResult)
	return lr.sess, lr.found, nil
}

func (c *CachedStore) Save(ctx context.Context, s dialogue.Session) error {
	if err := c.backend.Save(ctx, s); err != nil {
		c.forget(s.ChatID)
		return err
	}
	c.put(s.ChatID, s, true)
	return nil
}

func (c *CachedStore) Delete(ctx context.Context, chatID int64) error {
	if err := c.backend.Delete(ctx, chatID); err != nil {
		c.forget(chatID)
		return err
	}
	c.put(chatID, dialogue.Session{}, false)
	return nil
}

func (c *CachedStore) Ping(ctx context.Context) error { return c.backend.Ping(ctx) }

// put records a write.
func (c *CachedStore) put(chatID int64, s dialogue.Session, found bool) {
	c.mu.Lock()
	c.writes[chatID]++
	c.items[chatID] = cached{sess: s, found: found, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// fill caches a backend read unless a write for chatID happened after
// seen was taken.
func (c *CachedStore) fill(chatID int64, seen uint64, s dialogue.Session, found bool) {
	c.mu.Lock()
	if c.writes[chatID] == seen {
		c.items[chatID] = cached{sess: s, found: found, expiresAt: time.Now().Add(c.ttl)}
	}
	c.mu.Unlock()
}

func (c *CachedStore) forget(chatID int64) {
	c.mu.Lock()
	c.writes[chatID]++
	delete(c.items, chatID)
	c.mu.Unlock()
}

// Len returns the number of cached entries (for tests).
func (c *CachedStore) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
