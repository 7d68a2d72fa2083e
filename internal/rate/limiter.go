// Package rate throttles chats and HTTP clients with one token bucket per key.
package rate

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type entry struct {
	limiter *rate.Limiter
	last    time.Time
}

// LimiterMap holds one limiter per key (chat ID or client IP) and evicts
// keys idle for longer than ttl. A non-positive rpm disables limiting.
type LimiterMap struct {
	mu       sync.Mutex
	limiters map[string]*entry
	rpm      int
	burst    int
	ttl      time.Duration
	stopCh   chan struct{}
	once     sync.Once
}

// NewLimiterMap creates a LimiterMap with its cleanup goroutine.
func NewLimiterMap(rpm, burst int, ttl time.Duration) *LimiterMap {
	lm := &LimiterMap{
		limiters: make(map[string]*entry),
		rpm:      rpm,
		burst:    burst,
		ttl:      ttl,
		stopCh:   make(chan struct{}),
	}
	go lm.reaper()
	return lm
}

func (l *LimiterMap) reaper() {
	t := time.NewTicker(l.ttl)
	defer t.Stop()
	for {
		select {
		case <-l.stopCh:
			return
		case now := <-t.C:
			l.mu.Lock()
			for key, e := range l.limiters {
				if now.Sub(e.last) > l.ttl {
					delete(l.limiters, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

// Stop stops the cleanup goroutine.
func (l *LimiterMap) Stop() { l.once.Do(func() { close(l.stopCh) }) }

func (l *LimiterMap) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.limiters[key]; ok {
		e.last = time.Now()
		return e.limiter
	}
	lim := rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.rpm)), l.burst)
	l.limiters[key] = &entry{limiter: lim, last: time.Now()}
	return lim
}

// Allow reports whether an event for key may proceed now.
func (l *LimiterMap) Allow(key string) bool {
	if l.rpm <= 0 {
		return true
	}
	return l.get(key).Allow()
}

// AllowChat is Allow keyed by a chat ID.
func (l *LimiterMap) AllowChat(chatID int64) bool {
	return l.Allow("chat:" + strconv.FormatInt(chatID, 10))
}

// IPFromRequest extracts the client IP, preferring the first
// X-Forwarded-For entry.
func IPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
