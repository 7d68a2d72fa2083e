package rate

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_AllowAndThrottle(t *testing.T) {
	lm := NewLimiterMap(2, 1, 200*time.Millisecond)
	defer lm.Stop()
	assert.True(t, lm.Allow("1.2.3.4"), "first should allow")
	assert.False(t, lm.Allow("1.2.3.4"), "second should be throttled")
	assert.True(t, lm.Allow("5.6.7.8"), "other keys are independent")
}

func TestLimiter_ChatKeysIndependent(t *testing.T) {
	lm := NewLimiterMap(1, 1, time.Minute)
	defer lm.Stop()
	assert.True(t, lm.AllowChat(10))
	assert.False(t, lm.AllowChat(10))
	assert.True(t, lm.AllowChat(11))
}

func TestLimiter_Disabled(t *testing.T) {
	lm := NewLimiterMap(0, 0, time.Minute)
	defer lm.Stop()
	for i := 0; i < 100; i++ {
		assert.True(t, lm.AllowChat(1))
	}
}

func TestLimiter_ReaperEvictsIdle(t *testing.T) {
	lm := NewLimiterMap(100, 1, 50*time.Millisecond)
	defer lm.Stop()
	assert.True(t, lm.Allow("k"))
	time.Sleep(120 * time.Millisecond)
	assert.True(t, lm.Allow("k"), "allow after eviction")
}

func TestIPFromRequest_HeaderAndRemoteAddr(t *testing.T) {
	r, _ := http.NewRequest(http.MethodGet, "http://x/", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.1, 10.0.0.1")
	assert.Equal(t, "203.0.113.1", IPFromRequest(r))

	r2, _ := http.NewRequest(http.MethodGet, "http://x/", nil)
	r2.RemoteAddr = "192.0.2.5:1234"
	assert.Equal(t, "192.0.2.5", IPFromRequest(r2))
}
