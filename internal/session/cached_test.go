package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/example/sacsbot/internal/dialogue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	mu      sync.Mutex
	loads   int
	delay   time.Duration
	// entered, when set, is signalled once a Load has read the data and
	// the Load then waits on release.
	entered chan struct{}
	release chan struct{}
	failAll bool
	data    map[int64]dialogue.Session
}

func newCountingStore() *countingStore {
	return &countingStore{data: make(map[int64]dialogue.Session)}
}

func (c *countingStore) Load(_ context.Context, id int64) (dialogue.Session, bool, error) {
	c.mu.Lock()
	c.loads++
	fail := c.failAll
	s, ok := c.data[id]
	entered, release := c.entered, c.release
	c.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
		<-release
	}
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	if fail {
		return dialogue.Session{}, false, errors.New("backend down")
	}
	return s, ok, nil
}

func (c *countingStore) Save(_ context.Context, s dialogue.Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAll {
		return errors.New("backend down")
	}
	c.data[s.ChatID] = s
	return nil
}

func (c *countingStore) Delete(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, id)
	return nil
}

func (c *countingStore) Ping(context.Context) error { return nil }

func (c *countingStore) loadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loads
}

func TestCachedStore_CoalescesConcurrentMisses(t *testing.T) {
	backend := newCountingStore()
	backend.delay = 50 * time.Millisecond
	backend.data[9] = dialogue.Session{ChatID: 9, State: dialogue.AwaitingBags, Lines: 4}
	c := NewCachedStore(backend, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, ok, err := c.Load(context.Background(), 9)
			if err != nil || !ok || s.Lines != 4 {
				t.Errorf("load: s=%+v ok=%v err=%v", s, ok, err)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, backend.loadCount())
}

func TestCachedStore_HitAndNegativeCache(t *testing.T) {
	backend := newCountingStore()
	c := NewCachedStore(backend, time.Minute)
	ctx := context.Background()

	_, ok, err := c.Load(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, _ = c.Load(ctx, 1)
	assert.False(t, ok)
	assert.Equal(t, 1, backend.loadCount())

	require.NoError(t, c.Save(ctx, dialogue.Session{ChatID: 1, State: dialogue.AwaitingLines}))
	s, ok, _ := c.Load(ctx, 1)
	assert.True(t, ok)
	assert.Equal(t, dialogue.AwaitingLines, s.State)
	assert.Equal(t, 1, backend.loadCount())

	require.NoError(t, c.Delete(ctx, 1))
	_, ok, _ = c.Load(ctx, 1)
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestCachedStore_BackendErrors(t *testing.T) {
	backend := newCountingStore()
	backend.failAll = true
	c := NewCachedStore(backend, time.Minute)
	ctx := context.Background()

	_, _, err := c.Load(ctx, 3)
	assert.Error(t, err)
	assert.Error(t, c.Save(ctx, dialogue.Session{ChatID: 3}))
	assert.Equal(t, 0, c.Len())
}

func TestCachedStore_DeleteDuringLoadWins(t *testing.T) {
	backend := newCountingStore()
	backend.data[5] = dialogue.Session{ChatID: 5, State: dialogue.AwaitingBags, Lines: 3}
	backend.entered = make(chan struct{})
	backend.release = make(chan struct{})
	c := NewCachedStore(backend, time.Minute)
	ctx := context.Background()

	done := make(chan bool)
	go func() {
		_, ok, err := c.Load(ctx, 5)
		assert.NoError(t, err)
		done <- ok
	}()
	<-backend.entered

	backend.mu.Lock()
	backend.entered = nil
	backend.mu.Unlock()
	require.NoError(t, c.Delete(ctx, 5))
	close(backend.release)
	assert.True(t, <-done, "in-flight load returns what it read")

	_, ok, err := c.Load(ctx, 5)
	require.NoError(t, err)
	assert.False(t, ok, "stale read must not overwrite the delete")
	assert.Equal(t, 1, backend.loadCount())
}

func TestCachedStore_SaveDuringLoadWins(t *testing.T) {
	backend := newCountingStore()
	backend.entered = make(chan struct{})
	backend.release = make(chan struct{})
	c := NewCachedStore(backend, time.Minute)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, ok, err := c.Load(ctx, 6)
		assert.NoError(t, err)
		assert.False(t, ok)
	}()
	<-backend.entered

	backend.mu.Lock()
	backend.entered = nil
	backend.mu.Unlock()
	require.NoError(t, c.Save(ctx, dialogue.Session{ChatID: 6, State: dialogue.AwaitingLines}))
	close(backend.release)
	<-done

	s, ok, err := c.Load(ctx, 6)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, dialogue.AwaitingLines, s.State)
	assert.Equal(t, 1, backend.loadCount())
}
