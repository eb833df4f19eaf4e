package keymutex

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockSerializesSameKey(t *testing.T) {
	m := New()

	const workers = 64
	var (
		wg      sync.WaitGroup
		counter int
	)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			m.Lock("a")
			defer m.Unlock("a")
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestDistinctKeysIndependent(t *testing.T) {
	m := New()
	m.Lock("a")
	defer m.Unlock("a")

	done := make(chan struct{})
	go func() {
		m.Lock("b")
		m.Unlock("b")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock on a distinct key blocked")
	}
}

func TestEntriesReclaimed(t *testing.T) {
	m := New()
	for i := 0; i < 10; i++ {
		m.Lock("a")
		m.Unlock("a")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Empty(t, m.entries)
}

func TestUnlockUnheldPanics(t *testing.T) {
	m := New()
	require.Panics(t, func() { m.Unlock("never-locked") })
}
