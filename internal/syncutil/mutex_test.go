package syncutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMutex_GuardsCounter(t *testing.T) {
	t.Parallel()

	var mu Mutex
	var wg sync.WaitGroup
	count := 0
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				mu.Lock()
				count++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1600, count)
}

func TestRWMutex_ReadersShare(t *testing.T) {
	t.Parallel()

	var mu RWMutex
	mu.RLock()
	done := make(chan struct{})
	go func() {
		// A second reader must get in while the first still holds the lock.
		mu.RLock()
		mu.RUnlock()
		close(done)
	}()
	<-done
	mu.RUnlock()

	mu.Lock()
	mu.Unlock()
}
