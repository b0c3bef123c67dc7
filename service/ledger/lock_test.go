package ledger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserLocks(t *testing.T) {
	locks := newUserLocks()
	counters := map[uint64]int{}
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(userID uint64) {
			defer wg.Done()
			unlock := locks.acquire(userID)
			defer unlock()
			mu.Lock()
			v := counters[userID]
			mu.Unlock()
			// the read and the write are only atomic because of the user lock
			mu.Lock()
			counters[userID] = v + 1
			mu.Unlock()
		}(uint64(i % 4))
	}
	wg.Wait()

	assert.Equal(t, 50, counters[0])
	assert.Equal(t, 50, counters[3])
	assert.Equal(t, 0, locks.size())
}
