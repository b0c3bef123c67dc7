package team_stats

import (
	"sync"
	"time"

	"github.com/dhiraj-001/MLM-sub000/model"
)

// Entry is the last known team size and rank of a user
type Entry struct {
	Stats     model.TeamStats
	Stage     string
	Rank      string
	UpdatedAt time.Time
}

type Cache struct {
	users map[uint64]Entry
	lock  *sync.RWMutex
}

var cache *Cache

func init() {
	cache = &Cache{
		users: make(map[uint64]Entry),
		lock:  &sync.RWMutex{},
	}
}

// Get returns the cached entry of a user
func Get(userID uint64) (Entry, bool) {
	cache.lock.RLock()
	defer cache.lock.RUnlock()
	entry, ok := cache.users[userID]
	return entry, ok
}

// Set stores the entry of a single user
func Set(userID uint64, entry Entry) {
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now()
	}
	cache.lock.Lock()
	cache.users[userID] = entry
	cache.lock.Unlock()
}

// Replace swaps the whole cache with a freshly computed one
func Replace(entries map[uint64]Entry) {
	users := make(map[uint64]Entry, len(entries))
	for userID, entry := range entries {
		users[userID] = entry
	}
	cache.lock.Lock()
	cache.users = users
	cache.lock.Unlock()
}

func Len() int {
	cache.lock.RLock()
	defer cache.lock.RUnlock()
	return len(cache.users)
}
