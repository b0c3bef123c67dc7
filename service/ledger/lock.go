package ledger

import "sync"

type userLock struct {
	mu   sync.Mutex
	refs int
}

// userLocks serializes mutations of the same user inside the process.
// Entries are removed once no goroutine holds or waits for them.
type userLocks struct {
	lock  *sync.Mutex
	users map[uint64]*userLock
}

func newUserLocks() *userLocks {
	return &userLocks{
		lock:  &sync.Mutex{},
		users: map[uint64]*userLock{},
	}
}

func (ul *userLocks) acquire(userID uint64) func() {
	ul.lock.Lock()
	l, ok := ul.users[userID]
	if !ok {
		l = &userLock{}
		ul.users[userID] = l
	}
	l.refs++
	ul.lock.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		ul.lock.Lock()
		l.refs--
		if l.refs == 0 {
			delete(ul.users, userID)
		}
		ul.lock.Unlock()
	}
}

func (ul *userLocks) size() int {
	ul.lock.Lock()
	defer ul.lock.Unlock()
	return len(ul.users)
}
