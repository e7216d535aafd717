package concurrency

import (
	"sync"
)

// LockManager hands out named mutexes. Draw and battle services key
// them by actor or battle ID to serialize an actor's case openings and
// a lobby's seat changes within this process; cross-process safety
// still comes from the database constraints.
type LockManager struct {
	locks sync.Map
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{}
}

// GetLock returns the mutex for the given key, creating it on first use.
// Locks are never evicted; the key space (actors, battles) is bounded
// by the working set of a single process lifetime.
func (lm *LockManager) GetLock(key string) *sync.Mutex {
	lock, _ := lm.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
