// Package service contains the business logic layer of the application.
package service

import "sync"

// keyedLocks hands out one mutex per key so operations for the same key are
// fully serialized while different keys proceed in parallel. Entries are kept
// for the life of the process; the key space (user IDs) is small enough that
// the table is never reaped.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[int64]*sync.Mutex)}
}

// lock acquires the mutex for key and returns its release function.
func (k *keyedLocks) lock(key int64) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
