// Package concurrency provides per-key mutual exclusion for in-process backends.
package concurrency

import "sync"

// KeyedMutex hands out one mutex per key.
// Mutexes are kept for the life of the KeyedMutex.
type KeyedMutex struct {
	locks sync.Map
}

// NewKeyedMutex creates an empty KeyedMutex
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{}
}

// Lock blocks until the mutex for key is held and returns its unlock function
func (m *KeyedMutex) Lock(key string) (unlock func()) {
	v, _ := m.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
