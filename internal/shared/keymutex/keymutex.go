// Package keymutex provides an arena of per-key mutexes created on demand
// and discarded once no holder or waiter remains. It serializes work per key
// without a global lock, so unrelated keys proceed in parallel.
package keymutex

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// KeyMutex is a set of named mutexes keyed by uint identifiers.
// The zero value is not usable; construct with New.
type KeyMutex struct {
	mu      sync.Mutex
	entries map[uint]*entry
}

func New() *KeyMutex {
	return &KeyMutex{
		entries: make(map[uint]*entry),
	}
}

// Lock acquires the mutex for key, creating it if absent.
func (k *KeyMutex) Lock(key uint) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the mutex for key. The entry is removed from the arena
// when the last holder or waiter releases its reference.
func (k *KeyMutex) Unlock(key uint) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		k.mu.Unlock()
		panic("keymutex: unlock of unheld key")
	}
	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
	k.mu.Unlock()

	e.mu.Unlock()
}

// WithLock runs fn while holding the mutex for key.
func (k *KeyMutex) WithLock(key uint, fn func()) {
	k.Lock(key)
	defer k.Unlock(key)
	fn()
}

// Len reports how many keys currently have a live entry.
func (k *KeyMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}
