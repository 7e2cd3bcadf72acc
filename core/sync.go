package core

import "sync"

// KeyedMutex serializes read-modify-write sequences that share a logical key,
// e.g. an attendance composite key or an assignment id. Locks are never evicted;
// the key space (days × classes, assignment ids) stays small enough not to care.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Lock locks the mutex for `key` and returns its unlock function.
//
//	defer km.Lock(key)()
func (km *KeyedMutex) Lock(key string) func() {
	km.mu.Lock()
	if km.locks == nil {
		km.locks = make(map[string]*sync.Mutex)
	}
	l, ok := km.locks[key]
	if !ok {
		l = new(sync.Mutex)
		km.locks[key] = l
	}
	km.mu.Unlock()

	l.Lock()
	return l.Unlock
}
