package utils

import "sync"

// KeyedMutex serializes read-modify-write sequences that share an entity
// identifier. Two purchases racing on the same event ID block each other;
// operations on unrelated IDs proceed independently.
type KeyedMutex struct {
	mutex sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[string]*keyedLock),
	}
}

// Lock acquires the named region and returns its release func. Entries are
// dropped from the table once the last holder releases.
func (km *KeyedMutex) Lock(key string) func() {
	km.mutex.Lock()
	l, ok := km.locks[key]
	if !ok {
		l = &keyedLock{}
		km.locks[key] = l
	}
	l.refs++
	km.mutex.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		km.mutex.Lock()
		l.refs--
		if l.refs == 0 {
			delete(km.locks, key)
		}
		km.mutex.Unlock()
	}
}
