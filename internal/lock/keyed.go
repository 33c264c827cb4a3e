// Package lock provides a per-key mutual exclusion primitive used by
// the reservation service to serialize state transitions on a single
// slot or a single reservation without a global lock.
package lock

import "sync"

// Keyed hands out one exclusive lock per string key.  Locks for
// distinct keys never contend, so throughput on unrelated slots and
// reservations is preserved.  Lock entries are reference counted and
// removed once the last holder or waiter releases them, keeping the
// map bounded by the number of keys currently in flight.
type Keyed struct {
    mu      sync.Mutex
    entries map[string]*entry
}

type entry struct {
    mu   sync.Mutex
    refs int
}

// NewKeyed returns an empty Keyed lock set.
func NewKeyed() *Keyed {
    return &Keyed{entries: make(map[string]*entry)}
}

// Lock acquires the exclusive lock for key, blocking while another
// goroutine holds it.  Each Lock must be paired with exactly one
// Unlock for the same key.
func (k *Keyed) Lock(key string) {
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

// Unlock releases the lock for key.  Unlocking a key that is not held
// panics, same as sync.Mutex.
func (k *Keyed) Unlock(key string) {
    k.mu.Lock()
    e, ok := k.entries[key]
    if !ok {
        k.mu.Unlock()
        panic("lock: unlock of unheld key " + key)
    }
    e.refs--
    if e.refs == 0 {
        delete(k.entries, key)
    }
    k.mu.Unlock()
    e.mu.Unlock()
}
