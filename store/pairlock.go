package store

import "sync"

type pairKey struct {
    userID uint
    postID uint
}

// pairLocks hands out one mutex per (user, post) pair. Concurrent like
// toggles on the same pair run strictly one after another; toggles on
// different pairs never block each other.
type pairLocks struct {
    locks sync.Map // pairKey -> *sync.Mutex
}

func (p *pairLocks) lock(userID, postID uint) func() {
    v, _ := p.locks.LoadOrStore(pairKey{userID, postID}, &sync.Mutex{})
    mu := v.(*sync.Mutex)
    mu.Lock()
    return mu.Unlock
}
