package handlers

import "sync"

// customerLocks serializes the read-validate-write sequence per customer so
// two concurrent saves cannot both pass the overlap scan.
type customerLocks struct {
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func newCustomerLocks() *customerLocks {
	return &customerLocks{locks: make(map[int]*sync.Mutex)}
}

func (c *customerLocks) Lock(customerID int) func() {
	c.mu.Lock()
	l, ok := c.locks[customerID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[customerID] = l
	}
	c.mu.Unlock()

	l.Lock()
	return l.Unlock
}
