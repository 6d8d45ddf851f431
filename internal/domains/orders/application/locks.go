package application

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

const lockStripes = 64

// stripedLocks serializes work per order id without growing with the number of orders.
type stripedLocks struct {
	stripes [lockStripes]sync.Mutex
}

func (l *stripedLocks) lock(id string) func() {
	mu := &l.stripes[xxhash.Sum64String(id)%lockStripes]
	mu.Lock()
	return mu.Unlock
}
