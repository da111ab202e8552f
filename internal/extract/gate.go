package extract

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// DefaultConcurrency is the default admission gate capacity.
const DefaultConcurrency = 8

// Gate caps the number of concurrently in-flight remote recognition calls.
// It is the only state shared across extraction tasks; acquisition blocks
// until a slot frees up or the context is canceled.
type Gate struct {
	sem      *semaphore.Weighted
	capacity int
}

// NewGate creates a gate admitting at most limit concurrent holders.
func NewGate(limit int) *Gate {
	if limit < 1 {
		limit = DefaultConcurrency
	}
	return &Gate{
		sem:      semaphore.NewWeighted(int64(limit)),
		capacity: limit,
	}
}

// Acquire blocks until a slot is available. It fails only when ctx is
// canceled while waiting.
func (g *Gate) Acquire(ctx context.Context) error {
	return g.sem.Acquire(ctx, 1)
}

// Release frees a slot acquired with Acquire.
func (g *Gate) Release() {
	g.sem.Release(1)
}

// Capacity returns the gate's slot count.
func (g *Gate) Capacity() int {
	return g.capacity
}
