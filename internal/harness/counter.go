package harness

import (
	"errors"
	"fmt"
	"iter"
)

// Counter tracks how many times each permuted value was seen. Add returns
// the count including the current occurrence.
type Counter interface {
	Add(v uint64) (uint32, error)
}

// MemoryCounter keeps counts in a map. It is not safe for concurrent use.
type MemoryCounter struct {
	counts map[uint64]uint32
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{counts: make(map[uint64]uint32)}
}

func (c *MemoryCounter) Add(v uint64) (uint32, error) {
	n := c.counts[v] + 1
	c.counts[v] = n
	return n, nil
}

func (c *MemoryCounter) Count(v uint64) uint32 {
	return c.counts[v]
}

// Len is the number of distinct values seen.
func (c *MemoryCounter) Len() int {
	return len(c.counts)
}

// Duplicates yields every value seen more than once.
func (c *MemoryCounter) Duplicates() iter.Seq2[uint64, uint32] {
	return func(yield func(uint64, uint32) bool) {
		for v, n := range c.counts {
			if n > 1 && !yield(v, n) {
				return
			}
		}
	}
}

var ErrCollision = errors.New("collision")

// CollisionError reports a permuted value produced more than once.
type CollisionError struct {
	Pattern  string
	Original uint64
	Permuted uint64
	Count    uint32
}

func (e *CollisionError) Error() string {
	if e.Pattern == "" {
		return fmt.Sprintf("%v: %d seen %d times", ErrCollision, e.Permuted, e.Count)
	}
	return fmt.Sprintf("%s |> %v: %d permuted to %d, seen %d times", e.Pattern, ErrCollision, e.Original, e.Permuted, e.Count)
}

func (e *CollisionError) Unwrap() error {
	return ErrCollision
}
