package db

import (
	"encoding/binary"
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"

	"go.etcd.io/bbolt"
	berrors "go.etcd.io/bbolt/errors"
)

const DefaultBatch = 1 << 16

// Counter is a harness.Counter stored in its own bucket. Adds are buffered
// and written in batches; call Flush when done.
type Counter struct {
	name    []byte
	batch   int
	pending map[uint64]uint32
}

// NewCounter opens the named counter, creating it if needed. Existing
// counts are kept unless reset is set.
func NewCounter(name string, batch int, reset bool) (*Counter, error) {
	if batch <= 0 {
		batch = DefaultBatch
	}
	c := &Counter{
		name:    []byte(name),
		batch:   batch,
		pending: make(map[uint64]uint32, batch),
	}

	err := opened().Update(func(tx *bbolt.Tx) error {
		counts := tx.Bucket(bucketCounts)
		if counts == nil {
			return fmt.Errorf("counts bucket not found")
		}
		if reset {
			err := counts.DeleteBucket(c.name)
			if err != nil && !errors.Is(err, berrors.ErrBucketNotFound) {
				return fmt.Errorf("reset %q: %w", name, err)
			}
		}
		_, err := counts.CreateBucketIfNotExists(c.name)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("db: counter %q: %w", name, err)
	}
	return c, nil
}

func key(v uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, v)
}

func (c *Counter) bucket(tx *bbolt.Tx) (*bbolt.Bucket, error) {
	counts := tx.Bucket(bucketCounts)
	if counts == nil {
		return nil, fmt.Errorf("db: counts bucket not found")
	}
	b := counts.Bucket(c.name)
	if b == nil {
		return nil, fmt.Errorf("db: counter %q not found", c.name)
	}
	return b, nil
}

func (c *Counter) stored(v uint64) (uint32, error) {
	var n uint32
	err := opened().View(func(tx *bbolt.Tx) error {
		b, err := c.bucket(tx)
		if err != nil {
			return err
		}
		if data := b.Get(key(v)); data != nil {
			n = binary.BigEndian.Uint32(data)
		}
		return nil
	})
	return n, err
}

func (c *Counter) Add(v uint64) (uint32, error) {
	n, ok := c.pending[v]
	if !ok {
		var err error
		n, err = c.stored(v)
		if err != nil {
			return 0, err
		}
	}
	n++
	c.pending[v] = n

	if len(c.pending) >= c.batch {
		if err := c.Flush(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// Flush writes pending counts.
func (c *Counter) Flush() error {
	if len(c.pending) == 0 {
		return nil
	}

	err := opened().Update(func(tx *bbolt.Tx) error {
		b, err := c.bucket(tx)
		if err != nil {
			return err
		}
		// Sorted keys make for sequential page writes.
		for _, v := range slices.Sorted(maps.Keys(c.pending)) {
			err := b.Put(key(v), binary.BigEndian.AppendUint32(nil, c.pending[v]))
			if err != nil {
				return fmt.Errorf("put %d: %w", v, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("db: flush counter %q: %w", c.name, err)
	}

	clear(c.pending)
	return nil
}

// Duplicates yields every flushed value counted more than once.
func (c *Counter) Duplicates() iter.Seq2[uint64, uint32] {
	d := opened()

	return func(yield func(uint64, uint32) bool) {
		err := d.View(func(tx *bbolt.Tx) error {
			b, err := c.bucket(tx)
			if err != nil {
				return err
			}

			return b.ForEach(func(k, v []byte) error {
				n := binary.BigEndian.Uint32(v)
				if n < 2 {
					return nil
				}
				if !yield(binary.BigEndian.Uint64(k), n) {
					return errStop
				}
				return nil
			})
		})

		if err != nil {
			if errors.Is(err, errStop) {
				return
			}
			panic(fmt.Errorf("db: list duplicates of %q: %w", c.name, err))
		}
	}
}
