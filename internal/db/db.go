// Package db keeps sweep bookkeeping (occurrence counts and run summaries)
// in a BoltDB file, for sweeps too large to count in memory.
package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"plates/internal/harness"
)

type Config struct {
	File string `yaml:"file" toml:"file"`
	// NoSync skips fsync on commit; counts are cheap to recompute.
	NoSync bool `yaml:"noSync" toml:"noSync"`
}

var (
	bucketSweeps = []byte("sweeps")
	bucketCounts = []byte("counts")
)

var db *bbolt.DB

func Open(config Config) {
	if db != nil {
		panic("db: already opened")
	}
	if config.File == "" {
		panic("db: file is required")
	}

	err := os.MkdirAll(filepath.Dir(config.File), 0755)
	if err != nil {
		panic(fmt.Errorf("db: create db dir: %w", err))
	}

	db, err = bbolt.Open(config.File, 0600, &bbolt.Options{
		Timeout: 30 * time.Second,
		NoSync:  config.NoSync,
	})
	if err != nil {
		panic(fmt.Errorf("db: open bbolt db: %w", err))
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range [][]byte{
			bucketSweeps,
			bucketCounts,
		} {
			_, err := tx.CreateBucketIfNotExists(bucket)
			if err != nil {
				return fmt.Errorf("create bucket %q: %w", bucket, err)
			}
		}

		return nil
	})
	if err != nil {
		db.Close()
		db = nil
		panic(fmt.Errorf("db: initialize buckets: %w", err))
	}
}

func Close() error {
	if db == nil {
		panic("db: not opened")
	}

	err := db.Close()
	db = nil
	if err != nil {
		return fmt.Errorf("db: close bbolt db: %w", err)
	}
	return nil
}

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}

func Closer() io.Closer {
	return closerFunc(Close)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(fmt.Errorf("db: must: %w", err))
	}
	return v
}

func opened() *bbolt.DB {
	if db == nil {
		panic("db: not opened")
	}
	return db
}

// SaveSummary stores the summary of a finished run, keyed by pattern and
// start time.
func SaveSummary(sum harness.Summary) error {
	key := []byte(sum.Pattern + "/" + sum.Started.UTC().Format(time.RFC3339Nano))

	return opened().Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSweeps)
		if b == nil {
			return fmt.Errorf("db: sweeps bucket not found")
		}
		return b.Put(key, must(json.Marshal(sum)))
	})
}

var errStop = fmt.Errorf("stop iteration")

// Summaries yields stored summaries in key order.
func Summaries() iter.Seq2[string, harness.Summary] {
	d := opened()

	return func(yield func(string, harness.Summary) bool) {
		err := d.View(func(tx *bbolt.Tx) error {
			b := tx.Bucket(bucketSweeps)
			if b == nil {
				return fmt.Errorf("db: sweeps bucket not found")
			}

			return b.ForEach(func(k, v []byte) error {
				var sum harness.Summary
				err := json.Unmarshal(v, &sum)
				if err != nil {
					return fmt.Errorf("db: unmarshal summary %q: %w", k, err)
				}

				if !yield(string(k), sum) {
					return errStop
				}
				return nil
			})
		})

		if err != nil {
			if errors.Is(err, errStop) {
				return
			}
			panic(fmt.Errorf("db: list summaries: %w", err))
		}
	}
}
