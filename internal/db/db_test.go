package db

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plates/internal/code"
	"plates/internal/ctxlog"
	"plates/internal/harness"
)

func openTemp(t *testing.T) {
	t.Helper()
	Open(Config{File: filepath.Join(t.TempDir(), "sub", "plates.db"), NoSync: true})
	t.Cleanup(func() {
		require.NoError(t, Close())
	})
}

func TestOpenTwice(t *testing.T) {
	openTemp(t)
	assert.Panics(t, func() { Open(Config{File: filepath.Join(t.TempDir(), "other.db")}) })
}

func TestOpenRequiresFile(t *testing.T) {
	assert.Panics(t, func() { Open(Config{}) })
}

func TestCounter(t *testing.T) {
	openTemp(t)

	c, err := NewCounter("A99", 2, false)
	require.NoError(t, err)

	for _, tc := range []struct {
		v    uint64
		want uint32
	}{
		{5, 1}, {6, 1}, {5, 2}, {7, 1}, {5, 3}, {6, 2},
	} {
		n, err := c.Add(tc.v)
		require.NoError(t, err)
		assert.Equal(t, tc.want, n, "add %d", tc.v)
	}
	require.NoError(t, c.Flush())

	dups := map[uint64]uint32{}
	for v, n := range c.Duplicates() {
		dups[v] = n
	}
	assert.Equal(t, map[uint64]uint32{5: 3, 6: 2}, dups)

	// Reopening keeps counts, reset drops them.
	again, err := NewCounter("A99", 0, false)
	require.NoError(t, err)
	n, err := again.Add(7)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), n)

	fresh, err := NewCounter("A99", 0, true)
	require.NoError(t, err)
	n, err = fresh.Add(5)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), n)
}

func TestCounter_Sweep(t *testing.T) {
	openTemp(t)

	c, err := NewCounter("AA99", 1000, true)
	require.NoError(t, err)

	ctx := ctxlog.Store(context.Background(), slog.New(slog.DiscardHandler))
	s := code.AA99.Scheme()

	sum, err := harness.Sweep(ctx, s, harness.Options{Limit: 3000}, harness.Sinks{Counter: c})
	require.NoError(t, err)
	assert.Equal(t, uint64(3000), sum.Swept)

	// A second pass over the same range collides on the first value.
	_, err = harness.Sweep(ctx, s, harness.Options{Limit: 3000}, harness.Sinks{Counter: c})
	assert.ErrorIs(t, err, harness.ErrCollision)
}

func TestSummaries(t *testing.T) {
	openTemp(t)

	started := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	for i, p := range []string{"AA99", "A99"} {
		err := SaveSummary(harness.Summary{
			Pattern: p,
			Limit:   100,
			Swept:   100,
			Started: started.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	var keys []string
	for k, sum := range Summaries() {
		keys = append(keys, k)
		assert.Equal(t, uint64(100), sum.Swept)
	}
	assert.Equal(t, []string{
		"A99/2026-10-19T12:01:00Z",
		"AA99/2026-10-19T12:00:00Z",
	}, keys)
}
