package harness

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"plates/internal/code"
	"plates/internal/ctxlog"
	"plates/internal/rec"
)

type VerifyOptions struct {
	Start uint64
	// Limit is exclusive and defaults to the scheme's Max.
	Limit uint64
	// Workers defaults to GOMAXPROCS.
	Workers int
	// Chunk is the number of integers per task, 65536 by default.
	Chunk uint64
}

// Verify checks the range in parallel: every integer must decode back, the
// permutation must leave [Prime, Max) alone, invert exactly and never map
// two integers of the range to the same value.
func Verify(ctx context.Context, s *code.Scheme, opts VerifyOptions) (Summary, error) {
	o, err := Options{Start: opts.Start, Limit: opts.Limit}.normalize(s)
	if err != nil {
		return Summary{}, err
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunk := opts.Chunk
	if chunk == 0 {
		chunk = 1 << 16
	}

	logger := ctxlog.Get(ctx)
	logger.Info("verify started", "pattern", s.Name(), "start", o.Start, "limit", o.Limit, "workers", workers)

	sum := Summary{
		Pattern: s.Name(),
		Start:   o.Start,
		Step:    1,
		Limit:   o.Limit,
		Started: time.Now(),
	}

	seen := make([]atomic.Uint64, (s.Max()+63)/64)
	var swept atomic.Uint64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for lo := o.Start; lo < o.Limit; lo += min(chunk, o.Limit-lo) {
		if gctx.Err() != nil {
			break
		}
		hi := lo + min(chunk, o.Limit-lo)
		g.Go(func() (err error) {
			defer rec.Wrap(&err, "verify [%d, %d): %w", lo, hi)
			return verifyChunk(gctx, s, lo, hi, seen, &swept)
		})
	}

	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	sum.Swept = swept.Load()
	sum.Duration = time.Since(sum.Started)
	if err != nil {
		logger.Error("verify failed", "pattern", s.Name(), "error", err)
		return sum, err
	}

	logger.Info("verify finished", "pattern", s.Name(), "swept", sum.Swept, "duration", sum.Duration.String())
	return sum, nil
}

func verifyChunk(ctx context.Context, s *code.Scheme, lo, hi uint64, seen []atomic.Uint64, swept *atomic.Uint64) error {
	for x := lo; x < hi; x++ {
		if (x-lo)%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		fields, err := s.Encode(x)
		if err != nil {
			return err
		}
		d, err := s.Decode(fields)
		if err != nil {
			return err
		}
		if d != x {
			return code.RoundTripError(s.Name(), x, d)
		}

		y, err := s.Permute(x)
		if err != nil {
			return err
		}
		if x >= s.Prime() && y != x {
			return code.RoundTripError(s.Name(), x, y)
		}
		back, err := s.Unpermute(y)
		if err != nil {
			return err
		}
		if back != x {
			return code.RoundTripError(s.Name(), x, back)
		}

		bit := uint64(1) << (y % 64)
		if seen[y/64].Or(bit)&bit != 0 {
			return &CollisionError{Pattern: s.Name(), Original: x, Permuted: y, Count: 2}
		}

		n, err := s.PermuteN(x)
		if err != nil {
			return err
		}
		back, err = s.UnpermuteN(n)
		if err != nil {
			return err
		}
		if back != x {
			return code.RoundTripError(s.Name(), x, back)
		}

		swept.Add(1)
	}
	return nil
}
