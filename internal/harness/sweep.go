// Package harness sweeps a code scheme over a range of integers, checking
// that every code decodes back and that no two integers share a permuted
// value.
package harness

import (
	"context"
	"fmt"
	"time"

	"plates/internal/code"
	"plates/internal/ctxlog"
)

type Options struct {
	Start uint64
	// Step defaults to 1.
	Step uint64
	// Limit is exclusive and defaults to the scheme's Max.
	Limit uint64
	// TolerateCollisions counts collisions instead of failing on the first.
	TolerateCollisions bool
}

func (o Options) normalize(s *code.Scheme) (Options, error) {
	if o.Step == 0 {
		o.Step = 1
	}
	if o.Limit == 0 {
		o.Limit = s.Max()
	}
	if o.Limit > s.Max() {
		return o, &code.Error{
			Pattern: s.Name(),
			Value:   fmt.Sprint(o.Limit),
			Err:     code.ErrRange,
			Detail:  fmt.Sprintf("sweep limit above max %d", s.Max()),
		}
	}
	return o, nil
}

// Sinks are the outputs of a sweep. Nil members discard, a nil Counter
// counts in memory.
type Sinks struct {
	Results     Results
	Diagnostics Diagnostics
	Counter     Counter
}

type Summary struct {
	Pattern    string        `json:"pattern"`
	Start      uint64        `json:"start"`
	Step       uint64        `json:"step"`
	Limit      uint64        `json:"limit"`
	Swept      uint64        `json:"swept"`
	Collisions uint64        `json:"collisions"`
	Started    time.Time     `json:"started"`
	Duration   time.Duration `json:"duration"`
}

const cancelCheckInterval = 4096

// Sweep encodes, permutes and decodes every integer of the range, streaming
// one result and one diagnostic record per integer. A value that does not
// decode back is a RoundTripError, a repeated permuted value a
// CollisionError.
func Sweep(ctx context.Context, s *code.Scheme, opts Options, sinks Sinks) (Summary, error) {
	opts, err := opts.normalize(s)
	if err != nil {
		return Summary{}, err
	}

	results := sinks.Results
	if results == nil {
		results = Discard
	}
	diagnostics := sinks.Diagnostics
	if diagnostics == nil {
		diagnostics = Discard
	}
	counter := sinks.Counter
	if counter == nil {
		counter = NewMemoryCounter()
	}

	logger := ctxlog.Get(ctx)
	logger.Info("sweep started", "pattern", s.Name(), "start", opts.Start, "step", opts.Step, "limit", opts.Limit)

	sum := Summary{
		Pattern: s.Name(),
		Start:   opts.Start,
		Step:    opts.Step,
		Limit:   opts.Limit,
		Started: time.Now(),
	}

	err = sweep(ctx, s, opts, results, diagnostics, counter, &sum)

	for _, f := range []any{results, diagnostics, counter} {
		if f, ok := f.(flusher); ok {
			if ferr := f.Flush(); ferr != nil && err == nil {
				err = fmt.Errorf("flush: %w", ferr)
			}
		}
	}

	sum.Duration = time.Since(sum.Started)
	if err != nil {
		logger.Error("sweep failed", "pattern", s.Name(), "swept", sum.Swept, "error", err)
		return sum, err
	}

	logger.Info("sweep finished", "pattern", s.Name(), "swept", sum.Swept, "collisions", sum.Collisions, "duration", sum.Duration.String())
	return sum, nil
}

func sweep(ctx context.Context, s *code.Scheme, opts Options, results Results, diagnostics Diagnostics, counter Counter, sum *Summary) error {
	for i := opts.Start; i < opts.Limit; {
		if sum.Swept%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		if err := check(s, i, opts.TolerateCollisions, results, diagnostics, counter, sum); err != nil {
			return err
		}
		sum.Swept++

		if opts.Limit-i <= opts.Step {
			break
		}
		i += opts.Step
	}
	return nil
}

func check(s *code.Scheme, i uint64, tolerate bool, results Results, diagnostics Diagnostics, counter Counter, sum *Summary) error {
	c0, err := s.Encode(i)
	if err != nil {
		return err
	}
	p, err := s.PermuteN(i)
	if err != nil {
		return err
	}
	c2, err := s.Encode(p)
	if err != nil {
		return err
	}

	n, err := counter.Add(p)
	if err != nil {
		return fmt.Errorf("count %d: %w", p, err)
	}

	if err := results.Permuted(p); err != nil {
		return fmt.Errorf("results: %w", err)
	}
	err = diagnostics.Record(Record{
		Pattern:      s.Name(),
		Original:     i,
		Code:         c0,
		Permuted:     p,
		PermutedCode: c2,
	})
	if err != nil {
		return fmt.Errorf("diagnostics: %w", err)
	}

	d0, err := s.Decode(c0)
	if err != nil {
		return err
	}
	if d0 != i {
		return code.RoundTripError(s.Name(), i, d0)
	}
	d2, err := s.Decode(c2)
	if err != nil {
		return err
	}
	if d2 != p {
		return code.RoundTripError(s.Name(), p, d2)
	}
	back, err := s.UnpermuteN(p)
	if err != nil {
		return err
	}
	if back != i {
		return code.RoundTripError(s.Name(), i, back)
	}

	if n > 1 {
		sum.Collisions++
		if !tolerate {
			return &CollisionError{Pattern: s.Name(), Original: i, Permuted: p, Count: n}
		}
	}
	return nil
}
