package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"plates/internal/code"
	"plates/internal/config"
	"plates/internal/ctxlog"
	"plates/internal/db"
	"plates/internal/harness"
	"plates/internal/rec"
)

// loadConfig reads the config file, if any, and applies the flags over it.
func loadConfig(c *cli.Context) (config.Config, error) {
	var cfg config.Config
	if filename := c.String("config"); filename != "" {
		var err error
		cfg, err = config.Load(c.Context, filename)
		if err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
	}

	if c.IsSet("pattern") {
		cfg.Sweep.Pattern = c.String("pattern")
	}
	if c.IsSet("start") {
		cfg.Sweep.Start = c.Uint64("start")
	}
	if c.IsSet("step") || cfg.Sweep.Step == 0 {
		cfg.Sweep.Step = c.Uint64("step")
	}
	if c.IsSet("limit") {
		cfg.Sweep.Limit = c.Uint64("limit")
	}
	if c.IsSet("tolerate-collisions") {
		cfg.Sweep.TolerateCollisions = c.Bool("tolerate-collisions")
	}
	if c.IsSet("workers") {
		cfg.Sweep.Workers = c.Int("workers")
	}
	if c.IsSet("db") {
		cfg.DB.File = c.String("db")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}

	return cfg, nil
}

func sweepCommand(c *cli.Context) (err error) {
	defer rec.Error(&err)

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if cfg.Sweep.Pattern == "" {
		return errors.New("pattern is required")
	}

	ctx := ctxlog.Setup(c.Context, "sweep", cfg.Log)

	p, err := code.ParsePattern(cfg.Sweep.Pattern)
	if err != nil {
		return err
	}
	s := p.Scheme()
	ctx = ctxlog.With(ctx, "pattern", s.Name())

	var counter harness.Counter
	if cfg.DB.File != "" {
		db.Open(cfg.DB)
		defer ctxlog.Close(ctx, "db", db.Closer())

		counter, err = db.NewCounter(s.Name(), db.DefaultBatch, true)
		if err != nil {
			return err
		}
	}

	var sum harness.Summary
	if c.Bool("verify") {
		sum, err = harness.Verify(ctx, s, harness.VerifyOptions{
			Start:   cfg.Sweep.Start,
			Limit:   cfg.Sweep.Limit,
			Workers: cfg.Sweep.Workers,
		})
	} else {
		sum, err = harness.Sweep(ctx, s, cfg.Sweep.Options(), harness.Sinks{
			Results:     harness.NewLineResults(os.Stdout),
			Diagnostics: harness.NewTextDiagnostics(os.Stderr),
			Counter:     counter,
		})
	}

	if cfg.DB.File != "" && sum.Pattern != "" {
		if serr := db.SaveSummary(sum); serr != nil {
			ctxlog.Get(ctx).Error("failed to save summary", "error", serr)
		}
	}

	return err
}

func historyCommand(c *cli.Context) (err error) {
	defer rec.Error(&err)

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if cfg.DB.File == "" {
		return errors.New("db is required")
	}

	ctx := ctxlog.Setup(c.Context, "sweep", cfg.Log)

	db.Open(cfg.DB)
	defer ctxlog.Close(ctx, "db", db.Closer())

	return printSummaries(ctx, json.NewEncoder(os.Stdout))
}

func printSummaries(ctx context.Context, enc *json.Encoder) error {
	for key, sum := range db.Summaries() {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := enc.Encode(struct {
			Key string `json:"key"`
			harness.Summary
		}{key, sum})
		if err != nil {
			return fmt.Errorf("write summary %q: %w", key, err)
		}
	}
	return nil
}
