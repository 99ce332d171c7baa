package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"plates/internal/code"
	"plates/internal/ctxlog"
	"plates/internal/db"
	"plates/internal/harness"
	"plates/internal/rec"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := &cli.App{
		Name:      "occurrences",
		Usage:     "Read one integer per line from stdin and report duplicates",
		UsageText: "sweep --pattern A99 | occurrences --pattern A99",
		Flags: []cli.Flag{
			&cli.Uint64Flag{
				Name:  "max",
				Usage: "Values at or above max are out of range (0: no bound)",
			},
			&cli.StringFlag{
				Name:    "pattern",
				Aliases: []string{"p"},
				Usage:   "Take max from the pattern",
			},
			&cli.BoolFlag{
				Name:  "continue",
				Usage: "Report every finding instead of stopping at the first",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "Count in a BoltDB file instead of memory",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
				Value: "warn",
			},
		},
		Action: occurrencesCommand,
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "occurrences:", err)
		return 1
	}
	return 0
}

func occurrencesCommand(c *cli.Context) (err error) {
	defer rec.Error(&err)

	ctx := ctxlog.Setup(c.Context, "occurrences", ctxlog.Config{Level: c.String("log-level")})

	bound := c.Uint64("max")
	if name := c.String("pattern"); name != "" {
		p, err := code.ParsePattern(name)
		if err != nil {
			return err
		}
		if !c.IsSet("max") {
			bound = p.Scheme().Max()
		}
	}

	var counter harness.Counter = harness.NewMemoryCounter()
	if file := c.String("db"); file != "" {
		db.Open(db.Config{File: file, NoSync: true})
		defer ctxlog.Close(ctx, "db", db.Closer())

		counter, err = db.NewCounter("occurrences", db.DefaultBatch, true)
		if err != nil {
			return err
		}
	}

	report, err := harness.ScanOccurrences(ctx, os.Stdin, bound, counter, !c.Bool("continue"), func(f harness.Finding) {
		if f.OutOfRange {
			fmt.Printf("line %d: %d out of range\n", f.Line, f.Value)
			return
		}
		fmt.Printf("line %d: %d seen %d times\n", f.Line, f.Value, f.Count)
	})
	fmt.Printf("read %d, duplicates %d, out of range %d\n", report.Read, report.Duplicates, report.OutOfRange)

	return err
}
