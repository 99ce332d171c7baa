package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := &cli.App{
		Name:  "sweep",
		Usage: "Encode, permute and decode a range of integers, checking every round trip",
		Description: "Permuted values are written to stdout one per line, one diagnostic line per\n" +
			"integer goes to stderr. Pipe stdout into occurrences to look for duplicates.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML or TOML config file",
			},
			&cli.StringFlag{
				Name:    "pattern",
				Aliases: []string{"p"},
				Usage:   "Pattern to sweep (AA999ZZ, AA999888, A99, AA99, AA99ZZ, AAA999)",
			},
			&cli.Uint64Flag{
				Name:  "start",
				Usage: "First integer",
			},
			&cli.Uint64Flag{
				Name:  "step",
				Usage: "Distance between integers",
				Value: 1,
			},
			&cli.Uint64Flag{
				Name:  "limit",
				Usage: "Exclusive end of the range (default: the pattern's max)",
			},
			&cli.BoolFlag{
				Name:  "tolerate-collisions",
				Usage: "Count collisions instead of stopping at the first",
			},
			&cli.BoolFlag{
				Name:  "verify",
				Usage: "Check the range in parallel without writing results",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Verify workers (default: GOMAXPROCS)",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "BoltDB file for occurrence counts and run history",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
		},
		Action: sweepCommand,
		Commands: []*cli.Command{
			{
				Name:   "history",
				Usage:  "List the summaries of stored runs as JSON lines",
				Action: historyCommand,
			},
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "sweep:", err)
		return 1
	}
	return 0
}
