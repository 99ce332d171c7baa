package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"plates/internal/config"
	"plates/internal/ctxlog"
	"plates/internal/rec"
	"plates/internal/server"
)

func run(ctx context.Context, c config.Config) (err error) {
	defer rec.Error(&err)

	logger := ctxlog.Get(ctx)

	logger.Info("starting server")
	srv := server.New(c.Server)

	return srv.Run(ctx)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	filename := "config.yaml"
	if len(os.Args) > 1 {
		filename = os.Args[1]
	}

	c, err := config.Load(ctx, filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return
	}

	ctx = ctxlog.Setup(ctx, "plates", c.Log)

	logger := ctxlog.Get(ctx)

	err = run(ctx, c)
	if err != nil {
		logger.Error("server stopped unexpectedly", "error", err)
	} else {
		logger.Info("server gracefully stopped")
	}
}
