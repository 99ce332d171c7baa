package ctxlog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, Config{Level: "warn", Format: "text"}))

	logger.Info("hidden")
	logger.Warn("shown", "pattern", "AA99")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "pattern=AA99")

	buf.Reset()
	logger = slog.New(NewHandler(&buf, Config{}))
	logger.Info("json")
	assert.Contains(t, buf.String(), `"msg":"json"`)
}

func TestStoreGet(t *testing.T) {
	ctx := context.Background()
	assert.Same(t, slog.Default(), Get(ctx))

	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, Config{}))
	ctx = Store(ctx, logger)
	assert.Same(t, logger, Get(ctx))

	ctx = With(ctx, "sweep", 1)
	Get(ctx).Info("hello")
	assert.Contains(t, buf.String(), `"sweep":1`)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestClose(t *testing.T) {
	var buf bytes.Buffer
	ctx := Store(context.Background(), slog.New(NewHandler(&buf, Config{})))

	require.NoError(t, Close(ctx, "ok", closerFunc(func() error { return nil })))
	assert.Empty(t, buf.String())

	boom := errors.New("boom")
	assert.ErrorIs(t, Close(ctx, "db", closerFunc(func() error { return boom })), boom)
	assert.Contains(t, buf.String(), `"closer":"db"`)
}
