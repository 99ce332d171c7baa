package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plates/internal/ctxlog"
	"plates/internal/db"
	"plates/internal/harness"
	"plates/internal/server"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	filename := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(filename, []byte(content), 0600))
	return filename
}

func wantConfig() Config {
	return Config{
		Server: server.Config{
			Port:                 8080,
			AntidosBuckets:       64,
			AntidosPeriod:        server.Duration(10 * time.Millisecond),
			AntidosMaxConcurrent: 8,
			ShutdownTimeout:      server.Duration(5 * time.Second),
		},
		Log: ctxlog.Config{Level: "debug", Format: "text"},
		DB:  db.Config{File: "sweeps.db"},
		Sweep: SweepConfig{
			Pattern:            "A99",
			Start:              1,
			Step:               2,
			Limit:              1000,
			TolerateCollisions: true,
			Workers:            4,
		},
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "config.yaml",
			content: `
server:
  port: 8080
  antidosBuckets: 64
  antidosPeriod: 10ms
  antidosMaxConcurrent: 8
  shutdownTimeout: 5s
log:
  level: debug
  format: text
db:
  file: sweeps.db
sweep:
  pattern: A99
  start: 1
  step: 2
  limit: 1000
  tolerateCollisions: true
  workers: 4
`,
		},
		{
			name: "config.toml",
			content: `
[server]
port = 8080
antidosBuckets = 64
antidosPeriod = "10ms"
antidosMaxConcurrent = 8
shutdownTimeout = "5s"

[log]
level = "debug"
format = "text"

[db]
file = "sweeps.db"

[sweep]
pattern = "A99"
start = 1
step = 2
limit = 1000
tolerateCollisions = true
workers = 4
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := Load(context.Background(), writeFile(t, tt.name, tt.content))
			require.NoError(t, err)
			assert.Equal(t, wantConfig(), config)
		})
	}
}

func TestLoad_Empty(t *testing.T) {
	config, err := Load(context.Background(), writeFile(t, "config.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, Config{}, config)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"config.yaml", "server:\n  prot: 8080\n"},
		{"config.yaml", "server:\n  shutdownTimeout: soon\n"},
		{"config.toml", "[server]\nprot = 8080\n"},
		{"config.toml", "[server\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), writeFile(t, tt.name, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSweepConfig_Options(t *testing.T) {
	assert.Equal(t, harness.Options{
		Start:              1,
		Step:               2,
		Limit:              1000,
		TolerateCollisions: true,
	}, wantConfig().Sweep.Options())
}
