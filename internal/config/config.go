// Package config loads the YAML or TOML configuration shared by the plates
// programs.
package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"plates/internal/ctxlog"
	"plates/internal/db"
	"plates/internal/harness"
	"plates/internal/server"
)

type Config struct {
	Server server.Config `yaml:"server" toml:"server"`
	Log    ctxlog.Config `yaml:"log" toml:"log"`
	DB     db.Config     `yaml:"db" toml:"db"`
	Sweep  SweepConfig   `yaml:"sweep" toml:"sweep"`
}

type SweepConfig struct {
	Pattern            string `yaml:"pattern" toml:"pattern"`
	Start              uint64 `yaml:"start" toml:"start"`
	Step               uint64 `yaml:"step" toml:"step"`
	Limit              uint64 `yaml:"limit" toml:"limit"`
	TolerateCollisions bool   `yaml:"tolerateCollisions" toml:"tolerateCollisions"`
	Workers            int    `yaml:"workers" toml:"workers"`
}

func (c SweepConfig) Options() harness.Options {
	return harness.Options{
		Start:              c.Start,
		Step:               c.Step,
		Limit:              c.Limit,
		TolerateCollisions: c.TolerateCollisions,
	}
}

// Load reads filename, picking the decoder from its extension: .toml is
// TOML, anything else YAML. Unknown keys are errors.
func Load(ctx context.Context, filename string) (Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return Config{}, fmt.Errorf("open %q: %w", filename, err)
	}
	defer ctxlog.Close(ctx, "config file", file)

	if strings.EqualFold(filepath.Ext(filename), ".toml") {
		return decodeTOML(file)
	}
	return decodeYAML(file)
}

func decodeYAML(r io.Reader) (Config, error) {
	dec := yaml.NewDecoder(r, yaml.Strict())

	var config Config
	err := dec.Decode(&config)
	if err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("yaml: %w", err)
	}

	return config, nil
}

func decodeTOML(r io.Reader) (Config, error) {
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()

	var config Config
	err := dec.Decode(&config)
	if err != nil {
		return Config{}, fmt.Errorf("toml: %w", err)
	}

	return config, nil
}
