package server

import (
	"time"
)

type Config struct {
	Port                 int      `yaml:"port" toml:"port"`
	AntidosBuckets       int      `yaml:"antidosBuckets" toml:"antidosBuckets"`
	AntidosPeriod        Duration `yaml:"antidosPeriod" toml:"antidosPeriod"`
	AntidosMaxConcurrent int      `yaml:"antidosMaxConcurrent" toml:"antidosMaxConcurrent"`
	ShutdownTimeout      Duration `yaml:"shutdownTimeout" toml:"shutdownTimeout"`
}

// Duration is a time.Duration written as text, "250ms" or "5s".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}
