package main

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// hostConfig is host-level configuration for the demo process. It is
// deliberately separate from anything under internal/core/ecs: the core
// never reads a config file, it only takes typed resources and
// collaborators from its host.
type hostConfig struct {
	TickRate      float64 `yaml:"tick_rate"`
	SpawnCount    int     `yaml:"spawn_count"`
	LogLevel      string  `yaml:"log_level"`
	EnableMetrics bool    `yaml:"enable_metrics"`
}

func defaultHostConfig() hostConfig {
	return hostConfig{TickRate: 60, SpawnCount: 128, LogLevel: "info"}
}

func loadHostConfig(path string) (hostConfig, error) {
	cfg := defaultHostConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	return decodeHostConfig(f, cfg)
}

func decodeHostConfig(r io.Reader, base hostConfig) (hostConfig, error) {
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&base); err != nil && err != io.EOF {
		return base, err
	}
	return base, nil
}
