// Package config loads, saves, and defaults the YAML run configuration.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/aglogen/internal/agg"
	"github.com/san-kum/aglogen/internal/boxcount"
)

const (
	DefaultRuns      = 8
	DefaultSeedStart = 1
	DefaultOutputDir = "runs"
)

type Config struct {
	Simulation agg.Params      `yaml:"simulation"`
	Analysis   boxcount.Params `yaml:"analysis"`
	Batch      BatchConfig     `yaml:"batch"`
	OutputDir  string          `yaml:"output_dir"`
}

type BatchConfig struct {
	// Runs is the number of simulations in a batch study.
	Runs int `yaml:"runs"`
	// Workers bounds concurrent runs; zero means one per CPU.
	Workers int `yaml:"workers"`
	// SeedStart seeds run i with SeedStart+i.
	SeedStart int64 `yaml:"seed_start"`
}

func DefaultConfig() *Config {
	return &Config{
		Simulation: agg.DefaultParams(agg.DLA),
		Analysis:   boxcount.DefaultParams(),
		Batch: BatchConfig{
			Runs:      DefaultRuns,
			SeedStart: DefaultSeedStart,
		},
		OutputDir: DefaultOutputDir,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
