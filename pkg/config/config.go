package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config collects every tunable of the atpg tool
type Config struct {
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"` // empty logs to stderr
	} `yaml:"log"`
	Engine struct {
		Prove         bool `yaml:"prove"`          // SAT-classify faults the search gives up on
		MaxCandidates int  `yaml:"max_candidates"` // 0 keeps every sensitizing assignment
	} `yaml:"engine"`
	Campaign struct {
		Workers int  `yaml:"workers"` // 0 uses GOMAXPROCS
		Compact bool `yaml:"compact"`
	} `yaml:"campaign"`
	Output struct {
		Vectors string `yaml:"vectors"`
		Metrics string `yaml:"metrics"` // empty disables the metrics dump
	} `yaml:"output"`
}

// Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{}
	cfg.Log.Level = "info"
	cfg.Campaign.Compact = true
	cfg.Output.Vectors = "tests.txt"
	return cfg
}

// Load builds the configuration from defaults, an optional .env file, an
// optional YAML file and ATPG_* environment variables, in that order.
func Load(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "reading config")
		}
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, errors.Wrapf(err, "parsing config %s", path)
		}
	}

	// 3. Override with Environment Variables if present
	if level := os.Getenv("ATPG_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if file := os.Getenv("ATPG_LOG_FILE"); file != "" {
		cfg.Log.File = file
	}
	if workers := os.Getenv("ATPG_WORKERS"); workers != "" {
		n, err := strconv.Atoi(workers)
		if err != nil {
			return nil, errors.Wrap(err, "ATPG_WORKERS")
		}
		cfg.Campaign.Workers = n
	}
	if prove := os.Getenv("ATPG_PROVE"); prove != "" {
		b, err := strconv.ParseBool(prove)
		if err != nil {
			return nil, errors.Wrap(err, "ATPG_PROVE")
		}
		cfg.Engine.Prove = b
	}
	return cfg, nil
}
