package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Source selects where sessions come from: "csv" or "db".
	Source  string `yaml:"source"`
	CSVPath string `yaml:"csv_path"`
	DBPath  string `yaml:"db_path"`

	// Merge controls whether reloads keep products absent from the new
	// source. Defaults to true, matching production reload workflows
	// where partial exports are common.
	Merge *bool `yaml:"merge"`
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	if err := NormalizeAndValidate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Source == "" {
		if cfg.CSVPath != "" {
			cfg.Source = "csv"
		} else {
			cfg.Source = "db"
		}
	}
	if cfg.Merge == nil {
		v := true
		cfg.Merge = &v
	}
}

// NormalizeAndValidate applies defaults and checks invariants.
func NormalizeAndValidate(cfg *Config) error {
	applyDefaults(cfg)
	switch cfg.Source {
	case "csv":
		if cfg.CSVPath == "" {
			return fmt.Errorf("csv_path is required when source is csv")
		}
	case "db":
		if cfg.DBPath == "" {
			return fmt.Errorf("db_path is required when source is db")
		}
	default:
		return fmt.Errorf("source must be csv or db, got %q", cfg.Source)
	}
	return nil
}
