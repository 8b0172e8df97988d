// Package config holds the psclassify configuration, loaded from YAML and
// overridable per-flag on the command line.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"psclassify/internal/report"
)

// Config holds all psclassify configuration.
type Config struct {
	// Mode filters output rows by prescale value: inclusive, unprescaled
	// or prescaled. Applied by the reporting layer only.
	Mode string `yaml:"mode"`

	// KeepZeroPrescales includes prescale-0 (disabled) records in
	// classification.
	KeepZeroPrescales bool `yaml:"keep_zero_prescales"`

	// NoPrescaleChecks disables the backup-prescale >= main-prescale
	// constraint.
	NoPrescaleChecks bool `yaml:"no_prescale_checks"`

	// KnownBackupSeeds are force-classified as backups without
	// evaluation.
	KnownBackupSeeds []string `yaml:"known_backup_seeds"`

	// Workers bounds the pairwise evaluation goroutines; 0 means one per
	// CPU.
	Workers int `yaml:"workers"`

	// StorePath is the SQLite run-history database; empty disables
	// persistence.
	StorePath string `yaml:"store_path"`

	// OutputDir receives the CSV artifacts.
	OutputDir string `yaml:"output_dir"`
}

// InvalidOptionsError reports contradictory or unusable configuration. It
// fails the run before any evaluation begins.
type InvalidOptionsError struct {
	Reason string
}

func (e *InvalidOptionsError) Error() string {
	return "invalid options: " + e.Reason
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Mode:      string(report.ModeInclusive),
		OutputDir: ".",
	}
}

// Load reads a YAML config file on top of the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate fails fast on unusable settings.
func (c Config) Validate() error {
	if _, err := report.ParseMode(c.Mode); err != nil {
		return &InvalidOptionsError{Reason: err.Error()}
	}
	if c.Workers < 0 {
		return &InvalidOptionsError{Reason: fmt.Sprintf("workers must be >= 0, got %d", c.Workers)}
	}
	seen := make(map[string]bool, len(c.KnownBackupSeeds))
	for _, name := range c.KnownBackupSeeds {
		if name == "" {
			return &InvalidOptionsError{Reason: "known backup seed with empty name"}
		}
		if seen[name] {
			return &InvalidOptionsError{Reason: fmt.Sprintf("known backup seed %q listed twice", name)}
		}
		seen[name] = true
	}
	return nil
}
