// Package config loads the optional pathfix configuration file.
package config

import (
	stderrors "errors"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/pathfix/internal/foundation/errors"
)

// Config holds settings that can also be given as flags or environment variables.
// Zero values mean "not set" so the CLI can layer flag and env precedence on top.
type Config struct {
	Home            string   `yaml:"home,omitempty"`
	DryRun          bool     `yaml:"dry_run,omitempty"`
	Jobs            int      `yaml:"jobs,omitempty"`
	MetricsTextfile string   `yaml:"metrics_textfile,omitempty"`
	Skip            []string `yaml:"skip,omitempty"` // extra base names excluded from the walk
}

// Load reads configuration from configPath. An empty path yields an empty Config.
func Load(configPath string) (*Config, error) {
	cfg := &Config{}
	if configPath == "" {
		return cfg, nil
	}

	// #nosec G304 -- path is an explicit CLI argument
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			Fatal().
			WithContext("path", configPath).
			Build()
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse config file").
			Fatal().
			WithContext("path", configPath).
			Build()
	}

	if cfg.Jobs < 0 {
		return nil, errors.ConfigError("jobs must not be negative").
			WithContext("path", configPath).
			Build()
	}
	return cfg, nil
}
