package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// NodesPath is the directory holding the node unit directories.
	NodesPath string
	// PalettePort serves the palette/diagnostics HTTP surface when > 0.
	// With 0 the app performs a one-shot load and prints the report.
	PalettePort int

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.NodesPath == "" {
		return nil, errors.New("NodesPath is a required configuration field and cannot be empty")
	}

	return &cfg, nil
}
