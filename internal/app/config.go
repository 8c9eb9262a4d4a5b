package app

import "errors"

// Config holds everything an App instance needs to run one engine command.
type Config struct {
	SourcePath string // C source file to compile
	ChipName   string // target chip; empty = engine default
	ConfigPath string // optional HCL engine configuration
	CheckOnly  bool   // probe the environment instead of compiling

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.SourcePath == "" && !cfg.CheckOnly {
		return nil, errors.New("a source file is required unless -check is given")
	}
	return &cfg, nil
}
