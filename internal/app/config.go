package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
// Every knob arrives from the caller; the core never reads the ambient
// environment.
type Config struct {
	// ResPath is the file or directory holding .res.hcl resource files.
	ResPath string
	// OutputDir receives the generated source units.
	OutputDir string
	// Profile selects which profile-qualified resources are active.
	Profile string

	// DuplicatesAreFatal promotes DuplicateKey warnings to build errors.
	DuplicatesAreFatal bool
	// IncludeTest admits test-scoped resource files into the build.
	IncludeTest bool

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ResPath == "" {
		return nil, errors.New("ResPath is a required configuration field and cannot be empty")
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "gen"
	}
	return &cfg, nil
}
