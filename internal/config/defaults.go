package config

import (
	"time"

	"github.com/roach88/parity/internal/fixture"
)

// Default configuration values.
const (
	DefaultReferenceName = "reference"
	DefaultCandidateName = "candidate"
	DefaultTimeout       = 30 * time.Second
)

// DefaultNames are the file names Discover looks for, in order.
var DefaultNames = []string{"parity.yaml", "parity.yml", "parity.toml", "parity.cue", "parity.json"}

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	if len(cfg.Include) == 0 {
		cfg.Include = append([]string(nil), fixture.DefaultInclude...)
	}
	if cfg.Reference.Name == "" {
		cfg.Reference.Name = DefaultReferenceName
	}
	if cfg.Candidate.Name == "" {
		cfg.Candidate.Name = DefaultCandidateName
	}
	if cfg.Fixtures == nil {
		cfg.Fixtures = []fixture.Spec{}
	}
}
