package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/roach88/parity/internal/fixture"
	"github.com/roach88/parity/internal/normalize"
)

var (
	// ErrSchema marks a document that does not match the config schema.
	ErrSchema = errors.New("config does not match schema")

	// ErrUnknownFormat is returned for a file extension no decoder handles.
	ErrUnknownFormat = errors.New("unknown config format")

	// ErrNotFound is returned by Discover when a directory holds no config.
	ErrNotFound = errors.New("no config file found")
)

// Parser types.
const (
	TypeExec     = "exec"
	TypeRecorded = "recorded"
)

// Config is a harness configuration.
type Config struct {
	// Corpus is the fixture directory. Relative paths are resolved against
	// the config file's directory.
	Corpus string `json:"corpus"`

	// Include lists basename patterns that mark fixture files. Defaults to
	// fixture.DefaultInclude.
	Include []string `json:"include,omitempty"`

	// Jobs bounds concurrent fixtures. 0 and 1 run sequentially.
	Jobs int `json:"jobs,omitempty"`

	// Database is the run history file. Empty disables history.
	Database string `json:"database,omitempty"`

	Reference ParserConfig    `json:"reference"`
	Candidate ParserConfig    `json:"candidate"`
	Fixtures  []fixture.Spec  `json:"fixtures"`
	Normalize NormalizeConfig `json:"normalize,omitempty"`

	// dir is the directory relative paths are resolved against.
	dir string
}

// ParserConfig describes one parser.
type ParserConfig struct {
	// Name keys fixture option overrides. Defaults to the role
	// ("reference" or "candidate").
	Name string `json:"name,omitempty"`

	// Type is TypeExec or TypeRecorded.
	Type string `json:"type"`

	// Exec parsers.
	Command string   `json:"command,omitempty"`
	Args    []string `json:"args,omitempty"`
	Dir     string   `json:"dir,omitempty"`
	Env     []string `json:"env,omitempty"`
	Timeout string   `json:"timeout,omitempty"`

	// Recordings is the directory recorded parsers replay from.
	Recordings string `json:"recordings,omitempty"`
}

// TimeoutDuration parses Timeout. An empty timeout is DefaultTimeout.
func (p ParserConfig) TimeoutDuration() (time.Duration, error) {
	if p.Timeout == "" {
		return DefaultTimeout, nil
	}
	d, err := time.ParseDuration(p.Timeout)
	if err != nil {
		return 0, fmt.Errorf("parser %s: timeout: %w", p.Name, err)
	}
	return d, nil
}

// NormalizeConfig tunes the reference tree normalizer.
type NormalizeConfig struct {
	// Rules replaces the default rule table when set.
	Rules []normalize.Rule `json:"rules,omitempty"`

	// ExtraRules are appended to the rule table.
	ExtraRules []normalize.Rule `json:"extra_rules,omitempty"`

	// Unwrap replaces the default root unwrap; NoUnwrap disables it.
	Unwrap   *normalize.Unwrap `json:"unwrap,omitempty"`
	NoUnwrap bool              `json:"no_unwrap,omitempty"`

	// RootSpanKeys replaces the default root span keys when set.
	RootSpanKeys []string `json:"root_span_keys,omitempty"`
}

// Dir returns the directory relative paths are resolved against.
func (c *Config) Dir() string {
	return c.dir
}

// Path resolves p against the config directory.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}

// Load reads a config file. The format follows the extension: .yaml,
// .yml, .toml, .cue or .json.
//
// Every format is converted to JSON, validated against the embedded
// schema, and then decoded strictly. Defaults are applied last.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	cfg, err := Parse(data, format, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("resolve config directory: %w", err)
	}
	cfg.dir = abs
	return cfg, nil
}

// Parse decodes a config document in the given format. name is used in
// error positions only. Relative paths resolve against the working
// directory until the caller sets one through Load.
func Parse(data []byte, format Format, name string) (*Config, error) {
	doc, err := toJSON(data, format, name)
	if err != nil {
		return nil, err
	}

	if err := ValidateJSON(doc); err != nil {
		return nil, err
	}

	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Discover returns the first config file found in dir, trying each
// DefaultNames entry in order.
func Discover(dir string) (string, error) {
	for _, name := range DefaultNames {
		p := filepath.Join(dir, name)
		info, err := os.Stat(p)
		if err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w in %s (tried %s)", ErrNotFound, dir, strings.Join(DefaultNames, ", "))
}

// Validate checks constraints the schema cannot express.
func Validate(cfg *Config) error {
	if cfg.Reference.Name == cfg.Candidate.Name {
		return fmt.Errorf("reference and candidate must have different names (both %q)", cfg.Reference.Name)
	}
	for _, p := range []ParserConfig{cfg.Reference, cfg.Candidate} {
		if _, err := p.TimeoutDuration(); err != nil {
			return err
		}
	}
	return nil
}
