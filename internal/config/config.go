// Package config loads and validates halfshift configuration.
//
// Values are layered: DefaultConfig, then the YAML file, then HALFSHIFT_*
// environment variables. The CLI applies its flags on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/encoding/htmlindex"
	"gopkg.in/yaml.v3"

	"halfshift/internal/textio"
)

// ErrStdioPath is returned when a pipeline file is set to stdin/stdout. The
// pipeline reads each of its files more than once.
var ErrStdioPath = errors.New("pipeline needs real files; use encode/decode for stdio")

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "halfshift.yaml"

// Environment variables read by applyEnvOverrides.
const (
	EnvConfig    = "HALFSHIFT_CONFIG"
	EnvS1        = "HALFSHIFT_S1"
	EnvS2        = "HALFSHIFT_S2"
	EnvLogLevel  = "HALFSHIFT_LOG_LEVEL"
	EnvLogFormat = "HALFSHIFT_LOG_FORMAT"
	EnvEncoding  = "HALFSHIFT_ENCODING"
)

// Config holds all halfshift configuration.
type Config struct {
	Shift   ShiftConfig   `yaml:"shift"`
	Files   FilesConfig   `yaml:"files"`
	Batch   BatchConfig   `yaml:"batch"`
	Verify  VerifyConfig  `yaml:"verify"`
	Report  ReportConfig  `yaml:"report"`
	Logging LoggingConfig `yaml:"logging"`
	Watch   WatchConfig   `yaml:"watch"`
}

// FilesConfig names the three files of a pipeline run.
type FilesConfig struct {
	Raw       string `yaml:"raw"`
	Encrypted string `yaml:"encrypted"`
	Decrypted string `yaml:"decrypted"`
	// Encoding is a WHATWG label (utf-8, latin1, windows-1252, utf-16le ...).
	Encoding string `yaml:"encoding"`
}

// BatchConfig configures glob runs.
type BatchConfig struct {
	Exclude []string `yaml:"exclude"`
}

// VerifyConfig configures the decoded/original comparison.
type VerifyConfig struct {
	MaxDiffs int `yaml:"max_diffs"`
}

// ReportConfig configures operator-facing output.
type ReportConfig struct {
	AmbiguityPreview int `yaml:"ambiguity_preview"`
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// DefaultConfig returns the default configuration. The shift is left
// unset so that it must come from somewhere explicit.
func DefaultConfig() *Config {
	return &Config{
		Files: FilesConfig{
			Raw:       "raw_text.txt",
			Encrypted: "encrypted_text.txt",
			Decrypted: "decrypted_text.txt",
			Encoding:  "utf-8",
		},
		Batch: BatchConfig{
			Exclude: []string{"**/*.encrypted.*", "**/*.decrypted.*"},
		},
		Verify: VerifyConfig{MaxDiffs: 5},
		Report: ReportConfig{AmbiguityPreview: 10},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
		Watch: WatchConfig{Debounce: "300ms"},
	}
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies HALFSHIFT_* environment variables.
func (c *Config) applyEnvOverrides() error {
	if err := c.Shift.ApplyStrings(EnvS1, os.Getenv(EnvS1), EnvS2, os.Getenv(EnvS2)); err != nil {
		return err
	}
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		c.Logging.Level = strings.ToLower(lvl)
	}
	if f := os.Getenv(EnvLogFormat); f != "" {
		c.Logging.Format = strings.ToLower(f)
	}
	if enc := os.Getenv(EnvEncoding); enc != "" {
		c.Files.Encoding = enc
	}
	return nil
}

// GetWatchDebounce returns the watch debounce window as a duration.
func (c *Config) GetWatchDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d < 0 {
		return 300 * time.Millisecond
	}
	return d
}

// Validate checks the configuration. The shift is not checked here; it may
// still be supplied by a prompt.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return err
	}

	if _, err := htmlindex.Get(c.Files.Encoding); err != nil {
		return &Error{Field: "files.encoding", Value: c.Files.Encoding, Err: err}
	}

	paths := map[string]string{
		"files.raw":       c.Files.Raw,
		"files.encrypted": c.Files.Encrypted,
		"files.decrypted": c.Files.Decrypted,
	}
	seen := make(map[string]string, len(paths))
	for _, field := range []string{"files.raw", "files.encrypted", "files.decrypted"} {
		p := paths[field]
		if strings.TrimSpace(p) == "" {
			return &Error{Field: field, Err: errors.New("path required")}
		}
		if p == textio.Stdio {
			return &Error{Field: field, Value: p, Err: ErrStdioPath}
		}
		clean := filepath.Clean(p)
		if other, ok := seen[clean]; ok {
			return &Error{Field: field, Value: p, Err: fmt.Errorf("same file as %s", other)}
		}
		seen[clean] = field
	}

	if c.Verify.MaxDiffs < 0 {
		return &Error{Field: "verify.max_diffs", Value: fmt.Sprint(c.Verify.MaxDiffs), Err: errors.New("must be >= 0")}
	}
	if c.Report.AmbiguityPreview < 0 {
		return &Error{Field: "report.ambiguity_preview", Value: fmt.Sprint(c.Report.AmbiguityPreview), Err: errors.New("must be >= 0")}
	}
	if c.Watch.Debounce != "" {
		if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
			return &Error{Field: "watch.debounce", Value: c.Watch.Debounce, Err: err}
		}
	}
	for _, pattern := range c.Batch.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return &Error{Field: "batch.exclude", Value: pattern, Err: errors.New("invalid glob pattern")}
		}
	}
	return nil
}
