package config

import (
	"errors"
	"slices"
)

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level,omitempty"`   // debug, info, warn, error
	Format string `yaml:"format" json:"format,omitempty"` // json, text
	File   string `yaml:"file" json:"file,omitempty"`     // empty = stderr

	// Rotation of File. Zero keeps lumberjack's defaults.
	MaxSizeMB  int  `yaml:"max_size_mb" json:"max_size_mb,omitempty"`
	MaxBackups int  `yaml:"max_backups" json:"max_backups,omitempty"`
	MaxAgeDays int  `yaml:"max_age_days" json:"max_age_days,omitempty"`
	Compress   bool `yaml:"compress" json:"compress,omitempty"`
}

// ValidLogLevels lists the accepted logging.level values.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// ValidLogFormats lists the accepted logging.format values.
var ValidLogFormats = []string{"text", "json"}

// Validate checks level and format.
func (c *LoggingConfig) Validate() error {
	if !slices.Contains(ValidLogLevels, c.Level) {
		return &Error{Field: "logging.level", Value: c.Level, Err: errors.New("want one of debug, info, warn, error")}
	}
	if !slices.Contains(ValidLogFormats, c.Format) {
		return &Error{Field: "logging.format", Value: c.Format, Err: errors.New("want text or json")}
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return &Error{Field: "logging", Err: errors.New("rotation limits must be >= 0")}
	}
	return nil
}
