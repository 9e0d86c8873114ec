package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"halfshift/internal/cipher"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Files.Raw != "raw_text.txt" {
		t.Errorf("expected Raw=raw_text.txt, got %s", cfg.Files.Raw)
	}
	if cfg.Files.Encoding != "utf-8" {
		t.Errorf("expected Encoding=utf-8, got %s", cfg.Files.Encoding)
	}
	if cfg.Verify.MaxDiffs != 5 {
		t.Errorf("expected MaxDiffs=5, got %d", cfg.Verify.MaxDiffs)
	}
	if cfg.Shift.Complete() {
		t.Error("default config must not carry a shift")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv(EnvS1, "")
	t.Setenv(EnvS2, "")
	t.Setenv(EnvLogLevel, "")

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "halfshift.yaml")

	cfg := DefaultConfig()
	cfg.Shift.Set(cipher.Shift{S1: 3, S2: -4})
	cfg.Files.Raw = "in.txt"
	cfg.Logging.Level = "debug"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	shift, err := loaded.Shift.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if shift != (cipher.Shift{S1: 3, S2: -4}) {
		t.Errorf("expected shift s1=3, s2=-4, got %s", shift)
	}
	if loaded.Files.Raw != "in.txt" {
		t.Errorf("expected Raw=in.txt, got %s", loaded.Files.Raw)
	}
	if loaded.Logging.Level != "debug" {
		t.Errorf("expected Level=debug, got %s", loaded.Logging.Level)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv(EnvS1, "")
	t.Setenv(EnvS2, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Files.Encrypted != "encrypted_text.txt" {
		t.Errorf("expected defaults, got Encrypted=%s", cfg.Files.Encrypted)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Setenv(EnvS1, "")
	t.Setenv(EnvS2, "")

	path := filepath.Join(t.TempDir(), "halfshift.yaml")
	if err := os.WriteFile(path, []byte("shift:\n  s1: 7\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Shift.S1 == nil || *cfg.Shift.S1 != 7 {
		t.Errorf("expected s1=7, got %v", cfg.Shift.S1)
	}
	if cfg.Shift.S2 != nil {
		t.Errorf("expected s2 unset, got %v", *cfg.Shift.S2)
	}
	if cfg.Files.Decrypted != "decrypted_text.txt" {
		t.Errorf("expected default Decrypted, got %s", cfg.Files.Decrypted)
	}
}

func TestLoad_HugeShiftInYAML(t *testing.T) {
	t.Setenv(EnvS1, "")
	t.Setenv(EnvS2, "")

	path := filepath.Join(t.TempDir(), "halfshift.yaml")
	body := "shift:\n  s1: 123456789012345678901234567891\n  s2: -4\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	// 123456789012345678901234567891 mod 26 == 1
	if got := int(*cfg.Shift.S1); got != 1 {
		t.Errorf("expected s1 reduced to 1, got %d", got)
	}
}

func TestLoad_InvalidShiftInYAML(t *testing.T) {
	t.Setenv(EnvS1, "")
	t.Setenv(EnvS2, "")

	path := filepath.Join(t.TempDir(), "halfshift.yaml")
	if err := os.WriteFile(path, []byte("shift:\n  s1: three\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrInvalidShift) {
		t.Fatalf("expected ErrInvalidShift, got %v", err)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "halfshift.yaml")
	if err := os.WriteFile(path, []byte("files: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad encoding", func(c *Config) { c.Files.Encoding = "klingon-8" }, "files.encoding"},
		{"empty raw", func(c *Config) { c.Files.Raw = " " }, "files.raw"},
		{"same file", func(c *Config) { c.Files.Decrypted = "./raw_text.txt" }, "files.decrypted"},
		{"negative diffs", func(c *Config) { c.Verify.MaxDiffs = -1 }, "verify.max_diffs"},
		{"negative preview", func(c *Config) { c.Report.AmbiguityPreview = -2 }, "report.ambiguity_preview"},
		{"bad debounce", func(c *Config) { c.Watch.Debounce = "soon" }, "watch.debounce"},
		{"bad exclude", func(c *Config) { c.Batch.Exclude = []string{"[a-"} }, "batch.exclude"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var cerr *Error
			if !errors.As(err, &cerr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if cerr.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, cerr.Field)
			}
		})
	}
}

func TestConfig_ValidateAcceptsOtherEncodings(t *testing.T) {
	for _, enc := range []string{"latin1", "windows-1252", "utf-16le", "UTF-8"} {
		cfg := DefaultConfig()
		cfg.Files.Encoding = enc
		if err := cfg.Validate(); err != nil {
			t.Errorf("encoding %s: unexpected error %v", enc, err)
		}
	}
}

func TestConfig_GetWatchDebounce(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.GetWatchDebounce(); got != 300*time.Millisecond {
		t.Errorf("expected 300ms, got %v", got)
	}
	cfg.Watch.Debounce = "1s"
	if got := cfg.GetWatchDebounce(); got != time.Second {
		t.Errorf("expected 1s, got %v", got)
	}
	cfg.Watch.Debounce = "garbage"
	if got := cfg.GetWatchDebounce(); got != 300*time.Millisecond {
		t.Errorf("expected fallback 300ms, got %v", got)
	}
}

func TestValidate_RotationLimits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.MaxBackups = -1
	err := cfg.Validate()
	var cerr *Error
	if !errors.As(err, &cerr) || cerr.Field != "logging" {
		t.Errorf("expected logging config error, got %v", err)
	}
}

func TestConfig_ValidateRejectsStdioPaths(t *testing.T) {
	for _, field := range []string{"files.raw", "files.encrypted", "files.decrypted"} {
		cfg := DefaultConfig()
		switch field {
		case "files.raw":
			cfg.Files.Raw = "-"
		case "files.encrypted":
			cfg.Files.Encrypted = "-"
		case "files.decrypted":
			cfg.Files.Decrypted = "-"
		}
		err := cfg.Validate()
		if !errors.Is(err, ErrStdioPath) {
			t.Errorf("%s=-: expected ErrStdioPath, got %v", field, err)
			continue
		}
		var cerr *Error
		if !errors.As(err, &cerr) || cerr.Field != field {
			t.Errorf("%s=-: expected error naming the field, got %v", field, err)
		}
	}
}
