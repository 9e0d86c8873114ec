package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"halfshift/internal/cipher"
	"halfshift/internal/logging"
)

// ErrNoMatches is returned when a batch glob selects no files.
var ErrNoMatches = errors.New("no files match the batch patterns")

// BatchJob runs the round-trip over every file a set of globs selects.
type BatchJob struct {
	Patterns []string // doublestar globs, e.g. "texts/**/*.txt"
	Exclude  []string
	Shift    cipher.Shift
	Encoding string
	MaxDiffs int
}

// DerivedPaths returns the encrypted and decrypted paths written next to a
// batch source: notes.txt -> notes.encrypted.txt, notes.decrypted.txt.
func DerivedPaths(raw string) (encrypted, decrypted string) {
	ext := filepath.Ext(raw)
	stem := strings.TrimSuffix(raw, ext)
	return stem + ".encrypted" + ext, stem + ".decrypted" + ext
}

// Expand resolves patterns to a sorted, de-duplicated list of files,
// dropping anything an exclude pattern matches by full path or base name.
func Expand(patterns, exclude []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return nil, fmt.Errorf("invalid glob pattern %q", pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if excluded(m, exclude) {
				continue
			}
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

func excluded(path string, exclude []string) bool {
	slash := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, pattern := range exclude {
		if ok, _ := doublestar.Match(pattern, slash); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// RunBatch expands the job's patterns and runs each file in order. Reports
// for files that completed are returned even when a later file fails.
func (r *Runner) RunBatch(ctx context.Context, job BatchJob) ([]*Report, error) {
	log := logging.For(r.logger, logging.CategoryPipeline)

	files, err := Expand(job.Patterns, job.Exclude)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMatches, strings.Join(job.Patterns, ", "))
	}
	log.Info("batch start", zap.Int("files", len(files)))

	reports := make([]*Report, 0, len(files))
	for i, raw := range files {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		enc, dec := DerivedPaths(raw)
		report, err := r.Run(ctx, Job{
			Shift:     job.Shift,
			Raw:       raw,
			Encrypted: enc,
			Decrypted: dec,
			Encoding:  job.Encoding,
			MaxDiffs:  job.MaxDiffs,
		})
		if err != nil {
			return reports, fmt.Errorf("%s: %w", raw, err)
		}
		reports = append(reports, report)
		log.Debug("batch progress", zap.Int("done", i+1), zap.Int("total", len(files)))
	}
	return reports, nil
}
