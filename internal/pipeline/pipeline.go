// Package pipeline runs the full halfshift round-trip over files:
// read the raw text, advise, encode, write, read back, decode, write, and
// verify the decoded text against the original.
//
// Every step is synchronous. Batch runs process one file at a time and stop
// at the first error.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"halfshift/internal/cipher"
	"halfshift/internal/logging"
	"halfshift/internal/textio"
)

// ErrStdioPath is returned when a job names stdin/stdout for one of its
// files. Each file is read back after it is written.
var ErrStdioPath = errors.New("pipeline needs real files; use encode/decode for stdio")

// Store is the file access the pipeline needs. *textio.Files satisfies it.
type Store interface {
	Read(path, encoding string) (string, error)
	Write(path, text, encoding string) error
}

// Job describes one round-trip over a single source file.
type Job struct {
	Shift     cipher.Shift
	Raw       string
	Encrypted string
	Decrypted string
	Encoding  string
	MaxDiffs  int
}

// Report is the outcome of one Job.
type Report struct {
	Raw          string              `json:"raw"`
	Encrypted    string              `json:"encrypted"`
	Decrypted    string              `json:"decrypted"`
	Shift        cipher.Shift        `json:"shift"`
	Advisory     cipher.Advisory     `json:"advisory"`
	Runes        int                 `json:"runes"`
	Ambiguous    []int               `json:"ambiguous"`
	NoCandidate  int                 `json:"no_candidate"`
	Verification cipher.Verification `json:"verification"`
	Elapsed      time.Duration       `json:"elapsed_ns"`
}

// OK reports whether the decoded text matched the original.
func (r *Report) OK() bool {
	return r.Verification.Match
}

// Runner executes jobs against a Store.
type Runner struct {
	store  Store
	logger *zap.Logger
}

// NewRunner returns a Runner. A nil logger disables logging.
func NewRunner(store Store, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{store: store, logger: logger}
}

// Run executes one job. The context is checked between steps.
func (r *Runner) Run(ctx context.Context, job Job) (*Report, error) {
	for _, p := range []string{job.Raw, job.Encrypted, job.Decrypted} {
		if p == textio.Stdio {
			return nil, ErrStdioPath
		}
	}

	start := time.Now()
	log := logging.For(r.logger, logging.CategoryPipeline).With(zap.String("raw", job.Raw))
	ioLog := logging.For(r.logger, logging.CategoryIO)
	cipherLog := logging.For(r.logger, logging.CategoryCipher)

	report := &Report{
		Raw:       job.Raw,
		Encrypted: job.Encrypted,
		Decrypted: job.Decrypted,
		Shift:     job.Shift,
	}

	// Step 0: advisory
	raw, err := r.store.Read(job.Raw, job.Encoding)
	if err != nil {
		return nil, fmt.Errorf("read raw text: %w", err)
	}
	ioLog.Debug("read", zap.String("path", job.Raw), zap.Int("bytes", len(raw)))
	report.Advisory = cipher.Advise(raw, job.Shift)
	log.Debug("advisory",
		zap.Stringer("composition", report.Advisory.Composition),
		zap.Bool("guaranteed", report.Advisory.Guaranteed))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Step 1: encrypt
	timer := logging.StartTimer(cipherLog, "encode")
	encrypted := cipher.Encode(raw, job.Shift)
	timer.Stop(zap.Int("bytes", len(raw)))
	if err := r.store.Write(job.Encrypted, encrypted, job.Encoding); err != nil {
		return nil, fmt.Errorf("write encrypted text: %w", err)
	}
	ioLog.Debug("wrote", zap.String("path", job.Encrypted))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Step 2: decrypt what was actually stored
	stored, err := r.store.Read(job.Encrypted, job.Encoding)
	if err != nil {
		return nil, fmt.Errorf("read encrypted text: %w", err)
	}
	timer = logging.StartTimer(cipherLog, "decode")
	decoding := cipher.DecodeDetailed(stored, job.Shift)
	timer.Stop(zap.Int("ambiguous", len(decoding.Ambiguous)))
	report.Runes = len(decoding.Outcomes)
	report.Ambiguous = decoding.Ambiguous
	if report.Ambiguous == nil {
		report.Ambiguous = []int{}
	}
	report.NoCandidate = decoding.Counts()[cipher.OutcomeNoCandidate]
	if err := r.store.Write(job.Decrypted, decoding.Text, job.Encoding); err != nil {
		return nil, fmt.Errorf("write decrypted text: %w", err)
	}
	ioLog.Debug("wrote", zap.String("path", job.Decrypted))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Step 3: verify the files as stored
	original, err := r.store.Read(job.Raw, job.Encoding)
	if err != nil {
		return nil, fmt.Errorf("read raw text: %w", err)
	}
	decrypted, err := r.store.Read(job.Decrypted, job.Encoding)
	if err != nil {
		return nil, fmt.Errorf("read decrypted text: %w", err)
	}
	report.Verification = cipher.Verify(original, decrypted, job.MaxDiffs)
	report.Elapsed = time.Since(start)

	log.Info("round-trip finished",
		zap.Int("runes", report.Runes),
		zap.Int("ambiguous", len(report.Ambiguous)),
		zap.Int("no_candidate", report.NoCandidate),
		zap.Bool("match", report.Verification.Match),
		zap.Duration("elapsed", report.Elapsed))
	return report, nil
}
