package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"halfshift/internal/logging"
	"halfshift/internal/pipeline"
)

type runOptions struct {
	globs []string
	json  bool
}

func (a *app) newRunCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Encode, decode and verify the configured files",
		Long: `Reads the raw text, prints the reversibility advisory, writes the encrypted
and decrypted files, and verifies the decrypted text against the original.

With --glob every matching file is processed in turn, writing
<name>.encrypted<ext> and <name>.decrypted<ext> next to it.

Exits 1 when a decrypted text differs from its original.`,
		Example: `  halfshift run --s1 3 --s2 4
  halfshift run --glob 'texts/**/*.txt' --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPipeline(cmd, opts)
		},
	}
	cmd.Flags().StringSliceVar(&opts.globs, "glob", nil, "process every file matching these doublestar patterns")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print reports as JSON")
	return cmd
}

func (a *app) runPipeline(cmd *cobra.Command, opts runOptions) error {
	shift, err := a.shift(cmd)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(a.files, a.logger)
	timer := logging.StartTimer(logging.For(a.logger, logging.CategoryPipeline), "run")

	var reports []*pipeline.Report
	if len(opts.globs) > 0 {
		reports, err = runner.RunBatch(cmd.Context(), pipeline.BatchJob{
			Patterns: opts.globs,
			Exclude:  a.cfg.Batch.Exclude,
			Shift:    shift,
			Encoding: a.cfg.Files.Encoding,
			MaxDiffs: a.cfg.Verify.MaxDiffs,
		})
	} else {
		var rep *pipeline.Report
		rep, err = runner.Run(cmd.Context(), pipeline.Job{
			Shift:     shift,
			Raw:       a.cfg.Files.Raw,
			Encrypted: a.cfg.Files.Encrypted,
			Decrypted: a.cfg.Files.Decrypted,
			Encoding:  a.cfg.Files.Encoding,
			MaxDiffs:  a.cfg.Verify.MaxDiffs,
		})
		if rep != nil {
			reports = append(reports, rep)
		}
	}
	timer.Stop(zap.Int("files", len(reports)))

	if werr := a.printReports(cmd, reports, opts); werr != nil && err == nil {
		err = werr
	}
	if err != nil {
		return err
	}
	for _, rep := range reports {
		if !rep.OK() {
			return errMismatch
		}
	}
	return nil
}

// printReports writes one report for a single run, or a list for a batch.
func (a *app) printReports(cmd *cobra.Command, reports []*pipeline.Report, opts runOptions) error {
	if opts.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if len(opts.globs) == 0 {
			if len(reports) == 0 {
				return nil
			}
			return enc.Encode(reports[0])
		}
		if reports == nil {
			reports = []*pipeline.Report{}
		}
		return enc.Encode(reports)
	}

	r := newRenderer(cmd.OutOrStdout(), a.cfg.Report.AmbiguityPreview)
	for i, rep := range reports {
		if i > 0 {
			r.println("")
		}
		r.report(rep)
	}
	if len(reports) > 1 {
		failed := 0
		for _, rep := range reports {
			if !rep.OK() {
				failed++
			}
		}
		r.println("")
		summary := fmt.Sprintf("%d files processed, %d failed verification", len(reports), failed)
		if failed > 0 {
			r.println(r.failure.Render(summary))
		} else {
			r.println(r.success.Render(summary))
		}
	}
	return nil
}
