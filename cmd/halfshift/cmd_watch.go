package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"halfshift/internal/logging"
	"halfshift/internal/pipeline"
	"halfshift/internal/watch"
)

func (a *app) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Re-run the pipeline whenever the raw file changes",
		Long: `Runs the pipeline once, then again after every change to files.raw.
Changes within watch.debounce of each other trigger a single run. Stops on
interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shift, err := a.shift(cmd)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(a.files, a.logger)
			r := newRenderer(cmd.OutOrStdout(), a.cfg.Report.AmbiguityPreview)
			job := pipeline.Job{
				Shift:     shift,
				Raw:       a.cfg.Files.Raw,
				Encrypted: a.cfg.Files.Encrypted,
				Decrypted: a.cfg.Files.Decrypted,
				Encoding:  a.cfg.Files.Encoding,
				MaxDiffs:  a.cfg.Verify.MaxDiffs,
			}

			action := func(ctx context.Context) error {
				rep, err := runner.Run(ctx, job)
				if err != nil {
					return err
				}
				r.report(rep)
				r.println("")
				return nil
			}

			log := logging.For(a.logger, logging.CategoryWatch)
			if err := action(cmd.Context()); err != nil {
				log.Warn("initial run failed", zap.Error(err))
			}

			w, err := watch.New(job.Raw, a.cfg.GetWatchDebounce(), action, a.logger)
			if err != nil {
				return err
			}
			return w.Run(cmd.Context())
		},
	}
}
