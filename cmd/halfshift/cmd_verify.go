package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"halfshift/internal/cipher"
	"halfshift/internal/diff"
)

func (a *app) newVerifyCmd() *cobra.Command {
	var showDiff bool
	var contextLines int
	cmd := &cobra.Command{
		Use:   "verify <original> <decoded>",
		Short: "Compare a decoded file with its original",
		Long: `Compares two files rune by rune and prints the first differences.
The number of differences shown is verify.max_diffs. With --diff the
differing lines are also shown as hunks. Exits 1 on mismatch.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			original, err := a.files.Read(args[0], a.cfg.Files.Encoding)
			if err != nil {
				return fmt.Errorf("read original: %w", err)
			}
			decoded, err := a.files.Read(args[1], a.cfg.Files.Encoding)
			if err != nil {
				return fmt.Errorf("read decoded: %w", err)
			}

			v := cipher.Verify(original, decoded, a.cfg.Verify.MaxDiffs)
			r := newRenderer(cmd.OutOrStdout(), a.cfg.Report.AmbiguityPreview)
			r.verification(v)
			if v.Match {
				return nil
			}
			if showDiff {
				r.hunks(diff.Lines(original, decoded, contextLines))
			}
			return errMismatch
		},
	}
	cmd.Flags().BoolVar(&showDiff, "diff", false, "show differing lines")
	cmd.Flags().IntVar(&contextLines, "context", 2, "unchanged lines around each change with --diff")
	return cmd
}
