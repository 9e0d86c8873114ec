package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"halfshift/internal/cipher"
	"halfshift/internal/logging"
	"halfshift/internal/textio"
)

type streamOptions struct {
	in  string
	out string
}

func (o *streamOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.in, "in", textio.Stdio, "input file, - for stdin")
	cmd.Flags().StringVar(&o.out, "out", textio.Stdio, "output file, - for stdout")
}

func (a *app) newEncodeCmd() *cobra.Command {
	var opts streamOptions
	cmd := &cobra.Command{
		Use:     "encode",
		Short:   "Encode text",
		Example: `  echo 'Hello, World!' | halfshift encode --s1 3 --s2 4`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shift, err := a.shift(cmd)
			if err != nil {
				return err
			}
			text, err := a.files.Read(opts.in, a.cfg.Files.Encoding)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			timer := logging.StartTimer(logging.For(a.logger, logging.CategoryCipher), "encode")
			out := cipher.Encode(text, shift)
			timer.Stop(zap.Int("bytes", len(text)))

			if err := a.files.Write(opts.out, out, a.cfg.Files.Encoding); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			return nil
		},
	}
	opts.bind(cmd)
	return cmd
}

func (a *app) newDecodeCmd() *cobra.Command {
	var opts streamOptions
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode text and report ambiguous positions",
		Long: `Decodes text produced by encode. Positions where both halves of the
alphabet could have produced a letter, or where no letter could, are
listed on stderr.`,
		Example: `  halfshift decode --s1 3 --s2 4 --in encrypted_text.txt`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shift, err := a.shift(cmd)
			if err != nil {
				return err
			}
			text, err := a.files.Read(opts.in, a.cfg.Files.Encoding)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			timer := logging.StartTimer(logging.For(a.logger, logging.CategoryCipher), "decode")
			d := cipher.DecodeDetailed(text, shift)
			counts := d.Counts()
			timer.Stop(
				zap.Int("ambiguous", counts[cipher.OutcomeAmbiguous]),
				zap.Int("no_candidate", counts[cipher.OutcomeNoCandidate]),
			)

			if err := a.files.Write(opts.out, d.Text, a.cfg.Files.Encoding); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			newRenderer(cmd.ErrOrStderr(), a.cfg.Report.AmbiguityPreview).ambiguity(d.Ambiguous)
			return nil
		},
	}
	opts.bind(cmd)
	return cmd
}
