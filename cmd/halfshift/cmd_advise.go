package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"halfshift/internal/cipher"
)

func (a *app) newAdviseCmd() *cobra.Command {
	var in string
	cmd := &cobra.Command{
		Use:   "advise",
		Short: "Check whether a text will round-trip under the shift",
		Long: `Prints the reversibility advisory for a text without writing anything.
Reads files.raw unless --in is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shift, err := a.shift(cmd)
			if err != nil {
				return err
			}
			path := in
			if path == "" {
				path = a.cfg.Files.Raw
			}
			text, err := a.files.Read(path, a.cfg.Files.Encoding)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			newRenderer(cmd.OutOrStdout(), a.cfg.Report.AmbiguityPreview).advisory(cipher.Advise(text, shift))
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "input file, - for stdin (default files.raw)")
	return cmd
}
