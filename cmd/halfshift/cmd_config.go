package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"halfshift/internal/config"
)

func (a *app) newInitConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config [dir]",
		Short: "Write a default " + config.DefaultFile,
		Long: `Writes the default configuration to dir (default the current directory).
An existing file is never overwritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			path := filepath.Join(dir, config.DefaultFile)

			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists: %w", path, fs.ErrExist)
			} else if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("stat %s: %w", path, err)
			}

			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			r := newRenderer(cmd.OutOrStdout(), 0)
			r.println(r.success.Render("Wrote " + path))
			return nil
		},
	}
}
