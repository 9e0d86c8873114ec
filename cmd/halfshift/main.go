// Command halfshift encodes text with the piecewise modular cipher,
// decodes it back, and reports where the inverse was ambiguous.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"halfshift/internal/cipher"
	"halfshift/internal/config"
	"halfshift/internal/logging"
	"halfshift/internal/textio"
)

// Exit codes.
const (
	exitOK       = 0
	exitMismatch = 1
	exitConfig   = 2
	exitIO       = 3
)

// errMismatch is returned after a failed verification has been printed.
var errMismatch = errors.New("verification failed")

// app holds global flag values and the state built from them before a
// command runs.
type app struct {
	configPath string
	s1, s2     string
	encoding   string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
	files  *textio.Files
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "halfshift",
		Short: "Piecewise modular cipher with ambiguity reporting",
		Long: `halfshift shifts each ASCII letter by an amount that depends on its
case and on which half of the alphabet it falls in:

  a-m  + s1*s2        n-z  - (s1+s2)
  A-M  - s1           N-Z  + s2^2

Decoding tries both halves and reports every position where the original
letter cannot be determined for certain.

Run without a subcommand to encode, decode and verify the configured files.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPipeline(cmd, runOptions{})
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default $"+config.EnvConfig+" or ./"+config.DefaultFile+")")
	flags.StringVar(&a.s1, "s1", "", "first shift value (any integer)")
	flags.StringVar(&a.s2, "s2", "", "second shift value (any integer)")
	flags.StringVar(&a.encoding, "encoding", "", "text encoding label, e.g. utf-8 or latin1")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &config.Error{Field: "flags", Err: err}
	})

	root.AddCommand(
		a.newRunCmd(),
		a.newEncodeCmd(),
		a.newDecodeCmd(),
		a.newVerifyCmd(),
		a.newAdviseCmd(),
		a.newWatchCmd(),
		a.newInitConfigCmd(),
	)
	return root
}

// setup loads configuration in precedence order (defaults, file,
// environment, flags) and builds the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	path := a.configPath
	if path == "" {
		path = os.Getenv(config.EnvConfig)
	}
	if path == "" {
		path = config.DefaultFile
	}

	cfg, err := config.Load(path)
	if err != nil {
		return &config.Error{Field: "file", Value: path, Err: err}
	}
	if err := cfg.Shift.ApplyStrings("s1", a.s1, "s2", a.s2); err != nil {
		return err
	}
	if a.encoding != "" {
		cfg.Files.Encoding = a.encoding
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging, a.verbose)
	if err != nil {
		return &config.Error{Field: "logging", Err: err}
	}

	a.cfg = cfg
	a.logger = logger
	a.files = &textio.Files{Stdin: cmd.InOrStdin(), Stdout: cmd.OutOrStdout()}

	logging.For(logger, logging.CategoryBoot).Debug("config loaded",
		zap.String("path", path),
		zap.Bool("shift_set", cfg.Shift.Complete()),
		zap.String("encoding", cfg.Files.Encoding),
	)
	return nil
}

// shift returns the configured shift, prompting on a terminal when it is
// incomplete.
func (a *app) shift(cmd *cobra.Command) (cipher.Shift, error) {
	if a.cfg.Shift.Complete() {
		return a.cfg.Shift.Resolve()
	}
	if !isTerminal(cmd.InOrStdin()) {
		return a.cfg.Shift.Resolve()
	}
	s, err := promptShift(cmd.Context(), cmd.InOrStdin(), cmd.ErrOrStderr(), a.cfg.Shift)
	if err != nil {
		return cipher.Shift{}, err
	}
	a.cfg.Shift.Set(s)
	return s, nil
}

// exitCode maps an error returned by Execute onto the process exit code.
func exitCode(err error) int {
	var cerr *config.Error
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errMismatch):
		return exitMismatch
	case errors.As(err, &cerr):
		return exitConfig
	default:
		return exitIO
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errMismatch) {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return exitCode(err)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
