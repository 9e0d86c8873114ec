package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"halfshift/internal/cipher"
	"halfshift/internal/config"
)

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// promptShift asks for the missing shift values. Values already supplied
// are offered as defaults.
func promptShift(ctx context.Context, in io.Reader, out io.Writer, current config.ShiftConfig) (cipher.Shift, error) {
	var raw1, raw2 string
	if current.S1 != nil {
		raw1 = strconv.Itoa(int(*current.S1))
	}
	if current.S2 != nil {
		raw2 = strconv.Itoa(int(*current.S2))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Enter shift1 value").
				Description("Any integer. Only its value mod 26 matters.").
				Value(&raw1).
				Validate(shiftValidator("s1")),
			huh.NewInput().
				Title("Enter shift2 value").
				Value(&raw2).
				Validate(shiftValidator("s2")),
		),
	).WithInput(in).WithOutput(out)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return cipher.Shift{}, &config.Error{Field: "s1", Err: config.ErrShiftRequired}
		}
		return cipher.Shift{}, fmt.Errorf("shift prompt: %w", err)
	}

	var sc config.ShiftConfig
	if err := sc.ApplyStrings("s1", raw1, "s2", raw2); err != nil {
		return cipher.Shift{}, err
	}
	return sc.Resolve()
}

func shiftValidator(field string) func(string) error {
	return func(s string) error {
		if _, err := config.ParseShiftValue(field, s); err != nil {
			return errors.New("please enter an integer")
		}
		return nil
	}
}
