package config

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"halfshift/internal/cipher"
)

var (
	// ErrInvalidShift is returned when a shift value is not an integer.
	ErrInvalidShift = errors.New("shift must be an integer")
	// ErrShiftRequired is returned when no source supplied a shift value.
	ErrShiftRequired = errors.New("shift values s1 and s2 are required")
)

// Error is a configuration problem tied to one field or variable.
type Error struct {
	Field string // s1, s2, HALFSHIFT_S1, logging.level ...
	Value string
	Err   error
}

func (e *Error) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("config %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config %s=%q: %v", e.Field, e.Value, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

var twentySix = big.NewInt(26)

// ParseShiftValue parses one shift. Values beyond the range of int are
// reduced mod 26, which leaves every cipher result unchanged.
func ParseShiftValue(field, raw string) (int, error) {
	s := strings.TrimSpace(raw)
	n, err := strconv.Atoi(s)
	if err == nil {
		return n, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		if b, ok := new(big.Int).SetString(s, 10); ok {
			return int(new(big.Int).Mod(b, twentySix).Int64()), nil
		}
	}
	return 0, &Error{Field: field, Value: raw, Err: ErrInvalidShift}
}

// ShiftValue is a shift read from YAML. It accepts anything
// ParseShiftValue accepts, including integers too large for int.
type ShiftValue int

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *ShiftValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return &Error{Field: "shift", Value: node.Value, Err: ErrInvalidShift}
	}
	n, err := ParseShiftValue("shift", node.Value)
	if err != nil {
		return err
	}
	*v = ShiftValue(n)
	return nil
}

// ShiftConfig holds the optional shift pair. A nil field means the value
// has not been supplied yet.
type ShiftConfig struct {
	S1 *ShiftValue `yaml:"s1,omitempty"`
	S2 *ShiftValue `yaml:"s2,omitempty"`
}

// Set fixes both values.
func (c *ShiftConfig) Set(s cipher.Shift) {
	s1, s2 := ShiftValue(s.S1), ShiftValue(s.S2)
	c.S1, c.S2 = &s1, &s2
}

// Complete reports whether both values are present.
func (c ShiftConfig) Complete() bool {
	return c.S1 != nil && c.S2 != nil
}

// Resolve returns the shift pair, or ErrShiftRequired naming the first
// missing value.
func (c ShiftConfig) Resolve() (cipher.Shift, error) {
	switch {
	case c.S1 == nil:
		return cipher.Shift{}, &Error{Field: "s1", Err: ErrShiftRequired}
	case c.S2 == nil:
		return cipher.Shift{}, &Error{Field: "s2", Err: ErrShiftRequired}
	}
	return cipher.Shift{S1: int(*c.S1), S2: int(*c.S2)}, nil
}

// ApplyStrings overrides values from raw strings such as CLI flags; empty
// strings are skipped.
func (c *ShiftConfig) ApplyStrings(field1, raw1, field2, raw2 string) error {
	if raw1 != "" {
		n, err := ParseShiftValue(field1, raw1)
		if err != nil {
			return err
		}
		v := ShiftValue(n)
		c.S1 = &v
	}
	if raw2 != "" {
		n, err := ParseShiftValue(field2, raw2)
		if err != nil {
			return err
		}
		v := ShiftValue(n)
		c.S2 = &v
	}
	return nil
}
