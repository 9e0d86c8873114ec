// Package textio reads and writes the text files around a cipher run.
//
// Every file handle is opened and closed within a single call. Writes go
// through a temp file in the target directory and are renamed into place,
// so a failed run never leaves a half-written output. The path "-" means
// stdin for reads and stdout for writes.
package textio

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// Stdio is the path that selects stdin or stdout.
const Stdio = "-"

var (
	// ErrSourceMissing wraps fs.ErrNotExist for a missing input file.
	ErrSourceMissing = fmt.Errorf("source text not found: %w", fs.ErrNotExist)
	// ErrInvalidUTF8 is returned when UTF-8 input is malformed.
	ErrInvalidUTF8 = errors.New("input is not valid UTF-8")
)

// Codec converts between a file's byte encoding and Go strings.
type Codec struct {
	name string
	enc  encoding.Encoding
}

// Lookup resolves a WHATWG encoding label such as "utf-8" or "latin1".
func Lookup(label string) (*Codec, error) {
	if label == "" {
		label = "utf-8"
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		name = label
	}
	return &Codec{name: name, enc: enc}, nil
}

// Name returns the canonical encoding name.
func (c *Codec) Name() string { return c.name }

func (c *Codec) isUTF8() bool { return c.name == "utf-8" }

// Decode turns raw bytes into text. UTF-8 input must be valid; a leading
// BOM is kept as U+FEFF so it round-trips and positions count it.
func (c *Codec) Decode(data []byte) (string, error) {
	if c.isUTF8() {
		if !utf8.Valid(data) {
			return "", ErrInvalidUTF8
		}
		return string(data), nil
	}
	out, err := c.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", c.name, err)
	}
	return string(out), nil
}

// Encode turns text into bytes in the codec's encoding.
func (c *Codec) Encode(text string) ([]byte, error) {
	if c.isUTF8() {
		return []byte(text), nil
	}
	out, err := c.enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c.name, err)
	}
	return out, nil
}

// Files reads and writes through the filesystem, with Stdin and Stdout
// standing in for the "-" path.
type Files struct {
	Stdin  io.Reader
	Stdout io.Writer
}

// Read loads path and decodes it with the labelled encoding.
func (f *Files) Read(path, label string) (string, error) {
	codec, err := Lookup(label)
	if err != nil {
		return "", err
	}
	if path == Stdio {
		return ReadFrom(f.Stdin, codec)
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrSourceMissing, path)
		}
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	text, err := ReadFrom(file, codec)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return text, nil
}

// Write encodes text and stores it at path, replacing any existing file.
func (f *Files) Write(path, text, label string) error {
	codec, err := Lookup(label)
	if err != nil {
		return err
	}
	if path == Stdio {
		return WriteTo(f.Stdout, text, codec)
	}
	data, err := codec.Encode(text)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return writeAtomic(path, data)
}

// ReadFrom reads r to the end and decodes it.
func ReadFrom(r io.Reader, codec *Codec) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return codec.Decode(data)
}

// WriteTo encodes text onto w.
func WriteTo(w io.Writer, text string, codec *Codec) error {
	data, err := codec.Encode(text)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func writeAtomic(dest string, data []byte) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".halfshift-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	_ = os.Chmod(tmpPath, 0644)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync %s: %w", dest, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close %s: %w", dest, err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", dest, err)
	}
	return nil
}
