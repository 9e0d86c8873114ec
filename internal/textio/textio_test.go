package textio

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	c, err := Lookup("")
	require.NoError(t, err)
	assert.Equal(t, "utf-8", c.Name())

	c, err = Lookup("latin1")
	require.NoError(t, err)
	assert.Equal(t, "windows-1252", c.Name())

	_, err = Lookup("not-an-encoding")
	assert.Error(t, err)
}

func TestFiles_WriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "encrypted_text.txt")
	f := &Files{}

	text := "Eqxxh, Mhkxp! çà 漢字\n"
	require.NoError(t, f.Write(path, text, "utf-8"))

	got, err := f.Read(path, "utf-8")
	require.NoError(t, err)
	assert.Equal(t, text, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file must not be left behind")
}

func TestFiles_WriteReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decrypted_text.txt")
	require.NoError(t, os.WriteFile(path, []byte("old content that is longer"), 0644))

	f := &Files{}
	require.NoError(t, f.Write(path, "new", ""))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestFiles_ReadMissing(t *testing.T) {
	f := &Files{}
	_, err := f.Read(filepath.Join(t.TempDir(), "raw_text.txt"), "utf-8")
	assert.ErrorIs(t, err, ErrSourceMissing)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestFiles_KeepsBOMAndRejectsInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	f := &Files{}

	withBOM := append([]byte{0xEF, 0xBB, 0xBF}, "Hello"...)
	bom := filepath.Join(dir, "bom.txt")
	require.NoError(t, os.WriteFile(bom, withBOM, 0644))
	got, err := f.Read(bom, "utf-8")
	require.NoError(t, err)
	assert.Equal(t, "\ufeffHello", got)

	out := filepath.Join(dir, "out.txt")
	require.NoError(t, f.Write(out, got, "utf-8"))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, withBOM, data, "BOM is written back")

	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte{'H', 0xff, 'i'}, 0644))
	_, err = f.Read(bad, "utf-8")
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestFiles_Latin1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latin1.txt")
	// "café" in windows-1252
	require.NoError(t, os.WriteFile(path, []byte{'c', 'a', 'f', 0xE9}, 0644))

	f := &Files{}
	got, err := f.Read(path, "latin1")
	require.NoError(t, err)
	assert.Equal(t, "café", got)

	require.NoError(t, f.Write(path, "naïve", "latin1"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{'n', 'a', 0xEF, 'v', 'e'}, data)

	assert.Error(t, f.Write(path, "漢字", "latin1"), "unrepresentable runes must fail")
}

func TestFiles_Stdio(t *testing.T) {
	var out bytes.Buffer
	f := &Files{Stdin: strings.NewReader("from stdin"), Stdout: &out}

	got, err := f.Read(Stdio, "utf-8")
	require.NoError(t, err)
	assert.Equal(t, "from stdin", got)

	require.NoError(t, f.Write(Stdio, "to stdout", "utf-8"))
	assert.Equal(t, "to stdout", out.String())
}
