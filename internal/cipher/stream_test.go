package cipher

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_Golden(t *testing.T) {
	s := Shift{S1: 3, S2: 4}
	assert.Equal(t, "Eqxxh, Mhkxp!", Encode("Hello, World!", s))
}

func TestDecode_Golden(t *testing.T) {
	s := Shift{S1: 3, S2: 4}
	text, ambiguous := Decode("Eqxxh, Mhkxp!", s)

	assert.Equal(t, "Hello, World!", text)
	if diff := cmp.Diff([]int{0, 1, 11}, ambiguous); diff != "" {
		t.Errorf("ambiguous positions mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_LengthAndPassThrough(t *testing.T) {
	s := Shift{S1: 17, S2: -9}
	in := "Über 42 naïve façades, 漢字!\n\ttab"
	out := Encode(in, s)

	require.Equal(t, len([]rune(in)), len([]rune(out)))
	inRunes, outRunes := []rune(in), []rune(out)
	for i, r := range inRunes {
		if !IsLetter(r) {
			assert.Equal(t, r, outRunes[i], "position %d", i)
		}
	}
}

func TestEncode_Empty(t *testing.T) {
	assert.Equal(t, "", Encode("", Shift{S1: 5, S2: 5}))
	text, ambiguous := Decode("", Shift{S1: 5, S2: 5})
	assert.Equal(t, "", text)
	assert.Empty(t, ambiguous)
}

func TestDecode_PositionsCountRunes(t *testing.T) {
	s := Shift{S1: 3, S2: 4}
	// Two multi-byte runes shift 'p' from byte offset 5 to rune offset 2.
	text, ambiguous := Decode("éép", s)
	assert.Equal(t, "ééd", text)
	assert.Equal(t, []int{2}, ambiguous)
}

func TestDecode_NoCandidateIsReported(t *testing.T) {
	s := Shift{S1: 3, S2: 4}
	d := DecodeDetailed("a-b", s)

	assert.Equal(t, "a-b", d.Text)
	assert.Equal(t, []Outcome{OutcomeNoCandidate, OutcomeUnambiguous, OutcomeNoCandidate}, d.Outcomes)
	assert.Equal(t, []int{0, 2}, d.Ambiguous)
	assert.Equal(t, 2, d.Counts()[OutcomeNoCandidate])
	assert.Equal(t, 1, d.Counts()[OutcomeUnambiguous])
}

func TestDecode_ZeroShiftUnambiguous(t *testing.T) {
	in := "The Quick Brown Fox Jumps Over The Lazy Dog."
	enc := Encode(in, Shift{})
	assert.Equal(t, in, enc)

	text, ambiguous := Decode(enc, Shift{})
	assert.Equal(t, in, text)
	assert.Empty(t, ambiguous)
}

func TestRoundTrip_LowercaseConditionHolds(t *testing.T) {
	// 2*8 + 2 + 8 = 26: both lowercase halves rotate by 16.
	s := Shift{S1: 2, S2: 8}
	require.True(t, s.LowercaseReversible())

	in := strings.Repeat("the quick brown fox jumps over the lazy dog ", 4)
	text, ambiguous := Decode(Encode(in, s), s)
	assert.Equal(t, in, text)
	assert.Empty(t, ambiguous)
}

func TestRoundTrip_UppercaseConditionHolds(t *testing.T) {
	// 10 + 4^2 = 26
	s := Shift{S1: 10, S2: 4}
	require.True(t, s.UppercaseReversible())

	in := "THE QUICK BROWN FOX JUMPS OVER THE LAZY DOG"
	text, ambiguous := Decode(Encode(in, s), s)
	assert.Equal(t, in, text)
	assert.Empty(t, ambiguous)
}

func TestRoundTrip_MixedCaseLowercaseConditionOnly(t *testing.T) {
	s := Shift{S1: 2, S2: 8}
	require.True(t, s.LowercaseReversible())
	require.False(t, s.UppercaseReversible())

	in := "Hello World"
	text, ambiguous := Decode(Encode(in, s), s)

	assert.Equal(t, "Hello Korld", text)
	assert.Equal(t, []int{0, 6}, ambiguous)

	inRunes, outRunes := []rune(in), []rune(text)
	for i, r := range inRunes {
		if r >= 'a' && r <= 'z' {
			assert.Equal(t, r, outRunes[i], "lowercase at %d must round-trip", i)
		}
	}
	assert.False(t, Verify(in, text, 0).Match)
}
