package cipher

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultMaxDiffs is how many differences Verify keeps when no limit is given.
const DefaultMaxDiffs = 5

// Diff is one position where the decoded text disagrees with the original.
type Diff struct {
	Pos      int  `json:"pos"`
	Original rune `json:"original"`
	Decoded  rune `json:"decoded"`
}

func (d Diff) String() string {
	return fmt.Sprintf("%d: %q vs %q", d.Pos, d.Original, d.Decoded)
}

// MarshalJSON writes the runes as one-character strings.
func (d Diff) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Pos      int    `json:"pos"`
		Original string `json:"original"`
		Decoded  string `json:"decoded"`
	}{d.Pos, string(d.Original), string(d.Decoded)})
}

// Verification compares an original text with its decoded round-trip.
type Verification struct {
	Match       bool   `json:"match"`
	Diffs       []Diff `json:"diffs,omitempty"`
	OriginalLen int    `json:"original_len"`
	DecodedLen  int    `json:"decoded_len"`
}

// LengthMismatch reports whether the two texts differ in rune count.
func (v Verification) LengthMismatch() bool {
	return v.OriginalLen != v.DecodedLen
}

// Summary renders the operator-facing verification report.
func (v Verification) Summary() string {
	if v.Match {
		return "Verification successful: decryption matches the original."
	}
	var b strings.Builder
	b.WriteString("Verification failed: decryption does not match the original.")
	if v.LengthMismatch() {
		fmt.Fprintf(&b, "\n  Note: length differs (raw=%d, decrypted=%d).", v.OriginalLen, v.DecodedLen)
	}
	if len(v.Diffs) > 0 {
		b.WriteString("\n  First differences (pos, raw, decrypted):")
		for _, d := range v.Diffs {
			b.WriteString("\n  - ")
			b.WriteString(d.String())
		}
	}
	return b.String()
}

// Verify compares original and decoded rune by rune. Mismatches are
// collected over the common prefix, at most limit of them; limit <= 0
// means DefaultMaxDiffs.
func Verify(original, decoded string, limit int) Verification {
	if limit <= 0 {
		limit = DefaultMaxDiffs
	}
	a, b := []rune(original), []rune(decoded)
	v := Verification{
		Match:       original == decoded,
		OriginalLen: len(a),
		DecodedLen:  len(b),
	}
	if v.Match {
		return v
	}

	n := min(len(a), len(b))
	for i := 0; i < n && len(v.Diffs) < limit; i++ {
		if a[i] != b[i] {
			v.Diffs = append(v.Diffs, Diff{Pos: i, Original: a[i], Decoded: b[i]})
		}
	}
	return v
}
