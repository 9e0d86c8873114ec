package cipher

import "strings"

// Encode applies EncryptRune to every rune of text, in order.
func Encode(text string, s Shift) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		b.WriteRune(s.EncryptRune(r))
	}
	return b.String()
}

// Decoding is the detailed result of decoding a stream.
type Decoding struct {
	// Text is the concatenation of every decrypted rune.
	Text string
	// Outcomes holds one entry per rune of the input.
	Outcomes []Outcome
	// Ambiguous lists the rune positions whose outcome was not
	// unambiguous and whose ciphertext rune was a letter.
	Ambiguous []int
}

// Counts returns how many positions ended in each outcome.
func (d Decoding) Counts() map[Outcome]int {
	counts := make(map[Outcome]int, 3)
	for _, o := range d.Outcomes {
		counts[o]++
	}
	return counts
}

// DecodeDetailed inverts Encode and keeps the per-rune outcomes.
// Positions are counted in runes, not bytes.
func DecodeDetailed(text string, s Shift) Decoding {
	var b strings.Builder
	b.Grow(len(text))

	d := Decoding{Outcomes: make([]Outcome, 0, len(text))}
	i := 0
	for _, r := range text {
		dec := s.DecryptRune(r)
		b.WriteRune(dec.Rune)
		d.Outcomes = append(d.Outcomes, dec.Outcome)
		if dec.Ambiguous() && IsLetter(r) {
			d.Ambiguous = append(d.Ambiguous, i)
		}
		i++
	}
	d.Text = b.String()
	return d
}

// Decode inverts Encode. It returns the decoded text and the rune
// positions that could not be recovered with certainty.
func Decode(text string, s Shift) (string, []int) {
	d := DecodeDetailed(text, s)
	return d.Text, d.Ambiguous
}
