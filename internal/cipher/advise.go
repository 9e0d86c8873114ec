package cipher

import (
	"fmt"
	"strings"
)

// Composition summarizes which letter cases a text contains.
type Composition int

const (
	CompositionNone      Composition = iota // No ASCII letters
	CompositionLowercase                    // Lowercase letters only
	CompositionUppercase                    // Uppercase letters only
	CompositionMixed                        // Both cases
)

func (c Composition) String() string {
	switch c {
	case CompositionNone:
		return "none"
	case CompositionLowercase:
		return "lowercase"
	case CompositionUppercase:
		return "uppercase"
	case CompositionMixed:
		return "mixed"
	default:
		return fmt.Sprintf("Composition(%d)", int(c))
	}
}

// Compose reports the case composition of text.
func Compose(text string) Composition {
	var lower, upper bool
	for _, r := range text {
		switch Classify(r) {
		case ClassLowerFirst, ClassLowerSecond:
			lower = true
		case ClassUpperFirst, ClassUpperSecond:
			upper = true
		}
		if lower && upper {
			return CompositionMixed
		}
	}
	switch {
	case lower:
		return CompositionLowercase
	case upper:
		return CompositionUppercase
	default:
		return CompositionNone
	}
}

// LowercaseReversible reports whether both lowercase halves are shifted by
// the same amount, which makes the lowercase map a plain rotation:
// (s1*s2 + s1 + s2) mod 26 == 0.
func (s Shift) LowercaseReversible() bool {
	return s.lowerFirst() == s.lowerSecond()
}

// UppercaseReversible is the uppercase counterpart:
// (s1 + s2^2) mod 26 == 0.
func (s Shift) UppercaseReversible() bool {
	return s.upperFirst() == s.upperSecond()
}

// Advisory states whether a shift pair guarantees an exact round-trip for
// a given text. It is informational and never changes encoding.
type Advisory struct {
	Shift       Shift       `json:"shift"`
	Composition Composition `json:"composition"`
	// Guaranteed is true when every letter in the text decodes exactly.
	Guaranteed bool `json:"guaranteed"`
}

// Advise inspects the case composition of text and checks the matching
// reversibility condition. Mixed text needs both conditions, which only
// the shift pairs congruent to (0, 0) satisfy.
func Advise(text string, s Shift) Advisory {
	a := Advisory{Shift: s, Composition: Compose(text)}
	switch a.Composition {
	case CompositionLowercase:
		a.Guaranteed = s.LowercaseReversible()
	case CompositionUppercase:
		a.Guaranteed = s.UppercaseReversible()
	case CompositionMixed:
		a.Guaranteed = s.LowercaseReversible() && s.UppercaseReversible()
	case CompositionNone:
		a.Guaranteed = true
	}
	return a
}

// Message renders the advisory for an operator.
func (a Advisory) Message() string {
	var b strings.Builder
	switch a.Composition {
	case CompositionLowercase:
		b.WriteString("Lowercase-only text detected. Reversibility condition: (s1*s2 + s1 + s2) % 26 == 0\n")
		fmt.Fprintf(&b, "Your shifts: %s -> Condition holds? %t", a.Shift, a.Guaranteed)
	case CompositionUppercase:
		b.WriteString("Uppercase-only text detected. Reversibility condition: (s1 + s2^2) % 26 == 0\n")
		fmt.Fprintf(&b, "Your shifts: %s -> Condition holds? %t", a.Shift, a.Guaranteed)
	case CompositionMixed:
		b.WriteString("Mixed-case text detected.\n")
		if a.Guaranteed {
			fmt.Fprintf(&b, "Your shifts (%s) leave every letter in place, so the round-trip is exact.", a.Shift)
			break
		}
		b.WriteString("With these rules no non-trivial (s1, s2) guarantees a perfect inverse for both cases at once.\n")
		b.WriteString("  Most characters will still decrypt, but some may be ambiguous depending on the shifts and letters used.\n")
		b.WriteString("  To guarantee perfect reversibility either:\n")
		b.WriteString("  - use s1 = 0 and s2 = 0 (no-op), or\n")
		b.WriteString("  - restrict the text to a single case and choose shifts that satisfy that case's condition.")
	default:
		b.WriteString("No letters found in the text; nothing to encrypt/decrypt.")
	}
	return b.String()
}
