// Package cipher implements the halfshift piecewise modular cipher.
//
// Each ASCII letter is shifted by a rule chosen from its case and from the
// half of the alphabet it sits in (a-m, n-z, A-M, N-Z). The two halves of a
// case use unrelated shift formulas, so two different plaintext letters can
// collide on the same ciphertext letter. Decryption therefore reports, per
// character, whether the recovered letter is certain.
//
// The package is pure: no I/O, no globals, no errors. Every operation is
// total over all runes and all integer shift pairs.
package cipher

import "fmt"

const alphabetSize = 26

// Shift is the pair of integers that parameterizes one run. Any values are
// valid; all arithmetic is taken mod 26.
type Shift struct {
	S1 int `json:"s1" yaml:"s1"`
	S2 int `json:"s2" yaml:"s2"`
}

// String renders the pair as "s1=3, s2=4".
func (s Shift) String() string {
	return fmt.Sprintf("s1=%d, s2=%d", s.S1, s.S2)
}

// mod returns x reduced into [0, 26).
func mod(x int) int {
	r := x % alphabetSize
	if r < 0 {
		r += alphabetSize
	}
	return r
}

// Per-class offsets, already reduced so large shifts cannot overflow.
func (s Shift) lowerFirst() int  { return mod(mod(s.S1) * mod(s.S2)) }
func (s Shift) lowerSecond() int { return mod(-(mod(s.S1) + mod(s.S2))) }
func (s Shift) upperFirst() int  { return mod(-mod(s.S1)) }
func (s Shift) upperSecond() int { return mod(mod(s.S2) * mod(s.S2)) }

// Class is the category a rune falls into for the transform.
type Class int

const (
	ClassOther       Class = iota // Not an ASCII letter; passed through
	ClassLowerFirst               // a-m
	ClassLowerSecond              // n-z
	ClassUpperFirst               // A-M
	ClassUpperSecond              // N-Z
)

var classNames = map[Class]string{
	ClassOther:       "other",
	ClassLowerFirst:  "lower a-m",
	ClassLowerSecond: "lower n-z",
	ClassUpperFirst:  "upper A-M",
	ClassUpperSecond: "upper N-Z",
}

func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

// Classify returns the class of r.
func Classify(r rune) Class {
	switch {
	case r >= 'a' && r <= 'm':
		return ClassLowerFirst
	case r >= 'n' && r <= 'z':
		return ClassLowerSecond
	case r >= 'A' && r <= 'M':
		return ClassUpperFirst
	case r >= 'N' && r <= 'Z':
		return ClassUpperSecond
	default:
		return ClassOther
	}
}

// IsLetter reports whether r is an ASCII letter the cipher acts on.
func IsLetter(r rune) bool {
	return Classify(r) != ClassOther
}

// rotate shifts r by offset within the 26 letters starting at base.
func rotate(r, base rune, offset int) rune {
	return base + rune(mod(int(r-base)+offset))
}

// EncryptRune applies the forward transform to one rune:
//
//	a-m  + s1*s2
//	n-z  - (s1+s2)
//	A-M  - s1
//	N-Z  + s2^2
//
// Anything else is returned unchanged.
func (s Shift) EncryptRune(r rune) rune {
	switch Classify(r) {
	case ClassLowerFirst:
		return rotate(r, 'a', s.lowerFirst())
	case ClassLowerSecond:
		return rotate(r, 'a', s.lowerSecond())
	case ClassUpperFirst:
		return rotate(r, 'A', s.upperFirst())
	case ClassUpperSecond:
		return rotate(r, 'A', s.upperSecond())
	default:
		return r
	}
}

// Outcome describes how certain a decrypted rune is.
type Outcome int

const (
	// OutcomeUnambiguous means exactly one half could have produced the
	// ciphertext rune, or the rune is not a letter.
	OutcomeUnambiguous Outcome = iota
	// OutcomeAmbiguous means a letter from each half encrypts to the same
	// rune. The first-half candidate is returned.
	OutcomeAmbiguous
	// OutcomeNoCandidate means no letter encrypts to the rune under this
	// shift. The ciphertext rune is returned unchanged.
	OutcomeNoCandidate
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnambiguous:
		return "unambiguous"
	case OutcomeAmbiguous:
		return "ambiguous"
	case OutcomeNoCandidate:
		return "no-candidate"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Decrypted is the result of inverting one rune.
type Decrypted struct {
	Rune    rune
	Outcome Outcome
}

// Ambiguous reports whether the rune could not be recovered with certainty.
func (d Decrypted) Ambiguous() bool {
	return d.Outcome != OutcomeUnambiguous
}

// DecryptRune inverts EncryptRune for one rune.
//
// Both halves of the rune's case are tried. A candidate counts only if it
// lies in the half it assumes and encrypts back to r. When both halves
// qualify the first-half candidate wins; that tie-break is fixed behavior.
func (s Shift) DecryptRune(r rune) Decrypted {
	var (
		base                rune
		first, second       int
		firstCls, secondCls Class
	)
	switch Classify(r) {
	case ClassLowerFirst, ClassLowerSecond:
		base, first, second = 'a', s.lowerFirst(), s.lowerSecond()
		firstCls, secondCls = ClassLowerFirst, ClassLowerSecond
	case ClassUpperFirst, ClassUpperSecond:
		base, first, second = 'A', s.upperFirst(), s.upperSecond()
		firstCls, secondCls = ClassUpperFirst, ClassUpperSecond
	default:
		return Decrypted{Rune: r, Outcome: OutcomeUnambiguous}
	}

	c1 := rotate(r, base, -first)
	c2 := rotate(r, base, -second)

	ok1 := Classify(c1) == firstCls && s.EncryptRune(c1) == r
	ok2 := Classify(c2) == secondCls && s.EncryptRune(c2) == r

	switch {
	case ok1 && !ok2:
		return Decrypted{Rune: c1, Outcome: OutcomeUnambiguous}
	case ok2 && !ok1:
		return Decrypted{Rune: c2, Outcome: OutcomeUnambiguous}
	case ok1 && ok2:
		return Decrypted{Rune: c1, Outcome: OutcomeAmbiguous}
	default:
		return Decrypted{Rune: r, Outcome: OutcomeNoCandidate}
	}
}
