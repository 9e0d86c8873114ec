// Package diff computes line hunks between an original text and its
// decoded round-trip, using the sergi/go-diff engine.
package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is the kind of a diff line.
type Op int

const (
	OpEqual  Op = iota // Present in both texts
	OpDelete           // Only in the original
	OpInsert           // Only in the decoded text
)

// Line is one line of a hunk. Old and New are 1-based line numbers in the
// original and decoded text; 0 when the line is absent from that side.
type Line struct {
	Op   Op
	Old  int
	New  int
	Text string
}

// Hunk is a run of changed lines with surrounding context.
type Hunk struct {
	Lines []Line
}

// Header returns the unified-diff header, e.g. "@@ -3,4 +3,4 @@".
func (h Hunk) Header() string {
	oldStart, newStart := 0, 0
	oldCount, newCount := 0, 0
	for _, l := range h.Lines {
		if l.Op != OpInsert {
			if oldStart == 0 {
				oldStart = l.Old
			}
			oldCount++
		}
		if l.Op != OpDelete {
			if newStart == 0 {
				newStart = l.New
			}
			newCount++
		}
	}
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", oldStart, oldCount, newStart, newCount)
}

// Lines diffs two texts line by line and groups the changes into hunks
// with up to context unchanged lines on each side. Identical texts
// yield nil.
func Lines(original, decoded string, context int) []Hunk {
	if original == decoded {
		return nil
	}
	if context < 0 {
		context = 0
	}

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(original, decoded)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	return group(toLines(diffs), context)
}

func toLines(diffs []diffmatchpatch.Diff) []Line {
	var out []Line
	oldNum, newNum := 0, 0
	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			l := Line{Text: text}
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				oldNum++
				newNum++
				l.Op, l.Old, l.New = OpEqual, oldNum, newNum
			case diffmatchpatch.DiffDelete:
				oldNum++
				l.Op, l.Old = OpDelete, oldNum
			case diffmatchpatch.DiffInsert:
				newNum++
				l.Op, l.New = OpInsert, newNum
			}
			out = append(out, l)
		}
	}
	return out
}

// splitLines splits s into lines without their terminators. A trailing
// newline does not produce an empty final line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// group merges changes separated by at most 2*context equal lines.
func group(lines []Line, context int) []Hunk {
	var hunks []Hunk
	i := 0
	for i < len(lines) {
		if lines[i].Op == OpEqual {
			i++
			continue
		}
		start := max(0, i-context)
		end := i
		for end < len(lines) {
			if lines[end].Op != OpEqual {
				end++
				continue
			}
			run := end
			for run < len(lines) && lines[run].Op == OpEqual {
				run++
			}
			if run == len(lines) || run-end > 2*context {
				end = min(len(lines), end+context)
				break
			}
			end = run
		}
		hunks = append(hunks, Hunk{Lines: lines[start:end]})
		i = end
	}
	return hunks
}
