package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"halfshift/internal/cipher"
	"halfshift/internal/diff"
	"halfshift/internal/pipeline"
)

var (
	colorSuccess = lipgloss.Color("#8BC34A")
	colorFailure = lipgloss.Color("#e53935")
	colorWarning = lipgloss.Color("#FFC107")
	colorInfo    = lipgloss.Color("#2196F3")
)

// renderer writes operator-facing output. Styles come from a lipgloss
// renderer bound to w, so a pipe or buffer gets plain text.
type renderer struct {
	w       io.Writer
	preview int

	title   lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	warning lipgloss.Style
	info    lipgloss.Style
	muted   lipgloss.Style
}

func newRenderer(w io.Writer, preview int) *renderer {
	r := lipgloss.NewRenderer(w)
	return &renderer{
		w:       w,
		preview: preview,
		title:   r.NewStyle().Bold(true),
		success: r.NewStyle().Foreground(colorSuccess).Bold(true),
		failure: r.NewStyle().Foreground(colorFailure).Bold(true),
		warning: r.NewStyle().Foreground(colorWarning),
		info:    r.NewStyle().Foreground(colorInfo),
		muted:   r.NewStyle().Faint(true),
	}
}

func (r *renderer) println(s string) {
	fmt.Fprintln(r.w, s)
}

// lines renders each line of s separately so lipgloss does not pad them
// to a common width.
func (r *renderer) lines(style lipgloss.Style, s string) {
	for _, l := range strings.Split(s, "\n") {
		r.println(style.Render(l))
	}
}

func (r *renderer) advisory(a cipher.Advisory) {
	style := r.muted
	if !a.Guaranteed {
		style = r.warning
	}
	r.lines(style, a.Message())
}

// ambiguity prints the first preview positions, or nothing when there are
// none.
func (r *renderer) ambiguity(positions []int) {
	if len(positions) == 0 {
		return
	}
	r.println(r.info.Render("Ambiguity detected at positions: " + previewPositions(positions, r.preview)))
	r.println(r.muted.Render("  This happens when both halves map different letters to the same encrypted letter under your shifts."))
}

func (r *renderer) verification(v cipher.Verification) {
	lines := strings.Split(v.Summary(), "\n")
	head := r.success
	if !v.Match {
		head = r.failure
	}
	r.println(head.Render(lines[0]))
	for _, l := range lines[1:] {
		r.println(l)
	}
}

func (r *renderer) hunks(hunks []diff.Hunk) {
	for _, h := range hunks {
		r.println(r.info.Render(h.Header()))
		for _, l := range h.Lines {
			switch l.Op {
			case diff.OpDelete:
				r.println(r.failure.Render("-" + l.Text))
			case diff.OpInsert:
				r.println(r.success.Render("+" + l.Text))
			default:
				r.println(" " + l.Text)
			}
		}
	}
}

func (r *renderer) report(rep *pipeline.Report) {
	r.println(r.title.Render(rep.Raw) + "  " + r.muted.Render(rep.Shift.String()))
	r.advisory(rep.Advisory)
	r.println("Encryption completed. Output saved to " + rep.Encrypted)
	r.println("Decryption completed. Output saved to " + rep.Decrypted)
	r.ambiguity(rep.Ambiguous)
	r.verification(rep.Verification)
}

// previewPositions joins the first limit positions and appends
// "(and N more)" for the rest. limit <= 0 shows everything.
func previewPositions(positions []int, limit int) string {
	shown := positions
	if limit > 0 && len(positions) > limit {
		shown = positions[:limit]
	}
	parts := make([]string, len(shown))
	for i, p := range shown {
		parts[i] = strconv.Itoa(p)
	}
	out := strings.Join(parts, ", ")
	if rest := len(positions) - len(shown); rest > 0 {
		out += fmt.Sprintf(" (and %d more)", rest)
	}
	return out
}
