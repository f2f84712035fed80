// Package text breaks text blocks into lines that fit a pixel width budget.
//
// Wrapping is greedy and word based: words are appended to the current line
// while the measured width of the line stays within the budget. Explicit
// line breaks always end a line. Words are never split, so a single word
// wider than the budget is placed alone on its own line.
package text

import (
	"strings"
)

// Measurer reports the rendered size of a string in pixels.
// It is implemented by font faces (see pkg/fonts) and by fixed-metric fakes
// in tests.
type Measurer interface {
	// Measure returns the width and height of s when drawn on one line.
	Measure(s string) (w, h float64)
	// LineHeight returns the height of a single line of text.
	LineHeight() float64
}

// literalBreak is the two-character line break marker used in spreadsheet cells.
const literalBreak = `\n`

// Paragraphs splits text on explicit line breaks. Real newlines, CRLF pairs
// and the literal `\n` marker are all treated as hard breaks.
func Paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, literalBreak, "\n")
	return strings.Split(text, "\n")
}

// Wrap breaks text into lines no wider than maxWidth*boxPercent.
//
// Each paragraph is wrapped independently and paragraph order is preserved.
// An empty paragraph contributes no line. Words wider than the budget are
// kept whole on a line of their own; use [Overflows] to find them.
func Wrap(text string, m Measurer, maxWidth, boxPercent float64) []string {
	budget := maxWidth * boxPercent
	var lines []string

	for _, para := range Paragraphs(text) {
		current := ""
		for _, word := range strings.Fields(para) {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if w, _ := m.Measure(candidate); w <= budget {
				current = candidate
				continue
			}
			if current != "" {
				lines = append(lines, current)
			}
			current = word
		}
		if current != "" {
			lines = append(lines, current)
		}
	}
	return lines
}

// Overflows returns the indexes of lines wider than maxWidth*boxPercent.
// Only lines holding a single over-long word can appear here.
func Overflows(lines []string, m Measurer, maxWidth, boxPercent float64) []int {
	budget := maxWidth * boxPercent
	var out []int
	for i, line := range lines {
		if w, _ := m.Measure(line); w > budget {
			out = append(out, i)
		}
	}
	return out
}

// BlockHeight returns the height of n lines drawn with the given spacing
// multiplier: n line heights plus (n-1) gaps of lineHeight*(spacing-1).
// Zero lines have zero height.
func BlockHeight(lineHeight, spacing float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	gap := lineHeight * (spacing - 1)
	return lineHeight*float64(n) + gap*float64(n-1)
}
