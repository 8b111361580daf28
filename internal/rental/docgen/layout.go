package docgen

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// wrapText breaks s into lines whose measured advance fits maxWidth.
// Breaks happen on spaces; a single word wider than the column gets a
// line of its own rather than being truncated.
func wrapText(face font.Face, s string, maxWidth fixed.Int26_6) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	d := font.Drawer{Face: face}
	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		candidate := current + " " + w
		if d.MeasureString(candidate) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = w
	}
	return append(lines, current)
}
