package source

import (
	"strings"
	"unicode"
)

// NormalizeText cleans up pasted freeform text before it is stored:
// line endings are unified, zero-width and non-breaking spaces removed,
// trailing whitespace stripped per line, and runs of blank lines
// collapsed to one.
func NormalizeText(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	text = strings.Map(func(r rune) rune {
		switch r {
		case '\u200b', '\u200c', '\u200d', '\ufeff':
			// zero-width characters
			return -1
		case '\u00a0', '\u2007', '\u202f':
			// non-breaking spaces
			return ' '
		}
		return r
	}, text)

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blankRun := 0
	for _, line := range lines {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if line == "" {
			blankRun++
			if blankRun > 1 {
				continue
			}
		} else {
			blankRun = 0
		}
		out = append(out, line)
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}
