// internal/util/util.go
package util

import (
	"strings"
	"unicode/utf8"
)

// TruncateRunes shortens text to at most maxRunes runes and appends an
// ellipsis when anything was cut. A non-positive maxRunes disables truncation.
func TruncateRunes(text string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes]) + "…"
}

// WrapToWidth wraps text at word boundaries so no line exceeds width runes.
// Words longer than width are split. Blank lines are preserved.
func WrapToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		words := strings.Fields(line)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		var cur strings.Builder
		n := 0
		flush := func() {
			if n > 0 {
				out = append(out, cur.String())
				cur.Reset()
				n = 0
			}
		}
		for _, w := range words {
			wLen := utf8.RuneCountInString(w)
			if n > 0 && n+1+wLen <= width {
				cur.WriteByte(' ')
				cur.WriteString(w)
				n += 1 + wLen
				continue
			}
			flush()
			if wLen <= width {
				cur.WriteString(w)
				n = wLen
				continue
			}
			r := []rune(w)
			for start := 0; start < len(r); start += width {
				end := min(start+width, len(r))
				if end-start == width || end < len(r) {
					out = append(out, string(r[start:end]))
					continue
				}
				cur.WriteString(string(r[start:end]))
				n = end - start
			}
		}
		flush()
	}
	return strings.Join(out, "\n")
}

// Indent prefixes every non-empty line of text with prefix.
func Indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
