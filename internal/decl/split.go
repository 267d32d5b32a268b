package decl

import "strings"

// SplitTopLevel splits text on sep, ignoring separators nested inside
// (), [] or {}. Parts are trimmed; an empty trailing part is dropped,
// empty middle parts are kept. Depth never goes negative, so unbalanced
// closers do not swallow the rest of the text.
func SplitTopLevel(text string, sep byte) []string {
	var parts []string
	var cur strings.Builder
	depth := 0

	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch ch {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		}
		if ch == sep && depth == 0 {
			parts = append(parts, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteByte(ch)
	}

	if tail := strings.TrimSpace(cur.String()); tail != "" {
		parts = append(parts, tail)
	}
	return parts
}
