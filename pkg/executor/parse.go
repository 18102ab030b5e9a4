package executor

import "strings"

// splitArgsOnComma splits s on every top-level comma — one not nested
// inside parentheses or a quoted string. The grammar (spec §6) never
// nests parentheses inside a value/attribute list, but defensively
// tracking depth keeps a misplaced literal from corrupting the split.
func splitArgsOnComma(s string) []string {
	var parts []string
	depth := 0
	inQuotes := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuotes = !inQuotes
		case '(':
			if !inQuotes {
				depth++
			}
		case ')':
			if !inQuotes && depth > 0 {
				depth--
			}
		case ',':
			if !inQuotes && depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts
}

// extractParenGroup locates the first top-level "(...)" in s and returns
// the text before it, the text inside it, and the text after it.
func extractParenGroup(s string) (before, inside, after string, ok bool) {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return "", "", "", false
	}
	depth := 0
	inQuotes := false
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuotes = !inQuotes
		case '(':
			if !inQuotes {
				depth++
			}
		case ')':
			if !inQuotes {
				depth--
				if depth == 0 {
					return strings.TrimSpace(s[:open]), strings.TrimSpace(s[open+1 : i]), strings.TrimSpace(s[i+1:]), true
				}
			}
		}
	}
	return "", "", "", false
}

// stripQuotes removes one surrounding pair of double quotes, if present.
func stripQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}

// splitKeyword splits s on the first top-level occurrence of keyword
// (case-insensitive, whitespace-bounded), returning ok=false if absent.
func splitKeyword(s, keyword string) (before, after string, ok bool) {
	upper := strings.ToUpper(s)
	kw := strings.ToUpper(keyword)
	depth := 0
	inQuotes := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuotes = !inQuotes
		case '(':
			if !inQuotes {
				depth++
			}
		case ')':
			if !inQuotes && depth > 0 {
				depth--
			}
		}
		if !inQuotes && depth == 0 && wordAt(upper, kw, i) {
			return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+len(kw):]), true
		}
	}
	return s, "", false
}

func wordAt(upper, kw string, pos int) bool {
	if !strings.HasPrefix(upper[pos:], kw) {
		return false
	}
	if pos > 0 && !isBoundary(upper[pos-1]) {
		return false
	}
	end := pos + len(kw)
	if end < len(upper) && !isBoundary(upper[end]) {
		return false
	}
	return true
}

func isBoundary(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// firstWord returns the first whitespace-delimited token of s (upper-cased
// for keyword comparison) and the remaining text.
func firstWord(s string) (word, rest string) {
	s = strings.TrimSpace(s)
	i := strings.IndexAny(s, " \t\n\r")
	if i < 0 {
		return strings.ToUpper(s), ""
	}
	return strings.ToUpper(s[:i]), strings.TrimSpace(s[i+1:])
}

// fields splits s on runs of whitespace, ignoring blank tokens.
func fields(s string) []string {
	return strings.Fields(s)
}

// firstToken is firstWord without the upper-casing — used wherever the
// token is a user-chosen identifier (a table or database name) whose
// case must be preserved (spec §3).
func firstToken(s string) (token, rest string) {
	s = strings.TrimSpace(s)
	i := strings.IndexAny(s, " \t\n\r")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i+1:])
}
