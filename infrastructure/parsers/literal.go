package parsers

import "strings"

// parseLiteralStringList attempts to read a response as a literal list of
// quoted strings, e.g. `["New York", "ShopBench"]` or the single-quoted
// form models often emit. It succeeds only when the whole response is one
// bracketed list and every element is a string; any other shape reports
// ok=false so the caller can take the comma-split fallback.
func parseLiteralStringList(raw string) (elements []string, ok bool) {
	s := strings.TrimSpace(raw)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, false
	}

	body := s[1 : len(s)-1]
	elements = []string{}

	i := 0
	for {
		i = skipSpaces(body, i)
		if i >= len(body) {
			// Trailing comma or empty list both land here.
			return elements, true
		}

		elem, next, ok := scanQuoted(body, i)
		if !ok {
			return nil, false
		}
		elements = append(elements, elem)

		i = skipSpaces(body, next)
		if i >= len(body) {
			return elements, true
		}
		if body[i] != ',' {
			return nil, false
		}
		i++
	}
}

// scanQuoted reads one single- or double-quoted string starting at i,
// honoring backslash escapes, and returns the unquoted content and the
// index just past the closing quote.
func scanQuoted(s string, i int) (content string, next int, ok bool) {
	if i >= len(s) {
		return "", 0, false
	}
	quote := s[i]
	if quote != '"' && quote != '\'' {
		return "", 0, false
	}

	var b strings.Builder
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			if j+1 >= len(s) {
				return "", 0, false
			}
			j++
			b.WriteByte(s[j])
		case quote:
			return b.String(), j + 1, true
		default:
			b.WriteByte(s[j])
		}
	}
	return "", 0, false
}

func skipSpaces(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return i
}
