package extract

import "strings"

// Balanced returns the substring of raw that starts at the first open byte
// and ends where its nesting depth returns to zero. Quoted JSON strings are
// skipped so delimiters inside them are not counted. It reports false when
// open does not occur or is never closed.
func Balanced(raw string, open, close byte) (string, bool) {
	start := strings.IndexByte(raw, open)
	if start < 0 {
		return "", false
	}
	end := matchingClose(raw, start, open, close)
	if end < 0 {
		return "", false
	}
	return raw[start : end+1], true
}

// matchingClose returns the index of the delimiter closing the one at start,
// or -1.
func matchingClose(raw string, start int, open, close byte) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// RepairTrailingCommas removes a comma that is followed, after optional
// whitespace, by a closing ']' or '}'. Commas inside strings are kept.
func RepairTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			b.WriteByte(c)
			continue
		}

		if c == '"' {
			inString = true
		}
		if c == ',' && closesNext(s[i+1:]) {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func closesNext(rest string) bool {
	rest = strings.TrimLeft(rest, " \t\r\n")
	return rest != "" && (rest[0] == ']' || rest[0] == '}')
}
