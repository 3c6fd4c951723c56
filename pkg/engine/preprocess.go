package engine

import "strings"

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites scene source into something zygomys reads:
//
//   - :keyword becomes the string literal "__kw_keyword", so keywords need
//     no global symbols and cannot collide with user variables.
//   - kebab-case identifiers become snake_case (ground-plane -> ground_plane).
//     zygomys reads a bare hyphen as subtraction.
//   - ; and ;; line comments become //.
//
// String literals (double-quoted and backtick) pass through untouched, as
// does the := operator.
func preprocessSource(source string) string {
	var out strings.Builder
	out.Grow(len(source) + len(source)/4)

	n := len(source)
	for i := 0; i < n; {
		c := source[i]
		switch {
		case c == '"':
			j := scanQuoted(source, i)
			out.WriteString(source[i:j])
			i = j

		case c == '`':
			j := strings.IndexByte(source[i+1:], '`')
			if j < 0 {
				out.WriteString(source[i:])
				return out.String()
			}
			out.WriteString(source[i : i+j+2])
			i += j + 2

		case c == ';':
			for i < n && source[i] == ';' {
				i++
			}
			j := strings.IndexByte(source[i:], '\n')
			if j < 0 {
				j = n - i
			}
			out.WriteString("//")
			out.WriteString(source[i : i+j])
			i += j

		case c == ':' && i+1 < n && source[i+1] == '=':
			out.WriteString(":=")
			i += 2

		case c == ':' && i+1 < n && isLetter(source[i+1]):
			j := i + 1
			for j < n && isKWChar(source[j]) {
				j++
			}
			out.WriteByte('"')
			out.WriteString(kwPrefix)
			out.WriteString(source[i+1 : j])
			out.WriteByte('"')
			i = j

		case c == '-' && i > 0 && i+1 < n && isIdentChar(source[i-1]) && isLetter(source[i+1]):
			out.WriteByte('_')
			i++

		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// scanQuoted returns the index just past the double-quoted literal that
// starts at i, honoring backslash escapes. An unterminated literal runs to
// the end of the source.
func scanQuoted(s string, i int) int {
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '"':
			return j + 1
		}
	}
	return len(s)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
