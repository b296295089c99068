package asset

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Decode turns the body of a quoted string literal (the text between the
// quotes) into its literal value.
//
// Recognized escapes are \" \\ \n \t \r \b \f, \uXXXX and \UXXXXXX. Any
// other escaped character is kept without its backslash, and a trailing lone
// backslash is kept as-is. Malformed hex escapes degrade to literal text.
// Decode never fails and returns plain text unchanged.
func Decode(body string) string {
	if strings.IndexByte(body, '\\') < 0 {
		return body
	}

	var sb strings.Builder
	sb.Grow(len(body))

	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch != '\\' {
			sb.WriteByte(ch)
			continue
		}
		if i+1 >= len(body) {
			sb.WriteByte('\\')
			break
		}
		i++
		switch esc := body[i]; esc {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'u':
			i += decodeHex(&sb, body[i+1:], 4)
		case 'U':
			i += decodeHex(&sb, body[i+1:], 6)
		default:
			sb.WriteByte(esc)
		}
	}

	return sb.String()
}

// decodeHex writes the rune encoded by the first n hex digits of s and
// returns how many bytes it consumed. Without n valid digits it writes the
// escape letter's literal form and consumes nothing.
func decodeHex(sb *strings.Builder, s string, n int) int {
	letter := byte('u')
	if n == 6 {
		letter = 'U'
	}
	if len(s) < n {
		sb.WriteByte(letter)
		return 0
	}
	code, err := strconv.ParseUint(s[:n], 16, 32)
	if err != nil || !utf8.ValidRune(rune(code)) {
		sb.WriteByte(letter)
		return 0
	}
	sb.WriteRune(rune(code))
	return n
}

// Encode escapes s so that Decode(Encode(s)) == s. The result has no
// surrounding quotes.
func Encode(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\u%04x`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}

	return sb.String()
}

// Quote returns s encoded and wrapped in double quotes.
func Quote(s string) string {
	return `"` + Encode(s) + `"`
}
