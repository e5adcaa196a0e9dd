package stream

import (
	"bytes"
	"strings"
)

const hexDigits = "0123456789abcdef"

// RenderBytes formats p as a quoted byte literal with non-printable bytes
// escaped as \xNN. Like a Python bytes repr, the literal is double quoted when p
// contains a single quote and no double quote.
func RenderBytes(p []byte) string {
	quote := byte('\'')
	if bytes.IndexByte(p, '\'') >= 0 && bytes.IndexByte(p, '"') < 0 {
		quote = '"'
	}
	var sb strings.Builder
	sb.Grow(len(p) + 3)
	sb.WriteByte('b')
	sb.WriteByte(quote)
	for _, c := range p {
		switch {
		case c == '\\' || c == quote:
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case c == '\t':
			sb.WriteString(`\t`)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c >= 0x20 && c < 0x7f:
			sb.WriteByte(c)
		default:
			sb.WriteString(`\x`)
			sb.WriteByte(hexDigits[c>>4])
			sb.WriteByte(hexDigits[c&0x0f])
		}
	}
	sb.WriteByte(quote)
	return sb.String()
}
