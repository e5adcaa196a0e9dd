package codec

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/danmuck/memstream/internal/stream"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// DefaultCharset is the single-byte charset used by the STRING tag.
const DefaultCharset = "ISO-8859-1"

// LookupCharset resolves an IANA charset name to a single-byte encoding.
func LookupCharset(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return charmap.ISO8859_1, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("codec: unknown charset %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("codec: charset %q is not supported", name)
	}
	if _, ok := enc.(*charmap.Charmap); !ok {
		return nil, fmt.Errorf("codec: charset %q is not single-byte", name)
	}
	return enc, nil
}

func asText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case []rune:
		return string(t), true
	case []byte:
		if !utf8.Valid(t) {
			return "", false
		}
		return string(t), true
	default:
		return "", false
	}
}

func (c *Codec) encodeString(buf *stream.Buffer, value any) error {
	text, ok := asText(value)
	if !ok {
		return &TypeMismatchError{Tag: TagString, Value: value}
	}
	narrow, err := c.charset.NewEncoder().String(text)
	if err != nil {
		return &TypeMismatchError{Tag: TagString, Value: value, Err: fmt.Errorf("not representable in %s: %w", c.charsetName, err)}
	}
	return buf.AppendString([]byte(narrow))
}

func (c *Codec) decodeString(buf *stream.Buffer) (any, error) {
	raw, err := buf.ReadString()
	if err != nil {
		return nil, err
	}
	text, err := c.charset.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("codec: decode %s string: %w", c.charsetName, err)
	}
	return string(text), nil
}

func encodeUnicode(buf *stream.Buffer, value any) error {
	text, ok := asText(value)
	if !ok {
		return &TypeMismatchError{Tag: TagUnicode, Value: value}
	}
	if !utf8.ValidString(text) {
		return &TypeMismatchError{Tag: TagUnicode, Value: value, Err: fmt.Errorf("invalid utf-8")}
	}
	return buf.AppendBlob([]byte(text))
}

func decodeUnicode(buf *stream.Buffer) (any, error) {
	raw, err := buf.ReadBlob()
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%w: UNICODE payload is not valid utf-8", ErrTypeMismatch)
	}
	return string(raw), nil
}
