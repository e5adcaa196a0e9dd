package codec

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/danmuck/memstream/internal/stream"
)

// ParseValue converts a textual value into the Go value Encode expects for tag.
// Integers parse as int64 (or uint64 when they only fit unsigned) and are
// range-checked by Encode. Composite values are JSON. BLOB values are hex.
func ParseValue(tag Tag, raw string) (any, error) {
	switch {
	case tag.IsInteger():
		raw = strings.TrimSpace(raw)
		if i, err := strconv.ParseInt(raw, 0, 64); err == nil {
			return i, nil
		}
		u, err := strconv.ParseUint(raw, 0, 64)
		if err != nil {
			return nil, &TypeMismatchError{Tag: tag, Value: raw, Err: err}
		}
		return u, nil
	case tag == TagString, tag == TagUnicode:
		return raw, nil
	case tag.IsComposite():
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, &TypeMismatchError{Tag: tag, Value: raw, Err: err}
		}
		return v, nil
	case tag == TagBlob:
		p, err := hex.DecodeString(strings.TrimSpace(raw))
		if err != nil {
			return nil, &TypeMismatchError{Tag: tag, Value: raw, Err: err}
		}
		return stream.FromBytes(p), nil
	default:
		return nil, &UnsupportedTypeError{Label: tag.String()}
	}
}

// ParseAssignment splits "TAG=VALUE" and parses both halves.
func ParseAssignment(arg string) (Tag, any, error) {
	label, raw, ok := strings.Cut(arg, "=")
	if !ok {
		return TagInvalid, nil, fmt.Errorf("%w: expected TAG=VALUE, got %q", ErrArgumentCount, arg)
	}
	tag, err := ParseTag(strings.TrimSpace(label))
	if err != nil {
		return TagInvalid, nil, err
	}
	v, err := ParseValue(tag, raw)
	if err != nil {
		return TagInvalid, nil, err
	}
	return tag, v, nil
}
