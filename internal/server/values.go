package server

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/danmuck/memstream/internal/codec"
	"github.com/danmuck/memstream/internal/stream"
)

// valueFromJSON turns a request value into what codec.Encode expects for tag.
func valueFromJSON(tag codec.Tag, raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: value: %v", errBadRequest, err)
	}
	switch {
	case tag.IsInteger():
		n, ok := v.(json.Number)
		if !ok {
			return nil, &codec.TypeMismatchError{Tag: tag, Value: v}
		}
		return codec.ParseValue(tag, n.String())
	case tag == codec.TagBlob:
		h, ok := v.(string)
		if !ok {
			return nil, &codec.TypeMismatchError{Tag: tag, Value: v}
		}
		return codec.ParseValue(tag, h)
	case tag.IsComposite():
		return plainJSON(v), nil
	default:
		return v, nil
	}
}

// plainJSON replaces json.Number with int64 or float64 so the pickler sees
// native numbers.
func plainJSON(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case []any:
		for i := range t {
			t[i] = plainJSON(t[i])
		}
		return t
	case map[string]any:
		for k := range t {
			t[k] = plainJSON(t[k])
		}
		return t
	default:
		return v
	}
}

// jsonSafe converts decoded values into types encoding/json can render.
func jsonSafe(v any) any {
	switch t := v.(type) {
	case *stream.Buffer:
		return t.Hex()
	case []byte:
		return hex.EncodeToString(t)
	case float64:
		return finite(t)
	case float32:
		return finite(float64(t))
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = jsonSafe(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = jsonSafe(t[i])
		}
		return out
	default:
		return v
	}
}

// finite leaves ordinary floats alone and spells NaN and the infinities as
// strings, which JSON has no number form for.
func finite(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return f
}
