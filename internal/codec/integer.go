package codec

import (
	"math"
	"reflect"
	"strconv"

	"github.com/danmuck/memstream/internal/stream"
)

// integer is a Go integer of any kind, normalized to its bit pattern.
type integer struct {
	signed bool
	i      int64
	u      uint64
}

func (n integer) String() string {
	if n.signed {
		return strconv.FormatInt(n.i, 10)
	}
	return strconv.FormatUint(n.u, 10)
}

func (n integer) bits() uint64 {
	if n.signed {
		return uint64(n.i)
	}
	return n.u
}

func asInteger(v any) (integer, bool) {
	if v == nil {
		return integer{}, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return integer{signed: true, i: rv.Int()}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return integer{u: rv.Uint()}, true
	default:
		return integer{}, false
	}
}

// fits reports whether n is representable in width bytes with the given signedness.
func (n integer) fits(width int, signed bool) bool {
	bits := uint(width * 8)
	if signed {
		maxV := int64(math.MaxInt64 >> (64 - bits))
		minV := -maxV - 1
		if n.signed {
			return n.i >= minV && n.i <= maxV
		}
		return n.u <= uint64(maxV)
	}
	maxU := uint64(math.MaxUint64 >> (64 - bits))
	if n.signed {
		return n.i >= 0 && uint64(n.i) <= maxU
	}
	return n.u <= maxU
}

func (c *Codec) encodeInteger(buf *stream.Buffer, tag Tag, value any) error {
	n, ok := asInteger(value)
	if !ok {
		return &TypeMismatchError{Tag: tag, Value: value}
	}
	width, signed := tag.width()
	if !c.truncate && !n.fits(width, signed) {
		return &RangeError{Tag: tag, Value: n.String()}
	}
	// Truncation keeps the low-order bytes, as a native fixed-width assignment would.
	bits := n.bits()
	switch width {
	case 1:
		buf.AppendUint8(uint8(bits))
	case 2:
		buf.AppendUint16(uint16(bits))
	case 4:
		buf.AppendUint32(uint32(bits))
	default:
		buf.AppendUint64(bits)
	}
	return nil
}

func decodeInteger(buf *stream.Buffer, tag Tag) (any, error) {
	switch tag {
	case TagUint8:
		return buf.ReadUint8()
	case TagUint16:
		return buf.ReadUint16()
	case TagUint32:
		return buf.ReadUint32()
	case TagUint64:
		return buf.ReadUint64()
	case TagInt8:
		return buf.ReadInt8()
	case TagInt16:
		return buf.ReadInt16()
	case TagInt32:
		return buf.ReadInt32()
	case TagInt64:
		return buf.ReadInt64()
	default:
		return nil, &UnsupportedTypeError{Label: tag.String()}
	}
}
