package codec

import (
	"fmt"

	"github.com/danmuck/memstream/internal/framing"
	"github.com/danmuck/memstream/internal/pickle"
	"github.com/danmuck/memstream/internal/stream"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding"
)

// Observer receives one call per encode or decode. Labels are Tag.String().
type Observer interface {
	ObserveEncode(tag string, bytes int, err error)
	ObserveDecode(tag string, bytes int, err error)
}

// Options configures a Codec. The zero value is usable.
type Options struct {
	// Truncate keeps the low-order bytes of out-of-range integers instead of
	// failing with a RangeError.
	Truncate bool
	// Charset is the IANA name of the single-byte charset used by STRING.
	Charset string
	// Pickler encodes the composite tags. Defaults to CBOR.
	Pickler  pickle.Pickler
	Observer Observer
}

// Codec encodes and decodes tagged values. It holds no per-buffer state and may
// be shared; the buffers it is handed may not.
type Codec struct {
	truncate    bool
	charset     encoding.Encoding
	charsetName string
	pickler     pickle.Pickler
	observer    Observer
}

func New(opts Options) (*Codec, error) {
	charset, err := LookupCharset(opts.Charset)
	if err != nil {
		return nil, err
	}
	name := opts.Charset
	if name == "" {
		name = DefaultCharset
	}
	p := opts.Pickler
	if p == nil {
		p, err = pickle.NewCBOR()
		if err != nil {
			return nil, err
		}
	}
	return &Codec{
		truncate:    opts.Truncate,
		charset:     charset,
		charsetName: name,
		pickler:     p,
		observer:    opts.Observer,
	}, nil
}

// Default returns a codec with strict integer ranges, ISO-8859-1 and CBOR.
func Default() *Codec {
	c, err := New(Options{})
	if err != nil {
		panic(err)
	}
	return c
}

// Encode appends value to buf under tag. On failure buf is unchanged.
func (c *Codec) Encode(buf *stream.Buffer, tag Tag, value any) error {
	before := buf.Size()
	err := c.encode(buf, tag, value)
	if err != nil {
		log.Debug().Str("tag", tag.String()).Err(err).Msg("codec encode rejected")
	}
	c.observeEncode(tag, buf.Size()-before, err)
	return err
}

func (c *Codec) encode(buf *stream.Buffer, tag Tag, value any) error {
	if tag == TagBlob {
		src, ok := value.(*stream.Buffer)
		if !ok || src == nil {
			return &TypeMismatchError{Tag: TagBlob, Value: value}
		}
		framing.ConcatRawInto(buf, src)
		return nil
	}

	scratch := stream.New(stream.WithByteOrder(buf.ByteOrder()))
	var err error
	switch {
	case tag.IsInteger():
		err = c.encodeInteger(scratch, tag, value)
	case tag == TagString:
		err = c.encodeString(scratch, value)
	case tag == TagUnicode:
		err = encodeUnicode(scratch, value)
	case tag.IsComposite():
		err = c.encodeComposite(scratch, tag, value)
	default:
		err = &UnsupportedTypeError{Label: tag.String()}
	}
	if err != nil {
		return err
	}
	buf.Append(scratch.RawBytes())
	return nil
}

// Decode reads one value under tag. On failure the read cursor is restored.
//
// Integer tags return the exact Go type (uint8 ... int64); STRING and UNICODE
// return string; composite tags return whatever the pickler produces; BLOB
// consumes every unread byte into a new buffer, since raw concatenation carries
// no boundary.
func (c *Codec) Decode(buf *stream.Buffer, tag Tag) (any, error) {
	snap := buf.Cursors()
	v, err := c.decode(buf, tag)
	if err != nil {
		_ = buf.Restore(snap)
		log.Debug().Str("tag", tag.String()).Err(err).Msg("codec decode failed")
		c.observeDecode(tag, 0, err)
		return nil, err
	}
	c.observeDecode(tag, buf.RPos()-snap.RPos, nil)
	return v, nil
}

func (c *Codec) decode(buf *stream.Buffer, tag Tag) (any, error) {
	switch {
	case tag.IsInteger():
		return decodeInteger(buf, tag)
	case tag == TagString:
		return c.decodeString(buf)
	case tag == TagUnicode:
		return decodeUnicode(buf)
	case tag.IsComposite():
		return c.decodeComposite(buf, tag)
	case tag == TagBlob:
		raw, err := buf.Read(buf.UnreadLength())
		if err != nil {
			return nil, err
		}
		return stream.FromBytes(raw, stream.WithByteOrder(buf.ByteOrder())), nil
	default:
		return nil, &UnsupportedTypeError{Label: tag.String()}
	}
}

// DecodeAll decodes one value per tag in order. Values decoded before a failure
// are returned and their cursor advances are kept.
func (c *Codec) DecodeAll(buf *stream.Buffer, tags ...Tag) ([]any, error) {
	out := make([]any, 0, len(tags))
	for i, tag := range tags {
		v, err := c.Decode(buf, tag)
		if err != nil {
			return out, fmt.Errorf("value %d (%s): %w", i, tag, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// AppendArgs is the host-facing append: exactly (tag, value), where tag is a
// text label or a Tag.
func (c *Codec) AppendArgs(buf *stream.Buffer, args ...any) error {
	if len(args) != 2 {
		return &ArgumentCountError{Got: len(args), Want: 2}
	}
	var tag Tag
	switch t := args[0].(type) {
	case string:
		parsed, err := ParseTag(t)
		if err != nil {
			return err
		}
		tag = parsed
	case Tag:
		if !t.Valid() {
			return &UnsupportedTypeError{Label: t.String()}
		}
		tag = t
	default:
		return fmt.Errorf("%w: tag argument must be text, got %T", ErrTypeMismatch, args[0])
	}
	return c.Encode(buf, tag, args[1])
}

func (c *Codec) encodeComposite(buf *stream.Buffer, tag Tag, value any) error {
	data, err := c.pickler.Pickle(value)
	if err != nil {
		return &TypeMismatchError{Tag: tag, Value: value, Err: err}
	}
	return buf.AppendBlob(data)
}

func (c *Codec) decodeComposite(buf *stream.Buffer, tag Tag) (any, error) {
	data, err := buf.ReadBlob()
	if err != nil {
		return nil, err
	}
	v, err := c.pickler.Unpickle(data)
	if err != nil {
		return nil, &TypeMismatchError{Tag: tag, Value: data, Err: err}
	}
	return v, nil
}

func (c *Codec) observeEncode(tag Tag, n int, err error) {
	if c.observer != nil {
		c.observer.ObserveEncode(tag.String(), n, err)
	}
}

func (c *Codec) observeDecode(tag Tag, n int, err error) {
	if c.observer != nil {
		c.observer.ObserveDecode(tag.String(), n, err)
	}
}
