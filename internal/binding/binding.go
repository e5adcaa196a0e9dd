// Package binding adapts host-language calls onto the codec and framing
// packages. It holds no logic of its own beyond argument translation.
package binding

import (
	"errors"

	"github.com/danmuck/memstream/internal/codec"
	"github.com/danmuck/memstream/internal/framing"
	"github.com/danmuck/memstream/internal/stream"
)

var ErrNotImplemented = errors.New("binding: pop is not implemented")

// FrameObserver is notified of every frame crossing the adapter.
type FrameObserver interface {
	ObserveFrame(op string, bytes int, err error)
}

// Stream is the host-visible wrapper around one exclusively owned buffer.
type Stream struct {
	buf    *stream.Buffer
	codec  *codec.Codec
	frames FrameObserver
}

// New wraps an empty buffer. A nil codec uses codec.Default().
func New(c *codec.Codec, opts ...stream.Option) *Stream {
	return Wrap(stream.New(opts...), c)
}

// Wrap takes ownership of buf.
func Wrap(buf *stream.Buffer, c *codec.Codec) *Stream {
	if c == nil {
		c = codec.Default()
	}
	return &Stream{buf: buf, codec: c}
}

// WithFrameObserver sets the observer and returns s.
func (s *Stream) WithFrameObserver(o FrameObserver) *Stream {
	s.frames = o
	return s
}

func (s *Stream) Buffer() *stream.Buffer {
	return s.buf
}

// Append encodes (tag, value).
func (s *Stream) Append(args ...any) error {
	return s.codec.AppendArgs(s.buf, args...)
}

func (s *Stream) Pop(args ...any) (any, error) {
	return nil, ErrNotImplemented
}

// Len is the unread length.
func (s *Stream) Len() int {
	return s.buf.UnreadLength()
}

func (s *Stream) String() string {
	return s.buf.String()
}

// AddToStream frames this stream, history and cursors, into host.
func (s *Stream) AddToStream(host *stream.Buffer) error {
	err := framing.FrameInto(host, s.buf)
	s.observe("frame_into", framing.FrameSize(s.buf), err)
	return err
}

// CreateFromStream reconstructs a stream framed by AddToStream. The new stream
// shares this stream's codec and observer.
func (s *Stream) CreateFromStream(host *stream.Buffer) (*Stream, error) {
	buf, err := framing.FrameFrom(host)
	if err != nil {
		s.observe("frame_from", 0, err)
		return nil, err
	}
	s.observe("frame_from", framing.FrameSize(buf), nil)
	return &Stream{buf: buf, codec: s.codec, frames: s.frames}, nil
}

func (s *Stream) observe(op string, n int, err error) {
	if s.frames != nil {
		if err != nil {
			n = 0
		}
		s.frames.ObserveFrame(op, n, err)
	}
}
