package stream

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
)

// LengthSize is the width of every length and cursor field on the wire.
const LengthSize = 4

// MaxBlobLen is the largest payload a single length prefix can describe.
const MaxBlobLen = math.MaxUint32

// DefaultByteOrder matches the engine wire order.
var DefaultByteOrder binary.ByteOrder = binary.LittleEndian

// Buffer is a growable byte sequence with independent read and write cursors.
//
// Invariant: 0 <= rpos <= wpos <= len(data).
type Buffer struct {
	data  []byte
	rpos  int
	wpos  int
	order binary.ByteOrder
}

// Cursors is a snapshot of a buffer's read and write positions.
type Cursors struct {
	RPos int
	WPos int
}

type Option func(*Buffer)

// WithByteOrder sets the order used for fixed-width fields.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(b *Buffer) {
		if order != nil {
			b.order = order
		}
	}
}

// WithCapacity preallocates storage.
func WithCapacity(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.data = make([]byte, 0, n)
		}
	}
}

// New returns an empty buffer with both cursors at 0.
func New(opts ...Option) *Buffer {
	b := &Buffer{order: DefaultByteOrder}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FromBytes returns a buffer holding a copy of p with the write cursor at len(p).
func FromBytes(p []byte, opts ...Option) *Buffer {
	b := New(append([]Option{WithCapacity(len(p))}, opts...)...)
	b.Append(p)
	return b
}

// ByteOrder returns the order used for fixed-width fields. A zero Buffer uses
// DefaultByteOrder.
func (b *Buffer) ByteOrder() binary.ByteOrder {
	if b.order == nil {
		return DefaultByteOrder
	}
	return b.order
}

func (b *Buffer) RPos() int { return b.rpos }
func (b *Buffer) WPos() int { return b.wpos }

// Size is the total number of bytes ever written, consumed or not.
func (b *Buffer) Size() int { return b.wpos }

// UnreadLength is the number of bytes between the read and write cursors.
func (b *Buffer) UnreadLength() int {
	return b.wpos - b.rpos
}

// Capacity is the length of the backing storage the cursors may address.
func (b *Buffer) Capacity() int {
	return len(b.data)
}

// Append copies p to the write cursor and advances it.
func (b *Buffer) Append(p []byte) {
	if len(p) == 0 {
		return
	}
	b.data = append(b.data[:b.wpos], p...)
	b.wpos += len(p)
}

// AppendStream appends the full written history of other.
func (b *Buffer) AppendStream(other *Buffer) {
	if other == nil {
		return
	}
	b.Append(other.RawBytes())
}

// Read returns a copy of the next n unread bytes and advances the read cursor.
func (b *Buffer) Read(n int) ([]byte, error) {
	view, err := b.next(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(view))
	copy(out, view)
	return out, nil
}

// Peek returns a read-only view of the next n unread bytes without consuming them.
func (b *Buffer) Peek(n int) ([]byte, error) {
	if err := b.check(n); err != nil {
		return nil, err
	}
	return b.data[b.rpos : b.rpos+n : b.rpos+n], nil
}

// Skip advances the read cursor by n.
func (b *Buffer) Skip(n int) error {
	if err := b.check(n); err != nil {
		return err
	}
	b.rpos += n
	return nil
}

// SetCursors overrides both cursors. It is the reconstruction path for framed
// buffers and for restoring a Cursors snapshot.
func (b *Buffer) SetCursors(rpos, wpos int) error {
	if rpos < 0 || rpos > wpos || wpos > len(b.data) {
		return fmt.Errorf("%w: rpos=%d wpos=%d capacity=%d", ErrInvalidCursor, rpos, wpos, len(b.data))
	}
	b.rpos = rpos
	b.wpos = wpos
	return nil
}

// Cursors snapshots the current positions.
func (b *Buffer) Cursors() Cursors {
	return Cursors{RPos: b.rpos, WPos: b.wpos}
}

// Restore rewinds to a snapshot taken with Cursors.
func (b *Buffer) Restore(c Cursors) error {
	return b.SetCursors(c.RPos, c.WPos)
}

// RawBytes is a read-only view of data[0:wpos], including consumed bytes.
func (b *Buffer) RawBytes() []byte {
	return b.data[:b.wpos:b.wpos]
}

// Unread is a read-only view of data[rpos:wpos].
func (b *Buffer) Unread() []byte {
	return b.data[b.rpos:b.wpos:b.wpos]
}

// Reset drops all content and rewinds both cursors.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
	b.rpos = 0
	b.wpos = 0
}

// Clone returns an independent copy with the same content, cursors and byte order.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{
		data:  make([]byte, len(b.data)),
		rpos:  b.rpos,
		wpos:  b.wpos,
		order: b.ByteOrder(),
	}
	copy(out.data, b.data)
	return out
}

// Hex renders the written history as lowercase hex.
func (b *Buffer) Hex() string {
	return hex.EncodeToString(b.RawBytes())
}

// String renders the written history as an escaped byte literal, e.g. b'\x01ok'.
func (b *Buffer) String() string {
	return RenderBytes(b.RawBytes())
}

func (b *Buffer) check(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}
	if n > b.wpos-b.rpos {
		return fmt.Errorf("%w: need %d bytes, %d unread", ErrUnderflow, n, b.wpos-b.rpos)
	}
	return nil
}

func (b *Buffer) next(n int) ([]byte, error) {
	if err := b.check(n); err != nil {
		return nil, err
	}
	view := b.data[b.rpos : b.rpos+n]
	b.rpos += n
	return view, nil
}
