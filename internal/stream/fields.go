package stream

import "fmt"

// AppendUint8 writes a uint8.
func (b *Buffer) AppendUint8(v uint8) {
	b.Append([]byte{v})
}

// AppendUint16 writes a uint16 in the buffer's byte order.
func (b *Buffer) AppendUint16(v uint16) {
	var buf [2]byte
	b.ByteOrder().PutUint16(buf[:], v)
	b.Append(buf[:])
}

// AppendUint32 writes a uint32 in the buffer's byte order.
func (b *Buffer) AppendUint32(v uint32) {
	var buf [4]byte
	b.ByteOrder().PutUint32(buf[:], v)
	b.Append(buf[:])
}

// AppendUint64 writes a uint64 in the buffer's byte order.
func (b *Buffer) AppendUint64(v uint64) {
	var buf [8]byte
	b.ByteOrder().PutUint64(buf[:], v)
	b.Append(buf[:])
}

func (b *Buffer) AppendInt8(v int8)   { b.AppendUint8(uint8(v)) }
func (b *Buffer) AppendInt16(v int16) { b.AppendUint16(uint16(v)) }
func (b *Buffer) AppendInt32(v int32) { b.AppendUint32(uint32(v)) }
func (b *Buffer) AppendInt64(v int64) { b.AppendUint64(uint64(v)) }

// ReadUint8 reads a uint8.
func (b *Buffer) ReadUint8() (uint8, error) {
	view, err := b.next(1)
	if err != nil {
		return 0, err
	}
	return view[0], nil
}

// ReadUint16 reads a uint16 in the buffer's byte order.
func (b *Buffer) ReadUint16() (uint16, error) {
	view, err := b.next(2)
	if err != nil {
		return 0, err
	}
	return b.ByteOrder().Uint16(view), nil
}

// ReadUint32 reads a uint32 in the buffer's byte order.
func (b *Buffer) ReadUint32() (uint32, error) {
	view, err := b.next(4)
	if err != nil {
		return 0, err
	}
	return b.ByteOrder().Uint32(view), nil
}

// ReadUint64 reads a uint64 in the buffer's byte order.
func (b *Buffer) ReadUint64() (uint64, error) {
	view, err := b.next(8)
	if err != nil {
		return 0, err
	}
	return b.ByteOrder().Uint64(view), nil
}

func (b *Buffer) ReadInt8() (int8, error) {
	v, err := b.ReadUint8()
	return int8(v), err
}

func (b *Buffer) ReadInt16() (int16, error) {
	v, err := b.ReadUint16()
	return int16(v), err
}

func (b *Buffer) ReadInt32() (int32, error) {
	v, err := b.ReadUint32()
	return int32(v), err
}

func (b *Buffer) ReadInt64() (int64, error) {
	v, err := b.ReadUint64()
	return int64(v), err
}

// AppendLength writes a length or cursor field.
func (b *Buffer) AppendLength(n int) error {
	if n < 0 || uint64(n) > MaxBlobLen {
		return fmt.Errorf("%w: %d", ErrBlobTooLarge, n)
	}
	b.AppendUint32(uint32(n))
	return nil
}

// ReadLength reads a length or cursor field.
func (b *Buffer) ReadLength() (int, error) {
	v, err := b.ReadUint32()
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// AppendBlob writes [length][bytes].
func (b *Buffer) AppendBlob(p []byte) error {
	if err := b.AppendLength(len(p)); err != nil {
		return err
	}
	b.Append(p)
	return nil
}

// ReadBlob reads a [length][bytes] field. On underflow the read cursor is left
// where it was before the length field.
func (b *Buffer) ReadBlob() ([]byte, error) {
	start := b.rpos
	n, err := b.ReadLength()
	if err != nil {
		return nil, err
	}
	out, err := b.Read(n)
	if err != nil {
		b.rpos = start
		return nil, err
	}
	return out, nil
}

// AppendString writes a length-prefixed byte run. The layout is identical to a
// blob; the distinction is kept for callers.
func (b *Buffer) AppendString(p []byte) error {
	return b.AppendBlob(p)
}

// ReadString reads a length-prefixed byte run.
func (b *Buffer) ReadString() ([]byte, error) {
	return b.ReadBlob()
}
