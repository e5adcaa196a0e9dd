// Package framing embeds whole buffers inside other buffers.
//
// Two strategies coexist and are kept apart on purpose:
// - FrameInto/FrameFrom carry the full written history plus both cursors, so the
//   receiver resumes reading exactly where the sender stopped.
// - ConcatRawInto appends raw history with no length and no cursors; the receiver
//   must learn the boundary some other way.
//
// Wire layout of a frame, every field an unsigned 32-bit value in the host's
// byte order:
//
//	[size][rpos][wpos][size bytes]   size > 0
//	[0]                              size == 0
package framing

import (
	"fmt"

	"github.com/danmuck/memstream/internal/stream"
	"github.com/rs/zerolog/log"
)

// FrameInto serializes src, history and cursors, into host. src may be host
// itself; the frame then carries the history as it was before the call.
func FrameInto(host, src *stream.Buffer) error {
	if src == nil || src.Size() == 0 {
		if err := host.AppendLength(0); err != nil {
			return fmt.Errorf("framing: %w", err)
		}
		return nil
	}
	snap := src.Cursors()
	raw := src.RawBytes()
	if err := host.AppendLength(snap.WPos); err != nil {
		return fmt.Errorf("framing: %w", err)
	}
	// rpos <= wpos, so both fit once size does.
	host.AppendUint32(uint32(snap.RPos))
	host.AppendUint32(uint32(snap.WPos))
	host.Append(raw)
	return nil
}

// FrameFrom reconstructs a buffer written by FrameInto. The result uses the
// host's byte order. On any failure the host cursors are restored and no buffer
// is returned.
func FrameFrom(host *stream.Buffer) (*stream.Buffer, error) {
	snap := host.Cursors()
	out, err := frameFrom(host)
	if err != nil {
		_ = host.Restore(snap)
		log.Debug().Int("rpos", snap.RPos).Int("wpos", snap.WPos).Err(err).Msg("frame rejected")
		return nil, err
	}
	return out, nil
}

func frameFrom(host *stream.Buffer) (*stream.Buffer, error) {
	size, err := host.ReadLength()
	if err != nil {
		return nil, fmt.Errorf("framing: read size: %w", err)
	}
	if size == 0 {
		return stream.New(stream.WithByteOrder(host.ByteOrder())), nil
	}
	rpos, err := host.ReadLength()
	if err != nil {
		return nil, fmt.Errorf("framing: read rpos: %w", err)
	}
	wpos, err := host.ReadLength()
	if err != nil {
		return nil, fmt.Errorf("framing: read wpos: %w", err)
	}
	if wpos != size {
		return nil, fmt.Errorf("framing: %w: wpos=%d size=%d", stream.ErrInvalidCursor, wpos, size)
	}
	body, err := host.Peek(size)
	if err != nil {
		return nil, fmt.Errorf("framing: read body: %w", err)
	}
	// body is only peeked, so the capacity below is bounded by bytes actually present.
	out := stream.New(stream.WithByteOrder(host.ByteOrder()), stream.WithCapacity(size))
	out.Append(body)
	if err := out.SetCursors(rpos, wpos); err != nil {
		return nil, fmt.Errorf("framing: %w", err)
	}
	if err := host.Skip(size); err != nil {
		return nil, fmt.Errorf("framing: consume body: %w", err)
	}
	return out, nil
}

// ConcatRawInto appends the full written history of each src to dst with no
// length prefix and no cursor metadata.
func ConcatRawInto(dst *stream.Buffer, srcs ...*stream.Buffer) {
	for _, src := range srcs {
		dst.AppendStream(src)
	}
}

// FrameSize returns the number of bytes FrameInto would write for src.
func FrameSize(src *stream.Buffer) int {
	if src == nil || src.Size() == 0 {
		return stream.LengthSize
	}
	return 3*stream.LengthSize + src.Size()
}
