package config

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/danmuck/memstream/internal/codec"
	"github.com/danmuck/memstream/internal/stream"
)

// Order resolves byte_order. Empty means the stream default.
func (c Config) Order() (binary.ByteOrder, error) {
	switch strings.ToLower(strings.TrimSpace(c.ByteOrder)) {
	case "", "little", "little-endian", "le":
		return binary.LittleEndian, nil
	case "big", "big-endian", "be", "network":
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("unknown byte_order %q", c.ByteOrder)
	}
}

// StreamOptions returns the options for buffers created under this config.
func (c Config) StreamOptions() ([]stream.Option, error) {
	order, err := c.Order()
	if err != nil {
		return nil, err
	}
	return []stream.Option{stream.WithByteOrder(order)}, nil
}

// CodecOptions checks the charset and returns the codec options. The observer
// and pickler are left for the caller to set.
func (c Config) CodecOptions() (codec.Options, error) {
	if _, err := codec.LookupCharset(c.NarrowCharset); err != nil {
		return codec.Options{}, err
	}
	return codec.Options{
		Truncate: c.TruncateIntegers,
		Charset:  c.NarrowCharset,
	}, nil
}
