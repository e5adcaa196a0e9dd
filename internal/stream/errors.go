package stream

import "errors"

var (
	ErrUnderflow     = errors.New("stream: read underflow")
	ErrInvalidCursor = errors.New("stream: invalid cursor")
	ErrInvalidLength = errors.New("stream: invalid length")
	ErrBlobTooLarge  = errors.New("stream: blob too large")
)
