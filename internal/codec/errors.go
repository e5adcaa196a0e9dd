package codec

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedType = errors.New("codec: unsupported type")
	ErrTypeMismatch    = errors.New("codec: type mismatch")
	ErrArgumentCount   = errors.New("codec: argument count")
	ErrValueRange      = errors.New("codec: value out of range")
)

// UnsupportedTypeError names a tag label outside the closed set.
type UnsupportedTypeError struct {
	Label string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("codec: type %s no support", e.Label)
}

func (e *UnsupportedTypeError) Unwrap() error { return ErrUnsupportedType }

// TypeMismatchError reports a value the tag cannot encode.
type TypeMismatchError struct {
	Tag   Tag
	Value any
	Err   error
}

func (e *TypeMismatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("codec: %s value of type %T rejected: %v", e.Tag, e.Value, e.Err)
	}
	return fmt.Sprintf("codec: val is not %s (got %T)", e.Tag, e.Value)
}

func (e *TypeMismatchError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrTypeMismatch, e.Err}
	}
	return []error{ErrTypeMismatch}
}

// ArgumentCountError reports the wrong number of arguments at the append boundary.
type ArgumentCountError struct {
	Got  int
	Want int
}

func (e *ArgumentCountError) Error() string {
	return fmt.Sprintf("codec: append takes %d args (type, value), got %d", e.Want, e.Got)
}

func (e *ArgumentCountError) Unwrap() error { return ErrArgumentCount }

// RangeError reports an integer that does not fit the tag's width.
type RangeError struct {
	Tag   Tag
	Value string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("codec: %s out of range for %s", e.Value, e.Tag)
}

func (e *RangeError) Unwrap() error { return ErrValueRange }
