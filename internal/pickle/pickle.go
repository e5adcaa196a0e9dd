// Package pickle is the generic value pickler used for composite values.
// The codec treats its output as an opaque blob.
package pickle

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

var ErrUnpicklable = errors.New("pickle: value cannot be pickled")

// Pickler turns an arbitrary value into bytes and back.
type Pickler interface {
	Pickle(v any) ([]byte, error)
	Unpickle(data []byte) (any, error)
}

// CBOR pickles values as deterministic CBOR so equal values produce equal bytes.
type CBOR struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var _ Pickler = (*CBOR)(nil)

func NewCBOR() (*CBOR, error) {
	enc, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("pickle: build encoder: %w", err)
	}
	dec, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[any]any(nil)),
		IntDec:         cbor.IntDecConvertSigned,
	}.DecMode()
	if err != nil {
		return nil, fmt.Errorf("pickle: build decoder: %w", err)
	}
	return &CBOR{enc: enc, dec: dec}, nil
}

// MustCBOR is NewCBOR for package-level defaults; the options are static.
func MustCBOR() *CBOR {
	p, err := NewCBOR()
	if err != nil {
		panic(err)
	}
	return p
}

func (p *CBOR) Pickle(v any) ([]byte, error) {
	data, err := p.enc.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnpicklable, err)
	}
	return data, nil
}

func (p *CBOR) Unpickle(data []byte) (any, error) {
	var out any
	if err := p.dec.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("pickle: unpickle: %w", err)
	}
	return out, nil
}
