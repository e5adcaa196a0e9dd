package pickle

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCBORRoundTripComposite(t *testing.T) {
	p := MustCBOR()
	in := map[string]any{
		"name":  "avatar",
		"level": 7,
		"items": []any{"sword", -3, []byte{0x01}},
	}
	data, err := p.Pickle(in)
	if err != nil {
		t.Fatalf("pickle: %v", err)
	}
	out, err := p.Unpickle(data)
	if err != nil {
		t.Fatalf("unpickle: %v", err)
	}
	want := map[any]any{
		"name":  "avatar",
		"level": int64(7),
		"items": []any{"sword", int64(-3), []byte{0x01}},
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCBORDeterministic(t *testing.T) {
	p := MustCBOR()
	a, err := p.Pickle(map[string]int{"b": 2, "a": 1, "c": 3})
	if err != nil {
		t.Fatalf("pickle a: %v", err)
	}
	b, err := p.Pickle(map[string]int{"c": 3, "a": 1, "b": 2})
	if err != nil {
		t.Fatalf("pickle b: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("canonical encoding must be order independent: %x vs %x", a, b)
	}
}

func TestCBORRejectsUnpicklable(t *testing.T) {
	p := MustCBOR()
	if _, err := p.Pickle(make(chan int)); !errors.Is(err, ErrUnpicklable) {
		t.Fatalf("expected ErrUnpicklable, got %v", err)
	}
	if _, err := p.Unpickle([]byte{0xff, 0xff}); err == nil {
		t.Fatalf("expected malformed data to fail")
	}
}
