package codec

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/signadot/tony-format/go-settings/format"
	"github.com/signadot/tony-format/go-settings/node"
	"pgregory.net/rapid"
)

func checkRoundTrip[T any](t *rapid.T, r *Registry, v T, viaXML bool) {
	n, err := r.Encode(v, node.New("v"), false)
	if err != nil {
		t.Fatalf("Encode(%#v): %v", v, err)
	}
	if viaXML {
		buf := bytes.NewBuffer(nil)
		if err := format.Encode(n, buf); err != nil {
			t.Fatalf("format.Encode: %v", err)
		}
		if n, err = format.Parse(buf, format.XMLFormat); err != nil {
			t.Fatalf("format.Parse: %v", err)
		}
	}
	got, err := DecodeWith[T](r, n)
	if err != nil {
		t.Fatalf("Decode(%s): %v", n, err)
	}
	if !reflect.DeepEqual(got, v) {
		t.Fatalf("round trip = %#v, want %#v", got, v)
	}
}

func TestRapidScalarRoundTrip(t *testing.T) {
	r := NewRegistry()
	rapid.Check(t, func(t *rapid.T) {
		checkRoundTrip(t, r, rapid.Int64().Draw(t, "i64"), true)
		checkRoundTrip(t, r, rapid.Int8().Draw(t, "i8"), true)
		checkRoundTrip(t, r, rapid.Uint64().Draw(t, "u64"), true)
		checkRoundTrip(t, r, rapid.Bool().Draw(t, "bool"), true)
		checkRoundTrip(t, r, rapid.Float64Range(-1e300, 1e300).Draw(t, "f64"), true)
		checkRoundTrip(t, r, float32(rapid.Float64Range(-1e30, 1e30).Draw(t, "f32")), true)
		checkRoundTrip(t, r, rapid.String().Draw(t, "string"), false)
		checkRoundTrip(t, r, rapid.StringMatching(`[a-zA-Z0-9 <>&"'.,]{0,20}`).Draw(t, "xmlstring"), true)
		checkRoundTrip(t, r, rapid.SliceOfN(rapid.Byte(), 1, 32).Draw(t, "bytes"), true)
	})
}

func TestRapidSequenceRoundTrip(t *testing.T) {
	r := NewRegistry()
	rapid.Check(t, func(t *rapid.T) {
		ints := rapid.SliceOfN(rapid.Int(), 1, 10).Draw(t, "ints")
		checkRoundTrip(t, r, ints, true)

		// interior absent elements
		ptrs := rapid.SliceOfN(rapid.Ptr(rapid.IntRange(-100, 100), true), 1, 10).Draw(t, "ptrs")
		checkRoundTrip(t, r, ptrs, true)

		poses := rapid.SliceOfN(rapid.Custom(func(t *rapid.T) *Pose {
			if rapid.Bool().Draw(t, "nil") {
				return nil
			}
			return &Pose{
				X: rapid.Float64Range(-10, 10).Draw(t, "x"),
				Y: rapid.Float64Range(-10, 10).Draw(t, "y"),
			}
		}), 1, 8).Draw(t, "poses")
		checkRoundTrip(t, r, poses, true)

		m := rapid.MapOfN(rapid.StringMatching(`[a-z]{1,6}`), rapid.IntRange(0, 9), 1, 5).Draw(t, "map")
		checkRoundTrip(t, r, m, true)
	})
}
