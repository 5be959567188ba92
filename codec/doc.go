// Package codec converts Go values to and from node trees.
//
// # Usage
//
//	type Pose struct {
//	    X, Y float64
//	}
//
//	n, err := codec.Encode(Pose{X: 1, Y: 2}, nil, false)
//
//	p, err := codec.Decode[Pose](n)
//
// # Resolution
//
// A Registry holds two type-keyed tables, one of encoders and one of
// decoders. Built-in bindings cover booleans, integers, floats, strings,
// byte slices, durations, times, UUIDs and decimals. For any other type the
// registry resolves a binding once and memoizes it:
//
//   - slices and arrays become one child per element, named after the
//     element type; maps with string keys become keyed entries in
//     lexicographic key order
//   - a type implementing NodeMarshaler / NodeUnmarshaler describes itself
//     (encoding.TextMarshaler / TextUnmarshaler pairs are accepted too)
//   - otherwise a struct is mapped member-wise by its exported fields in
//     declaration order (the record contract), honoring `settings` tags:
//
//	type Window struct {
//	    Title  string `settings:"title"`
//	    Hidden bool   `settings:",omitempty"`
//	    cache  []byte // unexported fields are skipped
//	    Temp   int    `settings:"-"`
//	}
//
// # Polymorphic slots
//
// Values held in an interface slot are written with a type attribute
// carrying the concrete type name (see Registry.TypeName). Decoding into an
// interface resolves that name back through the registry; types must have
// been encoded or registered (RegisterType, RegisterName) in the process
// before their name can be resolved.
//
// # Thread Safety
//
// A Registry is safe for concurrent use. Two goroutines resolving the same
// unseen type may both build a binding; the first stored wins.
//
// # Related Packages
//
//   - github.com/signadot/tony-format/go-settings/node - the tree
//   - github.com/signadot/tony-format/go-settings/codec/codegen - generated NodeMarshaler methods
package codec
