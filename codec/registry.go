package codec

import (
	"encoding"
	"fmt"
	"reflect"
	"sync"

	"github.com/signadot/tony-format/go-settings/node"
)

// EncodeFunc writes v into n. n is freshly created by the caller and may
// already carry a type attribute.
type EncodeFunc func(r *Registry, v reflect.Value, n *node.Node) error

// DecodeFunc reconstructs a value of type t from n. n is never empty when a
// DecodeFunc is called; empty nodes are resolved by the registry.
type DecodeFunc func(r *Registry, n *node.Node, t reflect.Type, o *DecodeOptions) (reflect.Value, error)

// Binding pairs the encode and decode functions of one concrete type.
// Either function may be nil, leaving that direction to resolution.
type Binding struct {
	Encode EncodeFunc
	Decode DecodeFunc
}

// NodeMarshaler is implemented by types that encode themselves.
type NodeMarshaler interface {
	EncodeNode(r *Registry, n *node.Node) error
}

// NodeUnmarshaler is implemented by types that decode themselves. The
// receiver is a freshly constructed instance (see WithFactory).
type NodeUnmarshaler interface {
	DecodeNode(r *Registry, n *node.Node) error
}

var (
	marshalerType       = reflect.TypeFor[NodeMarshaler]()
	unmarshalerType     = reflect.TypeFor[NodeUnmarshaler]()
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// Registry holds type-keyed encode and decode tables together with the
// type names used as discriminants. Tables only grow.
type Registry struct {
	encoders sync.Map // reflect.Type -> EncodeFunc
	decoders sync.Map // reflect.Type -> DecodeFunc

	names     sync.Map // string -> reflect.Type
	typeNames sync.Map // reflect.Type -> string
}

// Default is the registry used by the package level functions.
var Default = NewRegistry()

// NewRegistry returns a registry holding the built-in bindings.
func NewRegistry() *Registry {
	r := &Registry{}
	registerBuiltins(r)
	return r
}

// Register installs b for t, replacing any binding resolved so far.
func (r *Registry) Register(t reflect.Type, b Binding) {
	if b.Encode != nil {
		r.encoders.Store(t, b.Encode)
	}
	if b.Decode != nil {
		r.decoders.Store(t, b.Decode)
	}
	r.TypeName(t)
}

// Register installs b for t in the Default registry.
func Register(t reflect.Type, b Binding) {
	Default.Register(t, b)
}

// RegisterFunc installs typed encode and decode functions for T.
func RegisterFunc[T any](r *Registry, enc func(r *Registry, v T, n *node.Node) error, dec func(r *Registry, n *node.Node) (T, error)) {
	var b Binding
	if enc != nil {
		b.Encode = func(r *Registry, v reflect.Value, n *node.Node) error {
			return enc(r, v.Interface().(T), n)
		}
	}
	if dec != nil {
		b.Decode = func(r *Registry, n *node.Node, _ reflect.Type, _ *DecodeOptions) (reflect.Value, error) {
			v, err := dec(r, n)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(&v).Elem(), nil
		}
	}
	r.Register(reflect.TypeFor[T](), b)
}

// RegisterType makes T resolvable by name, under its default type name and
// any additional names given. The first additional name becomes the name
// written on encode.
func RegisterType[T any](r *Registry, names ...string) {
	t := reflect.TypeFor[T]()
	r.TypeName(t)
	for i, name := range names {
		if i == 0 {
			r.typeNames.Store(t, name)
		}
		r.names.Store(name, t)
	}
}

// RegisterName makes name resolve to t and writes name as the discriminant
// of t from now on.
func (r *Registry) RegisterName(name string, t reflect.Type) {
	r.typeNames.Store(t, name)
	r.names.Store(name, t)
}

// TypeName returns the discriminant written for values of type t, naming
// t on first use. The default name is t.String(), which omits the import
// path, and composite types are named after their elements. When another
// type already holds that name, t is named with its import path instead.
// Which of two such types gets the short name depends
// on the order they are first named in, so types sharing a short name
// should be given stable names with RegisterType or RegisterName.
func (r *Registry) TypeName(t reflect.Type) string {
	if name, ok := r.typeNames.Load(t); ok {
		return name.(string)
	}
	name := r.defaultName(t)
	if prev, loaded := r.names.LoadOrStore(name, t); loaded && prev.(reflect.Type) != t {
		name = qualifiedName(t)
		r.names.LoadOrStore(name, t)
	}
	actual, _ := r.typeNames.LoadOrStore(t, name)
	return actual.(string)
}

// defaultName names unnamed pointers, slices and string keyed maps after
// the name of their element.
func (r *Registry) defaultName(t reflect.Type) string {
	if t.Name() != "" {
		return t.String()
	}
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + r.TypeName(t.Elem())
	case reflect.Slice:
		return "[]" + r.TypeName(t.Elem())
	case reflect.Map:
		if t.Key().Kind() == reflect.String {
			return "map[string]" + r.TypeName(t.Elem())
		}
	}
	return t.String()
}

// qualifiedName is the name of t with import paths, in the forms
// TypeByName resolves.
func qualifiedName(t reflect.Type) string {
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + qualifiedName(t.Elem())
	case reflect.Slice:
		return "[]" + qualifiedName(t.Elem())
	case reflect.Map:
		if t.Key().Kind() == reflect.String {
			return "map[string]" + qualifiedName(t.Elem())
		}
	}
	return t.String()
}

// TypeByName resolves a discriminant. Names of pointers, slices and string
// keyed maps of known types are built on demand.
func (r *Registry) TypeByName(name string) (reflect.Type, error) {
	if t, ok := r.names.Load(name); ok {
		return t.(reflect.Type), nil
	}
	var (
		t   reflect.Type
		err error
	)
	switch {
	case len(name) > 1 && name[0] == '*':
		t, err = r.TypeByName(name[1:])
		if err == nil {
			t = reflect.PointerTo(t)
		}
	case len(name) > 2 && name[:2] == "[]":
		t, err = r.TypeByName(name[2:])
		if err == nil {
			t = reflect.SliceOf(t)
		}
	case len(name) > 11 && name[:11] == "map[string]":
		t, err = r.TypeByName(name[11:])
		if err == nil {
			t = reflect.MapOf(stringType, t)
		}
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownType, name)
	}
	if err != nil {
		return nil, err
	}
	r.names.LoadOrStore(name, t)
	return t, nil
}

func (r *Registry) encoder(t reflect.Type) (EncodeFunc, error) {
	if fn, ok := r.encoders.Load(t); ok {
		return fn.(EncodeFunc), nil
	}
	fn, err := r.resolveEncoder(t)
	if err != nil {
		return nil, err
	}
	actual, _ := r.encoders.LoadOrStore(t, fn)
	return actual.(EncodeFunc), nil
}

func (r *Registry) decoder(t reflect.Type) (DecodeFunc, error) {
	if fn, ok := r.decoders.Load(t); ok {
		return fn.(DecodeFunc), nil
	}
	fn, err := r.resolveDecoder(t)
	if err != nil {
		return nil, err
	}
	actual, _ := r.decoders.LoadOrStore(t, fn)
	return actual.(DecodeFunc), nil
}

// resolveEncoder picks a strategy for a type without a registered encoder:
// sequences, string keyed maps, self-describing types, then records.
func (r *Registry) resolveEncoder(t reflect.Type) (EncodeFunc, error) {
	switch {
	case t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8:
		return bytesBinding.Encode, nil
	case t.Kind() == reflect.Slice || t.Kind() == reflect.Array:
		return sequenceEncoder(t), nil
	case t.Kind() == reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w for %s: map keys must be strings", ErrNoBinding, t)
		}
		return mapEncoder(t), nil
	case t.Implements(marshalerType):
		return delegateEncoder(false), nil
	case t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(marshalerType):
		return delegateEncoder(true), nil
	case t.Implements(textMarshalerType):
		return textEncoder(false), nil
	case t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(textMarshalerType):
		return textEncoder(true), nil
	case t.Kind() == reflect.Pointer:
		return pointerEncoder, nil
	case isScalarKind(t.Kind()):
		return scalarBindings[t.Kind()].Encode, nil
	case t.Kind() == reflect.Struct:
		return recordEncoder(t)
	}
	return nil, fmt.Errorf("%w for %s", ErrNoBinding, t)
}

func (r *Registry) resolveDecoder(t reflect.Type) (DecodeFunc, error) {
	switch {
	case t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8:
		return bytesBinding.Decode, nil
	case t.Kind() == reflect.Slice:
		return sliceDecoder, nil
	case t.Kind() == reflect.Array:
		return arrayDecoder, nil
	case t.Kind() == reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w for %s: map keys must be strings", ErrNoBinding, t)
		}
		return mapDecoder, nil
	case t.Kind() == reflect.Pointer && t.Implements(unmarshalerType):
		return delegateDecoder(true), nil
	case t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(unmarshalerType):
		return delegateDecoder(false), nil
	case t.Kind() == reflect.Pointer && t.Implements(textUnmarshalerType):
		return textDecoder(true), nil
	case t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(textUnmarshalerType):
		return textDecoder(false), nil
	case t.Kind() == reflect.Pointer:
		return pointerDecoder, nil
	case t.Kind() == reflect.Interface:
		return interfaceDecoder, nil
	case isScalarKind(t.Kind()):
		return scalarBindings[t.Kind()].Decode, nil
	case t.Kind() == reflect.Struct:
		return recordDecoder(t)
	}
	return nil, fmt.Errorf("%w for %s", ErrNoBinding, t)
}
