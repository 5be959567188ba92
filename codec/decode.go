package codec

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"

	"github.com/signadot/tony-format/go-settings/node"
)

// Factory constructs an instance of t. Returning false defers to the
// default construction.
type Factory func(t reflect.Type) (reflect.Value, bool)

// DecodeOptions holds the options of one decode call.
type DecodeOptions struct {
	// Factory supplies instances in place of reflect.New, and placeholders
	// for empty nodes.
	Factory Factory
}

type DecodeOption func(*DecodeOptions)

// WithFactory adds f to the factories consulted during decoding. Later
// factories are consulted first.
func WithFactory(f Factory) DecodeOption {
	return func(o *DecodeOptions) {
		prev := o.Factory
		if prev == nil {
			o.Factory = f
			return
		}
		o.Factory = func(t reflect.Type) (reflect.Value, bool) {
			if v, ok := f(t); ok {
				return v, true
			}
			return prev(t)
		}
	}
}

// Construct returns an option constructing every T with fn.
func Construct[T any](fn func() T) DecodeOption {
	want := reflect.TypeFor[T]()
	return WithFactory(func(t reflect.Type) (reflect.Value, bool) {
		if t != want {
			return reflect.Value{}, false
		}
		v := fn()
		return reflect.ValueOf(&v).Elem(), true
	})
}

// NewDecodeOptions applies opts to a fresh DecodeOptions.
func NewDecodeOptions(opts ...DecodeOption) *DecodeOptions {
	o := &DecodeOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *DecodeOptions) construct(t reflect.Type) (reflect.Value, bool) {
	if o == nil || o.Factory == nil {
		return reflect.Value{}, false
	}
	v, ok := o.Factory(t)
	if !ok || !v.IsValid() || !v.Type().AssignableTo(t) {
		return reflect.Value{}, false
	}
	res := reflect.New(t).Elem()
	res.Set(v)
	return res, true
}

// Decode reconstructs a value of type t from n.
func (r *Registry) Decode(n *node.Node, t reflect.Type, opts ...DecodeOption) (reflect.Value, error) {
	return r.DecodeValue(n, t, NewDecodeOptions(opts...))
}

// DecodeValue is Decode with resolved options, for bindings decoding
// nested values.
func (r *Registry) DecodeValue(n *node.Node, t reflect.Type, o *DecodeOptions) (reflect.Value, error) {
	v, err := r.decode(n, t, o)
	if err != nil {
		var de *DecodeError
		if !errors.As(err, &de) {
			err = &DecodeError{Type: t, Err: err}
		}
		return reflect.Value{}, err
	}
	return v, nil
}

// DecodeInto decodes n into the value ptr points to.
func (r *Registry) DecodeInto(n *node.Node, ptr any, opts ...DecodeOption) error {
	pv := reflect.ValueOf(ptr)
	if pv.Kind() != reflect.Pointer || pv.IsNil() {
		return fmt.Errorf("DecodeInto requires a non-nil pointer, got %T", ptr)
	}
	v, err := r.Decode(n, pv.Type().Elem(), opts...)
	if err != nil {
		return err
	}
	pv.Elem().Set(v)
	return nil
}

// DecodeField decodes the child of n named name into the value ptr points
// to. A missing child leaves it untouched.
func (r *Registry) DecodeField(n *node.Node, name string, ptr any) error {
	c := n.Child(name)
	if c == nil {
		return nil
	}
	if err := r.DecodeInto(c, ptr); err != nil {
		return within(err, name, reflect.TypeOf(ptr).Elem(), true)
	}
	return nil
}

// Decode decodes n as a T with the Default registry.
func Decode[T any](n *node.Node, opts ...DecodeOption) (T, error) {
	return DecodeWith[T](Default, n, opts...)
}

// DecodeWith decodes n as a T with r.
func DecodeWith[T any](r *Registry, n *node.Node, opts ...DecodeOption) (T, error) {
	var res T
	v, err := r.Decode(n, reflect.TypeFor[T](), opts...)
	if err != nil {
		return res, err
	}
	reflect.ValueOf(&res).Elem().Set(v)
	return res, nil
}

// DecodeInto decodes n into ptr with the Default registry.
func DecodeInto(n *node.Node, ptr any, opts ...DecodeOption) error {
	return Default.DecodeInto(n, ptr, opts...)
}

func (r *Registry) decode(n *node.Node, t reflect.Type, o *DecodeOptions) (reflect.Value, error) {
	_, tagged := n.Attr(node.TypeAttr)
	if n.IsEmpty() && !(tagged && t.Kind() == reflect.Interface) {
		return emptyValue(t, o), nil
	}
	fn, err := r.decoder(t)
	if err != nil {
		return reflect.Value{}, err
	}
	return fn(r, n, t, o)
}

// emptyValue is the value of an empty node: a placeholder from the factory,
// an empty slice or map, or the zero value.
func emptyValue(t reflect.Type, o *DecodeOptions) reflect.Value {
	if v, ok := o.construct(t); ok {
		return v
	}
	switch t.Kind() {
	case reflect.Slice:
		return reflect.MakeSlice(t, 0, 0)
	case reflect.Map:
		return reflect.MakeMap(t)
	}
	return reflect.Zero(t)
}

func sliceDecoder(r *Registry, n *node.Node, t reflect.Type, o *DecodeOptions) (reflect.Value, error) {
	res := reflect.MakeSlice(t, len(n.Children), len(n.Children))
	for i, c := range n.Children {
		v, err := r.decode(c, t.Elem(), o)
		if err != nil {
			return reflect.Value{}, within(err, index(i), t.Elem(), true)
		}
		res.Index(i).Set(v)
	}
	return res, nil
}

func arrayDecoder(r *Registry, n *node.Node, t reflect.Type, o *DecodeOptions) (reflect.Value, error) {
	if len(n.Children) > t.Len() {
		return reflect.Value{}, fmt.Errorf("%w: %d elements for %s", ErrMalformedValue, len(n.Children), t)
	}
	res := reflect.New(t).Elem()
	for i, c := range n.Children {
		v, err := r.decode(c, t.Elem(), o)
		if err != nil {
			return reflect.Value{}, within(err, index(i), t.Elem(), true)
		}
		res.Index(i).Set(v)
	}
	return res, nil
}

func mapDecoder(r *Registry, n *node.Node, t reflect.Type, o *DecodeOptions) (reflect.Value, error) {
	res := reflect.MakeMapWithSize(t, len(n.Children))
	for _, c := range n.Children {
		k, ok := node.EntryKey(c)
		if !ok {
			return reflect.Value{}, fmt.Errorf("%w: %s element without %s", ErrMalformedValue, c.Name, node.KeyAttr)
		}
		v, err := r.decode(node.EntryValue(c), t.Elem(), o)
		if err != nil {
			return reflect.Value{}, within(err, k, t.Elem(), true)
		}
		res.SetMapIndex(reflect.ValueOf(k).Convert(t.Key()), v)
	}
	return res, nil
}

func pointerDecoder(r *Registry, n *node.Node, t reflect.Type, o *DecodeOptions) (reflect.Value, error) {
	v, err := r.decode(n, t.Elem(), o)
	if err != nil {
		return reflect.Value{}, err
	}
	p := reflect.New(t.Elem())
	p.Elem().Set(v)
	return p, nil
}

func interfaceDecoder(r *Registry, n *node.Node, t reflect.Type, o *DecodeOptions) (reflect.Value, error) {
	name, ok := n.Attr(node.TypeAttr)
	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: no %s attribute for %s", ErrUnknownType, node.TypeAttr, t)
	}
	ct, err := r.TypeByName(name)
	if err != nil {
		return reflect.Value{}, err
	}
	if ct.Kind() == reflect.Interface || !ct.AssignableTo(t) {
		return reflect.Value{}, fmt.Errorf("%w: %s is not a %s", ErrUnknownType, name, t)
	}
	v, err := r.decode(n, ct, o)
	if err != nil {
		return reflect.Value{}, err
	}
	res := reflect.New(t).Elem()
	res.Set(v)
	return res, nil
}

// instance returns a pointer to a new instance of t, constructed by the
// factory when it knows t or *t.
func instance(t reflect.Type, o *DecodeOptions) reflect.Value {
	if p, ok := o.construct(reflect.PointerTo(t)); ok && !p.IsNil() {
		return p
	}
	p := reflect.New(t)
	if v, ok := o.construct(t); ok {
		p.Elem().Set(v)
	}
	return p
}

func delegateDecoder(isPtr bool) DecodeFunc {
	return func(r *Registry, n *node.Node, t reflect.Type, o *DecodeOptions) (reflect.Value, error) {
		et := t
		if isPtr {
			et = t.Elem()
		}
		p := instance(et, o)
		if err := p.Interface().(NodeUnmarshaler).DecodeNode(r, n); err != nil {
			return reflect.Value{}, err
		}
		if isPtr {
			return p, nil
		}
		return p.Elem(), nil
	}
}

func textDecoder(isPtr bool) DecodeFunc {
	return func(r *Registry, n *node.Node, t reflect.Type, o *DecodeOptions) (reflect.Value, error) {
		et := t
		if isPtr {
			et = t.Elem()
		}
		p := instance(et, o)
		if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(n.Text)); err != nil {
			return reflect.Value{}, malformed(n.Text, t, err)
		}
		if isPtr {
			return p, nil
		}
		return p.Elem(), nil
	}
}
