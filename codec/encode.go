package codec

import (
	"cmp"
	"encoding"
	"errors"
	"reflect"
	"slices"
	"strconv"

	"github.com/signadot/tony-format/go-settings/node"
)

// ItemName is the element name of one map entry.
const ItemName = "item"

// Encode encodes v into n and returns n. If n is nil a node named after the
// type of v is created. When tagType is set the type attribute records the
// concrete type of v, which decoding into an interface requires.
func (r *Registry) Encode(v any, n *node.Node, tagType bool) (*node.Node, error) {
	return r.EncodeValue(reflect.ValueOf(v), n, tagType)
}

// EncodeValue is Encode for a reflect.Value. A Value of interface kind is
// encoded as its dynamic value.
func (r *Registry) EncodeValue(v reflect.Value, n *node.Node, tagType bool) (*node.Node, error) {
	if n == nil {
		name := "value"
		if v.IsValid() && v.Kind() != reflect.Interface {
			name = ElementName(v.Type())
		}
		n = node.New(name)
	}
	if err := r.encode(v, n, tagType); err != nil {
		var ee *EncodeError
		if !errors.As(err, &ee) {
			err = &EncodeError{Type: valueType(v), Err: err}
		}
		return nil, err
	}
	return n, nil
}

// EncodeField encodes v as a new child of n named name.
func (r *Registry) EncodeField(n *node.Node, name string, v any, tagType bool) error {
	c := node.New(name)
	if err := r.encode(reflect.ValueOf(v), c, tagType); err != nil {
		return within(err, name, reflect.TypeOf(v), false)
	}
	n.Append(c)
	return nil
}

// Encode encodes v with the Default registry.
func Encode(v any, n *node.Node, tagType bool) (*node.Node, error) {
	return Default.Encode(v, n, tagType)
}

func (r *Registry) encode(v reflect.Value, n *node.Node, tagType bool) error {
	if !v.IsValid() {
		return nil
	}
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	t := v.Type()
	if tagType {
		n.SetAttr(node.TypeAttr, r.TypeName(t))
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return nil
		}
	}
	fn, err := r.encoder(t)
	if err != nil {
		return err
	}
	return fn(r, v, n)
}

func valueType(v reflect.Value) reflect.Type {
	if !v.IsValid() {
		return nil
	}
	return v.Type()
}

func index(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

func sequenceEncoder(t reflect.Type) EncodeFunc {
	et := t.Elem()
	name := ElementName(et)
	tag := et.Kind() == reflect.Interface
	return func(r *Registry, v reflect.Value, n *node.Node) error {
		for i := 0; i < v.Len(); i++ {
			c := node.New(name)
			if err := r.encode(v.Index(i), c, tag); err != nil {
				return within(err, index(i), et, false)
			}
			n.Append(c)
		}
		return nil
	}
}

func mapEncoder(t reflect.Type) EncodeFunc {
	et := t.Elem()
	tag := et.Kind() == reflect.Interface
	return func(r *Registry, v reflect.Value, n *node.Node) error {
		keys := v.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			return cmp.Compare(a.String(), b.String())
		})
		for _, k := range keys {
			c := node.New(ItemName).SetAttr(node.KeyAttr, k.String())
			if err := r.encode(v.MapIndex(k), c, tag); err != nil {
				return within(err, k.String(), et, false)
			}
			n.Append(c)
		}
		return nil
	}
}

func pointerEncoder(r *Registry, v reflect.Value, n *node.Node) error {
	return r.encode(v.Elem(), n, false)
}

func delegateEncoder(addr bool) EncodeFunc {
	return func(r *Registry, v reflect.Value, n *node.Node) error {
		if addr {
			v = addressable(v)
		}
		return v.Interface().(NodeMarshaler).EncodeNode(r, n)
	}
}

func textEncoder(addr bool) EncodeFunc {
	return func(r *Registry, v reflect.Value, n *node.Node) error {
		if addr {
			v = addressable(v)
		}
		text, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return err
		}
		n.Text = string(text)
		return nil
	}
}

// addressable returns a pointer to v, copying v when it is not addressable.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v.Addr()
	}
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p
}
