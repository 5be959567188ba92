package codec

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/signadot/tony-format/go-settings/node"
)

// TagName is the struct tag key read by the record contract.
const TagName = "settings"

// field is one member of a record.
type field struct {
	name      string
	goName    string
	index     []int
	typ       reflect.Type
	omitEmpty bool
	tagType   bool
}

// ParseTag splits a `settings:"name,omitempty"` tag.
func ParseTag(tag string) (name string, omitEmpty bool) {
	name, opts, _ := strings.Cut(tag, ",")
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty
}

// IsZero reports whether v is nil or the zero value of its type. Generated
// encoders use it for omitempty fields.
func IsZero(v any) bool {
	return v == nil || reflect.ValueOf(v).IsZero()
}

// recordFields lists the members of struct type t in declaration order,
// promoting the fields of embedded structs.
func recordFields(t reflect.Type) ([]field, error) {
	var res []field
	seen := map[string]string{}
	flattened := map[string]bool{"[]": true}
	for _, sf := range reflect.VisibleFields(t) {
		if !flattened[fmt.Sprint(sf.Index[:len(sf.Index)-1])] {
			continue
		}
		tag, hasTag := sf.Tag.Lookup(TagName)
		if tag == "-" {
			continue
		}
		if sf.Anonymous && !hasTag {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				if !sf.IsExported() {
					continue
				}
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				flattened[fmt.Sprint(sf.Index)] = true
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		name, omitEmpty := ParseTag(tag)
		if name == "" {
			name = sf.Name
		}
		if !validName(name) {
			return nil, fmt.Errorf("%w for %s: field %s: invalid element name %q", ErrNoBinding, t, sf.Name, name)
		}
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w for %s: fields %s and %s both map to %q", ErrNoBinding, t, prev, sf.Name, name)
		}
		seen[name] = sf.Name
		res = append(res, field{
			name:      name,
			goName:    sf.Name,
			index:     sf.Index,
			typ:       sf.Type,
			omitEmpty: omitEmpty,
			tagType:   sf.Type.Kind() == reflect.Interface,
		})
	}
	return res, nil
}

func recordEncoder(t reflect.Type) (EncodeFunc, error) {
	fields, err := recordFields(t)
	if err != nil {
		return nil, err
	}
	return func(r *Registry, v reflect.Value, n *node.Node) error {
		for i := range fields {
			f := &fields[i]
			fv, err := v.FieldByIndexErr(f.index)
			if err != nil {
				// nil embedded pointer
				continue
			}
			if f.omitEmpty && fv.IsZero() {
				continue
			}
			c := node.New(f.name)
			if err := r.encode(fv, c, f.tagType); err != nil {
				return within(err, f.name, f.typ, false)
			}
			if f.omitEmpty && c.IsEmpty() {
				continue
			}
			n.Append(c)
		}
		return nil
	}, nil
}

func recordDecoder(t reflect.Type) (DecodeFunc, error) {
	fields, err := recordFields(t)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*field, len(fields))
	for i := range fields {
		byName[fields[i].name] = &fields[i]
	}
	return func(r *Registry, n *node.Node, t reflect.Type, o *DecodeOptions) (reflect.Value, error) {
		res := instance(t, o).Elem()
		for _, c := range n.Children {
			f := byName[c.Name]
			if f == nil {
				continue
			}
			v, err := r.decode(c, f.typ, o)
			if err != nil {
				return reflect.Value{}, within(err, f.name, f.typ, true)
			}
			fieldByIndex(res, f.index).Set(v)
		}
		return res, nil
	}, nil
}

// fieldByIndex is reflect.Value.FieldByIndex, allocating nil embedded
// pointers on the way.
func fieldByIndex(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}
