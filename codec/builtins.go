package codec

import (
	"encoding/base64"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/uuid"
	"github.com/signadot/tony-format/go-settings/node"
)

var (
	stringType   = reflect.TypeFor[string]()
	bytesType    = reflect.TypeFor[[]byte]()
	durationType = reflect.TypeFor[time.Duration]()
	timeType     = reflect.TypeFor[time.Time]()
	uuidType     = reflect.TypeFor[uuid.UUID]()
	decimalType  = reflect.TypeFor[apd.Decimal]()
	anyType      = reflect.TypeFor[any]()
)

func isScalarKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// scalarBindings serve every type of a scalar kind, named or not.
var scalarBindings = newScalarBindings()

func newScalarBindings() map[reflect.Kind]Binding {
	res := map[reflect.Kind]Binding{}
	boolB := Binding{
		Encode: func(_ *Registry, v reflect.Value, n *node.Node) error {
			n.Text = strconv.FormatBool(v.Bool())
			return nil
		},
		Decode: func(_ *Registry, n *node.Node, t reflect.Type, _ *DecodeOptions) (reflect.Value, error) {
			b, err := strconv.ParseBool(strings.TrimSpace(n.Text))
			if err != nil {
				return reflect.Value{}, malformed(n.Text, t, nil)
			}
			return reflect.ValueOf(b).Convert(t), nil
		},
	}
	intB := Binding{
		Encode: func(_ *Registry, v reflect.Value, n *node.Node) error {
			n.Text = strconv.FormatInt(v.Int(), 10)
			return nil
		},
		Decode: func(_ *Registry, n *node.Node, t reflect.Type, _ *DecodeOptions) (reflect.Value, error) {
			i, err := strconv.ParseInt(strings.TrimSpace(n.Text), 10, t.Bits())
			if err != nil {
				return reflect.Value{}, malformed(n.Text, t, nil)
			}
			res := reflect.New(t).Elem()
			res.SetInt(i)
			return res, nil
		},
	}
	uintB := Binding{
		Encode: func(_ *Registry, v reflect.Value, n *node.Node) error {
			n.Text = strconv.FormatUint(v.Uint(), 10)
			return nil
		},
		Decode: func(_ *Registry, n *node.Node, t reflect.Type, _ *DecodeOptions) (reflect.Value, error) {
			u, err := strconv.ParseUint(strings.TrimSpace(n.Text), 10, t.Bits())
			if err != nil {
				return reflect.Value{}, malformed(n.Text, t, nil)
			}
			res := reflect.New(t).Elem()
			res.SetUint(u)
			return res, nil
		},
	}
	floatB := Binding{
		Encode: func(_ *Registry, v reflect.Value, n *node.Node) error {
			n.Text = strconv.FormatFloat(v.Float(), 'g', -1, v.Type().Bits())
			return nil
		},
		Decode: func(_ *Registry, n *node.Node, t reflect.Type, _ *DecodeOptions) (reflect.Value, error) {
			f, err := strconv.ParseFloat(strings.TrimSpace(n.Text), t.Bits())
			if err != nil {
				return reflect.Value{}, malformed(n.Text, t, nil)
			}
			res := reflect.New(t).Elem()
			res.SetFloat(f)
			return res, nil
		},
	}
	stringB := Binding{
		Encode: func(_ *Registry, v reflect.Value, n *node.Node) error {
			n.Text = v.String()
			return nil
		},
		Decode: func(_ *Registry, n *node.Node, t reflect.Type, _ *DecodeOptions) (reflect.Value, error) {
			return reflect.ValueOf(n.Text).Convert(t), nil
		},
	}
	res[reflect.Bool] = boolB
	res[reflect.String] = stringB
	for _, k := range []reflect.Kind{reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64} {
		res[k] = intB
	}
	for _, k := range []reflect.Kind{reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr} {
		res[k] = uintB
	}
	res[reflect.Float32] = floatB
	res[reflect.Float64] = floatB
	return res
}

func registerBuiltins(r *Registry) {
	for _, v := range []any{
		false, "",
		int(0), int8(0), int16(0), int32(0), int64(0),
		uint(0), uint8(0), uint16(0), uint32(0), uint64(0), uintptr(0),
		float32(0), float64(0),
	} {
		t := reflect.TypeOf(v)
		r.Register(t, scalarBindings[t.Kind()])
	}
	r.RegisterName("any", anyType)

	r.Register(bytesType, bytesBinding)
	r.Register(durationType, Binding{
		Encode: func(_ *Registry, v reflect.Value, n *node.Node) error {
			n.Text = time.Duration(v.Int()).String()
			return nil
		},
		Decode: func(_ *Registry, n *node.Node, t reflect.Type, _ *DecodeOptions) (reflect.Value, error) {
			d, err := time.ParseDuration(strings.TrimSpace(n.Text))
			if err != nil {
				return reflect.Value{}, malformed(n.Text, t, err)
			}
			return reflect.ValueOf(d), nil
		},
	})
	r.Register(timeType, Binding{
		Encode: func(_ *Registry, v reflect.Value, n *node.Node) error {
			n.Text = v.Interface().(time.Time).Format(time.RFC3339Nano)
			return nil
		},
		Decode: func(_ *Registry, n *node.Node, t reflect.Type, _ *DecodeOptions) (reflect.Value, error) {
			tm, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(n.Text))
			if err != nil {
				return reflect.Value{}, malformed(n.Text, t, err)
			}
			return reflect.ValueOf(tm), nil
		},
	})
	r.Register(uuidType, Binding{
		Encode: func(_ *Registry, v reflect.Value, n *node.Node) error {
			n.Text = v.Interface().(uuid.UUID).String()
			return nil
		},
		Decode: func(_ *Registry, n *node.Node, t reflect.Type, _ *DecodeOptions) (reflect.Value, error) {
			u, err := uuid.Parse(strings.TrimSpace(n.Text))
			if err != nil {
				return reflect.Value{}, malformed(n.Text, t, err)
			}
			return reflect.ValueOf(u), nil
		},
	})
	r.Register(decimalType, Binding{
		Encode: func(_ *Registry, v reflect.Value, n *node.Node) error {
			if v.CanAddr() {
				n.Text = v.Addr().Interface().(*apd.Decimal).String()
				return nil
			}
			p := reflect.New(decimalType)
			p.Elem().Set(v)
			n.Text = p.Interface().(*apd.Decimal).String()
			return nil
		},
		Decode: func(_ *Registry, n *node.Node, t reflect.Type, _ *DecodeOptions) (reflect.Value, error) {
			d, _, err := apd.NewFromString(strings.TrimSpace(n.Text))
			if err != nil {
				return reflect.Value{}, malformed(n.Text, t, err)
			}
			return reflect.ValueOf(d).Elem(), nil
		},
	})
}

// bytesBinding serves byte slices, named or not, as base64 text.
var bytesBinding = Binding{
	Encode: func(_ *Registry, v reflect.Value, n *node.Node) error {
		n.Text = base64.StdEncoding.EncodeToString(v.Bytes())
		return nil
	},
	Decode: func(_ *Registry, n *node.Node, t reflect.Type, _ *DecodeOptions) (reflect.Value, error) {
		b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(n.Text))
		if err != nil {
			return reflect.Value{}, malformed(n.Text, t, err)
		}
		return reflect.ValueOf(b).Convert(t), nil
	},
}
