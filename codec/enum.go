package codec

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/signadot/tony-format/go-settings/node"
)

// Enum is the set of integer types usable as enumerations.
type Enum interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// RegisterEnum binds E to its names. Values encode as their name, or as a
// number when unnamed. Decoding accepts names, ignoring case when no exact
// name matches, and numbers.
func RegisterEnum[E Enum](r *Registry, names map[E]string) {
	byName := make(map[string]E, len(names))
	for v, name := range names {
		byName[name] = v
	}
	RegisterFunc(r,
		func(_ *Registry, v E, n *node.Node) error {
			if name, ok := names[v]; ok {
				n.Text = name
				return nil
			}
			rv := reflect.ValueOf(v)
			if rv.CanInt() {
				n.Text = strconv.FormatInt(rv.Int(), 10)
			} else {
				n.Text = strconv.FormatUint(rv.Uint(), 10)
			}
			return nil
		},
		func(_ *Registry, n *node.Node) (E, error) {
			text := strings.TrimSpace(n.Text)
			if v, ok := byName[text]; ok {
				return v, nil
			}
			for name, v := range byName {
				if strings.EqualFold(name, text) {
					return v, nil
				}
			}
			t := reflect.TypeFor[E]()
			res := reflect.New(t).Elem()
			switch t.Kind() {
			case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
				u, err := strconv.ParseUint(text, 10, t.Bits())
				if err != nil {
					return 0, malformed(n.Text, t, nil)
				}
				res.SetUint(u)
			default:
				i, err := strconv.ParseInt(text, 10, t.Bits())
				if err != nil {
					return 0, malformed(n.Text, t, nil)
				}
				res.SetInt(i)
			}
			return res.Interface().(E), nil
		})
}
