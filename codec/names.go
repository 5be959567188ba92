package codec

import (
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ElementName returns the singular element name used for sequence elements
// of type t: the type's own name, or ArrayOfX / MapOfX for unnamed
// collections, "value" for unnamed interfaces. Characters that cannot
// appear in an element name are replaced by '_'.
func ElementName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	var name string
	switch {
	case t.Name() != "":
		name = t.Name()
	case t.Kind() == reflect.Slice, t.Kind() == reflect.Array:
		name = "ArrayOf" + capitalize(ElementName(t.Elem()))
	case t.Kind() == reflect.Map:
		name = "MapOf" + capitalize(ElementName(t.Elem()))
	case t.Kind() == reflect.Interface:
		name = "value"
	default:
		name = t.Kind().String()
	}
	return sanitize(name)
}

func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[n:]
}

func sanitize(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			if i == 0 {
				b.WriteByte('_')
				if unicode.IsDigit(r) {
					b.WriteRune(r)
				}
				continue
			}
			r = '_'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func validName(name string) bool {
	return name != "" && sanitize(name) == name
}
