package settings

import (
	"reflect"
	"sync"

	"github.com/signadot/tony-format/go-settings/node"
)

// Schema describes one kind of store.
type Schema interface {
	// Name is the element name of the root of a stored tree.
	Name() string
	// Version is the version written with every save.
	Version() string
	// Defaults populates s with every key and its default value.
	Defaults(s *Store)
	// Upgrade rewrites root, written by version from, to the current
	// version. It returns ErrUnsupportedUpgrade when from is unknown.
	Upgrade(root *node.Node, from string) error
}

type defaultEntry struct {
	once  sync.Once
	store *Store
}

var (
	defaults sync.Map // reflect.Type -> *defaultEntry
	schemas  sync.Map // name -> Schema
)

// Default returns the store holding the defaults of schema. It is built once
// per schema type and must not be modified.
func Default(schema Schema) *Store {
	t := reflect.TypeOf(schema)
	v, _ := defaults.LoadOrStore(t, &defaultEntry{})
	e := v.(*defaultEntry)
	e.once.Do(func() {
		RegisterSchema(schema)
		s := &Store{}
		s.init(schema, newOptions())
		s.isDefault = true
		schema.Defaults(s)
		s.readOnly = true
		e.store = s
	})
	return e.store
}

// RegisterSchema makes schema known by name to stores decoding nested
// stores. Default registers the schemas it builds.
func RegisterSchema(schema Schema) {
	schemas.LoadOrStore(schema.Name(), schema)
}

func lookupSchema(name string) (Schema, bool) {
	v, ok := schemas.Load(name)
	if !ok {
		return nil, false
	}
	return v.(Schema), true
}
