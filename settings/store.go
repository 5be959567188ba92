package settings

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
	"time"
	"weak"

	"github.com/fsnotify/fsnotify"
	"github.com/signadot/tony-format/go-settings/node"
)

var (
	anyType      = reflect.TypeFor[any]()
	storePtrType = reflect.TypeFor[*Store]()
	timeType     = reflect.TypeFor[time.Time]()
)

// Store is a keyed, defaulting, versioned collection of values.
type Store struct {
	schema Schema
	opts   *options

	mu        sync.Mutex
	entries   map[string]any
	types     map[string]reflect.Type
	readOnly  bool
	isDefault bool
	loading   int
	closed    bool
	path      string
	pending   *time.Timer
	written   uint64
	watcher   *fsnotify.Watcher

	parent    weak.Pointer[Store]
	parentKey string

	lmu      sync.Mutex
	changing []*listener[ChangeEvent]
	changed  []*listener[ChangeEvent]
	saving   []*listener[SaveEvent]
}

// New returns a store of schema holding copies of its defaults.
func New(schema Schema, opts ...Option) *Store {
	s := &Store{}
	s.init(schema, newOptions(opts...))
	s.fillFrom(Default(schema), nil)
	return s
}

func (s *Store) init(schema Schema, o *options) {
	s.schema = schema
	s.opts = o
	s.entries = map[string]any{}
	s.types = map[string]reflect.Type{}
}

// fillFrom copies every key of d not in skip into s without notifying.
func (s *Store) fillFrom(d *Store, skip map[string]bool) {
	d.mu.Lock()
	keys := make([]string, 0, len(d.entries))
	for k := range d.entries {
		keys = append(keys, k)
	}
	d.mu.Unlock()
	for _, k := range keys {
		if skip[k] {
			continue
		}
		v, t := d.entry(k)
		s.mu.Lock()
		s.populateLocked(k, s.clone(v, t), t)
		s.mu.Unlock()
	}
}

func (s *Store) entry(key string) (any, reflect.Type) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[key], s.types[key]
}

// Schema returns the schema of s.
func (s *Store) Schema() Schema { return s.schema }

// Version returns the current version of the schema of s.
func (s *Store) Version() string { return s.schema.Version() }

// Value returns the value of key, falling back to a copy of the default.
func (s *Store) Value(key string) (any, error) {
	s.mu.Lock()
	v, ok := s.entries[key]
	t := s.types[key]
	s.mu.Unlock()
	switch {
	case ok && s.isDefault:
		return s.clone(v, t), nil
	case ok:
		return v, nil
	case !s.isDefault:
		if v, t := Default(s.schema).entry(key); t != nil {
			return s.clone(v, t), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// Get returns the value of key as a V.
func Get[V any](s *Store, key string) (V, error) {
	var zero V
	v, err := s.Value(key)
	if err != nil {
		return zero, err
	}
	if res, ok := v.(V); ok {
		return res, nil
	}
	want := reflect.TypeFor[V]()
	if v == nil {
		if nillable(want) {
			return zero, nil
		}
		return zero, fmt.Errorf("%w: %s is nil, not %s", ErrWrongType, key, want)
	}
	cv, ok := coerce(reflect.ValueOf(v), want)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T, not %s", ErrWrongType, key, v, want)
	}
	return cv.Interface().(V), nil
}

// MustGet is Get panicking on error.
func MustGet[V any](s *Store, key string) V {
	v, err := Get[V](s, key)
	if err != nil {
		panic(err)
	}
	return v
}

// Set sets key to value. The first Set of a key declares it with the
// dynamic type of value and notifies nobody.
func (s *Store) Set(key string, value any) error {
	return s.set(key, value, nil)
}

// SetAs is Set declaring new keys with type V, so a key may hold nil or
// values of any type implementing an interface V.
func SetAs[V any](s *Store, key string, value V) error {
	return s.set(key, value, reflect.TypeFor[V]())
}

func (s *Store) set(key string, value any, declared reflect.Type) error {
	s.mu.Lock()
	old, exists := s.entries[key]
	if !exists {
		s.populateLocked(key, value, declared)
		s.mu.Unlock()
		return nil
	}
	t := s.types[key]
	ro := s.readOnly
	s.mu.Unlock()
	if ro || valuesEqual(old, value) {
		return nil
	}
	value, err := conform(key, value, t)
	if err != nil {
		return err
	}
	if value != nil && t != nil && t.Kind() == reflect.Interface {
		s.opts.registry.TypeName(reflect.TypeOf(value))
	}
	ev := newChangeEvent(s, key, old, value)
	if !s.fireChanging(ev) {
		return nil
	}
	s.mu.Lock()
	s.unlinkLocked(old)
	s.entries[key] = value
	s.linkLocked(key, value)
	s.mu.Unlock()
	s.fireChanged(ev)
	return nil
}

// populateLocked declares key. s.mu is held.
func (s *Store) populateLocked(key string, value any, declared reflect.Type) {
	if declared == nil {
		declared = anyType
		if value != nil {
			declared = reflect.TypeOf(value)
		}
	}
	if declared.Kind() != reflect.Interface {
		s.opts.registry.TypeName(declared)
	} else if value != nil {
		s.opts.registry.TypeName(reflect.TypeOf(value))
	}
	s.entries[key] = value
	s.types[key] = declared
	s.linkLocked(key, value)
}

// conform returns value as the declared type t.
func conform(key string, value any, t reflect.Type) (any, error) {
	if t == nil || t.Kind() == reflect.Interface {
		return value, nil
	}
	if value == nil {
		if nillable(t) {
			return reflect.Zero(t).Interface(), nil
		}
		return nil, fmt.Errorf("%w: %s cannot be nil", ErrWrongType, key)
	}
	cv, ok := coerce(reflect.ValueOf(value), t)
	if !ok {
		return nil, fmt.Errorf("%w: %s holds %s, not %T", ErrWrongType, key, t, value)
	}
	return cv.Interface(), nil
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		return true
	}
	return false
}

func numeric(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Float64
}

// coerce converts v to t when it is assignable, or when both are numbers.
func coerce(v reflect.Value, t reflect.Type) (reflect.Value, bool) {
	if v.Type().AssignableTo(t) {
		res := reflect.New(t).Elem()
		res.Set(v)
		return res, true
	}
	if numeric(v.Kind()) && numeric(t.Kind()) {
		return v.Convert(t), true
	}
	return reflect.Value{}, false
}

// valuesEqual compares stores key by key and everything else deeply.
func valuesEqual(a, b any) bool {
	switch x := a.(type) {
	case *Store:
		y, ok := b.(*Store)
		return ok && storesEqual(x, y)
	case []*Store:
		y, ok := b.([]*Store)
		return ok && slices.EqualFunc(x, y, storesEqual)
	}
	switch b.(type) {
	case *Store, []*Store:
		return false
	}
	return reflect.DeepEqual(a, b)
}

// storesEqual reports whether a and b have the same schema and hold equal
// values under the same keys.
func storesEqual(a, b *Store) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.schema.Name() != b.schema.Name() {
		return false
	}
	keys := a.Keys()
	if !slices.Equal(keys, b.Keys()) {
		return false
	}
	for _, k := range keys {
		av, _ := a.entry(k)
		bv, _ := b.entry(k)
		if !valuesEqual(av, bv) {
			return false
		}
	}
	return true
}

// Has reports whether s holds key.
func (s *Store) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[key]
	return ok
}

// Delete removes key from s without notifying. Later reads of key fall
// back to its default.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[key]
	if !ok {
		return false
	}
	s.unlinkLocked(v)
	delete(s.entries, key)
	delete(s.types, key)
	return true
}

// Keys returns the keys of s in lexicographic order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// File returns the path of the file backing s, if any.
func (s *Store) File() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Parent returns the store holding s, or nil.
func (s *Store) Parent() *Store {
	p, _ := s.parentLink()
	return p
}

func (s *Store) parentLink() (*Store, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parent.Value(), s.parentKey
}

// Root returns the outermost store holding s.
func (s *Store) Root() *Store {
	cur := s
	for {
		p := cur.Parent()
		if p == nil {
			return cur
		}
		cur = p
	}
}

// Path returns the key path of s below its root.
func (s *Store) Path() string {
	path := ""
	cur := s
	for {
		p, key := cur.parentLink()
		if p == nil {
			return path
		}
		path = node.JoinPath(key, path)
		cur = p
	}
}

// linkLocked makes s the parent of the stores held by value. s.mu is held.
func (s *Store) linkLocked(key string, value any) {
	switch v := value.(type) {
	case *Store:
		if v != nil && v != s {
			v.setParent(s, key)
		}
	case []*Store:
		for i, c := range v {
			if c != nil && c != s {
				c.setParent(s, node.IndexPath(key, i))
			}
		}
	}
}

func (s *Store) unlinkLocked(value any) {
	drop := func(c *Store) {
		if c == nil || c == s {
			return
		}
		c.mu.Lock()
		if c.parent.Value() == s {
			c.parent = weak.Pointer[Store]{}
			c.parentKey = ""
		}
		c.mu.Unlock()
	}
	switch v := value.(type) {
	case *Store:
		drop(v)
	case []*Store:
		for _, c := range v {
			drop(c)
		}
	}
}

func (s *Store) setParent(p *Store, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parent = weak.Make(p)
	s.parentKey = key
}

// Clone returns a deep copy of s without listeners, parent or file.
func (s *Store) Clone() *Store {
	c := &Store{}
	c.init(s.schema, s.opts)
	s.mu.Lock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	s.mu.Unlock()
	for _, k := range keys {
		v, t := s.entry(k)
		c.mu.Lock()
		c.populateLocked(k, s.clone(v, t), t)
		c.mu.Unlock()
	}
	return c
}

// clone deep copies v of declared type t through the registry.
func (s *Store) clone(v any, t reflect.Type) any {
	switch x := v.(type) {
	case nil:
		return nil
	case *Store:
		if x == nil {
			return x
		}
		return x.Clone()
	case []*Store:
		if x == nil {
			return x
		}
		res := make([]*Store, len(x))
		for i, c := range x {
			if c != nil {
				res[i] = c.Clone()
			}
		}
		return res
	}
	rv := reflect.ValueOf(v)
	if !shared(rv.Type()) {
		return v
	}
	r := s.opts.registry
	n, err := r.EncodeValue(rv, nil, false)
	if err == nil {
		var dv reflect.Value
		dv, err = r.Decode(n, rv.Type())
		if err == nil {
			return dv.Interface()
		}
	}
	s.opts.logger.Warn("cannot copy value", "type", rv.Type(), "error", err)
	return v
}

// shared reports whether values of t may share memory when copied.
func shared(t reflect.Type) bool {
	if t == timeType {
		return false
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return true
	case reflect.Array:
		return shared(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if shared(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}
