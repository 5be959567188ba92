package settings

import (
	"fmt"
	"maps"
	"reflect"
	"strings"

	"github.com/signadot/tony-format/go-settings/codec"
	"github.com/signadot/tony-format/go-settings/node"
)

const (
	// VersionName is the element holding the version of a stored tree.
	VersionName = "version"
	// SchemaAttr names the schema of a nested store.
	SchemaAttr = "schema"
)

var (
	_ codec.NodeMarshaler   = (*Store)(nil)
	_ codec.NodeUnmarshaler = (*Store)(nil)
)

// Node returns the tree of s, led by its version.
func (s *Store) Node() (*node.Node, error) {
	root := node.New(s.schema.Name())
	root.Append(node.NewText(VersionName, s.Version()))
	if err := s.encodeEntries(s.opts.registry, root); err != nil {
		return nil, err
	}
	return root, nil
}

// EncodeNode encodes s as a value held by another store.
func (s *Store) EncodeNode(r *codec.Registry, n *node.Node) error {
	n.SetAttr(SchemaAttr, s.schema.Name())
	return s.encodeEntries(r, n)
}

// DecodeNode decodes a value encoded by EncodeNode. The schema named by
// the node takes precedence over the schema s was constructed with.
func (s *Store) DecodeNode(r *codec.Registry, n *node.Node) error {
	if name, ok := n.Attr(SchemaAttr); ok && (s.schema == nil || s.schema.Name() != name) {
		sc, ok := lookupSchema(name)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownSchema, name)
		}
		opts := s.opts
		if opts == nil {
			opts = newOptions(WithRegistry(r))
		}
		s.init(sc, opts)
	}
	if s.schema == nil {
		return fmt.Errorf("%w: %s has no %s attribute", ErrUnknownSchema, n.Name, SchemaAttr)
	}
	loaded, types, err := s.decodeEntries(r, n)
	if err != nil {
		return err
	}
	s.replace(loaded, types)
	return nil
}

// encodeEntries appends one entry per key of s to n. Entries are tagged
// with their type when declared as interfaces or unknown to the defaults.
func (s *Store) encodeEntries(r *codec.Registry, n *node.Node) error {
	d := Default(s.schema)
	for _, k := range s.Keys() {
		v, t := s.entry(k)
		tag := t.Kind() == reflect.Interface || (d != s && !d.Has(k))
		e := node.NewEntry(k)
		if _, err := r.EncodeValue(reflect.ValueOf(v), e, tag); err != nil {
			return fmt.Errorf("entry %s: %w", k, err)
		}
		n.Append(e)
	}
	return nil
}

func (s *Store) decodeEntries(r *codec.Registry, n *node.Node) (map[string]any, map[string]reflect.Type, error) {
	d := Default(s.schema)
	loaded := make(map[string]any, len(n.Children))
	types := make(map[string]reflect.Type, len(n.Children))
	for _, c := range n.Children {
		k, ok := node.EntryKey(c)
		if !ok {
			if c.Name != VersionName {
				s.opts.logger.Debug("skipping element", "name", c.Name)
			}
			continue
		}
		vn := node.EntryValue(c)
		_, t := d.entry(k)
		if t == nil {
			_, t = s.entry(k)
		}
		if t == nil {
			if _, tagged := vn.Attr(node.TypeAttr); !tagged {
				s.opts.logger.Warn("skipping unknown key", "key", k)
				continue
			}
			t = anyType
		}
		v, err := r.DecodeValue(vn, t, s.decodeOptions(k))
		if err != nil {
			return nil, nil, fmt.Errorf("entry %s: %w", k, err)
		}
		loaded[k] = v.Interface()
		types[k] = t
	}
	return loaded, types, nil
}

// decodeOptions constructs nested stores of key with the schema of its
// default.
func (s *Store) decodeOptions(key string) *codec.DecodeOptions {
	dv, _ := Default(s.schema).entry(key)
	var sc Schema
	switch x := dv.(type) {
	case *Store:
		if x != nil {
			sc = x.schema
		}
	case []*Store:
		for _, c := range x {
			if c != nil {
				sc = c.schema
				break
			}
		}
	}
	if sc == nil {
		return codec.NewDecodeOptions()
	}
	return codec.NewDecodeOptions(codec.WithFactory(func(t reflect.Type) (reflect.Value, bool) {
		if t != storePtrType {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(New(sc, WithLogger(s.opts.logger), WithRegistry(s.opts.registry))), true
	}))
}

// replace makes loaded the entries of s and backfills the keys of the
// defaults it lacks, without notifying.
func (s *Store) replace(loaded map[string]any, types map[string]reflect.Type) {
	s.mu.Lock()
	old := maps.Clone(s.entries)
	s.mu.Unlock()
	for k, v := range loaded {
		if keep, ok := adopt(old[k], v); ok {
			loaded[k] = keep
		}
	}
	s.mu.Lock()
	for _, v := range s.entries {
		s.unlinkLocked(v)
	}
	s.entries = make(map[string]any, len(loaded))
	s.types = make(map[string]reflect.Type, len(loaded))
	have := make(map[string]bool, len(loaded))
	for k, v := range loaded {
		s.populateLocked(k, v, types[k])
		have[k] = true
	}
	s.mu.Unlock()
	s.fillFrom(Default(s.schema), have)
}

// adopt moves the contents of the loaded stores held by v into the stores
// held by cur when both have the same schemas in the same shape, and
// returns cur. Handles to nested stores thereby survive a reload.
func adopt(cur, v any) (any, bool) {
	switch c := cur.(type) {
	case *Store:
		l, ok := v.(*Store)
		if !ok || !sameSchema(c, l) {
			return nil, false
		}
		c.replace(l.contents())
		return c, true
	case []*Store:
		l, ok := v.([]*Store)
		if !ok || len(c) != len(l) {
			return nil, false
		}
		for i := range c {
			if !sameSchema(c[i], l[i]) {
				return nil, false
			}
		}
		for i := range c {
			c[i].replace(l[i].contents())
		}
		return c, true
	}
	return nil, false
}

// contents returns copies of the entry and type maps of s.
func (s *Store) contents() (map[string]any, map[string]reflect.Type) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.entries), maps.Clone(s.types)
}

// version returns the version recorded in root.
func version(root *node.Node) (string, bool) {
	for _, c := range root.Children {
		if isVersion(c) {
			return strings.TrimSpace(c.Text), true
		}
	}
	return "", false
}

func isVersion(n *node.Node) bool {
	if n.Name != VersionName {
		return false
	}
	_, keyed := n.Attr(node.KeyAttr)
	return !keyed
}

func stripVersion(root *node.Node) {
	for i := len(root.Children) - 1; i >= 0; i-- {
		if isVersion(root.Children[i]) {
			root.RemoveChild(i)
		}
	}
}
