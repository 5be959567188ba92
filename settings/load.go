package settings

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/signadot/tony-format/go-settings/format"
	"github.com/signadot/tony-format/go-settings/node"
	"github.com/signadot/tony-format/go-settings/paths"
)

// Load returns a store of schema loaded from source, which is a file path,
// an io.Reader or a *node.Node.
func Load(schema Schema, source any, opts ...Option) (*Store, error) {
	switch src := source.(type) {
	case string:
		return LoadFile(schema, src, opts...)
	case *node.Node:
		return LoadNode(schema, src, opts...)
	case io.Reader:
		return LoadReader(schema, src, opts...)
	default:
		return nil, fmt.Errorf("cannot load settings from %T", source)
	}
}

// LoadFile returns a store of schema backed by the file at path. A missing
// file is created holding the defaults.
func LoadFile(schema Schema, path string, opts ...Option) (*Store, error) {
	s := New(schema, opts...)
	s.path = path
	if err := s.loadFile(true); err != nil {
		return nil, err
	}
	s.loaded()
	return s, nil
}

// LoadReader returns a store of schema read from r.
func LoadReader(schema Schema, r io.Reader, opts ...Option) (*Store, error) {
	s := New(schema, opts...)
	root, err := format.Parse(r, s.format(""))
	if err != nil {
		err = s.failed(err, true)
	} else {
		err = s.load(root, nil, true)
	}
	if err != nil {
		return nil, err
	}
	s.loaded()
	return s, nil
}

// LoadNode returns a store of schema decoded from root. Upgrades modify
// root.
func LoadNode(schema Schema, root *node.Node, opts ...Option) (*Store, error) {
	s := New(schema, opts...)
	if err := s.load(root, nil, true); err != nil {
		return nil, err
	}
	s.loaded()
	return s, nil
}

func (s *Store) loaded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readOnly = s.opts.readOnly
}

func (s *Store) logger() *slog.Logger {
	l := s.opts.logger.With("settings", s.schema.Name())
	if path := s.File(); path != "" {
		l = l.With("file", path)
	}
	return l
}

func (s *Store) suspend() func() {
	s.mu.Lock()
	s.loading++
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.loading--
		s.mu.Unlock()
	}
}

// loadFile loads the backing file of s. With reset, a missing or unreadable
// file resets s to its defaults.
func (s *Store) loadFile(reset bool) error {
	defer s.suspend()()
	path := s.File()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger().Info("settings file not found, using defaults")
		if reset {
			s.Reset()
		}
		return nil
	}
	if err != nil {
		return s.failed(err, reset)
	}
	root, err := format.ParseBytes(data, s.format(path))
	if err != nil {
		return s.failed(err, reset)
	}
	s.mu.Lock()
	s.written = hashBytes(data)
	s.mu.Unlock()
	return s.load(root, data, reset)
}

// load decodes root into s, upgrading it first when it was written by
// another version. data holds the bytes root was parsed from, if any.
func (s *Store) load(root *node.Node, data []byte, reset bool) error {
	defer s.suspend()()
	log := s.logger()
	log.Debug("loading settings")
	from, ok := version(root)
	if !ok {
		log.Warn("settings have no version, using defaults")
		if reset {
			s.Reset()
		}
		return nil
	}
	upgraded := false
	if from != s.Version() {
		if s.opts.backup && data != nil {
			s.backup(data, from)
		}
		log.Info("upgrading settings", "from", from, "to", s.Version())
		if err := s.schema.Upgrade(root, from); err != nil {
			if errors.Is(err, ErrUnsupportedUpgrade) {
				return fmt.Errorf("upgrading %s from version %s: %w", s.schema.Name(), from, err)
			}
			return s.failed(err, reset)
		}
		upgraded = true
	}
	stripVersion(root)
	loaded, types, err := s.decodeEntries(s.opts.registry, root)
	if err != nil {
		return s.failed(err, reset)
	}
	s.replace(loaded, types)
	if upgraded && s.File() != "" {
		s.Save()
	}
	return nil
}

// resetFrom sets every key of d in s. Nested stores of the same schema
// keep their identity and take the values of their counterpart in d.
func (s *Store) resetFrom(d *Store) {
	for _, k := range d.Keys() {
		v, t := d.entry(k)
		cur, _ := s.entry(k)
		if resetNested(cur, v) {
			continue
		}
		if err := s.set(k, s.clone(v, t), t); err != nil {
			s.logger().Warn("cannot reset", "key", k, "error", err)
		}
	}
}

// resetNested resets the stores held by cur from those held by def when
// both hold stores of the same schemas in the same shape.
func resetNested(cur, def any) bool {
	switch c := cur.(type) {
	case *Store:
		d, ok := def.(*Store)
		if !ok || !sameSchema(c, d) {
			return false
		}
		c.resetFrom(d)
		return true
	case []*Store:
		d, ok := def.([]*Store)
		if !ok || len(c) != len(d) {
			return false
		}
		for i := range c {
			if !sameSchema(c[i], d[i]) {
				return false
			}
		}
		for i := range c {
			c[i].resetFrom(d[i])
		}
		return true
	}
	return false
}

func sameSchema(a, b *Store) bool {
	return a != nil && b != nil && a.schema.Name() == b.schema.Name()
}

func (s *Store) backup(data []byte, from string) {
	path := s.File()
	if path == "" {
		return
	}
	name := paths.BackupName(path, from)
	if err := os.WriteFile(name, data, 0o644); err != nil {
		s.logger().Warn("cannot back up settings", "backup", name, "error", err)
		return
	}
	s.logger().Info("backed up settings", "backup", name)
}

// failed handles a load failure: strict stores return it, others log it
// and reset.
func (s *Store) failed(err error, reset bool) error {
	err = fmt.Errorf("%w: %s: %w", ErrLoadFailed, s.schema.Name(), err)
	if s.opts.strict {
		return err
	}
	s.logger().Error("cannot load settings, using defaults", "error", err)
	if reset {
		s.Reset()
	}
	return nil
}

// Reset sets every key of s to its default, then saves and reloads s when
// it is backed by a file. Nested stores are reset in place.
func (s *Store) Reset() {
	s.resetFrom(Default(s.schema))
	if s.File() == "" {
		return
	}
	if !s.Save() {
		return
	}
	if err := s.loadFile(false); err != nil {
		s.logger().Error("cannot reload settings", "error", err)
	}
}
