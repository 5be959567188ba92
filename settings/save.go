package settings

import (
	"bytes"
	"fmt"
	"hash/maphash"
	"io"
	"os"

	"github.com/signadot/tony-format/go-settings/format"
	"github.com/signadot/tony-format/go-settings/paths"
)

var seed = maphash.MakeSeed()

func hashBytes(d []byte) uint64 {
	return maphash.Bytes(seed, d)
}

func (s *Store) format(path string) format.Format {
	switch {
	case s.opts.formatSet:
		return s.opts.format
	case path != "":
		return format.ForPath(path)
	}
	return format.XMLFormat
}

// Save writes s to its backing file. Failures are logged.
func (s *Store) Save() bool {
	path := s.File()
	if path == "" {
		s.logger().Warn("cannot save settings", "error", ErrNoPath)
		return false
	}
	return s.SaveFile(path)
}

// SaveFile writes s to path in the format of s, or the one its extension
// names. Failures are logged.
func (s *Store) SaveFile(path string) bool {
	log := s.logger().With("path", path)
	if !s.fireSaving(&SaveEvent{Path: path, Store: s}) {
		log.Debug("save cancelled")
		return false
	}
	data, err := s.encode(s.format(path))
	if err == nil {
		err = writeFile(path, data)
	}
	if err != nil {
		log.Error("cannot save settings", "error", fmt.Errorf("%w: %w", ErrSaveFailed, err))
		return false
	}
	s.mu.Lock()
	if path == s.path {
		s.written = hashBytes(data)
	}
	s.mu.Unlock()
	log.Debug("saved settings")
	return true
}

// WriteTo encodes s to w.
func (s *Store) WriteTo(w io.Writer) (int64, error) {
	data, err := s.encode(s.format(s.File()))
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

func (s *Store) encode(f format.Format) ([]byte, error) {
	root, err := s.Node()
	if err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(nil)
	if err := format.Encode(root, buf, format.EncodeFormat(f)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeFile replaces path by data through a rename.
func writeFile(path string, data []byte) error {
	if err := paths.EnsureDir(path); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
