package settings

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/signadot/tony-format/go-settings/format"
)

// ErrWatching is returned by Watch on closed or already watched stores.
var ErrWatching = errors.New("store closed or already watched")

// Watch reloads s whenever its backing file is changed by another writer,
// until ctx is done or s is closed. Reloaded values are applied with Set,
// so listeners observe them.
func (s *Store) Watch(ctx context.Context) error {
	path := s.File()
	if path == "" {
		return ErrNoPath
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return fmt.Errorf("watching %s: %w", path, err)
	}
	s.mu.Lock()
	if s.closed || s.watcher != nil {
		s.mu.Unlock()
		w.Close()
		return ErrWatching
	}
	s.watcher = w
	s.mu.Unlock()
	go s.watchLoop(ctx, w, filepath.Clean(path))
	return nil
}

func (s *Store) watchLoop(ctx context.Context, w *fsnotify.Watcher, path string) {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			s.stopWatching(w)
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(s.opts.debounce)
			} else {
				timer.Reset(s.opts.debounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.logger().Warn("watching settings", "error", err)
		case <-fire:
			fire = nil
			s.reload()
		}
	}
}

func (s *Store) stopWatching(w *fsnotify.Watcher) {
	s.mu.Lock()
	if s.watcher == w {
		s.watcher = nil
	}
	s.mu.Unlock()
	w.Close()
}

// reload applies the content of the backing file unless s wrote it.
func (s *Store) reload() {
	path := s.File()
	log := s.logger()
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("cannot reload settings", "error", err)
		return
	}
	h := hashBytes(data)
	s.mu.Lock()
	own := h == s.written
	s.mu.Unlock()
	if own {
		return
	}
	root, err := format.ParseBytes(data, s.format(path))
	if err != nil {
		log.Warn("ignoring unreadable settings", "error", err)
		return
	}
	if _, ok := version(root); !ok {
		log.Warn("ignoring settings without version")
		return
	}
	src := New(s.schema, WithLogger(s.opts.logger), WithRegistry(s.opts.registry), WithStrict())
	if err := src.load(root, nil, false); err != nil {
		log.Warn("ignoring settings", "error", err)
		return
	}
	s.mu.Lock()
	s.written = h
	s.mu.Unlock()
	log.Info("reloading settings")
	s.apply(src)
}

// apply sets every key of src in s. Nested stores of the same schema are
// updated in place.
func (s *Store) apply(src *Store) {
	for _, k := range src.Keys() {
		v, t := src.entry(k)
		cur, _ := s.entry(k)
		if a, ok := cur.(*Store); ok && a != nil {
			if b, ok := v.(*Store); ok && b != nil && a.schema.Name() == b.schema.Name() {
				a.apply(b)
				continue
			}
		}
		if !s.Has(k) {
			s.mu.Lock()
			s.populateLocked(k, v, t)
			s.mu.Unlock()
			continue
		}
		if err := s.Set(k, v); err != nil {
			s.logger().Warn("cannot apply", "key", k, "error", err)
		}
	}
}
