package settings

import "time"

// scheduleSave arranges for s to be saved after the autosave delay unless a
// save is already pending.
func (s *Store) scheduleSave() {
	if s.opts.autoSave <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" || s.loading > 0 || s.closed || s.pending != nil {
		return
	}
	s.pending = time.AfterFunc(s.opts.autoSave, s.autoSave)
}

func (s *Store) autoSave() {
	s.mu.Lock()
	s.pending = nil
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}
	s.Save()
}

// Flush saves s now if a save is pending.
func (s *Store) Flush() bool {
	s.mu.Lock()
	t := s.pending
	s.pending = nil
	s.mu.Unlock()
	if t == nil || !t.Stop() {
		return false
	}
	return s.Save()
}

// Close cancels a pending save and stops watching the backing file.
func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	w := s.watcher
	s.watcher = nil
	s.mu.Unlock()
	if w != nil {
		return w.Close()
	}
	return nil
}
