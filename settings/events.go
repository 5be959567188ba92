package settings

import (
	"slices"

	"github.com/signadot/tony-format/go-settings/node"
)

// ChangeEvent describes a change of one key.
type ChangeEvent struct {
	// Key is the path of the changed key relative to the store the
	// listener is registered on.
	Key string
	Old any
	New any
	// Store is the store holding the key.
	Store *Store

	cancelled *bool
}

func newChangeEvent(s *Store, key string, old, value any) *ChangeEvent {
	return &ChangeEvent{Key: key, Old: old, New: value, Store: s, cancelled: new(bool)}
}

// Cancel stops a change from an OnChanging listener. It has no effect
// after the change.
func (e *ChangeEvent) Cancel() { *e.cancelled = true }

func (e *ChangeEvent) Cancelled() bool { return *e.cancelled }

// at returns a copy of e keyed by key for an ancestor store.
func (e *ChangeEvent) at(key string) *ChangeEvent {
	c := *e
	c.Key = key
	return &c
}

// SaveEvent describes a save about to be written.
type SaveEvent struct {
	Path  string
	Store *Store

	cancelled bool
}

func (e *SaveEvent) Cancel() { e.cancelled = true }

func (e *SaveEvent) Cancelled() bool { return e.cancelled }

type listener[E any] struct {
	fn func(*E)
}

// Subscription is returned by the listener registrations.
type Subscription struct {
	remove func()
}

// Unsubscribe removes the listener. It is safe to call more than once.
func (sub *Subscription) Unsubscribe() {
	if sub == nil || sub.remove == nil {
		return
	}
	sub.remove()
	sub.remove = nil
}

func subscribe[E any](s *Store, list *[]*listener[E], fn func(*E)) *Subscription {
	l := &listener[E]{fn: fn}
	s.lmu.Lock()
	*list = append(*list, l)
	s.lmu.Unlock()
	return &Subscription{remove: func() {
		s.lmu.Lock()
		defer s.lmu.Unlock()
		*list = slices.DeleteFunc(*list, func(x *listener[E]) bool { return x == l })
	}}
}

func snapshot[E any](s *Store, list *[]*listener[E]) []*listener[E] {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	return slices.Clone(*list)
}

// OnChanging registers fn to run before a change of s or of a store below
// it. fn may cancel the change.
func (s *Store) OnChanging(fn func(*ChangeEvent)) *Subscription {
	return subscribe(s, &s.changing, fn)
}

// OnChanged registers fn to run after a change of s or of a store below it.
func (s *Store) OnChanged(fn func(*ChangeEvent)) *Subscription {
	return subscribe(s, &s.changed, fn)
}

// OnSaving registers fn to run before s is written. fn may cancel the save.
func (s *Store) OnSaving(fn func(*SaveEvent)) *Subscription {
	return subscribe(s, &s.saving, fn)
}

// bubble calls visit for s and then each of its ancestors, with ev keyed
// relative to each. It stops when visit returns false.
func (s *Store) bubble(ev *ChangeEvent, visit func(*Store, *ChangeEvent) bool) bool {
	cur, e := s, ev
	for cur != nil {
		if !visit(cur, e) {
			return false
		}
		p, key := cur.parentLink()
		if p == nil {
			break
		}
		e = e.at(node.JoinPath(key, e.Key))
		cur = p
	}
	return true
}

// fireChanging reports whether the change went through.
func (s *Store) fireChanging(ev *ChangeEvent) bool {
	return s.bubble(ev, func(cur *Store, e *ChangeEvent) bool {
		for _, l := range snapshot(cur, &cur.changing) {
			l.fn(e)
			if e.Cancelled() {
				return false
			}
		}
		return true
	})
}

func (s *Store) fireChanged(ev *ChangeEvent) {
	s.bubble(ev, func(cur *Store, e *ChangeEvent) bool {
		for _, l := range snapshot(cur, &cur.changed) {
			l.fn(e)
		}
		cur.scheduleSave()
		return true
	})
}

func (s *Store) fireSaving(ev *SaveEvent) bool {
	for _, l := range snapshot(s, &s.saving) {
		l.fn(ev)
		if ev.cancelled {
			return false
		}
	}
	return true
}
