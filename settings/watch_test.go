package settings

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWatch(t *testing.T) {
	path := settingsFile(t)
	s, err := LoadFile(camera{}, path, quiet(), WithWatchDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Watch(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Watch(ctx); !errors.Is(err, ErrWatching) {
		t.Errorf("second Watch: %v", err)
	}
	changes := make(chan *ChangeEvent, 4)
	s.OnChanged(func(e *ChangeEvent) { changes <- e })

	other := New(camera{}, quiet())
	other.Set("Value", 99)
	if !other.SaveFile(path) {
		t.Fatal("save failed")
	}
	select {
	case e := <-changes:
		if e.Key != "Value" || e.New != 99 {
			t.Errorf("event %s %v", e.Key, e.New)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload")
	}
	if v := MustGet[int](s, "Value"); v != 99 {
		t.Errorf("Value = %d", v)
	}
}

func TestWatchWithoutFile(t *testing.T) {
	s := New(camera{}, quiet())
	if err := s.Watch(context.Background()); !errors.Is(err, ErrNoPath) {
		t.Errorf("got %v", err)
	}
}
