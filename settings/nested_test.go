package settings

import (
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/tony-format/go-settings/node"
)

type leaf struct{}

func (leaf) Name() string                     { return "Leaf" }
func (leaf) Version() string                  { return "1" }
func (leaf) Defaults(s *Store)                { s.Set("Setting", 1) }
func (leaf) Upgrade(*node.Node, string) error { return ErrUnsupportedUpgrade }

type middle struct{}

func (middle) Name() string    { return "Middle" }
func (middle) Version() string { return "1" }
func (middle) Defaults(s *Store) {
	s.Set("Inner", New(leaf{}))
	s.Set("List", []*Store{New(leaf{}), New(leaf{}), New(leaf{})})
}
func (middle) Upgrade(*node.Node, string) error { return ErrUnsupportedUpgrade }

type top struct{}

func (top) Name() string                     { return "Top" }
func (top) Version() string                  { return "1" }
func (top) Defaults(s *Store)                { s.Set("Outer", New(middle{})) }
func (top) Upgrade(*node.Node, string) error { return ErrUnsupportedUpgrade }

func TestBubbling(t *testing.T) {
	root := New(top{}, quiet())
	mid := MustGet[*Store](root, "Outer")
	inner := MustGet[*Store](mid, "Inner")
	third := MustGet[[]*Store](mid, "List")[2]

	var rootKeys, midKeys []string
	root.OnChanged(func(e *ChangeEvent) { rootKeys = append(rootKeys, e.Key) })
	mid.OnChanged(func(e *ChangeEvent) { midKeys = append(midKeys, e.Key) })

	inner.Set("Setting", 5)
	third.Set("Setting", 6)

	if diff := cmp.Diff([]string{"Outer.Inner.Setting", "Outer.List[2].Setting"}, rootKeys); diff != "" {
		t.Errorf("root events (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Inner.Setting", "List[2].Setting"}, midKeys); diff != "" {
		t.Errorf("middle events (-want +got):\n%s", diff)
	}
	if inner.Root() != root || inner.Parent() != mid {
		t.Error("wrong ancestors")
	}
	if p := third.Path(); p != "Outer.List[2]" {
		t.Errorf("Path = %q", p)
	}
}

func TestBubbledCancel(t *testing.T) {
	root := New(top{}, quiet())
	inner := MustGet[*Store](MustGet[*Store](root, "Outer"), "Inner")
	root.OnChanging(func(e *ChangeEvent) {
		if e.Key == "Outer.Inner.Setting" {
			e.Cancel()
		}
	})
	inner.Set("Setting", 5)
	if v := MustGet[int](inner, "Setting"); v != 1 {
		t.Errorf("Setting = %d", v)
	}
}

func TestNestedSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "top.xml")
	s := New(top{}, quiet())
	mid := MustGet[*Store](s, "Outer")
	MustGet[*Store](mid, "Inner").Set("Setting", 7)
	MustGet[[]*Store](mid, "List")[1].Set("Setting", 8)
	if !s.SaveFile(path) {
		t.Fatal("save failed")
	}

	got, err := LoadFile(top{}, path, quiet(), WithStrict())
	if err != nil {
		t.Fatal(err)
	}
	gmid := MustGet[*Store](got, "Outer")
	if v := MustGet[int](MustGet[*Store](gmid, "Inner"), "Setting"); v != 7 {
		t.Errorf("Inner.Setting = %d", v)
	}
	list := MustGet[[]*Store](gmid, "List")
	if len(list) != 3 {
		t.Fatalf("%d list elements", len(list))
	}
	var settings []int
	for _, c := range list {
		settings = append(settings, MustGet[int](c, "Setting"))
	}
	if diff := cmp.Diff([]int{1, 8, 1}, settings); diff != "" {
		t.Errorf("List settings (-want +got):\n%s", diff)
	}

	var keys []string
	got.OnChanged(func(e *ChangeEvent) { keys = append(keys, e.Key) })
	list[1].Set("Setting", 9)
	if diff := cmp.Diff([]string{"Outer.List[1].Setting"}, keys); diff != "" {
		t.Errorf("events of loaded store (-want +got):\n%s", diff)
	}
}

func TestCloneIsolation(t *testing.T) {
	s := New(top{}, quiet())
	c := s.Clone()
	MustGet[*Store](MustGet[*Store](c, "Outer"), "Inner").Set("Setting", 3)
	if v := MustGet[int](MustGet[*Store](MustGet[*Store](s, "Outer"), "Inner"), "Setting"); v != 1 {
		t.Errorf("clone shares nested stores: %d", v)
	}
	if MustGet[*Store](c, "Outer").Parent() != c {
		t.Error("nested clone not linked")
	}
}

func TestResetKeepsNestedStores(t *testing.T) {
	root := New(top{}, quiet())
	mid := MustGet[*Store](root, "Outer")
	inner := MustGet[*Store](mid, "Inner")

	var keys []string
	root.OnChanged(func(e *ChangeEvent) { keys = append(keys, e.Key) })
	root.Reset()
	if len(keys) != 0 {
		t.Errorf("Reset of a default store changed %v", keys)
	}
	if MustGet[*Store](root, "Outer") != mid || mid.Parent() != root {
		t.Fatal("Reset replaced the nested store")
	}

	inner.Set("Setting", 4)
	root.Reset()
	if diff := cmp.Diff([]string{"Outer.Inner.Setting", "Outer.Inner.Setting"}, keys); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
	if v := MustGet[int](inner, "Setting"); v != 1 {
		t.Errorf("Setting = %d after Reset", v)
	}
	if inner.Root() != root {
		t.Error("inner detached by Reset")
	}
}

func TestSetEqualStore(t *testing.T) {
	root := New(top{}, quiet())
	mid := MustGet[*Store](root, "Outer")
	n := 0
	root.OnChanged(func(*ChangeEvent) { n++ })
	if err := root.Set("Outer", New(middle{})); err != nil {
		t.Fatal(err)
	}
	if n != 0 || MustGet[*Store](root, "Outer") != mid {
		t.Errorf("setting an equal store fired %d events", n)
	}
}

func TestLoadMissingFileSchedulesNoSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "top.xml")
	s, err := LoadFile(top{}, path, quiet(), WithAutoSave(20*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	s.mu.Lock()
	pending := s.pending != nil
	s.mu.Unlock()
	if pending {
		t.Error("LoadFile left a pending save")
	}
	var saves atomic.Int32
	s.OnSaving(func(*SaveEvent) { saves.Add(1) })
	time.Sleep(100 * time.Millisecond)
	if n := saves.Load(); n != 0 {
		t.Errorf("%d saves without a change", n)
	}
}

func TestResetFileKeepsNestedStores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "top.xml")
	root, err := LoadFile(top{}, path, quiet(), WithStrict())
	if err != nil {
		t.Fatal(err)
	}
	mid := MustGet[*Store](root, "Outer")
	first := MustGet[[]*Store](mid, "List")[0]
	first.Set("Setting", 3)

	root.Reset()
	if MustGet[*Store](root, "Outer") != mid || MustGet[[]*Store](mid, "List")[0] != first {
		t.Fatal("Reset replaced nested stores")
	}
	if v := MustGet[int](first, "Setting"); v != 1 {
		t.Errorf("Setting = %d after Reset", v)
	}
	var keys []string
	root.OnChanged(func(e *ChangeEvent) { keys = append(keys, e.Key) })
	first.Set("Setting", 2)
	if diff := cmp.Diff([]string{"Outer.List[0].Setting"}, keys); diff != "" {
		t.Errorf("events after Reset (-want +got):\n%s", diff)
	}
}
