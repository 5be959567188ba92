package node

import (
	"testing"

	"pgregory.net/rapid"
)

func TestAttrs(t *testing.T) {
	n := New("entry")
	n.SetAttr(KeyAttr, "Name").SetAttr(TypeAttr, "string")
	n.SetAttr(KeyAttr, "Other")
	if len(n.Attrs) != 2 {
		t.Fatalf("got %d attrs, want 2", len(n.Attrs))
	}
	if n.Attrs[0].Name != KeyAttr || n.Attrs[0].Value != "Other" {
		t.Errorf("replacing an attribute moved it: %+v", n.Attrs)
	}
	if v, ok := n.Attr(TypeAttr); !ok || v != "string" {
		t.Errorf("Attr(type) = %q, %v", v, ok)
	}
	if !n.DelAttr(TypeAttr) || n.DelAttr(TypeAttr) {
		t.Errorf("DelAttr should succeed exactly once")
	}
	if _, ok := n.Attr(TypeAttr); ok {
		t.Errorf("type attribute still present")
	}
}

func TestAppendSetsParent(t *testing.T) {
	root := New("root")
	a, b := NewText("a", "1"), NewText("b", "2")
	root.Append(a, b)
	if a.Parent != root || b.Parent != root {
		t.Fatal("parent not set")
	}
	if b.Index() != 1 {
		t.Errorf("Index() = %d, want 1", b.Index())
	}
	c := NewText("c", "0")
	root.Insert(0, c)
	if root.Children[0] != c || a.Index() != 1 {
		t.Errorf("Insert misplaced child: %s", root)
	}
	got := root.RemoveChild(0)
	if got != c || c.Parent != nil || len(root.Children) != 2 {
		t.Errorf("RemoveChild: %s", root)
	}
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want bool
	}{
		{"nil", nil, true},
		{"bare", New("x"), true},
		{"attrs only", New("x").SetAttr(KeyAttr, "k"), true},
		{"text", NewText("x", "t"), false},
		{"children", New("x").Append(New("y")), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLegacyEntry(t *testing.T) {
	legacy := New(EntryName).Append(NewText("key", "Name"), NewText("value", "default"))
	legacy.SetAttr(TypeAttr, "string")
	if !IsLegacyEntry(legacy) {
		t.Fatal("legacy form not recognized")
	}
	k, ok := EntryKey(legacy)
	if !ok || k != "Name" {
		t.Errorf("EntryKey = %q, %v", k, ok)
	}
	v := EntryValue(legacy)
	if v.Text != "default" {
		t.Errorf("EntryValue text = %q", v.Text)
	}
	if tp, _ := v.Attr(TypeAttr); tp != "string" {
		t.Errorf("type attribute not carried to the value: %s", v)
	}
	if _, has := legacy.Child("value").Attr(TypeAttr); has {
		t.Errorf("EntryValue mutated the source tree")
	}

	modern := NewEntry("Name")
	modern.Text = "default"
	if IsLegacyEntry(modern) || EntryValue(modern) != modern {
		t.Errorf("attribute form treated as legacy")
	}
}

func TestClone(t *testing.T) {
	root := New("root").SetAttr("a", "b")
	root.Append(NewText("x", "1"), New("y").Append(NewText("z", "2")))
	c := root.Clone()
	if !Equal(root, c) {
		t.Fatalf("clone differs: %s vs %s", root, c)
	}
	c.Children[1].Children[0].Text = "3"
	c.Attrs[0].Value = "c"
	if root.Children[1].Children[0].Text != "2" || root.Attrs[0].Value != "b" {
		t.Errorf("clone aliases the original")
	}
	if c.Children[1].Parent != c {
		t.Errorf("clone children point at the wrong parent")
	}
}

func genNode(depth int) *rapid.Generator[*Node] {
	return rapid.Custom(func(t *rapid.T) *Node {
		n := New(rapid.StringMatching(`[a-z]{1,6}`).Draw(t, "name"))
		n.Text = rapid.String().Draw(t, "text")
		for i, k := range rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z]{1,4}`), 0, 3, rapid.ID[string]).Draw(t, "attrs") {
			n.SetAttr(k, rapid.String().Draw(t, "attr"+string(rune('0'+i))))
		}
		if depth > 0 {
			for _, c := range rapid.SliceOfN(genNode(depth-1), 0, 3).Draw(t, "children") {
				n.Append(c)
			}
		}
		return n
	})
}

func TestCloneProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := genNode(2).Draw(t, "node")
		c := n.Clone()
		if Compare(n, c) != 0 {
			t.Fatalf("Compare(n, clone) != 0")
		}
		if n.Hash() != c.Hash() {
			t.Fatalf("hash of clone differs")
		}
	})
}

func TestCompareOrder(t *testing.T) {
	a := NewText("a", "1")
	b := NewText("a", "2")
	if Compare(a, b) >= 0 || Compare(b, a) <= 0 {
		t.Errorf("text ordering wrong")
	}
	c := New("a").Append(New("x"))
	d := New("a").Append(New("x"), New("y"))
	if Compare(c, d) >= 0 {
		t.Errorf("shorter child list should sort first")
	}
	if Compare(nil, a) >= 0 || Compare(a, nil) <= 0 || Compare(nil, nil) != 0 {
		t.Errorf("nil ordering wrong")
	}
}
