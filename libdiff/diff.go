package libdiff

import (
	"fmt"
	"slices"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/signadot/tony-format/go-settings/node"
)

type Kind int

const (
	Added Kind = iota
	Removed
	Changed
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "+"
	case Removed:
		return "-"
	case Changed:
		return "~"
	}
	return "?"
}

// Change is one difference. From is nil for additions, To for removals.
type Change struct {
	Path string
	Kind Kind
	From *node.Node
	To   *node.Node
}

func (c Change) String() string {
	switch c.Kind {
	case Added:
		return fmt.Sprintf("+ %s: %s", c.Path, summary(c.To))
	case Removed:
		return fmt.Sprintf("- %s: %s", c.Path, summary(c.From))
	}
	return fmt.Sprintf("~ %s: %s -> %s", c.Path, summary(c.From), summary(c.To))
}

func summary(n *node.Node) string {
	if len(n.Children) == 0 {
		return fmt.Sprintf("%q", n.Text)
	}
	return fmt.Sprintf("{%d}", len(n.Children))
}

// DiffFunc compares two aligned nodes found at path.
type DiffFunc func(path string, from, to *node.Node) []Change

// Diff returns the changes turning from into to, in document order.
func Diff(from, to *node.Node) []Change {
	return diffNodes("", from, to)
}

func diffNodes(path string, from, to *node.Node) []Change {
	if !sameShape(from, to) {
		return []Change{{Path: path, Kind: Changed, From: from, To: to}}
	}
	if len(from.Children) == 0 {
		return nil
	}
	return DiffChildren(path, from, to, diffNodes)
}

// sameShape reports whether from and to can be compared child by child:
// equal text and equal non key attributes.
func sameShape(from, to *node.Node) bool {
	if from.Text != to.Text {
		return false
	}
	if (len(from.Children) == 0) != (len(to.Children) == 0) {
		return false
	}
	fa := slices.DeleteFunc(slices.Clone(from.Attrs), isKeyAttr)
	ta := slices.DeleteFunc(slices.Clone(to.Attrs), isKeyAttr)
	return slices.Equal(fa, ta)
}

func isKeyAttr(a node.Attr) bool { return a.Name == node.KeyAttr }

// DiffChildren aligns the children of from and to and calls df on each
// aligned pair.
func DiffChildren(path string, from, to *node.Node, df DiffFunc) []Change {
	labels := map[string]rune{}
	fromRunes := mapLabels(labels, from)
	toRunes := mapLabels(labels, to)
	dmp := diffpatch.New()
	diffs := dmp.DiffMainRunes(fromRunes, toRunes, false)
	var res []Change
	fi, ti := 0, 0
	for i := range diffs {
		d := &diffs[i]
		for range []rune(d.Text) {
			switch d.Type {
			case diffpatch.DiffDelete:
				f := from.Children[fi]
				res = append(res, Change{Path: childPath(path, from, fi), Kind: Removed, From: node.EntryValue(f)})
				fi++
			case diffpatch.DiffInsert:
				t := to.Children[ti]
				res = append(res, Change{Path: childPath(path, to, ti), Kind: Added, To: node.EntryValue(t)})
				ti++
			case diffpatch.DiffEqual:
				res = append(res, df(childPath(path, to, ti), node.EntryValue(from.Children[fi]), node.EntryValue(to.Children[ti]))...)
				fi++
				ti++
			}
		}
	}
	return res
}

func label(c *node.Node) string {
	if k, ok := node.EntryKey(c); ok {
		return "k:" + k
	}
	return "n:" + c.Name
}

func mapLabels(m map[string]rune, n *node.Node) []rune {
	rs := make([]rune, len(n.Children))
	for i, c := range n.Children {
		l := label(c)
		r, ok := m[l]
		if !ok {
			// private use area, away from surrogates
			r = rune(0xE000 + len(m))
			m[l] = r
		}
		rs[i] = r
	}
	return rs
}

// childPath names the i'th child of n: its key, its name when unique among
// its siblings, or its index.
func childPath(prefix string, n *node.Node, i int) string {
	c := n.Children[i]
	if k, ok := node.EntryKey(c); ok {
		return node.JoinPath(prefix, k)
	}
	if len(n.ChildrenNamed(c.Name)) == 1 {
		return node.JoinPath(prefix, c.Name)
	}
	return node.IndexPath(prefix, i)
}
