package node

import (
	"cmp"
	"strings"
)

// Compare returns an integer comparing two nodes.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
// Nodes are ordered by name, then text, then attributes, then children.
// Parent links are ignored.
func Compare(a, b *Node) int {
	if a == b {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	if c := strings.Compare(a.Text, b.Text); c != 0 {
		return c
	}
	if c := compareAttrs(a.Attrs, b.Attrs); c != 0 {
		return c
	}
	n := min(len(a.Children), len(b.Children))
	for i := 0; i < n; i++ {
		if c := Compare(a.Children[i], b.Children[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a.Children), len(b.Children))
}

func compareAttrs(a, b []Attr) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if c := strings.Compare(a[i].Name, b[i].Name); c != 0 {
			return c
		}
		if c := strings.Compare(a[i].Value, b[i].Value); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

func Equal(a, b *Node) bool {
	return Compare(a, b) == 0
}
