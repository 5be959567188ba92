package node

import (
	"strings"
)

const (
	// KeyAttr is the reserved attribute holding an entry key.
	KeyAttr = "key"
	// TypeAttr is the reserved attribute holding a concrete-type discriminant.
	TypeAttr = "type"
)

type Attr struct {
	Name  string
	Value string
}

type Node struct {
	Name     string
	Text     string
	Attrs    []Attr
	Children []*Node
	Parent   *Node
}

func New(name string) *Node {
	return &Node{Name: name}
}

func NewText(name, text string) *Node {
	return &Node{Name: name, Text: text}
}

// IsEmpty reports whether n carries neither text nor children. Attributes
// are not considered.
func (n *Node) IsEmpty() bool {
	return n == nil || (n.Text == "" && len(n.Children) == 0)
}

func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			return n.Attrs[i].Value, true
		}
	}
	return "", false
}

// SetAttr sets an attribute, replacing an existing value in place so that
// attribute order is stable.
func (n *Node) SetAttr(name, value string) *Node {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			return n
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
	return n
}

func (n *Node) DelAttr(name string) bool {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return true
		}
	}
	return false
}

// Append adds children to n and sets their parent.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		c.Parent = n
		n.Children = append(n.Children, c)
	}
	return n
}

// Insert places child at position i.
func (n *Node) Insert(i int, child *Node) *Node {
	child.Parent = n
	n.Children = append(n.Children, nil)
	copy(n.Children[i+1:], n.Children[i:])
	n.Children[i] = child
	return n
}

// RemoveChild removes and returns the child at position i.
func (n *Node) RemoveChild(i int) *Node {
	c := n.Children[i]
	n.Children = append(n.Children[:i], n.Children[i+1:]...)
	c.Parent = nil
	return c
}

// Child returns the first child with the given name, or nil.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (n *Node) ChildrenNamed(name string) []*Node {
	var res []*Node
	for _, c := range n.Children {
		if c.Name == name {
			res = append(res, c)
		}
	}
	return res
}

// Index returns the position of n among its parent's children, or -1.
func (n *Node) Index() int {
	if n.Parent == nil {
		return -1
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

func (n *Node) Clone() *Node {
	res := &Node{}
	return n.CloneTo(res)
}

// CloneTo deep copies n into dst. dst keeps the parent of n.
func (n *Node) CloneTo(dst *Node) *Node {
	dst.Name = n.Name
	dst.Text = n.Text
	dst.Parent = n.Parent
	dst.Attrs = nil
	if len(n.Attrs) != 0 {
		dst.Attrs = make([]Attr, len(n.Attrs))
		copy(dst.Attrs, n.Attrs)
	}
	dst.Children = nil
	if len(n.Children) != 0 {
		dst.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			dc := &Node{}
			c.CloneTo(dc)
			dc.Parent = dst
			dst.Children[i] = dc
		}
	}
	return dst
}

// String returns a compact single line rendering, for debugging.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	var b strings.Builder
	n.writeCompact(&b)
	return b.String()
}

func (n *Node) writeCompact(b *strings.Builder) {
	b.WriteString(n.Name)
	for _, a := range n.Attrs {
		b.WriteString(" @")
		b.WriteString(a.Name)
		b.WriteString("=")
		b.WriteString(a.Value)
	}
	if n.Text != "" {
		b.WriteString(" ")
		b.WriteString(strings.ReplaceAll(n.Text, "\n", `\n`))
	}
	if len(n.Children) == 0 {
		return
	}
	b.WriteString(" {")
	for i, c := range n.Children {
		if i != 0 {
			b.WriteString("; ")
		}
		c.writeCompact(b)
	}
	b.WriteString("}")
}
