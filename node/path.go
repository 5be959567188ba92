package node

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is one step of a key path. Index is -1 for key segments.
type Segment struct {
	Key   string
	Index int
}

func (s Segment) IsIndex() bool { return s.Index >= 0 }

func (s Segment) String() string {
	if s.IsIndex() {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	return s.Key
}

// ParsePath parses a key path such as "Outer.Inner[1].Setting".
func ParsePath(p string) ([]Segment, error) {
	if p == "" {
		return nil, fmt.Errorf("%w: empty path", ErrBadPath)
	}
	var res []Segment
	for _, part := range strings.Split(p, ".") {
		key, idx := part, ""
		if i := strings.IndexByte(part, '['); i >= 0 {
			key, idx = part[:i], part[i:]
		}
		if key == "" && idx == "" {
			return nil, fmt.Errorf("%w: empty key in %q", ErrBadPath, p)
		}
		if key != "" {
			res = append(res, Segment{Key: key, Index: -1})
		}
		for idx != "" {
			end := strings.IndexByte(idx, ']')
			if idx[0] != '[' || end < 0 {
				return nil, fmt.Errorf("%w: malformed index %q in %q", ErrBadPath, idx, p)
			}
			i, err := strconv.Atoi(idx[1:end])
			if err != nil || i < 0 {
				return nil, fmt.Errorf("%w: bad index %q in %q", ErrBadPath, idx[1:end], p)
			}
			res = append(res, Segment{Index: i})
			idx = idx[end+1:]
		}
	}
	return res, nil
}

func FormatPath(segs []Segment) string {
	var b strings.Builder
	for i, s := range segs {
		if i != 0 && !s.IsIndex() {
			b.WriteByte('.')
		}
		b.WriteString(s.String())
	}
	return b.String()
}

// JoinPath appends key to prefix with a dot. Keys starting with an index
// are appended directly.
func JoinPath(prefix, key string) string {
	switch {
	case prefix == "":
		return key
	case key == "":
		return prefix
	case key[0] == '[':
		return prefix + key
	}
	return prefix + "." + key
}

func IndexPath(prefix string, i int) string {
	return prefix + "[" + strconv.Itoa(i) + "]"
}

// Get resolves a key path below n. Key segments match entry keys first and
// child element names second; index segments select children by position.
func (n *Node) Get(path string) (*Node, error) {
	segs, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	cur := n
	for i, seg := range segs {
		next := cur.step(seg)
		if next == nil {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, FormatPath(segs[:i+1]))
		}
		cur = next
	}
	return cur, nil
}

func (n *Node) step(seg Segment) *Node {
	if seg.IsIndex() {
		if seg.Index >= len(n.Children) {
			return nil
		}
		return EntryValue(n.Children[seg.Index])
	}
	for _, c := range n.Children {
		if k, ok := EntryKey(c); ok && k == seg.Key {
			return EntryValue(c)
		}
	}
	if c := n.Child(seg.Key); c != nil {
		return c
	}
	return nil
}

// Path returns the key path of n relative to the root of its tree.
func (n *Node) Path() string {
	var segs []Segment
	for cur := n; cur != nil && cur.Parent != nil; cur = cur.Parent {
		p := cur.Parent
		if cur.Name == legacyValue && IsLegacyEntry(p) {
			continue
		}
		if k, ok := EntryKey(cur); ok {
			segs = append(segs, Segment{Key: k, Index: -1})
			continue
		}
		if len(p.ChildrenNamed(cur.Name)) > 1 {
			segs = append(segs, Segment{Index: cur.Index()})
			continue
		}
		segs = append(segs, Segment{Key: cur.Name, Index: -1})
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return FormatPath(segs)
}
