package upgrade

import (
	"fmt"
	"strings"

	"github.com/signadot/tony-format/go-settings/node"
)

// lookup finds the entry for path below root. It returns the node holding
// the entry and the entry's position, or a nil holder when the holder
// itself does not exist.
func lookup(root *node.Node, path string) (holder *node.Node, i int, err error) {
	segs, err := node.ParsePath(path)
	if err != nil {
		return nil, -1, err
	}
	last := segs[len(segs)-1]
	if last.IsIndex() {
		return nil, -1, fmt.Errorf("%w: %q does not end in a key", node.ErrBadPath, path)
	}
	holder = root
	if len(segs) > 1 {
		holder, err = root.Get(node.FormatPath(segs[:len(segs)-1]))
		if err != nil {
			return nil, -1, nil
		}
	}
	for j, c := range holder.Children {
		if k, ok := node.EntryKey(c); ok && k == last.Key {
			return holder, j, nil
		}
	}
	return holder, -1, nil
}

func lastKey(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// normalize rewrites a legacy entry in place into the attribute form.
func normalize(e *node.Node) *node.Node {
	if !node.IsLegacyEntry(e) {
		return e
	}
	k, _ := node.EntryKey(e)
	v := node.EntryValue(e).Clone()
	e.Children = nil
	e.Text = v.Text
	e.SetAttr(node.KeyAttr, k)
	for _, a := range v.Attrs {
		e.SetAttr(a.Name, a.Value)
	}
	e.Append(v.Children...)
	return e
}

func setText(e *node.Node, text string) {
	e.Text = text
	e.Children = nil
}

// Rename changes the key of the entry at path. A missing entry is left
// alone.
func Rename(path, newKey string) Edit {
	return func(root *node.Node) error {
		holder, i, err := lookup(root, path)
		if err != nil || i < 0 {
			return err
		}
		normalize(holder.Children[i]).SetAttr(node.KeyAttr, newKey)
		return nil
	}
}

// Remove deletes the entry at path, if present.
func Remove(path string) Edit {
	return func(root *node.Node) error {
		holder, i, err := lookup(root, path)
		if err != nil || i < 0 {
			return err
		}
		holder.RemoveChild(i)
		return nil
	}
}

// SetText replaces the value of the entry at path with text, creating the
// entry when missing.
func SetText(path, text string) Edit {
	return func(root *node.Node) error {
		holder, i, err := lookup(root, path)
		if err != nil {
			return err
		}
		if holder == nil {
			return fmt.Errorf("%w: parent of %s", node.ErrNotFound, path)
		}
		if i < 0 {
			holder.Append(node.NewEntry(lastKey(path)))
			i = len(holder.Children) - 1
		}
		setText(normalize(holder.Children[i]), text)
		return nil
	}
}

// SetDefault creates the entry at path with text unless it exists.
func SetDefault(path, text string) Edit {
	return func(root *node.Node) error {
		holder, i, err := lookup(root, path)
		if err != nil || i >= 0 {
			return err
		}
		if holder == nil {
			return fmt.Errorf("%w: parent of %s", node.ErrNotFound, path)
		}
		e := node.NewEntry(lastKey(path))
		e.Text = text
		holder.Append(e)
		return nil
	}
}

// Func applies fn to the entry at path when present. The entry is in the
// attribute form.
func Func(path string, fn func(entry *node.Node) error) Edit {
	return func(root *node.Node) error {
		holder, i, err := lookup(root, path)
		if err != nil || i < 0 {
			return err
		}
		return fn(normalize(holder.Children[i]))
	}
}
