package node

const (
	// EntryName is the element name of one keyed entry.
	EntryName = "entry"

	legacyKey   = "key"
	legacyValue = "value"
)

// NewEntry returns an empty entry node keyed by key.
func NewEntry(key string) *Node {
	return New(EntryName).SetAttr(KeyAttr, key)
}

// EntryKey returns the key of an entry in either the attribute form or the
// legacy child element form.
func EntryKey(n *Node) (string, bool) {
	if k, ok := n.Attr(KeyAttr); ok {
		return k, true
	}
	if IsLegacyEntry(n) {
		return n.Child(legacyKey).Text, true
	}
	return "", false
}

// IsLegacyEntry reports whether n uses the legacy <key>/<value> child form.
func IsLegacyEntry(n *Node) bool {
	if n == nil {
		return false
	}
	if _, ok := n.Attr(KeyAttr); ok {
		return false
	}
	return n.Child(legacyKey) != nil && n.Child(legacyValue) != nil
}

// EntryValue returns the node carrying the value of an entry. For the
// attribute form that is the entry itself. For the legacy form it is the
// <value> child; a type attribute placed on the outer entry is carried
// over to a copy of that child.
func EntryValue(n *Node) *Node {
	if !IsLegacyEntry(n) {
		return n
	}
	v := n.Child(legacyValue)
	if t, ok := n.Attr(TypeAttr); ok {
		if _, has := v.Attr(TypeAttr); !has {
			v = v.Clone()
			v.SetAttr(TypeAttr, t)
		}
	}
	return v
}
