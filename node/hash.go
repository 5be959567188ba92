package node

import (
	"encoding/binary"
	"hash/maphash"
)

// seed is shared so hashes are comparable within one process.
var seed = maphash.MakeSeed()

// Hash returns a 64-bit hash of the node covering name, text, attributes
// and children. Hashes are only stable within one process.
// It panics if n is nil.
func (n *Node) Hash() uint64 {
	if n == nil {
		panic("node: Hash called on nil node")
	}
	var h maphash.Hash
	h.SetSeed(seed)
	h.WriteString(n.Name)
	h.WriteByte(0)
	h.WriteString(n.Text)
	h.WriteByte(0)
	for _, a := range n.Attrs {
		h.WriteString(a.Name)
		h.WriteByte('=')
		h.WriteString(a.Value)
		h.WriteByte(0)
	}
	var b [8]byte
	for _, c := range n.Children {
		binary.LittleEndian.PutUint64(b[:], c.Hash())
		h.Write(b[:])
	}
	return h.Sum64()
}
