// Package node provides the tree representation exchanged between the
// settings codec and its textual formats.
//
// # Overview
//
// A Node is a minimal tree unit: a name, an optional text, an ordered set
// of attributes and an ordered list of children. Every value the codec
// handles, from a single integer to a nested settings store, is represented
// as a Node tree.
//
//	root := node.New("CameraSettings")
//	root.Append(node.NewText("version", "2"))
//	root.Append(node.NewText("entry", "default").SetAttr(node.KeyAttr, "Name"))
//
// # Reserved attributes
//
// Two attribute names are reserved:
//
//   - KeyAttr ("key") names the entry a node holds in a keyed collection.
//   - TypeAttr ("type") records the concrete type of a value stored in a
//     polymorphic slot.
//
// A legacy entry form nests the key and value as child elements instead:
//
//	<entry><key>Name</key><value>default</value></entry>
//
// EntryKey and EntryValue accept both forms. The legacy form is never
// produced.
//
// # Paths
//
// Key paths address values inside an entries tree with dots for keys and
// brackets for sequence positions, for example "Outer.Inner[1].Setting".
// See ParsePath, JoinPath and (*Node).Get.
//
// # Thread Safety
//
// Node structures are not thread-safe. Clone nodes before handing them to
// another goroutine.
package node
