// Package settings provides named, versioned, defaulting key/value stores
// persisted as node trees.
//
// # Schemas
//
// A Schema names a kind of store, declares its current version and its
// defaults, and upgrades trees written by older versions:
//
//	type Camera struct{}
//
//	func (Camera) Name() string    { return "CameraSettings" }
//	func (Camera) Version() string { return "2" }
//	func (Camera) Defaults(s *settings.Store) {
//	    s.Set("Name", "default")
//	    s.Set("Value", 4)
//	    s.Set("Pose", Pose{X: 1, Y: 2})
//	}
//	func (Camera) Upgrade(root *node.Node, from string) error {
//	    return chain.Apply(root, from, "2")
//	}
//
// The first Set of a key populates the schema and fires nothing. Later Sets
// of a different value fire a cancellable OnChanging notification, apply the
// value and fire OnChanged. Both bubble from the store to the root of a
// composition of stores, with dotted key paths such as "Outer.Inner.Setting"
// or "List[2].Setting".
//
// # Persistence
//
//	s, err := settings.LoadFile(Camera{}, path, settings.WithAutoSave(time.Second))
//
// A stored file looks like
//
//	<CameraSettings>
//	  <version>2</version>
//	  <entry key="Name">default</entry>
//	  <entry key="Pose"><X>1</X><Y>2</Y></entry>
//	  <entry key="Value">4</entry>
//	</CameraSettings>
//
// A missing file, or one without a version, is a first run: defaults are
// applied and saved. A stale version goes through Schema.Upgrade before any
// entry is decoded. Keys of the defaults missing from the file are filled
// in with copies of the default values.
//
// # Concurrency
//
// A Store has a single writer. The store guards its entries against its own
// autosave timer and file watcher, nothing more.
package settings
