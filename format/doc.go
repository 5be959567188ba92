// Package format reads and writes node trees as text.
//
// # Usage
//
//	root, err := format.Parse(r, format.XMLFormat)
//
//	err = format.Encode(root, w, format.EncodeFormat(format.YAMLFormat))
//
// XML is the primary on-disk form: node names become element names,
// attributes become attributes and text becomes character data. YAML and
// JSON carry the same tree as {name, attrs, text, children} objects.
//
// # Related Packages
//
//   - github.com/signadot/tony-format/go-settings/node - the tree itself
//   - github.com/signadot/tony-format/go-settings/settings - persisted stores
package format
