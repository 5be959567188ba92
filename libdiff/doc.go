// Package libdiff computes structural differences between node trees.
//
// # Usage
//
//	changes := libdiff.Diff(oldRoot, newRoot)
//	for _, c := range changes {
//	    fmt.Println(c)
//	}
//
// Children are aligned by identity, entries by key and other elements by
// name, using a rune diff over the identities so that insertions and
// removals in the middle of a sequence do not cascade. Aligned children are
// compared recursively. Leaf text changes can be rendered with TextDiff.
//
// # Related Packages
//
//   - github.com/signadot/tony-format/go-settings/node - the tree
package libdiff
