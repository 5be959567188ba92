package settings

import "github.com/signadot/tony-format/go-settings/libdiff"

// Diff returns the changes from the tree of a to the tree of b.
func Diff(a, b *Store) ([]libdiff.Change, error) {
	from, err := a.Node()
	if err != nil {
		return nil, err
	}
	to, err := b.Node()
	if err != nil {
		return nil, err
	}
	return libdiff.Diff(from, to), nil
}
