package upgrade

import (
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/signadot/tony-format/go-settings/format"
	"github.com/signadot/tony-format/go-settings/node"
)

// JSONPatch applies an RFC 6902 patch to the JSON rendering of the tree
// (see format.JSONFormat), replacing the tree's contents with the result.
func JSONPatch(patch string) Edit {
	return func(root *node.Node) error {
		res, err := ApplyJSONPatch(root, []byte(patch))
		if err != nil {
			return err
		}
		parent := root.Parent
		res.CloneTo(root)
		root.Parent = parent
		return nil
	}
}

// ApplyJSONPatch returns a patched copy of n.
func ApplyJSONPatch(n *node.Node, patch []byte) (*node.Node, error) {
	ops, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return nil, fmt.Errorf("json patch: %w", err)
	}
	d, err := format.MarshalJSON(n)
	if err != nil {
		return nil, err
	}
	out, err := ops.Apply(d)
	if err != nil {
		return nil, fmt.Errorf("json patch: %w", err)
	}
	return format.UnmarshalJSON(out)
}
