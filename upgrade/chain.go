package upgrade

import (
	"errors"
	"fmt"

	"github.com/signadot/tony-format/go-settings/node"
)

// ErrUnsupportedUpgrade is returned when no step leads away from a version.
var ErrUnsupportedUpgrade = errors.New("unsupported upgrade")

// Edit changes a settings tree in place.
type Edit func(root *node.Node) error

// Step upgrades a tree to version To.
type Step struct {
	To          string
	Description string
	Edits       []Edit
}

// Chain is a set of steps keyed by the version they upgrade from.
type Chain struct {
	steps map[string]Step
}

func NewChain() *Chain {
	return &Chain{steps: map[string]Step{}}
}

// Register adds the step upgrading from version from, replacing any
// previous one.
func (c *Chain) Register(from string, step Step) *Chain {
	c.steps[from] = step
	return c
}

// Len returns the number of registered steps.
func (c *Chain) Len() int {
	return len(c.steps)
}

// Apply upgrades root from version from until it reaches current.
func (c *Chain) Apply(root *node.Node, from, current string) error {
	seen := map[string]bool{}
	for v := from; v != current; {
		if seen[v] {
			return fmt.Errorf("%w: cycle at version %q", ErrUnsupportedUpgrade, v)
		}
		seen[v] = true
		step, ok := c.steps[v]
		if !ok {
			return fmt.Errorf("%w: from version %q to %q", ErrUnsupportedUpgrade, v, current)
		}
		for i, edit := range step.Edits {
			if err := edit(root); err != nil {
				return fmt.Errorf("upgrade %s -> %s, edit %d: %w", v, step.To, i, err)
			}
		}
		v = step.To
	}
	return nil
}
