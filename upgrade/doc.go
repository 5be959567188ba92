// Package upgrade provides stepwise upgrades of settings trees.
//
// A Chain maps each version a file may carry to the Step that brings it one
// version forward. Steps are lists of Edits applied in order to the root of
// the tree, whose children are keyed entries:
//
//	chain := upgrade.NewChain().
//	    Register("1", upgrade.Step{To: "2", Edits: []upgrade.Edit{
//	        upgrade.Rename("Colour", "Color"),
//	        upgrade.SetDefault("Zoom", "1"),
//	    }}).
//	    Register("2", upgrade.Step{To: "3", Edits: []upgrade.Edit{
//	        upgrade.Expr("Zoom", "float(value) * 100"),
//	    }})
//
//	err := chain.Apply(root, "1", "3")
//
// Keys are key paths (see node.ParsePath), so nested stores are reached as
// "Outer.Inner.Setting".
package upgrade
