package upgrade

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/signadot/tony-format/go-settings/node"
)

// Env returns the evaluation environment of an expression over the entries
// held by holder: each entry's key maps to its text.
func Env(holder *node.Node) map[string]any {
	env := map[string]any{}
	for _, c := range holder.Children {
		k, ok := node.EntryKey(c)
		if !ok {
			continue
		}
		env[k] = node.EntryValue(c).Text
	}
	return env
}

// Expr replaces the text of the entry at path with the result of an
// expr-lang expression. The expression sees the sibling entries by key and
// the entry's own text as value. A nil result removes the entry; a missing
// entry is created with value "".
func Expr(path, expression string) Edit {
	return func(root *node.Node) error {
		holder, i, err := lookup(root, path)
		if err != nil {
			return err
		}
		if holder == nil {
			return fmt.Errorf("%w: parent of %s", node.ErrNotFound, path)
		}
		env := Env(holder)
		env["value"] = ""
		if i >= 0 {
			env["value"] = node.EntryValue(holder.Children[i]).Text
		}
		res, err := Eval(expression, env)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if res == nil {
			if i >= 0 {
				holder.RemoveChild(i)
			}
			return nil
		}
		if i < 0 {
			holder.Append(node.NewEntry(lastKey(path)))
			i = len(holder.Children) - 1
		}
		setText(normalize(holder.Children[i]), fmt.Sprint(res))
		return nil
	}
}

// Eval compiles and runs expression against env.
func Eval(expression string, env map[string]any) (any, error) {
	prg, err := expr.Compile(expression, expr.Env(env), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	return expr.Run(prg, env)
}
