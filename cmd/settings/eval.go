package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/tony-format/go-settings/format"
	"github.com/signadot/tony-format/go-settings/node"
	"github.com/signadot/tony-format/go-settings/upgrade"
)

func eval(cfg *EvalConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Eval.Parse(cc, args)
	if err != nil {
		cfg.Eval.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: eval requires an expression", cli.ErrUsage)
	}
	expression := args[0]
	return eachTree(cfg.MainConfig, cc, args[1:], func(_ string, root *node.Node, _ format.Format) error {
		holder := root
		if cfg.At != "" {
			holder, err = root.Get(cfg.At)
			if err != nil {
				return err
			}
			holder = node.EntryValue(holder)
		}
		res, err := upgrade.Eval(expression, upgrade.Env(holder))
		if err != nil {
			return fmt.Errorf("error evaluating %q: %w", expression, err)
		}
		_, err = fmt.Fprintln(cc.Out, res)
		return err
	})
}
