package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/tony-format/go-settings/format"
	"github.com/signadot/tony-format/go-settings/node"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, a key path", cli.ErrUsage)
	}
	path := args[0]
	if _, err := node.ParsePath(path); err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return eachTree(cfg.MainConfig, cc, args[1:], func(_ string, root *node.Node, f format.Format) error {
		n, err := root.Get(path)
		if err != nil {
			return err
		}
		n = node.EntryValue(n)
		if cfg.Text {
			_, err := fmt.Fprintln(cc.Out, n.Text)
			return err
		}
		return format.Encode(n, cc.Out, cfg.encOpts(cc.Out, f)...)
	})
}
