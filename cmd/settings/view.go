package main

import (
	"github.com/scott-cotton/cli"
	"github.com/signadot/tony-format/go-settings/format"
	"github.com/signadot/tony-format/go-settings/node"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	return eachTree(cfg.MainConfig, cc, args, func(_ string, root *node.Node, f format.Format) error {
		return format.Encode(root, cc.Out, cfg.encOpts(cc.Out, f)...)
	})
}
