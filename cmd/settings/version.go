package main

import (
	"fmt"
	"strings"

	"github.com/scott-cotton/cli"
	"github.com/signadot/tony-format/go-settings/format"
	"github.com/signadot/tony-format/go-settings/node"
	"github.com/signadot/tony-format/go-settings/settings"
)

func version(cfg *VersionConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Version.Parse(cc, args)
	if err != nil {
		return err
	}
	return eachTree(cfg.MainConfig, cc, args, func(_ string, root *node.Node, _ format.Format) error {
		v := root.Child(settings.VersionName)
		if v == nil {
			return fmt.Errorf("%s has no version", root.Name)
		}
		_, err := fmt.Fprintf(cc.Out, "%s %s\n", root.Name, strings.TrimSpace(v.Text))
		return err
	})
}
