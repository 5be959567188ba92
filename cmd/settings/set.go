package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/tony-format/go-settings/upgrade"
)

func set(cfg *SetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Set.Parse(cc, args)
	if err != nil {
		cfg.Set.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 3 {
		return fmt.Errorf("%w: set requires 3 arguments, a key path, a text and a file", cli.ErrUsage)
	}
	path, text, file := args[0], args[1], args[2]
	root, f, err := readTree(cfg.MainConfig, cc, file)
	if err != nil {
		return err
	}
	if err := upgrade.SetText(path, text)(root); err != nil {
		return fmt.Errorf("error setting %s: %w", path, err)
	}
	cfg.logf("set", "path", path, "text", text)
	return writeTree(cfg.MainConfig, cc, root, f, file, cfg.InPlace)
}
