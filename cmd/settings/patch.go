package main

import (
	"fmt"
	"os"

	"github.com/scott-cotton/cli"
	"github.com/signadot/tony-format/go-settings/upgrade"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: patch requires 2 arguments, a JSON patch, and a file to which to apply it", cli.ErrUsage)
	}
	p := []byte(args[0])
	if cfg.File {
		p, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
	}
	file := args[1]
	root, f, err := readTree(cfg.MainConfig, cc, file)
	if err != nil {
		return err
	}
	res, err := upgrade.ApplyJSONPatch(root, p)
	if err != nil {
		return fmt.Errorf("error patching %s: %w", file, err)
	}
	return writeTree(cfg.MainConfig, cc, res, f, file, cfg.InPlace)
}
