package main

import (
	"bytes"
	"fmt"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
	"github.com/signadot/tony-format/go-settings/format"
	"github.com/signadot/tony-format/go-settings/libdiff"
	"github.com/signadot/tony-format/go-settings/node"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	a, af, err := readTree(cfg.MainConfig, cc, args[0])
	if err != nil {
		return err
	}
	b, _, err := readTree(cfg.MainConfig, cc, args[1])
	if err != nil {
		return err
	}
	var differs bool
	if cfg.Text {
		differs, err = textDiff(cfg, cc, a, b, af)
	} else {
		differs, err = treeDiff(cfg, cc, a, b)
	}
	if err != nil {
		return err
	}
	if differs {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func treeDiff(cfg *DiffConfig, cc *cli.Context, a, b *node.Node) (bool, error) {
	changes := libdiff.Diff(a, b)
	colored := cfg.useColor(cc.Out)
	for _, c := range changes {
		line := c.String()
		if colored {
			switch c.Kind {
			case libdiff.Added:
				line = color.GreenString(line)
			case libdiff.Removed:
				line = color.RedString(line)
			default:
				line = color.YellowString(line)
			}
		}
		if _, err := fmt.Fprintln(cc.Out, line); err != nil {
			return false, err
		}
	}
	return len(changes) != 0, nil
}

func textDiff(cfg *DiffConfig, cc *cli.Context, a, b *node.Node, f format.Format) (bool, error) {
	encode := func(n *node.Node) (string, error) {
		buf := bytes.NewBuffer(nil)
		err := format.Encode(n, buf, format.EncodeFormat(cfg.outFormat(f)), format.EncodeHeader(false))
		return buf.String(), err
	}
	at, err := encode(a)
	if err != nil {
		return false, err
	}
	bt, err := encode(b)
	if err != nil {
		return false, err
	}
	if at == bt {
		return false, nil
	}
	_, err = fmt.Fprint(cc.Out, libdiff.TextDiff(at, bt))
	return true, err
}
