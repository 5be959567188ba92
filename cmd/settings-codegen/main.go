package main

import (
	"context"
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/tony-format/go-settings/codec/codegen"
)

func main() {
	cli.MainContext(context.Background(), MainCommand())
}

func MainCommand() *cli.Command {
	cfg := &Config{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "settings-codegen").
		WithSynopsis("settings-codegen [opts]").
		WithDescription("Generate EncodeNode/DecodeNode methods for types marked with " + codegen.Directive + ".").
		WithOpts(sOpts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return run(cfg, cc, args)
		})
}

type Config struct {
	Output    string `cli:"name=o desc='name of the generated file in each package (default: <package>_settings_gen.go)'"`
	Dir       string `cli:"name=dir desc='directory to scan for Go files (default: current directory)'"`
	Recursive bool   `cli:"name=recursive desc='scan subdirectories recursively'"`
	Verbose   bool   `cli:"name=v desc='print the generated files'"`

	Main *cli.Command
}

func run(cfg *Config, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: unexpected arguments %v", cli.ErrUsage, args)
	}
	written, err := codegen.Run(&codegen.Config{
		Dir:       cfg.Dir,
		Recursive: cfg.Recursive,
		Output:    cfg.Output,
	})
	if err != nil {
		return err
	}
	if cfg.Verbose {
		for _, w := range written {
			fmt.Fprintln(cc.Out, w)
		}
	}
	return nil
}
