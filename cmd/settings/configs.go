package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	"github.com/signadot/tony-format/go-settings/format"
)

type MainConfig struct {
	Color   bool `cli:"name=color desc='encode with color'"`
	Compact bool `cli:"name=compact desc='output without indentation'"`
	Verbose bool `cli:"name=v aliases=verbose desc='log what is done'"`

	X bool `cli:"name=x aliases=xml desc='do i/o in xml'"`
	J bool `cli:"name=j aliases=json desc='do i/o in json'"`
	Y bool `cli:"name=y aliases=yaml desc='do i/o in yaml'"`

	InFormat, OutFormat *format.Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

// flagFormat returns the format selected by -x, -j or -y.
func (cfg *MainConfig) flagFormat() (format.Format, bool) {
	switch {
	case cfg.X:
		return format.XMLFormat, true
	case cfg.Y:
		return format.YAMLFormat, true
	case cfg.J:
		return format.JSONFormat, true
	}
	return 0, false
}

// inFormat returns the format of the input at path.
func (cfg *MainConfig) inFormat(path string) format.Format {
	if cfg.InFormat != nil {
		return *cfg.InFormat
	}
	if f, ok := cfg.flagFormat(); ok {
		return f
	}
	if path == "" || path == "-" {
		return format.XMLFormat
	}
	return format.ForPath(path)
}

// outFormat returns the output format for an input of format in.
func (cfg *MainConfig) outFormat(in format.Format) format.Format {
	if cfg.OutFormat != nil {
		return *cfg.OutFormat
	}
	if f, ok := cfg.flagFormat(); ok {
		return f
	}
	return in
}

func (cfg *MainConfig) encOpts(w io.Writer, in format.Format) []format.EncodeOption {
	res := []format.EncodeOption{
		format.EncodeFormat(cfg.outFormat(in)),
	}
	if cfg.Compact {
		res = append(res, format.EncodeIndent(0))
	}
	if cfg.useColor(w) {
		res = append(res, format.EncodeColors(format.NewColors()))
	}
	return res
}

// useColor reports whether output to w is colored: when asked with
// -color, or by default when w is a terminal.
func (cfg *MainConfig) useColor(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		if opt.Value != nil {
			return false
		}
		break
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

type ViewConfig struct {
	*MainConfig

	View *cli.Command
}

type GetConfig struct {
	*MainConfig

	Text bool `cli:"name=text desc='print only the text of the value'"`
	Get  *cli.Command
}

type SetConfig struct {
	*MainConfig

	InPlace bool `cli:"name=i desc='rewrite the file in place'"`
	Set     *cli.Command
}

type DiffConfig struct {
	*MainConfig

	Text bool `cli:"name=text desc='show a text diff of the encoded documents'"`
	Diff *cli.Command
}

type EvalConfig struct {
	*MainConfig

	At   string `cli:"name=at desc='path of the node whose entries the expression sees'"`
	Eval *cli.Command
}

type PatchConfig struct {
	*MainConfig

	File    bool `cli:"name=f desc='the patch argument is a file'"`
	InPlace bool `cli:"name=i desc='rewrite the file in place'"`
	Patch   *cli.Command
}

type VersionConfig struct {
	*MainConfig

	Version *cli.Command
}
