package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/scott-cotton/cli"
	"github.com/signadot/tony-format/go-settings/format"
	"github.com/signadot/tony-format/go-settings/node"
)

// readTree parses the file at path, or standard input for "-".
func readTree(cfg *MainConfig, cc *cli.Context, path string) (*node.Node, format.Format, error) {
	var r io.Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, 0, err
		}
		defer f.Close()
		r = f
	} else {
		r = cc.In
	}
	fmat := cfg.inFormat(path)
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("error reading %q: %w", path, err)
	}
	root, err := format.ParseBytes(d, fmat)
	if err != nil {
		return nil, 0, fmt.Errorf("error decoding %s: %w", path, err)
	}
	cfg.logf("read", "file", path, "format", fmat)
	return root, fmat, nil
}

// writeTree encodes root to the command output, or back to path when
// inPlace.
func writeTree(cfg *MainConfig, cc *cli.Context, root *node.Node, in format.Format, path string, inPlace bool) error {
	if !inPlace || path == "-" {
		return format.Encode(root, cc.Out, cfg.encOpts(cc.Out, in)...)
	}
	buf := bytes.NewBuffer(nil)
	if err := format.Encode(root, buf, format.EncodeFormat(cfg.outFormat(in))); err != nil {
		return err
	}
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	cfg.logf("wrote", "file", path)
	return nil
}

// eachTree calls fn with the tree of each file, or of standard input when
// there are none.
func eachTree(cfg *MainConfig, cc *cli.Context, files []string, fn func(path string, root *node.Node, f format.Format) error) error {
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, file := range files {
		root, f, err := readTree(cfg, cc, file)
		if err != nil {
			return err
		}
		if err := fn(file, root, f); err != nil {
			return fmt.Errorf("error processing %s: %w", file, err)
		}
	}
	return nil
}
