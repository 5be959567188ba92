package codegen

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"
)

// DefaultOutput returns the name of the generated file of package name.
func DefaultOutput(name string) string {
	return name + "_settings_gen.go"
}

// Discover loads the packages of cfg.Dir and returns those with marked
// types.
func Discover(cfg *Config) ([]*PackageInfo, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	pattern := "."
	if cfg.Recursive {
		pattern = "./..."
	}
	pcfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo,
		Dir:  dir,
	}
	pkgs, err := packages.Load(pcfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("loading packages in %q: %w", dir, err)
	}
	var res []*PackageInfo
	for _, pkg := range pkgs {
		// type errors are tolerated: a stale generated file must not
		// prevent regenerating it
		for _, e := range pkg.Errors {
			if e.Kind != packages.TypeError {
				return nil, fmt.Errorf("loading %s: %w", pkg.PkgPath, e)
			}
		}
		if len(pkg.GoFiles) == 0 {
			continue
		}
		types, err := Extract(pkg.Syntax, pkg.Types)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pkg.PkgPath, err)
		}
		if len(types) == 0 {
			continue
		}
		res = append(res, &PackageInfo{
			Name:  pkg.Name,
			Path:  pkg.PkgPath,
			Dir:   filepath.Dir(pkg.GoFiles[0]),
			Types: types,
		})
	}
	return res, nil
}

func output(cfg *Config, name string) string {
	if cfg.Output != "" {
		return cfg.Output
	}
	return DefaultOutput(name)
}

// Run generates the methods of every package found by Discover and writes
// them next to the package sources. It returns the written files.
func Run(cfg *Config) ([]string, error) {
	pkgs, err := Discover(cfg)
	if err != nil {
		return nil, err
	}
	if len(pkgs) == 0 {
		return nil, errors.New("no types marked with " + strings.TrimPrefix(Directive, "//"))
	}
	var written []string
	for _, pkg := range pkgs {
		src, err := Generate(pkg)
		if err != nil {
			return written, err
		}
		path := filepath.Join(pkg.Dir, output(cfg, pkg.Name))
		if err := os.WriteFile(path, src, 0o644); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
