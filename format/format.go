package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Format selects the document syntax of a settings tree. XML is the
// canonical file format; YAML and JSON render the same tree.
type Format int

const (
	XMLFormat Format = iota
	YAMLFormat
	JSONFormat
)

var ErrBadFormat = errors.New("bad format")

type formatInfo struct {
	name  string
	short string
	exts  []string
}

// known is indexed by Format. The first extension is the one files are
// written with.
var known = [...]formatInfo{
	XMLFormat:  {name: "xml", short: "x", exts: []string{".xml"}},
	YAMLFormat: {name: "yaml", short: "y", exts: []string{".yaml", ".yml"}},
	JSONFormat: {name: "json", short: "j", exts: []string{".json"}},
}

func (f Format) info() (formatInfo, bool) {
	if f < 0 || int(f) >= len(known) {
		return formatInfo{}, false
	}
	return known[f], true
}

// ParseFormat accepts a format name, its one letter abbreviation, or an
// extension without the dot.
func ParseFormat(v string) (Format, error) {
	for i, fi := range known {
		if v == fi.name || v == fi.short || slices.Contains(fi.exts, "."+v) {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

// ForPath picks a format from the extension of path, defaulting to XML.
func ForPath(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	for i, fi := range known {
		if slices.Contains(fi.exts, ext) {
			return Format(i)
		}
	}
	return XMLFormat
}

func (f Format) String() string {
	fi, ok := f.info()
	if !ok {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return fi.name
}

func (f Format) MarshalText() ([]byte, error) {
	fi, ok := f.info()
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrBadFormat, int(f))
	}
	return []byte(fi.name), nil
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

func (f Format) IsXML() bool  { return f == XMLFormat }
func (f Format) IsYAML() bool { return f == YAMLFormat }
func (f Format) IsJSON() bool { return f == JSONFormat }

// Suffix is the extension, with its dot, of files written in f.
func (f Format) Suffix() string {
	fi, ok := f.info()
	if !ok {
		return ""
	}
	return fi.exts[0]
}

// AllFormats lists the formats, XML first.
func AllFormats() []Format {
	res := make([]Format, len(known))
	for i := range known {
		res[i] = Format(i)
	}
	return res
}
