package codegen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const src = `
package layout

type Base struct {
	ID string
}

//settings:codec
type Window struct {
	Base
	Title  string ` + "`settings:\"title\"`" + `
	Hidden bool   ` + "`settings:\",omitempty\"`" + `
	Width  int
	Temp   int ` + "`settings:\"-\"`" + `
	Extra  any
	cache  []byte
}

// Pane is not generated.
type Pane struct {
	Name string
}

//settings:codec
type (
	Grouped struct{ A int }
)
`

func check(t *testing.T, src string) ([]*ast.File, *types.Package) {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "layout.go", src, parser.ParseComments)
	if err != nil {
		t.Fatal(err)
	}
	conf := types.Config{}
	pkg, err := conf.Check("example.com/layout", fset, []*ast.File{f}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return []*ast.File{f}, pkg
}

func TestExtract(t *testing.T) {
	files, pkg := check(t, src)
	got, err := Extract(files, pkg)
	if err != nil {
		t.Fatal(err)
	}
	want := []*TypeInfo{
		{Name: "Window", Fields: []FieldInfo{
			{Name: "ID", Selector: "Base.ID"},
			{Name: "title", Selector: "Title"},
			{Name: "Hidden", Selector: "Hidden", OmitEmpty: true},
			{Name: "Width", Selector: "Width"},
			{Name: "Extra", Selector: "Extra", Polymorphic: true},
		}},
		{Name: "Grouped", Fields: []FieldInfo{
			{Name: "A", Selector: "A"},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Extract (-want +got):\n%s", diff)
	}
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "duplicate",
			src:  "package p\n//settings:codec\ntype T struct {\n\tA int `settings:\"x\"`\n\tB int `settings:\"x\"`\n}\n",
			want: "both map to",
		},
		{
			name: "not a struct",
			src:  "package p\n//settings:codec\ntype T int\n",
			want: "not a struct",
		},
		{
			name: "bad name",
			src:  "package p\n//settings:codec\ntype T struct {\n\tA int `settings:\"1a\"`\n}\n",
			want: "invalid element name",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, pkg := check(t, tt.src)
			_, err := Extract(files, pkg)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want an error containing %q", err, tt.want)
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	files, pkg := check(t, src)
	infos, err := Extract(files, pkg)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Generate(&PackageInfo{Name: "layout", Types: infos})
	if err != nil {
		t.Fatal(err)
	}
	code := string(out)
	for _, want := range []string{
		"// Code generated by settings-codegen. DO NOT EDIT.",
		"func (v *Window) EncodeNode(r *codec.Registry, n *node.Node) error {",
		`if err := r.EncodeField(n, "ID", v.Base.ID, false); err != nil {`,
		`if !codec.IsZero(v.Hidden) {`,
		`if err := r.EncodeField(n, "Extra", v.Extra, true); err != nil {`,
		`if err := r.DecodeField(n, "title", &v.Title); err != nil {`,
		"func (v *Grouped) DecodeNode(r *codec.Registry, n *node.Node) error {",
	} {
		if !strings.Contains(code, want) {
			t.Errorf("generated code lacks %q:\n%s", want, code)
		}
	}
	if strings.Contains(code, "Temp") || strings.Contains(code, "cache") {
		t.Errorf("generated code has skipped fields:\n%s", code)
	}
	if _, err := parser.ParseFile(token.NewFileSet(), "gen.go", out, 0); err != nil {
		t.Errorf("generated code does not parse: %v", err)
	}
}
