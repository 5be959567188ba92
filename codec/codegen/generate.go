package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"text/template"
)

var genTemplate = template.Must(template.New("gen").Parse(`// Code generated by settings-codegen. DO NOT EDIT.

package {{.Name}}

import (
	"github.com/signadot/tony-format/go-settings/codec"
	"github.com/signadot/tony-format/go-settings/node"
)
{{range .Types}}
// EncodeNode encodes v as the children of n.
func (v *{{.Name}}) EncodeNode(r *codec.Registry, n *node.Node) error {
{{- range .Fields}}
{{- if .OmitEmpty}}
	if !codec.IsZero(v.{{.Selector}}) {
		if err := r.EncodeField(n, {{printf "%q" .Name}}, v.{{.Selector}}, {{.Polymorphic}}); err != nil {
			return err
		}
	}
{{- else}}
	if err := r.EncodeField(n, {{printf "%q" .Name}}, v.{{.Selector}}, {{.Polymorphic}}); err != nil {
		return err
	}
{{- end}}
{{- end}}
	return nil
}

// DecodeNode decodes the children of n into v.
func (v *{{.Name}}) DecodeNode(r *codec.Registry, n *node.Node) error {
{{- range .Fields}}
	if err := r.DecodeField(n, {{printf "%q" .Name}}, &v.{{.Selector}}); err != nil {
		return err
	}
{{- end}}
	return nil
}
{{end}}`))

// Generate returns the formatted source of the methods of pkg's types.
func Generate(pkg *PackageInfo) ([]byte, error) {
	var buf bytes.Buffer
	if err := genTemplate.Execute(&buf, pkg); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated code for %s: %w", pkg.Name, err)
	}
	return src, nil
}
