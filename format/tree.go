package format

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/signadot/tony-format/go-settings/node"
)

// treeNode is the YAML and JSON rendering of a node.
type treeNode struct {
	Name     string            `json:"name" yaml:"name"`
	Attrs    map[string]string `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Text     string            `json:"text,omitempty" yaml:"text,omitempty"`
	Children []*treeNode       `json:"children,omitempty" yaml:"children,omitempty"`
}

func toTree(n *node.Node) *treeNode {
	t := &treeNode{Name: n.Name, Text: n.Text}
	if len(n.Attrs) != 0 {
		t.Attrs = make(map[string]string, len(n.Attrs))
		for _, a := range n.Attrs {
			t.Attrs[a.Name] = a.Value
		}
	}
	for _, c := range n.Children {
		t.Children = append(t.Children, toTree(c))
	}
	return t
}

// fromTree rebuilds a node. Attributes come back in lexicographic order.
func fromTree(t *treeNode) (*node.Node, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: null node", ErrParse)
	}
	if t.Name == "" {
		return nil, fmt.Errorf("%w: node without a name", ErrParse)
	}
	n := node.NewText(t.Name, t.Text)
	for _, k := range slices.Sorted(maps.Keys(t.Attrs)) {
		n.SetAttr(k, t.Attrs[k])
	}
	for _, c := range t.Children {
		cn, err := fromTree(c)
		if err != nil {
			return nil, err
		}
		n.Append(cn)
	}
	return n, nil
}

func encodeJSON(root *node.Node, w io.Writer, es *encState) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if es.indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", es.indent))
	}
	return enc.Encode(toTree(root))
}

func parseJSON(r io.Reader) (*node.Node, error) {
	var t treeNode
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return fromTree(&t)
}

func encodeYAML(root *node.Node, w io.Writer, es *encState) error {
	indent := es.indent
	if indent <= 0 {
		indent = 2
	}
	d, err := yaml.MarshalWithOptions(toTree(root), yaml.Indent(indent))
	if err != nil {
		return err
	}
	_, err = w.Write(d)
	return err
}

func parseYAML(r io.Reader) (*node.Node, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var t treeNode
	if err := yaml.Unmarshal(d, &t); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return fromTree(&t)
}

// MarshalJSON renders n the way the JSON format does, without a trailing
// newline.
func MarshalJSON(n *node.Node) ([]byte, error) {
	return json.Marshal(toTree(n))
}

func UnmarshalJSON(d []byte) (*node.Node, error) {
	var t treeNode
	if err := json.Unmarshal(d, &t); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return fromTree(&t)
}
