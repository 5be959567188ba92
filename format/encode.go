package format

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/tony-format/go-settings/node"
)

type encState struct {
	format Format
	indent int
	header bool
	colors *Colors
}

func newEncState() *encState {
	return &encState{indent: 2, header: true}
}

// Encode writes root to w.
func Encode(root *node.Node, w io.Writer, opts ...EncodeOption) error {
	if root == nil {
		return fmt.Errorf("format: cannot encode nil node")
	}
	es := newEncState()
	for _, opt := range opts {
		opt(es)
	}
	switch es.format {
	case XMLFormat:
		return encodeXML(root, w, es)
	case YAMLFormat:
		return encodeYAML(root, w, es)
	case JSONFormat:
		return encodeJSON(root, w, es)
	default:
		return fmt.Errorf("%w: %d", ErrBadFormat, es.format)
	}
}

// Parse reads a single tree from r.
func Parse(r io.Reader, f Format) (*node.Node, error) {
	switch f {
	case XMLFormat:
		return parseXML(r)
	case YAMLFormat:
		return parseYAML(r)
	case JSONFormat:
		return parseJSON(r)
	default:
		return nil, fmt.Errorf("%w: %d", ErrBadFormat, f)
	}
}

func ParseBytes(d []byte, f Format) (*node.Node, error) {
	return Parse(bytes.NewReader(d), f)
}

// MustString encodes n as XML without a header, panicking on error.
func MustString(n *node.Node) string {
	buf := bytes.NewBuffer(nil)
	if err := Encode(n, buf, EncodeHeader(false)); err != nil {
		panic(err)
	}
	return strings.TrimSpace(buf.String())
}
