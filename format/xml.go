package format

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/signadot/tony-format/go-settings/node"
)

func encodeXML(root *node.Node, w io.Writer, es *encState) error {
	var buf bytes.Buffer
	if es.header {
		buf.WriteString(xml.Header)
	}
	if err := writeXMLNode(&buf, root, 0, es); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

func writeXMLNode(b *bytes.Buffer, n *node.Node, depth int, es *encState) error {
	if !validName(n.Name) {
		return fmt.Errorf("%w: element %q at %s", ErrBadName, n.Name, n.Path())
	}
	c := es.colors
	writeIndent(b, depth, es)
	b.WriteString(c.Color(PunctColor, "<"))
	b.WriteString(c.Color(ElemColor, n.Name))
	for _, a := range n.Attrs {
		if !validName(a.Name) {
			return fmt.Errorf("%w: attribute %q of %q", ErrBadName, a.Name, n.Name)
		}
		b.WriteByte(' ')
		b.WriteString(c.Color(AttrNameColor, a.Name))
		b.WriteString(c.Color(PunctColor, `="`))
		b.WriteString(c.Color(AttrValueColor, escapeXML(a.Value)))
		b.WriteString(c.Color(PunctColor, `"`))
	}
	if n.IsEmpty() {
		b.WriteString(c.Color(PunctColor, "/>"))
		return nil
	}
	b.WriteString(c.Color(PunctColor, ">"))
	if n.Text != "" {
		b.WriteString(c.Color(TextColor, escapeXML(n.Text)))
	}
	if len(n.Children) != 0 {
		for _, child := range n.Children {
			writeNL(b, es)
			if err := writeXMLNode(b, child, depth+1, es); err != nil {
				return err
			}
		}
		writeNL(b, es)
		writeIndent(b, depth, es)
	}
	b.WriteString(c.Color(PunctColor, "</"))
	b.WriteString(c.Color(ElemColor, n.Name))
	b.WriteString(c.Color(PunctColor, ">"))
	return nil
}

func writeIndent(b *bytes.Buffer, depth int, es *encState) {
	if es.indent <= 0 {
		return
	}
	b.WriteString(strings.Repeat(" ", depth*es.indent))
}

func writeNL(b *bytes.Buffer, es *encState) {
	if es.indent > 0 {
		b.WriteByte('\n')
	}
}

func escapeXML(s string) string {
	var b strings.Builder
	// strings.Builder never fails
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return true
}

// ValidName reports whether s can be written as an element or attribute
// name.
func ValidName(s string) bool { return validName(s) }

func parseXML(r io.Reader) (*node.Node, error) {
	dec := xml.NewDecoder(r)
	var (
		root  *node.Node
		stack []*node.Node
		texts []*strings.Builder
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil && len(stack) == 0 {
				return nil, fmt.Errorf("%w: more than one root element", ErrParse)
			}
			n := node.New(t.Name.Local)
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				n.SetAttr(a.Name.Local, a.Value)
			}
			if len(stack) == 0 {
				root = n
			} else {
				stack[len(stack)-1].Append(n)
			}
			stack = append(stack, n)
			texts = append(texts, &strings.Builder{})
		case xml.CharData:
			if len(texts) != 0 {
				texts[len(texts)-1].Write(t)
			}
		case xml.EndElement:
			last := len(stack) - 1
			n := stack[last]
			text := texts[last].String()
			if len(n.Children) != 0 {
				// indentation between children is not content
				text = strings.TrimSpace(text)
			}
			n.Text = text
			stack, texts = stack[:last], texts[:last]
		}
	}
	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrParse)
	}
	return root, nil
}
