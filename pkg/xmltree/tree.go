// Package xmltree parses XML into a generic attributed tree.
//
// Every element becomes either a string (text only, no attributes) or a
// Node. Attribute keys carry the AttrPrefix, element text lives under
// TextKey, a single child is stored as its value and repeated children as
// []any in document order. Element names are reduced to their local part;
// prefixed attribute names keep the prefix ("@_xsi:schemaLocation").
package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	AttrPrefix = "@_"
	TextKey    = "#text"
)

type Node = map[string]any

var bom = []byte("\xEF\xBB\xBF")

// Parse decodes a complete, well-formed document. The result has exactly one
// key: the local name of the root element.
func Parse(data []byte) (Node, error) {
	data = bytes.TrimPrefix(data, bom)

	d := xml.NewDecoder(bytes.NewReader(data))
	d.Strict = true
	d.CharsetReader = charsetReader

	return build(d)
}

// ElementText returns the content of the first element with the given local
// name inside a fragment of markup found in a text field, which is often
// HTML-ish and not well-formed. Text is kept in document order and nested
// tags are written back literally, so placeholders like <blank> survive.
func ElementText(fragment, name string) (string, bool, error) {
	d := xml.NewDecoder(strings.NewReader(fragment))
	d.Strict = false
	d.Entity = xml.HTMLEntity

	var (
		b     strings.Builder
		depth int
	)
	for {
		tok, err := d.RawToken()
		if errors.Is(err, io.EOF) {
			return b.String(), depth > 0, nil
		}
		if err != nil {
			return "", false, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == name {
				depth++
				if depth == 1 {
					continue
				}
			}
			if depth > 0 {
				b.WriteString("<" + qualified(t.Name) + ">")
			}
		case xml.EndElement:
			if depth == 0 {
				continue
			}
			if t.Name.Local == name {
				depth--
				if depth == 0 {
					return b.String(), true, nil
				}
			}
			b.WriteString("</" + qualified(t.Name) + ">")
		case xml.CharData:
			if depth > 0 {
				b.Write(t)
			}
		}
	}
}

type frame struct {
	name     xml.Name
	node     Node
	hasChild bool
	text     strings.Builder
}

func build(d *xml.Decoder) (Node, error) {
	var (
		stack []*frame
		root  Node
	)

	closeTop := func() {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		v := top.value()
		if len(stack) == 0 {
			if root == nil {
				root = Node{top.name.Local: v}
			}
			return
		}
		parent := stack[len(stack)-1]
		parent.hasChild = true
		appendChild(parent.node, top.name.Local, v)
	}

	for {
		tok, err := d.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 && root != nil {
				return nil, fmt.Errorf("multiple root elements: <%s> after <%s>", t.Name.Local, rootName(root))
			}
			f := &frame{name: t.Name, node: Node{}}
			for _, a := range t.Attr {
				f.node[AttrPrefix+attrName(a.Name)] = a.Value
			}
			stack = append(stack, f)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unexpected end element </%s>", t.Name.Local)
			}
			if top := stack[len(stack)-1]; top.name != t.Name {
				return nil, fmt.Errorf("element <%s> closed by </%s>", qualified(top.name), qualified(t.Name))
			}
			closeTop()

		case xml.CharData:
			if len(stack) == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, fmt.Errorf("text outside of root element")
				}
				continue
			}
			stack[len(stack)-1].text.Write(t)
		}
	}

	if len(stack) > 0 {
		return nil, fmt.Errorf("unexpected EOF: <%s> is not closed", qualified(stack[len(stack)-1].name))
	}
	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	return root, nil
}

// value collapses a closed element. Text of a leaf element is kept as is so
// reviewer text round trips byte for byte; text mixed with child elements is
// trimmed.
func (f *frame) value() any {
	text := f.text.String()
	if !f.hasChild && len(f.node) == 0 {
		return text
	}
	if f.hasChild {
		text = strings.TrimSpace(text)
	}
	if text != "" {
		f.node[TextKey] = text
	}
	return f.node
}

func appendChild(n Node, name string, v any) {
	existing, ok := n[name]
	if !ok {
		n[name] = v
		return
	}
	if list, ok := existing.([]any); ok {
		n[name] = append(list, v)
		return
	}
	n[name] = []any{existing, v}
}

func attrName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func qualified(n xml.Name) string {
	return attrName(n)
}

func rootName(n Node) string {
	for k := range n {
		return k
	}
	return ""
}

// charsetReader accepts the single-byte encodings older checklist tools
// still declare. UTF-8 never reaches here.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "us-ascii", "ascii":
		return input, nil
	case "iso-8859-1", "latin1", "latin-1":
		raw, err := io.ReadAll(input)
		if err != nil {
			return nil, err
		}
		var b strings.Builder
		for _, c := range raw {
			b.WriteRune(rune(c))
		}
		return strings.NewReader(b.String()), nil
	}
	return nil, fmt.Errorf("unsupported charset %q", charset)
}
