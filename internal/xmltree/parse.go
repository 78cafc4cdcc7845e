package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// ReferenceIndex maps identifier attribute values to the elements that
// declared them. Built once per document; read-only afterwards.
type ReferenceIndex map[string]*Element

// Lookup resolves an identifier to its element.
func (ix ReferenceIndex) Lookup(id string) (*Element, bool) {
	el, ok := ix[id]
	return el, ok
}

// Document is a fully loaded XML document plus its reference index.
type Document struct {
	Root *Element
	Refs ReferenceIndex
}

// Parse loads a whole XML document into an element tree and indexes every
// element carrying the given identifying attribute (usually "id").
// Namespace prefixes are dropped; FpML decoding is name-driven.
func Parse(data []byte, refAttr string) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var root *Element
	var stack []*Element

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{name: t.Name.Local}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				el.attrs = append(el.attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("malformed XML: multiple root elements")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				top.text += string(t)
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("malformed XML: no root element")
	}

	refs := make(ReferenceIndex)
	indexElements(root, refAttr, refs)
	return &Document{Root: root, Refs: refs}, nil
}

func indexElements(el *Element, refAttr string, refs ReferenceIndex) {
	if id, ok := el.Attr(refAttr); ok {
		refs[id] = el
	}
	for _, c := range el.children {
		indexElements(c, refAttr, refs)
	}
}
