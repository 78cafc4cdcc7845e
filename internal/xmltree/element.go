// Package xmltree holds an immutable XML element tree together with the
// id-to-element reference index needed for href resolution.
package xmltree

import (
	"fmt"
	"strings"
)

// Attr is a single attribute. Attribute order is preserved from the source
// document.
type Attr struct {
	Name  string
	Value string
}

// Element is one node of the document tree. Elements are immutable after
// the document is loaded; children belong to their parent.
type Element struct {
	name     string
	attrs    []Attr
	children []*Element
	text     string
}

// Name returns the local element name, with any namespace prefix removed.
func (e *Element) Name() string { return e.name }

// Attrs returns the attributes in document order.
func (e *Element) Attrs() []Attr { return e.attrs }

// Attr returns the value of a named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Content returns the trimmed text content of the element. Elements with
// child elements have no content.
func (e *Element) Content() string {
	if len(e.children) > 0 {
		return ""
	}
	return strings.TrimSpace(e.text)
}

// HasContent reports whether the element carries non-empty text content.
func (e *Element) HasContent() bool {
	return e.Content() != ""
}

// Children returns all child elements in document order.
func (e *Element) Children() []*Element { return e.children }

// Find returns the first child with the given name, or nil.
func (e *Element) Find(name string) *Element {
	for _, c := range e.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// FindAll returns every child with the given name, in document order.
func (e *Element) FindAll(name string) []*Element {
	var out []*Element
	for _, c := range e.children {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

// HasChild reports whether a child with the given name exists.
func (e *Element) HasChild(name string) bool {
	return e.Find(name) != nil
}

// Child returns the single child with the given name, failing when the child
// is missing.
func (e *Element) Child(name string) (*Element, error) {
	c := e.Find(name)
	if c == nil {
		return nil, fmt.Errorf("missing required element '%s' in '%s'", name, e.name)
	}
	return c, nil
}

// ChildContent returns the text content of the single named child.
func (e *Element) ChildContent(name string) (string, error) {
	c, err := e.Child(name)
	if err != nil {
		return "", err
	}
	return c.Content(), nil
}

func (e *Element) String() string {
	return fmt.Sprintf("<%s attrs=%d children=%d>", e.name, len(e.attrs), len(e.children))
}
