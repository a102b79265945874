// Package page models a snapshot of a rendered product page. The widget
// engine reads prices, quantity constraints and option state from it the same
// way the browser script reads the live DOM: missing elements are absent
// signals, never errors.
package page

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Document is a parsed page snapshot plus a mutable form-state overlay.
// Values written through SetFieldValue or SetChecked shadow whatever the
// markup declared, mirroring user edits on the live page.
type Document struct {
	root    *html.Node
	fields  map[string]string
	checked map[string]bool
}

// Parse reads an HTML document. Parsing is forgiving: x/net/html never fails
// on malformed markup short of a read error.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Document{
		root:    root,
		fields:  map[string]string{},
		checked: map[string]bool{},
	}, nil
}

// MustParse parses markup from a string. Intended for tests and fixtures.
func MustParse(markup string) *Document {
	doc, err := Parse(strings.NewReader(markup))
	if err != nil {
		panic(err)
	}
	return doc
}

// Node wraps an element found in the document.
type Node struct {
	doc *Document
	n   *html.Node
}

// Find returns the first element matching the selector, or nil.
func (d *Document) Find(sel string) *Node {
	if d == nil || d.root == nil {
		return nil
	}
	parsed := parseSelector(sel)
	var hit *html.Node
	walk(d.root, func(n *html.Node) bool {
		if parsed.matchesChain(n) {
			hit = n
			return false
		}
		return true
	})
	if hit == nil {
		return nil
	}
	return &Node{doc: d, n: hit}
}

// FindAll returns every element matching the selector in document order.
func (d *Document) FindAll(sel string) []*Node {
	if d == nil || d.root == nil {
		return nil
	}
	parsed := parseSelector(sel)
	var out []*Node
	walk(d.root, func(n *html.Node) bool {
		if parsed.matchesChain(n) {
			out = append(out, &Node{doc: d, n: n})
		}
		return true
	})
	return out
}

// Text returns the trimmed text content of the first match, or "".
func (d *Document) Text(sel string) string {
	if n := d.Find(sel); n != nil {
		return n.Text()
	}
	return ""
}

// FirstText scans a prioritized selector list and returns the first
// non-empty text content found.
func (d *Document) FirstText(selectors ...string) string {
	for _, sel := range selectors {
		if txt := d.Text(sel); txt != "" {
			return txt
		}
	}
	return ""
}

// FieldValue returns the current value of the named form field. The overlay
// wins over the parsed value attribute.
func (d *Document) FieldValue(name string) string {
	if d == nil {
		return ""
	}
	if v, ok := d.fields[name]; ok {
		return v
	}
	if n := d.Find(`input[name=` + name + `]`); n != nil {
		return n.Attr("value")
	}
	if n := d.Find(`select[name=` + name + `]`); n != nil {
		return selectedOption(n.n)
	}
	return ""
}

// SetFieldValue records a user edit to the named field.
func (d *Document) SetFieldValue(name, value string) {
	if d == nil {
		return
	}
	d.fields[name] = value
}

// HasField reports whether an input with the given name exists in the markup.
func (d *Document) HasField(name string) bool {
	return d.Find(`input[name=`+name+`]`) != nil
}

// SetChecked records the checked state of the named checkbox or radio input.
func (d *Document) SetChecked(name string, on bool) {
	if d == nil {
		return
	}
	d.checked[name] = on
}

// IsChecked reports the effective checked state of the element, overlay first.
func (d *Document) IsChecked(n *Node) bool {
	if n == nil {
		return false
	}
	if name := n.Attr("name"); name != "" {
		if v, ok := d.checked[name]; ok {
			return v
		}
	}
	_, ok := lookupAttr(n.n, "checked")
	return ok
}

// CheckedAll returns the matching elements that are currently checked.
func (d *Document) CheckedAll(sel string) []*Node {
	var out []*Node
	for _, n := range d.FindAll(sel) {
		if d.IsChecked(n) {
			out = append(out, n)
		}
	}
	return out
}

// Attr returns the attribute value or "".
func (n *Node) Attr(name string) string {
	if n == nil {
		return ""
	}
	return attrValue(n.n, name)
}

// Text returns the node's trimmed, whitespace-collapsed text content.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	walk(n.n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tag returns the element name.
func (n *Node) Tag() string {
	if n == nil {
		return ""
	}
	return n.n.Data
}

func selectedOption(sel *html.Node) string {
	var first, chosen *html.Node
	walk(sel, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "option" {
			if first == nil {
				first = n
			}
			if _, ok := lookupAttr(n, "selected"); ok && chosen == nil {
				chosen = n
			}
		}
		return true
	})
	pick := chosen
	if pick == nil {
		pick = first
	}
	if pick == nil {
		return ""
	}
	if v, ok := lookupAttr(pick, "value"); ok {
		return v
	}
	return (&Node{n: pick}).Text()
}

// walk visits nodes depth-first until fn returns false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}
