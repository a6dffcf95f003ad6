// Package markup provides the document surface the display controller
// renders onto: a parsed HTML tree with class-based queries and a
// mutable inline-style surface per element.
//
// All queries degrade gracefully. Looking up a class or id with no
// matching element yields an empty result, and style mutations through
// a nil element are no-ops, so partial or malformed report markup
// never aborts a render pass.
package markup

import (
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Renderable is a node that exposes a mutable visual-style surface.
// Renderers require this capability instead of probing nodes for
// style-like attributes.
type Renderable interface {
	// SetStyle sets one inline style property, replacing any
	// previous value for the same property.
	SetStyle(property, value string)

	// StyleValue returns the inline value of a style property, or
	// "" when the property is not set.
	StyleValue(property string) string
}

// Document is a parsed annotated report.
type Document struct {
	root *html.Node

	// sheet maps class name -> background color, populated from any
	// stylesheets attached with AddStylesheet. Used to resolve colors
	// for elements styled by class rather than inline.
	sheet map[string]string
}

// Parse reads an HTML document from r. Background-color rules from the
// document's own <style> elements are recorded, so class-colored
// legend elements resolve without inline styles.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	d := &Document{root: root, sheet: make(map[string]string)}
	d.walk(func(n *html.Node) {
		if n.Data == "style" {
			d.AddStylesheet((&Element{n: n, doc: d}).Text())
		}
	})
	return d, nil
}

// ParseString parses an HTML document held in a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Render serializes the document, including any style mutations made
// since parsing.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// Element wraps a single element node. A nil *Element is a valid
// receiver for all methods and behaves as an absent node.
type Element struct {
	n   *html.Node
	doc *Document
}

// walk visits every element node in document order.
func (d *Document) walk(visit func(*html.Node)) {
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		if n.Type == html.ElementNode {
			visit(n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	rec(d.root)
}

// ElementsWithClass returns every element carrying the given class.
func (d *Document) ElementsWithClass(name string) []*Element {
	var out []*Element
	d.walk(func(n *html.Node) {
		if hasClass(n, name) {
			out = append(out, &Element{n: n, doc: d})
		}
	})
	return out
}

// FirstWithClass returns the first element carrying the given class,
// or nil when no element does.
func (d *Document) FirstWithClass(name string) *Element {
	var found *html.Node
	d.walk(func(n *html.Node) {
		if found == nil && hasClass(n, name) {
			found = n
		}
	})
	if found == nil {
		return nil
	}
	return &Element{n: found, doc: d}
}

// ElementByID returns the element with the given id attribute, or nil.
func (d *Document) ElementByID(id string) *Element {
	var found *html.Node
	d.walk(func(n *html.Node) {
		if found == nil && attr(n, "id") == id {
			found = n
		}
	})
	if found == nil {
		return nil
	}
	return &Element{n: found, doc: d}
}

// ClassesWithSuffix returns the distinct class labels across the whole
// document that end in the given suffix, sorted for determinism.
func (d *Document) ClassesWithSuffix(suffix string) []string {
	seen := make(map[string]bool)
	d.walk(func(n *html.Node) {
		for _, c := range classList(n) {
			if strings.HasSuffix(c, suffix) {
				seen[c] = true
			}
		}
	})
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// AddStylesheet parses CSS text and records every background-color
// declaration by class name. Only simple class selectors are kept;
// anything else in the sheet is ignored.
func (d *Document) AddStylesheet(css string) {
	for class, color := range parseBackgroundRules(css) {
		d.sheet[class] = color
	}
}

// ResolvedBackground returns the background color in effect for an
// element: its inline background-color if set, otherwise the first of
// its classes with a stylesheet background rule. Returns "" when
// neither applies, or when e is absent.
func (d *Document) ResolvedBackground(e *Element) string {
	if e == nil || e.n == nil {
		return ""
	}
	if v := e.StyleValue("background-color"); v != "" {
		return v
	}
	for _, c := range classList(e.n) {
		if v, ok := d.sheet[c]; ok {
			return v
		}
	}
	return ""
}

// Classes returns the element's class list, or nil for an absent
// element.
func (e *Element) Classes() []string {
	if e == nil || e.n == nil {
		return nil
	}
	return classList(e.n)
}

// HasClass reports whether the element carries the given class.
func (e *Element) HasClass(name string) bool {
	if e == nil || e.n == nil {
		return false
	}
	return hasClass(e.n, name)
}

// ID returns the element's id attribute, or "".
func (e *Element) ID() string {
	if e == nil || e.n == nil {
		return ""
	}
	return attr(e.n, "id")
}

// Text returns the concatenated text content of the element.
func (e *Element) Text() string {
	if e == nil || e.n == nil {
		return ""
	}
	var sb strings.Builder
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	rec(e.n)
	return sb.String()
}

// VisibleText returns the concatenated text content of the element,
// skipping any descendant element whose inline display is none.
func (e *Element) VisibleText() string {
	if e == nil || e.n == nil {
		return ""
	}
	var sb strings.Builder
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && styleValueOf(c, "display") == "none" {
				continue
			}
			rec(c)
		}
	}
	rec(e.n)
	return sb.String()
}

// SetStyle sets one inline style property on the element, replacing
// any previous value for that property. No-op for an absent element.
func (e *Element) SetStyle(property, value string) {
	if e == nil || e.n == nil {
		return
	}
	props := parseStyleAttr(attr(e.n, "style"))
	replaced := false
	for i := range props {
		if props[i].name == property {
			props[i].value = value
			replaced = true
		}
	}
	if !replaced {
		props = append(props, styleProp{name: property, value: value})
	}
	setAttr(e.n, "style", renderStyleAttr(props))
}

// StyleValue returns the inline value of a style property, or "".
func (e *Element) StyleValue(property string) string {
	if e == nil || e.n == nil {
		return ""
	}
	return styleValueOf(e.n, property)
}

func styleValueOf(n *html.Node, property string) string {
	for _, p := range parseStyleAttr(attr(n, "style")) {
		if p.name == property {
			return p.value
		}
	}
	return ""
}

// ---------------------------------------------------------------------------
// attribute and style helpers
// ---------------------------------------------------------------------------

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func classList(n *html.Node) []string {
	return strings.Fields(attr(n, "class"))
}

func hasClass(n *html.Node, name string) bool {
	for _, c := range classList(n) {
		if c == name {
			return true
		}
	}
	return false
}

// styleProp is one "name: value" pair in a style attribute. Order is
// preserved across mutations so repeated renders are byte-identical.
type styleProp struct {
	name  string
	value string
}

func parseStyleAttr(s string) []styleProp {
	var props []styleProp
	for _, decl := range strings.Split(s, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}
		props = append(props, styleProp{name: name, value: value})
	}
	return props
}

func renderStyleAttr(props []styleProp) string {
	parts := make([]string, 0, len(props))
	for _, p := range props {
		parts = append(parts, p.name+": "+p.value)
	}
	return strings.Join(parts, "; ")
}

// parseBackgroundRules extracts class -> background-color pairs from
// CSS text. Handles grouped selectors (".a, .b { ... }").
func parseBackgroundRules(css string) map[string]string {
	rules := make(map[string]string)
	rest := css
	for {
		open := strings.Index(rest, "{")
		if open < 0 {
			break
		}
		selectors := rest[:open]
		rest = rest[open+1:]
		closing := strings.Index(rest, "}")
		if closing < 0 {
			break
		}
		body := rest[:closing]
		rest = rest[closing+1:]

		color := ""
		for _, p := range parseStyleAttr(body) {
			if p.name == "background-color" {
				color = p.value
			}
		}
		if color == "" {
			continue
		}
		for _, sel := range strings.Split(selectors, ",") {
			sel = strings.TrimSpace(sel)
			if name, ok := strings.CutPrefix(sel, "."); ok && !strings.ContainsAny(name, " .:>#[") {
				rules[name] = color
			}
		}
	}
	return rules
}
