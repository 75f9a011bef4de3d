package document

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Attr returns the attribute of the first element in sel.
func Attr(sel *goquery.Selection, name string) (string, bool) {
	if sel == nil || sel.Length() == 0 {
		return "", false
	}
	return sel.First().Attr(name)
}

// HasAttr reports whether the first element in sel carries the attribute,
// regardless of its value. Boolean attributes such as required have an empty
// value.
func HasAttr(sel *goquery.Selection, name string) bool {
	_, ok := Attr(sel, name)
	return ok
}

// TagName returns the lowercase tag name of the first element in sel.
func TagName(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	return strings.ToLower(goquery.NodeName(sel.First()))
}

// Text returns the trimmed text content of the first element in sel.
func Text(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(sel.First().Text())
}

// Within reports whether the first element in sel has an ancestor, or is
// itself an element, matching selector.
func Within(sel *goquery.Selection, selector string) bool {
	if sel == nil || sel.Length() == 0 {
		return false
	}
	return sel.First().Closest(selector).Length() > 0
}

// Values collects attr from every element in sel, in document order. Elements
// without the attribute are skipped.
func Values(sel *goquery.Selection, attr string) []string {
	if sel == nil {
		return nil
	}
	var out []string
	sel.Each(func(_ int, item *goquery.Selection) {
		if value, ok := item.Attr(attr); ok {
			out = append(out, value)
		}
	})
	return out
}

// Snippet renders the opening tag of the first element in sel so reports can
// point at the offending markup without dumping its subtree.
func Snippet(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	node := sel.Get(0)
	if node.Type != html.ElementNode {
		return ""
	}
	shallow := &html.Node{
		Type:      node.Type,
		DataAtom:  node.DataAtom,
		Data:      node.Data,
		Namespace: node.Namespace,
		Attr:      append([]html.Attribute(nil), node.Attr...),
	}
	var b strings.Builder
	if err := html.Render(&b, shallow); err != nil {
		return ""
	}
	rendered := b.String()
	if idx := strings.Index(rendered, "</"); idx > 0 {
		rendered = rendered[:idx]
	}
	return rendered
}
