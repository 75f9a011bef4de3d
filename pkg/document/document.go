package document

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document wraps a parsed HTML tree and its origin. The tree is never mutated
// after Parse returns; validators only read from it.
type Document struct {
	source Source
	dom    *goquery.Document
}

// Parse builds a Document from raw markup.
func Parse(src Source, raw []byte) (*Document, error) {
	if src == nil {
		return nil, errors.New("document: source is required")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("document: %s is empty", src.Location())
	}

	root, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("document: parse %s: %w", src.Location(), err)
	}
	return &Document{source: src, dom: goquery.NewDocumentFromNode(root)}, nil
}

// MustParse panics if the document cannot be parsed. Useful for tests.
func MustParse(src Source, raw []byte) *Document {
	doc, err := Parse(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// ParseString is shorthand for parsing inline markup.
func ParseString(name, markup string) (*Document, error) {
	return Parse(SourceFromString(name, markup), []byte(markup))
}

// Source returns the origin metadata for the document.
func (d *Document) Source() Source {
	return d.source
}

// Location returns the string identifier for the origin.
func (d *Document) Location() string {
	if d == nil || d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Root returns the selection holding the document node.
func (d *Document) Root() *goquery.Selection {
	return d.dom.Selection
}

// Find runs a selector against the whole document.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.dom.Find(selector)
}
