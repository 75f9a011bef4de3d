package document

import (
	"fmt"
	"net/url"
	"path/filepath"
)

// Source identifies where an HTML document originated so loaders can operate
// on files, fs.FS entries, URLs or inline markup without leaking details.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile   SourceKind = "file"
	SourceKindFS     SourceKind = "fs"
	SourceKindURL    SourceKind = "url"
	SourceKindInline SourceKind = "inline"
)

type fileSource struct {
	path string
}

func (s fileSource) Location() string {
	return s.path
}

func (s fileSource) Kind() SourceKind {
	return SourceKindFile
}

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Location() string {
	return s.name
}

func (s fsSource) Kind() SourceKind {
	return SourceKindFS
}

// SourceFromFS returns a Source identifying a resource inside an fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

type urlSource struct {
	raw string
}

func (s urlSource) Location() string {
	return s.raw
}

func (s urlSource) Kind() SourceKind {
	return SourceKindURL
}

// SourceFromURL parses the supplied URL string and returns a Source. It panics
// if the URL is invalid to surface configuration mistakes early.
func SourceFromURL(raw string) Source {
	if raw == "" {
		panic("document: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		panic(fmt.Sprintf("document: invalid URL %q: %v", raw, err))
	}
	return urlSource{raw: raw}
}

// InlineSource carries its markup with it. Loaders return the content
// directly instead of touching the filesystem or network.
type InlineSource struct {
	name    string
	content []byte
}

func (s InlineSource) Location() string {
	return s.name
}

func (s InlineSource) Kind() SourceKind {
	return SourceKindInline
}

// Content returns a copy of the inline markup.
func (s InlineSource) Content() []byte {
	return append([]byte(nil), s.content...)
}

// SourceFromString wraps inline markup. The name is used in reports.
func SourceFromString(name, markup string) Source {
	if name == "" {
		name = "inline"
	}
	return InlineSource{name: name, content: []byte(markup)}
}
