// Package formcheck validates the structure of HTML forms against
// declarative expectation suites.
//
// Quick start:
//
//	doc, _ := formcheck.NewLoader().Load(ctx, document.SourceFromFile("index.html"))
//	rep, _ := formcheck.NewChecker().Validate(ctx, doc, suites.MustLoad("registration"))
//	_ = report.TextWriter{}.Write(os.Stdout, rep)
package formcheck

import (
	internalLoader "github.com/goliatone/go-formcheck/internal/document/loader"
	internalParser "github.com/goliatone/go-formcheck/internal/openapi/parser"
	"github.com/goliatone/go-formcheck/pkg/document"
	pkgopenapi "github.com/goliatone/go-formcheck/pkg/openapi"
)

// NewLoader constructs a document loader using the internal implementation
// while keeping the concrete type hidden from consumers.
func NewLoader(options ...document.LoaderOption) document.Loader {
	cfg := document.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewParser constructs an OpenAPI parser backed by the internal
// implementation.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	cfg := pkgopenapi.NewParserOptions(options...)
	return internalParser.New(cfg)
}
