package formcheck

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-formcheck/pkg/check"
	"github.com/goliatone/go-formcheck/pkg/derive"
	"github.com/goliatone/go-formcheck/pkg/document"
	"github.com/goliatone/go-formcheck/pkg/expect"
	pkgopenapi "github.com/goliatone/go-formcheck/pkg/openapi"
	"github.com/goliatone/go-formcheck/pkg/report"
)

// Checker wires a document loader to a validator so callers can go from a
// source to a report in one call.
type Checker struct {
	loader    document.Loader
	validator *check.Validator
}

// Option configures a Checker.
type Option func(*Checker)

// WithLoader swaps the document loader.
func WithLoader(loader document.Loader) Option {
	return func(c *Checker) {
		if loader != nil {
			c.loader = loader
		}
	}
}

// WithValidator swaps the validator, e.g. to attach a logger.
func WithValidator(validator *check.Validator) Option {
	return func(c *Checker) {
		if validator != nil {
			c.validator = validator
		}
	}
}

// NewChecker returns a Checker with a file-only loader and default validator.
func NewChecker(options ...Option) *Checker {
	c := &Checker{}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	if c.loader == nil {
		c.loader = NewLoader()
	}
	if c.validator == nil {
		c.validator = check.New()
	}
	return c
}

// Validate runs suite against an already parsed document.
func (c *Checker) Validate(ctx context.Context, doc *document.Document, suite expect.Suite) (report.Report, error) {
	return c.validator.Validate(ctx, doc, suite)
}

// Check loads src and validates it. Unmet expectations are part of the
// report; the error is reserved for load and suite problems.
func (c *Checker) Check(ctx context.Context, src document.Source, suite expect.Suite) (report.Report, error) {
	doc, err := c.loader.Load(ctx, src)
	if err != nil {
		return report.Report{}, err
	}
	return c.validator.Validate(ctx, doc, suite)
}

// CheckAll validates every source in order and stops at the first
// operational error.
func (c *Checker) CheckAll(ctx context.Context, sources []document.Source, suite expect.Suite) ([]report.Report, error) {
	if err := suite.Validate(); err != nil {
		return nil, err
	}
	reports := make([]report.Report, 0, len(sources))
	for _, src := range sources {
		rep, err := c.Check(ctx, src, suite)
		if err != nil {
			return reports, err
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

// Check is a one-shot helper that loads src and validates it with a Checker
// built from options.
func Check(ctx context.Context, src document.Source, suite expect.Suite, options ...Option) (report.Report, error) {
	return NewChecker(options...).Check(ctx, src, suite)
}

// DeriveSuite parses an OpenAPI document and derives a suite from the
// request body of operationID.
func DeriveSuite(ctx context.Context, doc pkgopenapi.Document, operationID string, options ...derive.Option) (expect.Suite, error) {
	if operationID == "" {
		return expect.Suite{}, errors.New("formcheck: operation id is required")
	}
	operations, err := NewParser().Operations(ctx, doc)
	if err != nil {
		return expect.Suite{}, err
	}
	op, ok := operations[operationID]
	if !ok {
		return expect.Suite{}, fmt.Errorf("formcheck: operation %q not found in %s", operationID, doc.Location())
	}
	return derive.FromOperation(op, options...), nil
}

// ReportTemplates exposes the built-in HTML report templates so callers can
// copy and customise them for report.WithTemplatesFS.
func ReportTemplates() fs.FS {
	return report.TemplatesFS()
}
