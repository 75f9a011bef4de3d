package check

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formcheck/pkg/document"
	"github.com/goliatone/go-formcheck/pkg/expect"
	"github.com/goliatone/go-formcheck/pkg/report"
)

// Option configures a Validator.
type Option func(*Validator)

// WithLogger routes debug output to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithSnippets toggles the opening-tag snippets attached to failures.
func WithSnippets(enabled bool) Option {
	return func(v *Validator) {
		v.snippets = enabled
	}
}

// WithClock overrides the time source, used by tests for stable reports.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

// WithRunID overrides the run identifier generator.
func WithRunID(next func() string) Option {
	return func(v *Validator) {
		if next != nil {
			v.runID = next
		}
	}
}

// Validator runs suites against documents. It holds no per-run state and may
// be shared.
type Validator struct {
	logger   *slog.Logger
	snippets bool
	now      func() time.Time
	runID    func() string
}

// New constructs a Validator.
func New(options ...Option) *Validator {
	v := &Validator{
		logger:   slog.Default(),
		snippets: true,
		now:      time.Now,
		runID:    uuid.NewString,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(v)
	}
	return v
}

// Validate evaluates suite against doc. The returned error is reserved for an
// invalid suite or a cancelled context; unmet expectations are report entries.
func (v *Validator) Validate(ctx context.Context, doc *document.Document, suite expect.Suite) (report.Report, error) {
	if doc == nil {
		return report.Report{}, fmt.Errorf("check: document is nil")
	}
	if err := suite.Validate(); err != nil {
		return report.Report{}, err
	}

	started := v.now()
	run := &run{
		doc:      doc,
		snippets: v.snippets,
		patterns: make(map[string]*regexp.Regexp),
	}

	for _, group := range suite.Groups {
		if err := ctx.Err(); err != nil {
			return report.Report{}, err
		}
		run.group(group, nil, scopeState{sel: doc.Root()})
	}
	if err := ctx.Err(); err != nil {
		return report.Report{}, err
	}
	run.invariants(suite.Invariants)

	out := report.Report{
		RunID:     v.runID(),
		Suite:     suite.Name,
		Document:  doc.Location(),
		StartedAt: started,
		Duration:  v.now().Sub(started),
		Results:   run.results,
		Summary:   report.Summarize(run.results),
	}
	v.logger.Debug("validated document",
		slog.String("document", out.Document),
		slog.String("suite", out.Suite),
		slog.Int("checks", out.Summary.Checks),
		slog.Int("failed", out.Summary.Failed))
	return out, nil
}
