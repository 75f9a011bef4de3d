package report

import (
	"strings"
	"time"
)

// Kind classifies why an expectation was not met.
type Kind string

const (
	// KindMissingElement indicates the selector matched nothing.
	KindMissingElement Kind = "missing-element"
	// KindMissingScope indicates the enclosing group scope could not be
	// resolved, so the check had nothing to search.
	KindMissingScope Kind = "missing-scope"
	// KindAttributeMissing indicates an expected attribute is absent.
	KindAttributeMissing Kind = "attribute-missing"
	// KindAttributeMismatch indicates an attribute exists with the wrong value
	// or exists when it should not.
	KindAttributeMismatch Kind = "attribute-mismatch"
	// KindTextMismatch indicates the text content did not match.
	KindTextMismatch Kind = "text-mismatch"
	// KindTagMismatch indicates the element has an unexpected tag name.
	KindTagMismatch Kind = "tag-mismatch"
	// KindCountMismatch indicates the number of matches is out of bounds.
	KindCountMismatch Kind = "count-mismatch"
	// KindValuesMissing indicates collected values lack an expected entry or
	// fall short of the minimum.
	KindValuesMissing Kind = "values-missing"
	// KindContainment indicates an element sits inside an excluded ancestor.
	KindContainment Kind = "containment"
	// KindDuplicate indicates a value that must be unique is reused.
	KindDuplicate Kind = "duplicate"
)

// Failure is one unmet expectation.
type Failure struct {
	Kind      Kind   `json:"kind"`
	Selector  string `json:"selector,omitempty"`
	Attribute string `json:"attribute,omitempty"`
	Expected  string `json:"expected,omitempty"`
	Actual    string `json:"actual,omitempty"`
	Message   string `json:"message"`
	Snippet   string `json:"snippet,omitempty"`
}

// Result is the outcome of one check or invariant.
type Result struct {
	Path     []string  `json:"path"`
	Selector string    `json:"selector,omitempty"`
	Failures []Failure `json:"failures,omitempty"`
}

// Name joins the result path for display.
func (r Result) Name() string {
	return strings.Join(r.Path, " > ")
}

// Passed reports whether the result has no failures.
func (r Result) Passed() bool {
	return len(r.Failures) == 0
}

// Summary aggregates counts across results.
type Summary struct {
	Checks   int `json:"checks"`
	Passed   int `json:"passed"`
	Failed   int `json:"failed"`
	Failures int `json:"failures"`
}

// Report is the outcome of validating one document against one suite.
type Report struct {
	RunID     string        `json:"run_id"`
	Suite     string        `json:"suite"`
	Document  string        `json:"document"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Results   []Result      `json:"results"`
	Summary   Summary       `json:"summary"`
}

// OK reports whether every check passed.
func (r Report) OK() bool {
	return r.Summary.Failed == 0
}

// Failed returns only the failing results, in order.
func (r Report) Failed() []Result {
	var out []Result
	for _, result := range r.Results {
		if !result.Passed() {
			out = append(out, result)
		}
	}
	return out
}

// Summarize recomputes the summary from the results.
func Summarize(results []Result) Summary {
	summary := Summary{Checks: len(results)}
	for _, result := range results {
		if result.Passed() {
			summary.Passed++
			continue
		}
		summary.Failed++
		summary.Failures += len(result.Failures)
	}
	return summary
}

// Merge combines summaries from several reports, used when one run covers
// multiple documents.
func Merge(reports []Report) Summary {
	var total Summary
	for _, r := range reports {
		total.Checks += r.Summary.Checks
		total.Passed += r.Summary.Passed
		total.Failed += r.Summary.Failed
		total.Failures += r.Summary.Failures
	}
	return total
}
