package report

import (
	"fmt"
	"io"
	"strings"
)

// TextWriter prints one line per failure followed by a summary per document.
type TextWriter struct {
	// Verbose also lists passing checks.
	Verbose bool
}

func (TextWriter) Name() string {
	return "text"
}

func (TextWriter) ContentType() string {
	return "text/plain; charset=utf-8"
}

func (t TextWriter) Write(w io.Writer, reports ...Report) error {
	for i, r := range reports {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := t.writeOne(w, r); err != nil {
			return err
		}
	}
	if len(reports) > 1 {
		total := Merge(reports)
		if _, err := fmt.Fprintf(w, "\ntotal: %d documents, %s\n", len(reports), formatSummary(total)); err != nil {
			return err
		}
	}
	return nil
}

func (t TextWriter) writeOne(w io.Writer, r Report) error {
	if _, err := fmt.Fprintf(w, "%s (suite %s)\n", r.Document, r.Suite); err != nil {
		return err
	}
	for _, result := range r.Results {
		if result.Passed() {
			if t.Verbose {
				if _, err := fmt.Fprintf(w, "  PASS %s\n", result.Name()); err != nil {
					return err
				}
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "  FAIL %s\n", result.Name()); err != nil {
			return err
		}
		for _, failure := range result.Failures {
			if _, err := fmt.Fprintf(w, "       %s\n", FormatFailure(failure)); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "%s: %s\n", r.Document, formatSummary(r.Summary))
	return err
}

// FormatFailure renders a failure as a single line.
func FormatFailure(f Failure) string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(string(f.Kind))
	b.WriteString("] ")
	b.WriteString(f.Message)
	if f.Snippet != "" {
		b.WriteString(" at ")
		b.WriteString(f.Snippet)
	}
	return b.String()
}

func formatSummary(s Summary) string {
	return fmt.Sprintf("%d checks, %d passed, %d failed (%d failures)", s.Checks, s.Passed, s.Failed, s.Failures)
}
