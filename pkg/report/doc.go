// Package report holds validation results and the writers that render them
// as text, JSON, HTML or Markdown.
package report
