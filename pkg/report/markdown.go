package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
)

// MarkdownWriter converts the HTML report body to GitHub flavoured Markdown,
// which keeps one template as the source of truth for both formats.
type MarkdownWriter struct {
	html      *HTMLWriter
	converter *md.Converter
}

// NewMarkdownWriter wraps an HTML writer.
func NewMarkdownWriter(html *HTMLWriter) *MarkdownWriter {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return &MarkdownWriter{html: html, converter: converter}
}

func (*MarkdownWriter) Name() string {
	return "markdown"
}

func (*MarkdownWriter) ContentType() string {
	return "text/markdown; charset=utf-8"
}

func (m *MarkdownWriter) Write(w io.Writer, reports ...Report) error {
	var buf bytes.Buffer
	if err := m.html.render(&buf, false, reports); err != nil {
		return err
	}
	out, err := m.converter.ConvertString(buf.String())
	if err != nil {
		return fmt.Errorf("report: convert markdown: %w", err)
	}
	_, err = io.WriteString(w, strings.TrimSpace(out)+"\n")
	return err
}
