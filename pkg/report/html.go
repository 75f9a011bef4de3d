package report

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	theme "github.com/goliatone/go-theme"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

const reportTemplate = "templates/report.html.tpl"

// TemplatesFS exposes the embedded report templates.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

// DefaultTheme returns the manifest used when no theme is configured. Token
// names become CSS custom properties prefixed with --fc-.
func DefaultTheme() *theme.Manifest {
	return &theme.Manifest{
		Name:    "formcheck",
		Version: "1.0.0",
		Tokens: map[string]string{
			"background": "#ffffff",
			"text":       "#1f2328",
			"muted":      "#656d76",
			"border":     "#d0d7de",
			"pass":       "#1a7f37",
			"fail":       "#cf222e",
		},
	}
}

// HTMLOption configures the HTML writer.
type HTMLOption func(*htmlConfig)

type htmlConfig struct {
	templates fs.FS
	manifest  *theme.Manifest
	verbose   bool
}

// WithTemplatesFS swaps the embedded templates for a custom bundle. The bundle
// must provide templates/report.html.tpl.
func WithTemplatesFS(files fs.FS) HTMLOption {
	return func(cfg *htmlConfig) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// WithTheme overlays manifest tokens on the default theme.
func WithTheme(manifest *theme.Manifest) HTMLOption {
	return func(cfg *htmlConfig) {
		cfg.manifest = manifest
	}
}

// WithPassingResults includes passing checks in the output table.
func WithPassingResults(enabled bool) HTMLOption {
	return func(cfg *htmlConfig) {
		cfg.verbose = enabled
	}
}

// HTMLWriter renders reports through pongo2 templates.
type HTMLWriter struct {
	mu       sync.RWMutex
	template *pongo2.Template
	tokens   []map[string]any
	theme    string
	verbose  bool
}

// NewHTMLWriter parses the report template and resolves theme tokens.
func NewHTMLWriter(options ...HTMLOption) (*HTMLWriter, error) {
	cfg := htmlConfig{templates: embeddedTemplates}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	set := pongo2.NewSet("formcheck-report", pongo2.NewFSLoader(cfg.templates))
	tpl, err := set.FromFile(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("report: parse html template: %w", err)
	}

	manifest := mergeTheme(DefaultTheme(), cfg.manifest)
	return &HTMLWriter{
		template: tpl,
		tokens:   themeTokens(manifest),
		theme:    manifest.Name,
		verbose:  cfg.verbose,
	}, nil
}

func (*HTMLWriter) Name() string {
	return "html"
}

func (*HTMLWriter) ContentType() string {
	return "text/html; charset=utf-8"
}

func (h *HTMLWriter) Write(w io.Writer, reports ...Report) error {
	return h.render(w, true, reports)
}

func (h *HTMLWriter) render(w io.Writer, standalone bool, reports []Report) error {
	if h == nil || h.template == nil {
		return fmt.Errorf("report: html template is nil")
	}
	ctx := pongo2.Context{
		"standalone": standalone,
		"theme":      h.theme,
		"tokens":     h.tokens,
		"reports":    h.viewReports(reports),
		"total":      summaryView(Merge(reports)),
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if err := h.template.ExecuteWriter(ctx, w); err != nil {
		return fmt.Errorf("report: execute html template: %w", err)
	}
	return nil
}

func (h *HTMLWriter) viewReports(reports []Report) []map[string]any {
	out := make([]map[string]any, 0, len(reports))
	for _, r := range reports {
		results := make([]map[string]any, 0, len(r.Results))
		for _, result := range r.Results {
			if result.Passed() && !h.verbose {
				continue
			}
			results = append(results, resultView(result))
		}
		out = append(out, map[string]any{
			"run_id":   r.RunID,
			"suite":    r.Suite,
			"document": r.Document,
			"started":  r.StartedAt.UTC().Format("2006-01-02 15:04:05 MST"),
			"duration": r.Duration.String(),
			"ok":       r.OK(),
			"summary":  summaryView(r.Summary),
			"results":  results,
		})
	}
	return out
}

func resultView(result Result) map[string]any {
	status := "pass"
	if !result.Passed() {
		status = "fail"
	}
	failures := make([]map[string]any, 0, len(result.Failures))
	for _, f := range result.Failures {
		failures = append(failures, map[string]any{
			"kind":    string(f.Kind),
			"message": f.Message,
			"snippet": sanitizeSnippet(f.Snippet),
		})
	}
	return map[string]any{
		"status":   status,
		"name":     result.Name(),
		"selector": result.Selector,
		"failures": failures,
	}
}

func summaryView(s Summary) map[string]any {
	return map[string]any{
		"checks":   s.Checks,
		"passed":   s.Passed,
		"failed":   s.Failed,
		"failures": s.Failures,
	}
}

func mergeTheme(base, overlay *theme.Manifest) *theme.Manifest {
	if overlay == nil {
		return base
	}
	merged := &theme.Manifest{
		Name:    base.Name,
		Version: base.Version,
		Tokens:  make(map[string]string, len(base.Tokens)+len(overlay.Tokens)),
	}
	if strings.TrimSpace(overlay.Name) != "" {
		merged.Name = overlay.Name
	}
	if strings.TrimSpace(overlay.Version) != "" {
		merged.Version = overlay.Version
	}
	for k, v := range base.Tokens {
		merged.Tokens[k] = v
	}
	for k, v := range overlay.Tokens {
		merged.Tokens[k] = v
	}
	return merged
}

func themeTokens(manifest *theme.Manifest) []map[string]any {
	names := make([]string, 0, len(manifest.Tokens))
	for name := range manifest.Tokens {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]map[string]any, 0, len(names))
	for _, name := range names {
		out = append(out, map[string]any{
			"name":  cssIdent(name),
			"value": manifest.Tokens[name],
		})
	}
	return out
}

func cssIdent(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}
