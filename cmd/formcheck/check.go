package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formcheck"
	"github.com/goliatone/go-formcheck/pkg/check"
	"github.com/goliatone/go-formcheck/pkg/derive"
	"github.com/goliatone/go-formcheck/pkg/document"
	"github.com/goliatone/go-formcheck/pkg/expect"
	pkgopenapi "github.com/goliatone/go-formcheck/pkg/openapi"
	"github.com/goliatone/go-formcheck/pkg/report"
	"github.com/goliatone/go-formcheck/pkg/suites"
	"github.com/goliatone/go-formcheck/pkg/watch"
)

type checkFlags struct {
	suite      string
	openapi    string
	operation  string
	scope      string
	format     string
	output     string
	watch      bool
	allowHTTP  bool
	verbose    bool
	noSnippets bool
}

func checkCmd(a *app) *cobra.Command {
	var flags checkFlags
	cmd := &cobra.Command{
		Use:   "check [paths|globs|urls|-]...",
		Short: "Validate documents against a suite",
		Example: `  formcheck check index.html
  formcheck check 'site/**/*.html' --suite custom.yaml --format html --output report.html
  formcheck check form.html --openapi api.yaml --operation registerUser`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.applyCheckFlags(cmd, &flags)
			return a.runCheck(cmd.Context(), args, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.suite, "suite", "s", "", "Built-in suite name or suite YAML file (default from config: registration)")
	f.StringVar(&flags.openapi, "openapi", "", "Derive the suite from this OpenAPI document instead")
	f.StringVar(&flags.operation, "operation", "", "Operation id used with --openapi")
	f.StringVar(&flags.scope, "scope", "", "Selector of the form that derived checks are scoped to")
	f.StringVarP(&flags.format, "format", "f", "", "Report format (text, json, html, markdown)")
	f.StringVarP(&flags.output, "output", "o", "", "Write the report to a file instead of stdout")
	f.BoolVarP(&flags.watch, "watch", "w", false, "Re-run when local documents change")
	f.BoolVar(&flags.allowHTTP, "allow-http", false, "Allow loading documents from http(s) URLs")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "Also list passing checks")
	f.BoolVar(&flags.noSnippets, "no-snippets", false, "Omit element snippets from failures")
	return cmd
}

// applyCheckFlags lets explicitly set flags override the layered config.
func (a *app) applyCheckFlags(cmd *cobra.Command, flags *checkFlags) {
	f := cmd.Flags()
	if f.Changed("suite") {
		a.cfg.Suite = flags.suite
	}
	if f.Changed("format") {
		a.cfg.Format = flags.format
	}
	if f.Changed("output") {
		a.cfg.Output = flags.output
	}
	if f.Changed("allow-http") {
		a.cfg.HTTP.Allow = flags.allowHTTP
	}
	if f.Changed("no-snippets") {
		enabled := !flags.noSnippets
		a.cfg.Snippets = &enabled
	}
}

func (a *app) runCheck(ctx context.Context, args []string, flags checkFlags) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	suite, err := a.resolveSuite(ctx, flags)
	if err != nil {
		return err
	}
	writer, err := a.reportWriter(flags.verbose)
	if err != nil {
		return err
	}
	inputs, err := resolveInputs(args, a.stdin, a.cfg.HTTP.Allow)
	if err != nil {
		return err
	}

	loaderOptions := []document.LoaderOption{}
	if a.cfg.HTTP.Allow {
		loaderOptions = append(loaderOptions, document.WithHTTPFallback(a.cfg.HTTP.Timeout))
	}
	checker := formcheck.NewChecker(
		formcheck.WithLoader(formcheck.NewLoader(loaderOptions...)),
		formcheck.WithValidator(check.New(
			check.WithLogger(a.logger),
			check.WithSnippets(a.cfg.SnippetsEnabled()),
		)),
	)

	run := func(ctx context.Context) error {
		reports, err := checker.CheckAll(ctx, sources(inputs), suite)
		if err != nil {
			return err
		}
		if err := a.writeReports(writer, reports); err != nil {
			return err
		}
		if report.Merge(reports).Failed > 0 {
			return errChecksFailed
		}
		return nil
	}

	err = run(ctx)
	if !flags.watch {
		return err
	}
	if err != nil && !errors.Is(err, errChecksFailed) {
		return err
	}

	paths := watchablePaths(inputs)
	if len(paths) == 0 {
		return fmt.Errorf("--watch needs at least one local file")
	}
	a.logger.Info("watching for changes", slog.Int("files", len(paths)))
	watcher := watch.New(a.cfg.Watch, a.logger)
	return watcher.Run(ctx, paths, func(ctx context.Context, changed []string) error {
		a.logger.Info("re-running checks", slog.Any("changed", changed))
		if err := run(ctx); err != nil && !errors.Is(err, errChecksFailed) {
			return err
		}
		return nil
	})
}

func (a *app) resolveSuite(ctx context.Context, flags checkFlags) (expect.Suite, error) {
	if flags.openapi != "" {
		doc, err := pkgopenapi.LoadFile(flags.openapi)
		if err != nil {
			return expect.Suite{}, fmt.Errorf("load openapi: %w", err)
		}
		var options []derive.Option
		if flags.scope != "" {
			options = append(options, derive.WithScope(flags.scope))
		}
		return formcheck.DeriveSuite(ctx, doc, flags.operation, options...)
	}
	return loadSuite(a.cfg.Suite)
}

// loadSuite resolves a built-in suite name first and falls back to a file.
func loadSuite(name string) (expect.Suite, error) {
	if suites.Has(name) {
		return suites.Load(name)
	}
	if _, err := os.Stat(name); err != nil {
		return expect.Suite{}, fmt.Errorf("suite %q is neither built in nor a readable file", name)
	}
	return expect.LoadFile(name)
}

func (a *app) reportWriter(verbose bool) (report.Writer, error) {
	if a.cfg.Format == "text" {
		return report.TextWriter{Verbose: verbose}, nil
	}
	var options []report.HTMLOption
	if len(a.cfg.Report.Theme) > 0 {
		options = append(options, report.WithTheme(&theme.Manifest{Tokens: a.cfg.Report.Theme}))
	}
	options = append(options, report.WithPassingResults(verbose))
	registry, err := report.DefaultRegistry(options...)
	if err != nil {
		return nil, err
	}
	return registry.Get(a.cfg.Format)
}

func (a *app) writeReports(writer report.Writer, reports []report.Report) error {
	if a.cfg.Output == "" {
		return writer.Write(a.stdout, reports...)
	}
	file, err := os.Create(a.cfg.Output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := writer.Write(file, reports...); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	a.logger.Info("report written", slog.String("path", a.cfg.Output))
	return nil
}
