package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formcheck/pkg/config"
	"github.com/goliatone/go-formcheck/pkg/prompt"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "formcheck"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitError  = 2
)

// errChecksFailed is returned when validation ran and at least one check
// failed. The report already tells the story, so main prints nothing more.
var errChecksFailed = errors.New("one or more checks failed")

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errChecksFailed):
		return exitFailed
	default:
		return exitError
	}
}

// app carries the streams and state shared by every command.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger

	// newDriver builds the prompt driver used by init.
	newDriver func() prompt.Driver
	// configOptions are passed to the config loader, used by tests to
	// isolate home and working directories.
	configOptions []config.LoaderOption
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:     stdin,
		stdout:    stdout,
		stderr:    stderr,
		logger:    slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
		newDriver: func() prompt.Driver { return prompt.NewSurvey() },
	}
}

func rootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Validate the structure of HTML forms",
		Long: `formcheck loads HTML documents and checks their form structure against
an expectation suite: fieldsets and legends, labels bound to controls with
accesskeys, tabindex on every control, optgroups, datalists and buttons.

Every unmet expectation is reported; the exit code is 0 when all checks pass,
1 when any check fails and 2 on usage, load or suite errors.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(checkCmd(a))
	cmd.AddCommand(suitesCmd(a))
	cmd.AddCommand(deriveCmd(a))
	cmd.AddCommand(initCmd(a))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})
	return cmd
}

// setup loads layered configuration and configures logging.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.NewLoader(a.logger, a.configOptions...).Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = strings.ToLower(a.logLevel)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(a.logger)
	return nil
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
