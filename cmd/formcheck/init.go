package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formcheck/pkg/expect"
	"github.com/goliatone/go-formcheck/pkg/scaffold"
)

func initCmd(a *app) *cobra.Command {
	var (
		output string
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively scaffold a suite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				if _, err := os.Stat(output); err == nil {
					return fmt.Errorf("%s already exists, use --force to overwrite", output)
				}
			}
			suite, err := scaffold.Run(cmd.Context(), a.newDriver())
			if err != nil {
				return err
			}
			raw, err := expect.Marshal(suite)
			if err != nil {
				return err
			}
			return a.emit(cmd, output, raw, true)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "formcheck.suite.yaml", "Where to write the suite")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

// emit writes raw to path, or stdout when path is empty.
func (a *app) emit(cmd *cobra.Command, path string, raw []byte, announce bool) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(raw)
		return err
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if announce {
		fmt.Fprintf(cmd.OutOrStdout(), "Suite written to %s\n", path)
	}
	return nil
}
