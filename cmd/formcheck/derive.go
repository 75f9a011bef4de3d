package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formcheck"
	"github.com/goliatone/go-formcheck/pkg/derive"
	"github.com/goliatone/go-formcheck/pkg/expect"
	pkgopenapi "github.com/goliatone/go-formcheck/pkg/openapi"
)

func deriveCmd(a *app) *cobra.Command {
	var (
		openapiPath string
		operation   string
		scope       string
		name        string
		output      string
	)
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive a suite from an OpenAPI request body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := pkgopenapi.LoadFile(openapiPath)
			if err != nil {
				return fmt.Errorf("load openapi: %w", err)
			}
			var options []derive.Option
			if scope != "" {
				options = append(options, derive.WithScope(scope))
			}
			if name != "" {
				options = append(options, derive.WithName(name))
			}
			suite, err := formcheck.DeriveSuite(cmd.Context(), doc, operation, options...)
			if err != nil {
				return err
			}
			raw, err := expect.Marshal(suite)
			if err != nil {
				return err
			}
			return a.emit(cmd, output, raw, false)
		},
	}
	cmd.Flags().StringVar(&openapiPath, "openapi", "", "OpenAPI document (JSON or YAML)")
	cmd.Flags().StringVar(&operation, "operation", "", "Operation id whose request body describes the form")
	cmd.Flags().StringVar(&scope, "scope", "", "Selector of the form the checks are scoped to")
	cmd.Flags().StringVar(&name, "name", "", "Suite name (defaults to the operation id)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the suite to a file instead of stdout")
	_ = cmd.MarkFlagRequired("openapi")
	_ = cmd.MarkFlagRequired("operation")
	return cmd
}
