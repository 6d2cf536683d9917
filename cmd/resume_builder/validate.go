package main

import (
	"fmt"

	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate a résumé document",
	Long:  "Checks the document shape against the embedded JSON schema, then checks every entry the way an import would.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := documentPath(args)
	printer := observability.NewPrinter(cmd.OutOrStdout())

	st, err := loadDocument(path)
	printer.PrintValidation(path, err)
	if err != nil {
		return fmt.Errorf("validation failed for %s", path)
	}

	if verbose || cfg.Verbose {
		printer.PrintDocument(st.Snapshot())
	}
	return nil
}
