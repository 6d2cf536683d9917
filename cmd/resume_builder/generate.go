package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/jonathan/resume-builder/internal/assist"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [path]",
	Short: "Draft bullets for experience and projects",
	Long: `Asks the AI proxy for three bullet points for every experience and project
that has none, and writes them back into the document. Entries the proxy
cannot serve get placeholder bullets.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

var (
	generateOverwrite   bool
	generateConcurrency int
	generateDryRun      bool
)

func init() {
	generateCmd.Flags().BoolVar(&generateOverwrite, "overwrite", false, "Redraft entries that already have bullets")
	generateCmd.Flags().IntVar(&generateConcurrency, "concurrency", 0, "Parallel proxy requests (default from config)")
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "Print the result without writing the document")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	path := documentPath(args)
	st, err := loadDocument(path)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	limit := generateConcurrency
	if limit == 0 {
		limit = cfg.Concurrency
	}
	result, err := assist.NewService(proxyClient(), limit, logger).FillAll(ctx, st, generateOverwrite)
	if err != nil {
		return fmt.Errorf("bullet drafting interrupted: %w", err)
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintFillResult(result)
	if generateDryRun {
		printer.PrintDocument(st.Snapshot())
		return nil
	}
	if result.Applied == 0 {
		return nil
	}
	return writeDocument(path, st)
}
