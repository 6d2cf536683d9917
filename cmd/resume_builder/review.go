package main

import (
	"fmt"
	"os"

	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review [path]",
	Short: "Get an AI review of the résumé",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReview,
}

var (
	reviewModel string
	reviewPlain bool
)

func init() {
	reviewCmd.Flags().StringVarP(&reviewModel, "model", "m", "", "Model tier (lite, standard, advanced) or model name")
	reviewCmd.Flags().BoolVar(&reviewPlain, "plain", false, "Print raw Markdown instead of styled terminal output")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	st, err := loadDocument(documentPath(args))
	if err != nil {
		return err
	}

	review, err := proxyClient().Review(cmd.Context(), st.Snapshot(), modelFlag(reviewModel))
	if err != nil {
		return fmt.Errorf("failed to review resume: %w", err)
	}

	styled := !reviewPlain && isTerminal(cmd.OutOrStdout())
	return observability.NewPrinter(cmd.OutOrStdout()).PrintReview(review, styled)
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
