package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/resume-builder/internal/fetch"
	"github.com/spf13/cobra"
)

var coverLetterCmd = &cobra.Command{
	Use:   "cover-letter [path]",
	Short: "Draft a cover letter for a job posting",
	Long: `Sends the résumé and a job description to the AI proxy and prints the
cover letter. The job description comes from --job, a file given with
--job-file, or a posting page fetched with --job-url.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCoverLetter,
}

var (
	coverJob     string
	coverJobFile string
	coverJobURL  string
	coverBrowser bool
	coverModel   string
	coverOut     string
)

func init() {
	coverLetterCmd.Flags().StringVar(&coverJob, "job", "", "Job description text")
	coverLetterCmd.Flags().StringVar(&coverJobFile, "job-file", "", "Path to a job description text file")
	coverLetterCmd.Flags().StringVar(&coverJobURL, "job-url", "", "URL of the job posting")
	coverLetterCmd.Flags().BoolVar(&coverBrowser, "browser", false, "Render the posting in headless Chrome when the page needs JavaScript")
	coverLetterCmd.Flags().StringVarP(&coverModel, "model", "m", "", "Model tier (lite, standard, advanced) or model name")
	coverLetterCmd.Flags().StringVarP(&coverOut, "out", "o", "", "Write the letter to a file instead of stdout")
	coverLetterCmd.MarkFlagsMutuallyExclusive("job", "job-file", "job-url")
	coverLetterCmd.MarkFlagsOneRequired("job", "job-file", "job-url")

	rootCmd.AddCommand(coverLetterCmd)
}

func runCoverLetter(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := loadDocument(documentPath(args))
	if err != nil {
		return err
	}

	job, err := jobDescription(cmd)
	if err != nil {
		return err
	}
	if strings.TrimSpace(job) == "" {
		return fmt.Errorf("job description is empty")
	}

	letter, err := proxyClient().CoverLetter(ctx, st.Snapshot(), job, modelFlag(coverModel))
	if err != nil {
		return fmt.Errorf("failed to draft cover letter: %w", err)
	}

	if coverOut != "" {
		return os.WriteFile(coverOut, []byte(letter+"\n"), 0o644)
	}
	fmt.Fprintln(cmd.OutOrStdout(), letter)
	return nil
}

func jobDescription(cmd *cobra.Command) (string, error) {
	switch {
	case coverJob != "":
		return coverJob, nil
	case coverJobFile != "":
		raw, err := os.ReadFile(coverJobFile)
		if err != nil {
			return "", fmt.Errorf("failed to read job file: %w", err)
		}
		return string(raw), nil
	default:
		opts := []fetch.Option{fetch.WithLogger(logger)}
		if coverBrowser {
			opts = append(opts, fetch.WithRenderer(fetch.NewChromeRenderer(logger)))
		}
		return fetch.New(opts...).JobDescription(cmd.Context(), coverJobURL)
	}
}
