package main

import (
	"fmt"
	"os"

	"github.com/jonathan/resume-builder/internal/sections"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new [path]",
	Short: "Create an empty résumé document",
	Long:  "Writes a document with every section empty and the default section order, optionally seeded with contact details.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runNew,
}

var (
	newName     string
	newEmail    string
	newTitle    string
	newTemplate string
	newSections []string
	newForce    bool
)

func init() {
	newCmd.Flags().StringVarP(&newName, "name", "n", "", "Candidate name")
	newCmd.Flags().StringVarP(&newEmail, "email", "e", "", "Candidate email")
	newCmd.Flags().StringVar(&newTitle, "title", "", "Professional title")
	newCmd.Flags().StringVarP(&newTemplate, "template", "t", "", "Preview template (basic or modern)")
	newCmd.Flags().StringSliceVar(&newSections, "section", nil, "Custom section to add, by display name (repeatable)")
	newCmd.Flags().BoolVarP(&newForce, "force", "f", false, "Overwrite an existing file")

	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	path := documentPath(args)
	if _, err := os.Stat(path); err == nil && !newForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	st := store.New(store.WithLogger(logger))
	st.UpdatePersonalInfo(store.PersonalInfoPatch{
		Name:  optional(newName),
		Email: optional(newEmail),
		Title: optional(newTitle),
	})

	template := newTemplate
	if template == "" {
		template = cfg.Template
	}
	st.UpdateMetadata(store.MetadataPatch{Template: optional(template)})

	for _, name := range newSections {
		if _, err := st.AddSection(name); err != nil {
			return fmt.Errorf("failed to add section %q: %w", name, err)
		}
	}

	if err := writeDocument(path, st); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%d custom sections)\n", path, len(sections.Custom(st.Snapshot().ResumeMetadata.SectionOrder)))
	return nil
}

// optional returns nil for an empty flag so the patch leaves the field alone
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
