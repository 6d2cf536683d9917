package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/publish"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/watch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var renderCmd = &cobra.Command{
	Use:   "render [path]",
	Short: "Render a résumé document",
	Long: `Renders the document as json, html, pdf, docx, txt or tex.

PDF output needs Chrome or Chromium. DOCX output fills the {{placeholders}}
of a Word template given with --docx-template.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

var (
	renderFormat       string
	renderOut          string
	renderTemplate     string
	renderDocxTemplate string
	renderWatch        bool
	renderPublish      bool
)

func init() {
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", string(export.FormatHTML), "Output format: json, html, pdf, docx, txt or tex")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Output file; '-' writes to stdout (default: document name with the format extension)")
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", "", "Preview template override (basic or modern)")
	renderCmd.Flags().StringVar(&renderDocxTemplate, "docx-template", "", "Word template for docx output")
	renderCmd.Flags().BoolVarP(&renderWatch, "watch", "w", false, "Re-render whenever the document changes")
	renderCmd.Flags().BoolVar(&renderPublish, "publish", false, "Upload the output to the configured bucket")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	format := export.Format(strings.ToLower(renderFormat))
	if !slices.Contains(export.Formats, format) {
		return fmt.Errorf("unknown format %q", renderFormat)
	}
	path := documentPath(args)
	out := renderOut
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + "." + string(format)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var publisher *publish.Publisher
	if renderPublish {
		p, err := publish.NewS3(ctx, publish.Config{
			Bucket:   cfg.Publish.Bucket,
			Prefix:   cfg.Publish.Prefix,
			Region:   cfg.Publish.Region,
			Endpoint: cfg.Publish.Endpoint,
		}.WithEnvCredentials(), logger)
		if err != nil {
			return err
		}
		publisher = p
	}

	r := &renderer{format: format, out: out, publisher: publisher, stdout: cmd.OutOrStdout()}
	if err := r.run(ctx, path); err != nil {
		return err
	}
	if !renderWatch {
		return nil
	}

	w, err := watch.New(path, watch.DefaultDebounce, logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n", path)
	return w.Run(ctx, func(p string) error { return r.run(ctx, p) })
}

type renderer struct {
	format    export.Format
	out       string
	publisher *publish.Publisher
	stdout    io.Writer
}

func (r *renderer) run(ctx context.Context, path string) error {
	st, err := loadDocument(path)
	if err != nil {
		return err
	}
	doc := st.Snapshot()
	if renderTemplate != "" {
		doc.ResumeMetadata.Template = renderTemplate
	}
	if cfg.ColorScheme != "" {
		doc.ResumeMetadata.ColorScheme = cfg.ColorScheme
	}

	data, err := renderDocument(ctx, r.format, doc)
	if err != nil {
		return err
	}

	if r.out == "-" {
		_, err := r.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(r.out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", r.out, err)
	}
	logger.Info("rendered document", zap.String("format", string(r.format)), zap.String("out", r.out))
	fmt.Fprintf(r.stdout, "Wrote %s\n", r.out)

	if r.publisher != nil {
		key, err := r.publisher.Put(ctx, filepath.Base(r.out), publish.ContentType(string(r.format)), data)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.stdout, "Published %s\n", key)
	}
	return nil
}

// renderDocument produces the bytes of doc in format
func renderDocument(ctx context.Context, format export.Format, doc types.ResumeData) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case export.FormatJSON:
		if err := export.JSON(&buf, doc); err != nil {
			return nil, err
		}

	case export.FormatLaTeX:
		if err := export.LaTeX(&buf, doc); err != nil {
			return nil, err
		}

	case export.FormatDOCX:
		tmpl := renderDocxTemplate
		if tmpl == "" {
			tmpl = cfg.DocxTemplate
		}
		if tmpl == "" {
			return nil, fmt.Errorf("docx output needs --docx-template or docx_template in the config")
		}
		if err := export.DOCXFile(&buf, tmpl, doc); err != nil {
			return nil, err
		}

	default:
		html, err := previewHTML(doc)
		if err != nil {
			return nil, err
		}
		switch format {
		case export.FormatHTML:
			buf.WriteString(html)
		case export.FormatText:
			text, err := export.PlainText(html)
			if err != nil {
				return nil, err
			}
			buf.WriteString(text + "\n")
		case export.FormatPDF:
			pdf, err := export.PDF(ctx, html, export.DefaultPDFOptions())
			if err != nil {
				return nil, err
			}
			warnIfLong(pdf)
			buf.Write(pdf)
		}
	}
	return buf.Bytes(), nil
}

func previewHTML(doc types.ResumeData) (string, error) {
	previewer, err := rendering.NewPreviewer()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := export.HTML(&buf, previewer, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// warnIfLong logs when a printed résumé runs past one page
func warnIfLong(pdf []byte) {
	info, err := export.InspectPDF(pdf)
	if err != nil {
		logger.Debug("could not inspect pdf", zap.Error(err))
		return
	}
	if info.Pages > 1 {
		logger.Warn("résumé is longer than one page", zap.Int("pages", info.Pages))
	}
}
