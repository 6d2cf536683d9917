package export

import (
	"context"
	"encoding/base64"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// PDFOptions configures printing. Paper sizes are in inches.
type PDFOptions struct {
	Timeout         time.Duration
	PaperWidth      float64
	PaperHeight     float64
	MarginInches    float64
	PrintBackground bool
	Landscape       bool
}

// DefaultPDFOptions prints A4 with backgrounds
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		Timeout:         30 * time.Second,
		PaperWidth:      8.27,
		PaperHeight:     11.69,
		MarginInches:    0.4,
		PrintBackground: true,
	}
}

// BrowserAvailable reports whether a Chrome or Chromium binary is on PATH
func BrowserAvailable() bool {
	for _, name := range []string{"headless-shell", "chromium", "chromium-browser", "google-chrome", "google-chrome-stable"} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

// PDF prints html to PDF in a headless browser.
// Requires Chrome/Chromium to be installed on the system.
func PDF(ctx context.Context, html string, opts PDFOptions) ([]byte, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultPDFOptions().Timeout
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, opts.Timeout)
	defer cancel()

	dataURL := "data:text/html;charset=utf-8;base64," + base64.StdEncoding.EncodeToString([]byte(html))

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(opts.PrintBackground).
				WithLandscape(opts.Landscape).
				WithPaperWidth(opts.PaperWidth).
				WithPaperHeight(opts.PaperHeight).
				WithMarginTop(opts.MarginInches).
				WithMarginBottom(opts.MarginInches).
				WithMarginLeft(opts.MarginInches).
				WithMarginRight(opts.MarginInches).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, &Error{Format: FormatPDF, Message: "browser printing failed", Cause: err}
	}
	return pdf, nil
}
