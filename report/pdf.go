package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/MatthewIrwin123/Parramatta-property-listings/utils"
)

// Printer turns an HTML page into PDF bytes.
type Printer interface {
	PrintPDF(ctx context.Context, html []byte) ([]byte, error)
}

// ChromePrinter prints through a headless Chrome/Chromium.
type ChromePrinter struct {
	chromeBin string
	timeout   time.Duration
	logger    *utils.Logger
}

// NewChromePrinter creates a printer. An empty chromeBin means auto-detect.
func NewChromePrinter(chromeBin string, logger *utils.Logger) *ChromePrinter {
	return &ChromePrinter{chromeBin: chromeBin, timeout: 60 * time.Second, logger: logger}
}

// PrintPDF loads html into a blank tab and prints it with the page's CSS size.
func (p *ChromePrinter) PrintPDF(ctx context.Context, html []byte) ([]byte, error) {
	chromeBin := p.chromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	p.logger.Debug("[report] Using browser binary: %q", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, p.timeout)
	defer cancelTimeout()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("report: chromedp print: %w", err)
	}
	return pdf, nil
}

// Renderer produces the PDF report file.
type Renderer struct {
	printer Printer
	logger  *utils.Logger
}

// NewRenderer creates a Renderer that prints with printer.
func NewRenderer(printer Printer, logger *utils.Logger) *Renderer {
	return &Renderer{printer: printer, logger: logger}
}

// Write renders doc and writes the PDF to path, creating parent directories.
func (r *Renderer) Write(ctx context.Context, doc Document, path string) error {
	html, err := RenderHTML(doc)
	if err != nil {
		return err
	}

	pdf, err := r.printer.PrintPDF(ctx, html)
	if err != nil {
		return err
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		return errors.New("report: printer output is not a PDF")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("report: create output dir: %w", err)
	}
	if err := os.WriteFile(path, pdf, 0644); err != nil {
		return fmt.Errorf("report: write %q: %w", path, err)
	}

	r.logger.Info("[report] PDF written: %s (%d listings, %d bytes)", path, len(doc.Blocks), len(pdf))
	return nil
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
