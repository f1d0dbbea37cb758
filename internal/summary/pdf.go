package summary

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// DefaultPDFTimeout bounds a single PDF rendering.
const DefaultPDFTimeout = 30 * time.Second

// PDFRenderer prints the HTML report with a headless Chrome through chromedp.
// A Chrome or Chromium binary must be installed.
type PDFRenderer struct {
	// Timeout bounds the browser session. Zero means DefaultPDFTimeout.
	Timeout time.Duration
	// AllocatorOptions are passed to chromedp.NewExecAllocator when set,
	// for example to point at a specific browser binary.
	AllocatorOptions []chromedp.ExecAllocatorOption
}

func (*PDFRenderer) Extension() string { return "pdf" }

func (r *PDFRenderer) Render(ctx context.Context, w io.Writer, s Summary) error {
	var html bytes.Buffer
	if err := (HTMLRenderer{}).Render(ctx, &html, s); err != nil {
		return err
	}
	buf, err := r.print(ctx, html.String())
	if err != nil {
		return err
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func (r *PDFRenderer) print(parent context.Context, html string) ([]byte, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}

	if len(r.AllocatorOptions) > 0 {
		var cancel context.CancelFunc
		parent, cancel = chromedp.NewExecAllocator(parent, r.AllocatorOptions...)
		defer cancel()
	}
	ctx, cancel := chromedp.NewContext(parent)
	defer cancel()
	ctx, timeoutCancel := context.WithTimeout(ctx, timeout)
	defer timeoutCancel()

	var buf []byte
	tasks := chromedp.Tasks{
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			return err
		}),
	}
	if err := chromedp.Run(ctx, tasks); err != nil {
		return nil, fmt.Errorf("failed to print pdf: %w", err)
	}
	return buf, nil
}
