// Package conversion persists uploaded PDFs and rasterizes their pages into
// ordered, base64-encoded images.
package conversion

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/JaimeStill/document-context/pkg/config"
	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/encoding"
	"github.com/JaimeStill/document-context/pkg/image"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"
)

// Converter renders every page of the PDF at pdfPath into imageDir and
// returns the pages in document order.
type Converter interface {
	Convert(ctx context.Context, pdfPath, imageDir string) ([]PageImage, error)
}

// PDFConverter renders pages with document-context's ImageMagick renderer
// at a fixed DPI.
type PDFConverter struct {
	dpi    int
	logger *slog.Logger
}

// NewPDFConverter creates a PDFConverter rendering at dpi.
func NewPDFConverter(dpi int, logger *slog.Logger) *PDFConverter {
	return &PDFConverter{
		dpi:    dpi,
		logger: logger.With("system", "conversion"),
	}
}

// Convert validates the PDF structure, renders each page to PNG, and
// encodes each image. Returns ErrEmptyDocument for a PDF with no pages and
// ErrConversionFailed for any unreadable or unrenderable input.
func (c *PDFConverter) Convert(ctx context.Context, pdfPath, imageDir string) ([]PageImage, error) {
	count, err := pageCount(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConversionFailed, err)
	}
	if count == 0 {
		return nil, ErrEmptyDocument
	}

	pdfDoc, err := document.OpenPDF(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open pdf: %w", ErrConversionFailed, err)
	}
	defer pdfDoc.Close()

	renderer, err := image.NewImageMagickRenderer(config.ImageConfig{
		Format:  "png",
		DPI:     c.dpi,
		Options: map[string]any{"background": "white"},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create renderer: %w", ErrConversionFailed, err)
	}

	pdfPages, err := pdfDoc.ExtractAllPages()
	if err != nil {
		return nil, fmt.Errorf("%w: extract pages: %w", ErrConversionFailed, err)
	}
	if len(pdfPages) == 0 {
		return nil, ErrEmptyDocument
	}

	pages, err := renderPages(ctx, len(pdfPages), imageDir, func(i int) ([]byte, error) {
		return pdfPages[i].ToImage(renderer, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConversionFailed, err)
	}

	c.logger.InfoContext(
		ctx, "pdf converted",
		"path", pdfPath,
		"page_count", len(pages),
		"dpi", c.dpi,
	)

	return pages, nil
}

func pageCount(pdfPath string) (int, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	count, err := api.PageCount(f, nil)
	if err != nil {
		return 0, fmt.Errorf("read pdf structure: %w", err)
	}
	return count, nil
}

// renderFunc renders the page at zero-based index i.
type renderFunc func(i int) ([]byte, error)

// renderPages renders count pages with bounded concurrency. Each result is
// stored at its page index, so the returned slice is in page order no matter
// which goroutine finishes first.
func renderPages(ctx context.Context, count int, imageDir string, render renderFunc) ([]PageImage, error) {
	pages := make([]PageImage, count)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(renderWorkerCount(count))

	for i := range count {
		number := i + 1
		path := filepath.Join(imageDir, fmt.Sprintf("page%d.png", number))

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			data, err := render(i)
			if err != nil {
				return fmt.Errorf("render page %d: %w", number, err)
			}

			page, err := materialize(number, path, data)
			if err != nil {
				return err
			}

			pages[i] = page
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return pages, nil
}

// materialize writes a rendered page to disk and derives its encodings from
// the bytes read back from that file.
func materialize(number int, path string, data []byte) (PageImage, error) {
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return PageImage{}, fmt.Errorf("write page %d: %w", number, err)
	}

	stored, err := os.ReadFile(path)
	if err != nil {
		return PageImage{}, fmt.Errorf("read page %d: %w", number, err)
	}

	dataURI, err := encoding.EncodeImageDataURI(stored, document.PNG)
	if err != nil {
		return PageImage{}, fmt.Errorf("encode page %d: %w", number, err)
	}

	return PageImage{
		Number:  number,
		Path:    path,
		Data:    stored,
		Base64:  base64.StdEncoding.EncodeToString(stored),
		DataURI: dataURI,
	}, nil
}

func renderWorkerCount(pageCount int) int {
	return max(min(runtime.NumCPU(), pageCount), 1)
}
