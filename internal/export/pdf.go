// Package export assembles the analysis report's export artifacts.
package export

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"
	"log/slog"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/jackzampolin/leaselens/internal/paginate"
	"github.com/jackzampolin/leaselens/internal/report"
)

// PDFExporter turns a captured report raster into a multi-page PDF.
type PDFExporter struct {
	Page       paginate.PageSize
	PixelWidth int
	Logger     *slog.Logger
}

// NewPDFExporter creates an exporter with the given page geometry. Zero
// values fall back to A4 at the default raster width.
func NewPDFExporter(page paginate.PageSize, pixelWidth int, logger *slog.Logger) *PDFExporter {
	if page.Width <= 0 || page.Height <= 0 {
		page = paginate.A4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFExporter{Page: page, PixelWidth: pixelWidth, Logger: logger}
}

// Export captures the report surface with every section forced open, slices
// the raster into pages, and writes the assembled PDF to w. Section states
// are restored on every exit path. Capture failures surface as
// report.ErrCaptureUnavailable; they are reported, not retried.
func (e *PDFExporter) Export(ctx context.Context, rep *report.Report, ras report.Rasterizer, w io.Writer) error {
	restore := rep.ExpandAll()
	defer restore()

	src, err := ras.Capture(ctx)
	if err != nil {
		return err
	}

	pages := paginate.RenderPages(src, e.Page, e.PixelWidth)
	if len(pages) == 0 {
		return fmt.Errorf("%w: captured raster has no drawable area", report.ErrCaptureUnavailable)
	}
	e.Logger.Debug("report paginated",
		"source_width", src.Bounds().Dx(),
		"source_height", src.Bounds().Dy(),
		"pages", len(pages))

	readers := make([]io.Reader, 0, len(pages))
	for i, page := range pages {
		var buf bytes.Buffer
		if err := png.Encode(&buf, page); err != nil {
			return fmt.Errorf("failed to encode page %d: %w", i+1, err)
		}
		readers = append(readers, &buf)
	}

	imp, err := api.Import(e.importDescription(), types.POINTS)
	if err != nil {
		return fmt.Errorf("failed to build PDF import config: %w", err)
	}
	if err := api.ImportImages(nil, w, readers, imp, nil); err != nil {
		return fmt.Errorf("failed to assemble PDF: %w", err)
	}

	e.Logger.Info("report exported", "pages", len(pages))
	return nil
}

// importDescription renders the pdfcpu import config for the page geometry.
// Each page image fills its output page; aspect ratios already match because
// the paginator rendered them at page proportions.
func (e *PDFExporter) importDescription() string {
	if e.Page == paginate.A4 {
		return "form:A4, pos:full"
	}
	return fmt.Sprintf("dim:%.2f %.2f, pos:full", e.Page.Width, e.Page.Height)
}
