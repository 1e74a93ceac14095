package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/jackzampolin/leaselens/internal/paginate"
	"github.com/jackzampolin/leaselens/internal/report"
)

// staticCapture serves a pre-built image as the rasterizer collaborator.
type staticCapture struct {
	img image.Image
	err error
}

func (c staticCapture) Capture(ctx context.Context) (image.Image, error) {
	return c.img, c.err
}

func tallImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(y % 256), G: 128, B: 64, A: 255})
		}
	}
	return img
}

func TestExport_WritesPDF(t *testing.T) {
	e := NewPDFExporter(paginate.A4, 200, nil)
	rep := report.New()

	var out bytes.Buffer
	err := e.Export(context.Background(), rep, staticCapture{img: tallImage(200, 900)}, &out)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	if !bytes.HasPrefix(out.Bytes(), []byte("%PDF")) {
		t.Errorf("output does not start with PDF header: %q", out.Bytes()[:min(8, out.Len())])
	}
}

func TestExport_CaptureFailure(t *testing.T) {
	e := NewPDFExporter(paginate.A4, 0, nil)
	rep := report.New()
	rep.SetOpen("AI Summary", false)

	var out bytes.Buffer
	err := e.Export(context.Background(), rep, staticCapture{err: report.ErrCaptureUnavailable}, &out)
	if !errors.Is(err, report.ErrCaptureUnavailable) {
		t.Fatalf("error = %v, want ErrCaptureUnavailable", err)
	}
	if out.Len() != 0 {
		t.Error("no PDF bytes should be written on capture failure")
	}

	// Section states are restored even on the failure path.
	for _, s := range rep.Sections() {
		if s.Title == "AI Summary" && s.Open {
			t.Error("section state not restored after capture failure")
		}
	}
}

func TestExport_RestoresSectionsOnSuccess(t *testing.T) {
	e := NewPDFExporter(paginate.A4, 150, nil)
	rep := report.New()
	rep.SetOpen("Internal Notes", false)

	var out bytes.Buffer
	if err := e.Export(context.Background(), rep, staticCapture{img: tallImage(150, 100)}, &out); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	for _, s := range rep.Sections() {
		if s.Title == "Internal Notes" && s.Open {
			t.Error("section state not restored after successful export")
		}
	}
}

func TestImportDescription(t *testing.T) {
	if got := NewPDFExporter(paginate.A4, 0, nil).importDescription(); got != "form:A4, pos:full" {
		t.Errorf("A4 description = %q", got)
	}
	custom := NewPDFExporter(paginate.PageSize{Width: 612, Height: 792}, 0, nil)
	if got := custom.importDescription(); got != "dim:612.00 792.00, pos:full" {
		t.Errorf("custom description = %q", got)
	}
}
