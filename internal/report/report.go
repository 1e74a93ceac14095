// Package report models the rendered analysis report surface: its
// collapsible sections, the Q&A context derived from a record, and the
// rasterizer collaborator that captures the surface for export.
package report

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register decoder for uploaded captures
	"image/png"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/jackzampolin/leaselens/internal/lease"
)

// ErrCaptureUnavailable indicates the rasterization target could not be
// captured. It is reported to the user, never retried automatically.
var ErrCaptureUnavailable = errors.New("report capture unavailable")

// Rasterizer captures a rendered report surface as a single tall image.
type Rasterizer interface {
	Capture(ctx context.Context) (image.Image, error)
}

// Section is one collapsible region of the report.
type Section struct {
	Title string
	Open  bool
}

// sectionTitles is the report's fixed section layout. The assistant section
// starts collapsed, matching the rendered default.
var sectionTitles = []struct {
	title       string
	defaultOpen bool
}{
	{"Lease Details", true},
	{"Risk Assessment", true},
	{"Clauses & Issues", true},
	{"AI Summary", true},
	{"Internal Notes", true},
	{"AI Legal Assistant", false},
}

// Report tracks the open/closed state of the report's sections.
type Report struct {
	mu       sync.Mutex
	sections []Section
}

// New creates a report with sections in their default open states.
func New() *Report {
	r := &Report{sections: make([]Section, len(sectionTitles))}
	for i, s := range sectionTitles {
		r.sections[i] = Section{Title: s.title, Open: s.defaultOpen}
	}
	return r
}

// Sections returns a copy of the current section states.
func (r *Report) Sections() []Section {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Section, len(r.sections))
	copy(out, r.sections)
	return out
}

// SetOpen sets one section's open state by title.
func (r *Report) SetOpen(title string, open bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.sections {
		if r.sections[i].Title == title {
			r.sections[i].Open = open
			return nil
		}
	}
	return fmt.Errorf("unknown section: %s", title)
}

// ExpandAll forces every section open so a capture reflects the complete
// content, and returns a restore function that reinstates the prior states.
// Callers must invoke restore on every exit path, success or failure.
func (r *Report) ExpandAll() (restore func()) {
	r.mu.Lock()
	prior := make([]bool, len(r.sections))
	for i := range r.sections {
		prior[i] = r.sections[i].Open
		r.sections[i].Open = true
	}
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i := range r.sections {
			r.sections[i].Open = prior[i]
		}
	}
}

// ContextText builds the lease context handed to the Q&A collaborator.
func ContextText(rec *lease.Record) string {
	return fmt.Sprintf(
		"Lease Summary: %s\nKey Terms: Start Date: %s, End Date: %s, Rent: %s, Landlord: %s, Tenant: %s. Detected Clauses: %s. Flagged Issues: %s.",
		rec.Summary,
		rec.StartDate, rec.EndDate, rec.RentAmount, rec.Landlord, rec.Tenant,
		joinOrNone(rec.ClausesDetected),
		joinOrNone(rec.FlaggedIssues),
	)
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}

// ImageCapture is a Rasterizer over an already-captured raster stream, e.g.
// a PNG uploaded by the client that performed the DOM capture.
type ImageCapture struct {
	Reader io.Reader
}

// Capture decodes the raster. A missing or undecodable stream means the
// capture target is effectively absent.
func (c ImageCapture) Capture(ctx context.Context) (image.Image, error) {
	if c.Reader == nil {
		return nil, fmt.Errorf("%w: no capture provided", ErrCaptureUnavailable)
	}
	img, _, err := image.Decode(c.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureUnavailable, err)
	}
	return img, nil
}

// FileCapture is a Rasterizer over a captured raster stored on disk.
type FileCapture struct {
	Path string
}

// Capture reads and decodes the raster file.
func (c FileCapture) Capture(ctx context.Context) (image.Image, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureUnavailable, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureUnavailable, err)
	}
	return img, nil
}

// Verify interfaces
var (
	_ Rasterizer = ImageCapture{}
	_ Rasterizer = FileCapture{}
)
