// Package analyzer drives the ingest, model-call, sanitize, validate,
// publish sequence for a single document.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/jackzampolin/leaselens/internal/lease"
	"github.com/jackzampolin/leaselens/internal/providers"
	"github.com/jackzampolin/leaselens/internal/sanitize"
)

// ErrAnalysisInFlight is returned when Run is invoked while a prior run has
// not resolved. At most one analysis is live at a time; concurrent requests
// are rejected, not queued.
var ErrAnalysisInFlight = errors.New("an analysis is already in progress")

// Status is the orchestrator's lifecycle state.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Document is one uploaded file to analyze.
type Document struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Analyzer owns the per-document analysis state: the current record, the
// lifecycle status, and the single-flight gate. All mutation goes through
// its methods; the record is replaced wholesale on each successful run.
type Analyzer struct {
	client providers.Client
	logger *slog.Logger

	mu             sync.Mutex
	status         Status
	record         *lease.Record
	fileName       string
	lastError      string
	processedFiles int
}

// New creates an Analyzer bound to one provider client.
func New(client providers.Client, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		client: client,
		logger: logger,
		status: StatusIdle,
	}
}

// Run analyzes one document: model extraction, sanitize, validate, publish.
// It rejects re-entrant calls while a run is in flight. Every failure is
// terminal for that run; the caller re-triggers by uploading again.
func (a *Analyzer) Run(ctx context.Context, doc Document) (*lease.Record, error) {
	a.mu.Lock()
	if a.status == StatusRunning {
		a.mu.Unlock()
		return nil, ErrAnalysisInFlight
	}
	// A new upload resets the previous result before the run starts.
	a.status = StatusRunning
	a.record = nil
	a.lastError = ""
	a.fileName = doc.Name
	a.mu.Unlock()

	runID := uuid.New().String()
	log := a.logger.With("run_id", runID, "file", doc.Name)
	log.Info("starting analysis", "bytes", len(doc.Data), "mime_type", doc.MIMEType)

	rec, err := a.analyze(ctx, doc)
	a.mu.Lock()
	defer a.mu.Unlock()

	if err != nil {
		a.status = StatusFailed
		a.lastError = fmt.Sprintf("Failed to analyze lease: %s", err.Error())
		log.Warn("analysis failed", "error", err)
		return nil, err
	}

	// Internal notes are user-owned; a fresh record starts with none.
	rec.InternalNotes = ""
	a.record = rec
	a.status = StatusSucceeded
	a.processedFiles++
	log.Info("analysis complete", "risk_score", rec.RiskScore, "processed_files", a.processedFiles)
	return rec, nil
}

// analyze runs the pipeline stages in order. Steps are strictly sequential;
// no stage begins before the previous completes.
func (a *Analyzer) analyze(ctx context.Context, doc Document) (*lease.Record, error) {
	raw, err := a.client.Extract(ctx, doc.Data, doc.MIMEType, extractionInstruction)
	if err != nil {
		return nil, err
	}

	payload, err := sanitize.Sanitize(raw)
	if err != nil {
		return nil, err
	}

	return lease.Validate(payload)
}

// Record returns the current published record, or nil when no run has
// succeeded since the last reset.
func (a *Analyzer) Record() *lease.Record {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.record == nil {
		return nil
	}
	rec := *a.record
	return &rec
}

// Status returns the current lifecycle state.
func (a *Analyzer) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// FileName returns the name of the most recently submitted document.
func (a *Analyzer) FileName() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fileName
}

// LastError returns the user-facing message for the most recent failure.
func (a *Analyzer) LastError() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastError
}

// ProcessedFileCount reports how many analyses have succeeded. It increments
// only on success, so rejected re-entrant calls never double-count.
func (a *Analyzer) ProcessedFileCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.processedFiles
}

// UpdateInternalNotes sets the user-owned notes on the current record. Notes
// are attached only after publication and are never touched by re-analysis
// of the same record.
func (a *Analyzer) UpdateInternalNotes(notes string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.record == nil {
		return fmt.Errorf("no analysis record to annotate")
	}
	a.record.InternalNotes = notes
	return nil
}

// Reset clears all per-document state, as when the user navigates away or
// begins a new upload context.
func (a *Analyzer) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.status == StatusRunning {
		// The in-flight run still resolves; it will overwrite this state.
		return
	}
	a.status = StatusIdle
	a.record = nil
	a.fileName = ""
	a.lastError = ""
	a.processedFiles = 0
}
