package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jackzampolin/leaselens/internal/analyzer"
	"github.com/jackzampolin/leaselens/internal/assistant"
	"github.com/jackzampolin/leaselens/internal/lease"
	"github.com/jackzampolin/leaselens/internal/report"
)

// maxUploadBytes bounds the multipart memory buffer for document uploads.
const maxUploadBytes = 32 << 20

// registerRoutes sets up all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /analyze", s.requireReady(s.handleAnalyze))
	mux.HandleFunc("GET /analysis", s.requireReady(s.handleAnalysisStatus))
	mux.HandleFunc("DELETE /analysis", s.requireReady(s.handleAnalysisReset))
	mux.HandleFunc("PUT /analysis/notes", s.requireReady(s.handleUpdateNotes))
	mux.HandleFunc("POST /analysis/ask", s.requireReady(s.handleAsk))
	mux.HandleFunc("GET /analysis/export/csv", s.requireReady(s.handleExportCSV))
	mux.HandleFunc("POST /analysis/export/pdf", s.requireReady(s.handleExportPDF))
	mux.HandleFunc("GET /assistant/messages", s.requireReady(s.handleMessages))
	mux.HandleFunc("POST /assistant/messages", s.requireReady(s.handleSendMessage))
}

// requireReady is middleware that ensures the pipeline services exist.
// Returns 503 Service Unavailable until Start has wired them up.
func (s *Server) requireReady(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.analyzer == nil || s.session == nil {
			writeError(w, http.StatusServiceUnavailable, "server not fully initialized")
			return
		}
		next(w, r)
	}
}

// HealthResponse is the response for the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// AnalysisStatusResponse reports the orchestrator state.
type AnalysisStatusResponse struct {
	Status             analyzer.Status `json:"status"`
	FileName           string          `json:"fileName,omitempty"`
	ProcessedFileCount int             `json:"processedFileCount"`
	LastError          string          `json:"lastError,omitempty"`
	Record             *lease.Record   `json:"record,omitempty"`
}

// handleAnalyze accepts a multipart document upload and runs the pipeline to
// completion. A run already in flight is rejected with 409; any pipeline
// failure surfaces as 502 with the failure message intact.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart request: %s", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read upload: %s", err))
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	rec, err := s.analyzer.Run(r.Context(), analyzer.Document{
		Name:     header.Filename,
		MIMEType: mimeType,
		Data:     data,
	})
	if err != nil {
		if errors.Is(err, analyzer.ErrAnalysisInFlight) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusBadGateway, s.analyzer.LastError())
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleAnalysisStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, AnalysisStatusResponse{
		Status:             s.analyzer.Status(),
		FileName:           s.analyzer.FileName(),
		ProcessedFileCount: s.analyzer.ProcessedFileCount(),
		LastError:          s.analyzer.LastError(),
		Record:             s.analyzer.Record(),
	})
}

func (s *Server) handleAnalysisReset(w http.ResponseWriter, r *http.Request) {
	s.analyzer.Reset()
	w.WriteHeader(http.StatusNoContent)
}

// NotesRequest updates the user-owned annotation on the current record.
type NotesRequest struct {
	InternalNotes string `json:"internalNotes"`
}

func (s *Server) handleUpdateNotes(w http.ResponseWriter, r *http.Request) {
	var req NotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %s", err))
		return
	}

	if err := s.analyzer.UpdateInternalNotes(req.InternalNotes); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.analyzer.Record())
}

// AskRequest is a lease question grounded on the current record.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse carries the model's answer.
type AskResponse struct {
	Answer string `json:"answer"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %s", err))
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	rec := s.analyzer.Record()
	if rec == nil {
		writeError(w, http.StatusNotFound, "no analysis record available")
		return
	}

	client, err := s.registry.Default()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	answer, err := client.Answer(r.Context(), report.ContextText(rec), req.Question)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, AskResponse{Answer: answer})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	rec := s.analyzer.Record()
	if rec == nil {
		writeError(w, http.StatusNotFound, "no analysis record available")
		return
	}

	var buf bytes.Buffer
	if err := rec.WriteCSV(&buf); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="lease_analysis.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// handleExportPDF accepts the captured report raster as the request body,
// paginates it, and returns the assembled PDF. The whole document is built
// before any byte is written so a failure never yields a partial file.
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	if s.analyzer.Record() == nil {
		writeError(w, http.StatusNotFound, "no analysis record available")
		return
	}

	var buf bytes.Buffer
	err := s.exporter.Export(r.Context(), s.report, report.ImageCapture{Reader: r.Body}, &buf)
	if err != nil {
		if errors.Is(err, report.ErrCaptureUnavailable) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="lease_analysis.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// MessagesResponse is the assistant transcript plus its loading state.
type MessagesResponse struct {
	Messages []assistant.Message `json:"messages"`
	Loading  bool                `json:"loading"`
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MessagesResponse{
		Messages: s.session.Messages(),
		Loading:  s.session.Loading(),
	})
}

// SendMessageRequest is one user chat message.
type SendMessageRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %s", err))
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	if err := s.session.Send(r.Context(), req.Text); err != nil {
		if errors.Is(err, assistant.ErrSendInFlight) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, MessagesResponse{
		Messages: s.session.Messages(),
		Loading:  s.session.Loading(),
	})
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
