// Package providers holds clients for the generative-AI services the
// analyzer depends on. Clients are fallible, latency-bearing and opaque; the
// rest of the system never depends on model identity or transport.
package providers

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable indicates the provider call itself failed (network, auth,
// quota). It is terminal for the run that triggered it; callers surface it
// to the user instead of retrying.
var ErrUnavailable = errors.New("provider unavailable")

// Client is the narrow contract for a document-analysis model provider.
type Client interface {
	// Extract sends document bytes plus an extraction instruction and
	// returns the raw model text. The response is untrusted free text.
	Extract(ctx context.Context, document []byte, mimeType, instruction string) (string, error)

	// Answer asks a question against previously extracted context.
	Answer(ctx context.Context, contextText, question string) (string, error)

	// NewSession creates a long-lived conversation handle. The handle is
	// created once per assistant session and reused for every send so the
	// model keeps conversational context.
	NewSession(ctx context.Context, systemInstruction string) (ChatSession, error)

	// Name returns the provider identifier (e.g. "gemini").
	Name() string
}

// ChatSession is a single ongoing model conversation.
type ChatSession interface {
	// Send appends a user turn and returns the model's reply text.
	Send(ctx context.Context, text string) (string, error)
}

// Pinger is implemented by clients that can cheaply probe reachability.
// The server uses it at startup to report provider availability early.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds the settings shared by all provider clients.
type Config struct {
	APIKey    string
	Model     string
	BaseURL   string        // Optional override (tests)
	Timeout   time.Duration // HTTP timeout
	RateLimit int           // Requests per minute
}
