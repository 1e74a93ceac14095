// Package assistant manages the general-purpose chat transcript layered on a
// single long-lived model conversation.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/leaselens/internal/providers"
)

// ErrSendInFlight is returned when Send is invoked before the prior
// round-trip has appended its reply. Sends are rejected, not queued.
var ErrSendInFlight = errors.New("a message is already awaiting a reply")

// Sender identifies which side produced a transcript message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Message is one transcript entry. Messages are never reordered or mutated
// after creation.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// systemInstruction shapes the assistant's general-chat behavior.
const systemInstruction = `You are a helpful and friendly AI assistant for a lease analysis service.
Answer user questions concisely and clearly, in plain text without markdown.
You can understand and respond in multiple languages; maintain a professional
and courteous tone. If a user asks about their specific lease and you have no
lease details, guide them to upload the lease for analysis instead of asking
them to paste lease text into the chat.`

// defaultGreeting opens every new transcript.
const defaultGreeting = "Hello! I'm your AI assistant. How can I help you today?"

// Session owns an ordered, append-only conversational transcript. The
// underlying model conversation handle is created once at session start and
// reused for every send.
type Session struct {
	logger  *slog.Logger
	backend providers.ChatSession

	mu       sync.Mutex
	loading  bool
	lastErr  string
	messages []Message
}

// New creates a session and its model conversation handle, seeding the
// transcript with a greeting.
func New(ctx context.Context, client providers.Client, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}

	backend, err := client.NewSession(ctx, systemInstruction)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat session: %w", err)
	}

	s := &Session{
		logger:  logger,
		backend: backend,
	}
	s.messages = append(s.messages, newMessage(defaultGreeting, SenderAI))
	return s, nil
}

// Send appends the user message, then appends exactly one AI message: the
// model's reply on success, or a synthesized error entry on failure. The
// transcript stays a gapless alternating record either way; a collaborator
// failure is absorbed, not propagated.
func (s *Session) Send(ctx context.Context, text string) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return ErrSendInFlight
	}
	s.loading = true
	s.lastErr = ""
	s.messages = append(s.messages, newMessage(text, SenderUser))
	s.mu.Unlock()

	reply, err := s.backend.Send(ctx, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		s.lastErr = err.Error()
		s.logger.Warn("assistant send failed", "error", err)
		reply = fmt.Sprintf("Sorry, I encountered an error: %s", err.Error())
	}
	s.messages = append(s.messages, newMessage(reply, SenderAI))
	return nil
}

// Messages returns a copy of the transcript in order.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Loading reports whether a send is awaiting its reply.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError returns the most recent collaborator failure message, or "".
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func newMessage(text string, sender Sender) Message {
	return Message{
		ID:        uuid.New().String(),
		Text:      text,
		Sender:    sender,
		Timestamp: time.Now().UTC(),
	}
}
