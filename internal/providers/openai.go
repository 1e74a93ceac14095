package providers

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	OpenAIName         = "openai"
	OpenAIDefaultModel = "gpt-4o-mini"
)

// OpenAIClient implements Client using the official OpenAI SDK. It also
// serves OpenAI-compatible gateways via Config.BaseURL.
type OpenAIClient struct {
	model   string
	limiter *RateLimiter
	client  openai.Client
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(cfg Config) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = OpenAIDefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		model:   cfg.Model,
		limiter: NewRateLimiter(cfg.RateLimit),
		client:  openai.NewClient(opts...),
	}
}

// Name returns the provider identifier.
func (c *OpenAIClient) Name() string {
	return OpenAIName
}

// Extract sends the document as a base64 block alongside the extraction
// instruction. Chat completions have no inline binary part for arbitrary
// MIME types, so the document rides in the prompt the same way the
// instruction describes it.
func (c *OpenAIClient) Extract(ctx context.Context, document []byte, mimeType, instruction string) (string, error) {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	prompt := fmt.Sprintf("%s\n\nDocument (MIME type %s, base64 encoded):\n%s",
		instruction, mimeType, base64.StdEncoding.EncodeToString(document))

	return c.complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(prompt),
	})
}

// Answer asks a question about previously extracted context.
func (c *OpenAIClient) Answer(ctx context.Context, contextText, question string) (string, error) {
	system := "You are an AI legal assistant. Answer questions using only the provided lease details. " +
		"If the answer is not present in the details, say so. Keep answers concise."
	prompt := fmt.Sprintf("Lease details:\n---\n%s\n---\n\nQuestion: %s", contextText, question)

	reply, err := c.complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(system),
		openai.UserMessage(prompt),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// NewSession creates a conversation handle carrying the transcript.
func (c *OpenAIClient) NewSession(ctx context.Context, systemInstruction string) (ChatSession, error) {
	s := &openaiSession{client: c}
	if systemInstruction != "" {
		s.history = append(s.history, openai.SystemMessage(systemInstruction))
	}
	return s, nil
}

// Ping probes the configured model's metadata endpoint.
func (c *OpenAIClient) Ping(ctx context.Context) error {
	if _, err := c.client.Models.Get(ctx, c.model); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// complete runs one chat completion and returns the reply text.
func (c *OpenAIClient) complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrUnavailable)
	}
	return completion.Choices[0].Message.Content, nil
}

// openaiSession accumulates conversation turns for one chat.
type openaiSession struct {
	mu      sync.Mutex
	client  *OpenAIClient
	history []openai.ChatCompletionMessageParamUnion
}

// Send posts the transcript plus the new user turn; the reply is appended
// only on success.
func (s *openaiSession) Send(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn := openai.UserMessage(text)
	messages := append(append([]openai.ChatCompletionMessageParamUnion{}, s.history...), turn)

	reply, err := s.client.complete(ctx, messages)
	if err != nil {
		return "", err
	}

	s.history = append(s.history, turn, openai.AssistantMessage(reply))
	return reply, nil
}

// Verify interfaces
var (
	_ Client = (*OpenAIClient)(nil)
	_ Pinger = (*OpenAIClient)(nil)
)
