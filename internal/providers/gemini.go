package providers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	GeminiName         = "gemini"
	GeminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta"
	GeminiDefaultModel = "gemini-2.5-flash"
)

// GeminiClient implements Client against the Generative Language API.
type GeminiClient struct {
	apiKey  string
	baseURL string
	model   string
	limiter *RateLimiter
	client  *http.Client
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(cfg Config) *GeminiClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = GeminiBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = GeminiDefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	return &GeminiClient{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		limiter: NewRateLimiter(cfg.RateLimit),
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Name returns the provider identifier.
func (c *GeminiClient) Name() string {
	return GeminiName
}

// Extract sends the document inline with the extraction instruction and
// requests a JSON response.
func (c *GeminiClient) Extract(ctx context.Context, document []byte, mimeType, instruction string) (string, error) {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{InlineData: &geminiInlineData{
					MIMEType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(document),
				}},
				{Text: instruction},
			},
		}},
		GenerationConfig: &geminiGenerationConfig{
			ResponseMIMEType: "application/json",
		},
	}

	return c.generate(ctx, reqBody)
}

// Answer asks a question about previously extracted context.
func (c *GeminiClient) Answer(ctx context.Context, contextText, question string) (string, error) {
	prompt := fmt.Sprintf(`You are an AI legal assistant. You have been provided with key details and a summary of a lease agreement.
Answer the user's question based only on the provided lease information. If the
answer is not present in the details, state that clearly. Keep the answer concise.

Provided lease details:
---
%s
---

User's question: %s

Your answer:`, contextText, question)

	reqBody := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: prompt}},
		}},
	}

	text, err := c.generate(ctx, reqBody)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// NewSession creates a conversation handle. The Generative Language API is
// stateless, so the handle carries the transcript and replays it on every
// send; the handle itself is created once and reused.
func (c *GeminiClient) NewSession(ctx context.Context, systemInstruction string) (ChatSession, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: gemini API key is not configured", ErrUnavailable)
	}
	return &geminiSession{
		client: c,
		system: systemInstruction,
	}, nil
}

// Ping probes the configured model's metadata endpoint.
func (c *GeminiClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models/"+c.model, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: model %s returned status %d", ErrUnavailable, c.model, resp.StatusCode)
	}
	return nil
}

// generate runs one generateContent call and returns the first candidate's text.
func (c *GeminiClient) generate(ctx context.Context, reqBody geminiRequest) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp geminiErrorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error.Message != "" {
			return "", fmt.Errorf("%w: gemini error (status %d): %s", ErrUnavailable, resp.StatusCode, errResp.Error.Message)
		}
		return "", fmt.Errorf("%w: gemini error (status %d): %s", ErrUnavailable, resp.StatusCode, string(respBody))
	}

	var genResp geminiResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return "", fmt.Errorf("%w: failed to unmarshal response: %v", ErrUnavailable, err)
	}

	text := genResp.text()
	if text == "" {
		return "", fmt.Errorf("%w: no candidates in response", ErrUnavailable)
	}
	return text, nil
}

// geminiSession accumulates conversation turns for one chat.
type geminiSession struct {
	mu      sync.Mutex
	client  *GeminiClient
	system  string
	history []geminiContent
}

// Send posts the full transcript plus the new user turn. The model reply is
// appended to the transcript only on success so a failed turn can be retried
// by the user without corrupting the history.
func (s *geminiSession) Send(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn := geminiContent{Role: "user", Parts: []geminiPart{{Text: text}}}
	reqBody := geminiRequest{
		Contents: append(append([]geminiContent{}, s.history...), turn),
	}
	if s.system != "" {
		reqBody.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: s.system}}}
	}

	reply, err := s.client.generate(ctx, reqBody)
	if err != nil {
		return "", err
	}

	s.history = append(s.history, turn, geminiContent{
		Role:  "model",
		Parts: []geminiPart{{Text: reply}},
	})
	return reply, nil
}

// Generative Language API types

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiGenerationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// text returns the concatenated text parts of the first candidate.
func (r *geminiResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, part := range r.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String()
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Verify interfaces
var (
	_ Client = (*GeminiClient)(nil)
	_ Pinger = (*GeminiClient)(nil)
)
