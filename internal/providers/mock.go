package providers

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

const MockName = "mock"

// MockClient is a Client for testing.
type MockClient struct {
	// Configurable behavior
	Latency      time.Duration
	ShouldFail   bool
	FailAfter    int // Fail after N requests (0 = never)
	ResponseText string

	// State
	requestCount atomic.Int64
}

// NewMockClient creates a mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		ResponseText: "mock response",
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockName
}

// RequestCount returns the number of calls made against this client.
func (c *MockClient) RequestCount() int64 {
	return c.requestCount.Load()
}

// Extract returns the configured response text.
func (c *MockClient) Extract(ctx context.Context, document []byte, mimeType, instruction string) (string, error) {
	return c.respond(ctx)
}

// Answer returns the configured response text.
func (c *MockClient) Answer(ctx context.Context, contextText, question string) (string, error) {
	return c.respond(ctx)
}

// NewSession returns a session backed by the same configured behavior.
func (c *MockClient) NewSession(ctx context.Context, systemInstruction string) (ChatSession, error) {
	return &mockSession{client: c}, nil
}

// Ping succeeds unless the client is configured to fail.
func (c *MockClient) Ping(ctx context.Context) error {
	if c.ShouldFail {
		return fmt.Errorf("%w: mock failure", ErrUnavailable)
	}
	return nil
}

func (c *MockClient) respond(ctx context.Context) (string, error) {
	count := c.requestCount.Add(1)

	if c.Latency > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.Latency):
		}
	}

	if c.ShouldFail || (c.FailAfter > 0 && count > int64(c.FailAfter)) {
		return "", fmt.Errorf("%w: mock failure on request %d", ErrUnavailable, count)
	}
	return c.ResponseText, nil
}

type mockSession struct {
	client *MockClient
}

func (s *mockSession) Send(ctx context.Context, text string) (string, error) {
	return s.client.respond(ctx)
}

// Verify interfaces
var (
	_ Client = (*MockClient)(nil)
	_ Pinger = (*MockClient)(nil)
)
