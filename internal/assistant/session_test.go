package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackzampolin/leaselens/internal/providers"
)

func TestNew_SeedsGreeting(t *testing.T) {
	s, err := New(context.Background(), providers.NewMockClient(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	msgs := s.Messages()
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want greeting only", len(msgs))
	}
	if msgs[0].Sender != SenderAI {
		t.Errorf("greeting sender = %s, want ai", msgs[0].Sender)
	}
	if msgs[0].ID == "" {
		t.Error("message ID is empty")
	}
}

func TestSend_AppendsUserThenAI(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ResponseText = "the answer"
	s, err := New(context.Background(), mock, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := s.Send(context.Background(), "a question"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	msgs := s.Messages()
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want greeting + user + ai", len(msgs))
	}
	if msgs[1].Sender != SenderUser || msgs[1].Text != "a question" {
		t.Errorf("user entry = %+v", msgs[1])
	}
	if msgs[2].Sender != SenderAI || msgs[2].Text != "the answer" {
		t.Errorf("ai entry = %+v", msgs[2])
	}
}

func TestSend_FailureStillAppendsExactlyTwo(t *testing.T) {
	mock := providers.NewMockClient()
	s, err := New(context.Background(), mock, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	mock.ShouldFail = true

	before := len(s.Messages())
	if err := s.Send(context.Background(), "doomed"); err != nil {
		t.Fatalf("Send() error = %v, failures must be absorbed into the transcript", err)
	}

	msgs := s.Messages()
	if got := len(msgs) - before; got != 2 {
		t.Fatalf("transcript grew by %d entries, want exactly 2", got)
	}

	last := msgs[len(msgs)-1]
	if last.Sender != SenderAI {
		t.Errorf("error entry sender = %s, want ai", last.Sender)
	}
	if !strings.Contains(last.Text, "mock failure") {
		t.Errorf("error entry does not carry the original message: %q", last.Text)
	}
	if !strings.Contains(s.LastError(), "mock failure") {
		t.Errorf("LastError = %q", s.LastError())
	}
}

func TestSend_RejectedWhileAwaitingReply(t *testing.T) {
	mock := providers.NewMockClient()
	mock.Latency = 100 * time.Millisecond
	s, err := New(context.Background(), mock, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.Send(context.Background(), "slow one"); err != nil {
			t.Errorf("first Send() error = %v", err)
		}
	}()

	time.Sleep(20 * time.Millisecond)
	if !s.Loading() {
		t.Fatal("session should report loading during round-trip")
	}
	if err := s.Send(context.Background(), "too eager"); !errors.Is(err, ErrSendInFlight) {
		t.Fatalf("concurrent Send() error = %v, want ErrSendInFlight", err)
	}

	wg.Wait()

	// The rejected send left no trace; only the completed round-trip did.
	msgs := s.Messages()
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}

	// A new send is accepted once the prior round-trip resolved.
	if err := s.Send(context.Background(), "next"); err != nil {
		t.Fatalf("Send() after completion error = %v", err)
	}
}

func TestMessages_OrderAndImmutability(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ResponseText = "ok"
	s, err := New(context.Background(), mock, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for _, text := range []string{"one", "two", "three"} {
		if err := s.Send(context.Background(), text); err != nil {
			t.Fatalf("Send(%q) error = %v", text, err)
		}
	}

	msgs := s.Messages()
	wantSenders := []Sender{SenderAI, SenderUser, SenderAI, SenderUser, SenderAI, SenderUser, SenderAI}
	if len(msgs) != len(wantSenders) {
		t.Fatalf("got %d messages, want %d", len(msgs), len(wantSenders))
	}
	for i, m := range msgs {
		if m.Sender != wantSenders[i] {
			t.Errorf("message %d sender = %s, want %s", i, m.Sender, wantSenders[i])
		}
	}

	// Mutating the returned slice must not affect the session's transcript.
	msgs[0].Text = "tampered"
	if s.Messages()[0].Text == "tampered" {
		t.Error("Messages() exposed internal state")
	}
}
