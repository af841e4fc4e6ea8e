package anthropic

import (
	"context"
	"errors"
	"testing"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"mietrecht-backend/internal/llm"
)

type mockMessager struct {
	response *anthropicsdk.Message
	err      error
	params   anthropicsdk.MessageNewParams
	calls    int
}

func (m *mockMessager) New(_ context.Context, params anthropicsdk.MessageNewParams, _ ...option.RequestOption) (*anthropicsdk.Message, error) {
	m.calls++
	m.params = params
	return m.response, m.err
}

func newMockMessage(blocks ...string) *anthropicsdk.Message {
	msg := &anthropicsdk.Message{}
	for _, text := range blocks {
		msg.Content = append(msg.Content, anthropicsdk.ContentBlockUnion{Type: "text", Text: text})
	}
	return msg
}

func withMock(t *testing.T, mock *mockMessager) {
	t.Helper()
	old := newMessager
	newMessager = func(string) Messager { return mock }
	t.Cleanup(func() { newMessager = old })
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient("  ", ""); err == nil {
		t.Fatalf("expected error for empty key")
	}
}

func TestNewClientDefaultsModel(t *testing.T) {
	withMock(t, &mockMessager{})
	c, err := NewClient("test-key", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Model() != DefaultModel {
		t.Fatalf("model = %q", c.Model())
	}
}

func TestCompleteConcatenatesTextBlocks(t *testing.T) {
	mock := &mockMessager{response: newMockMessage(`{"category":`, `"deposit"}`)}
	withMock(t, mock)
	c, err := NewClient("test-key", "claude-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := c.Complete(context.Background(), llm.Request{System: "sys", Prompt: "prompt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"category":"deposit"}` {
		t.Fatalf("out = %q", out)
	}
	if mock.params.Model != anthropicsdk.Model("claude-test") {
		t.Fatalf("model = %q", mock.params.Model)
	}
	if mock.params.MaxTokens != defaultMaxTokens {
		t.Fatalf("max tokens = %d", mock.params.MaxTokens)
	}
	if len(mock.params.System) != 1 || mock.params.System[0].Text != "sys" {
		t.Fatalf("system prompt not forwarded: %+v", mock.params.System)
	}
}

func TestCompleteEmptyResponse(t *testing.T) {
	withMock(t, &mockMessager{response: newMockMessage("   ")})
	c, _ := NewClient("test-key", "")
	_, err := c.Complete(context.Background(), llm.Request{Prompt: "p"})
	if !errors.Is(err, llm.ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestCompletePropagatesErrors(t *testing.T) {
	boom := errors.New("overloaded")
	mock := &mockMessager{err: boom}
	withMock(t, mock)
	c, _ := NewClient("test-key", "")
	_, err := c.Complete(context.Background(), llm.Request{Prompt: "p"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected error to propagate, got %v", err)
	}
	if mock.calls != 1 {
		t.Fatalf("expected exactly one call, got %d", mock.calls)
	}
}
