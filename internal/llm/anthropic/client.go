package anthropic

import (
	"context"
	"errors"
	"strings"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"mietrecht-backend/internal/llm"
	"mietrecht-backend/internal/shared/telemetry"
)

// DefaultModel is used when no model is configured.
const DefaultModel = string(anthropicsdk.ModelClaudeSonnet4_20250514)

const defaultMaxTokens = 1024

// Messager is the subset of the SDK messages service the client needs.
type Messager interface {
	New(ctx context.Context, params anthropicsdk.MessageNewParams, opts ...option.RequestOption) (*anthropicsdk.Message, error)
}

type messagerCreator func(apiKey string) Messager

func defaultCreator(apiKey string) Messager {
	c := anthropicsdk.NewClient(option.WithAPIKey(apiKey))
	return &c.Messages
}

var newMessager messagerCreator = defaultCreator

var _ llm.Client = (*Client)(nil)

// Client implements llm.Client using the Anthropic Messages API.
type Client struct {
	messages Messager
	model    string
}

// NewClient constructs a client for apiKey. An empty model selects DefaultModel.
func NewClient(apiKey, model string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &Client{messages: newMessager(apiKey), model: model}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Complete sends a single user turn with temperature 0 and returns the
// concatenated text blocks.
func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	params := anthropicsdk.MessageNewParams{
		Model:       anthropicsdk.Model(c.model),
		MaxTokens:   int64(maxTokens),
		Messages:    []anthropicsdk.MessageParam{anthropicsdk.NewUserMessage(anthropicsdk.NewTextBlock(req.Prompt))},
		Temperature: anthropicsdk.Float(0),
	}
	if strings.TrimSpace(req.System) != "" {
		params.System = []anthropicsdk.TextBlockParam{{Text: req.System}}
	}

	start := time.Now()
	resp, err := c.messages.New(ctx, params)
	if err != nil {
		telemetry.Warn("llm.request_failed", map[string]any{
			"provider":    "anthropic",
			"model":       c.model,
			"duration_ms": time.Since(start).Milliseconds(),
			"error":       err,
		})
		return "", err
	}

	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	telemetry.Info("llm.request_complete", map[string]any{
		"provider":      "anthropic",
		"model":         c.model,
		"duration_ms":   time.Since(start).Milliseconds(),
		"input_tokens":  resp.Usage.InputTokens,
		"output_tokens": resp.Usage.OutputTokens,
	})
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", llm.ErrEmptyResponse
	}
	return out, nil
}
