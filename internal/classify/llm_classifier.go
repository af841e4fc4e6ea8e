package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"mietrecht-backend/internal/legal"
	"mietrecht-backend/internal/llm"
)

// LLMClassifier asks a language model for a strict JSON classification.
type LLMClassifier struct {
	client llm.Client
}

func NewLLMClassifier(client llm.Client) *LLMClassifier {
	return &LLMClassifier{client: client}
}

type llmClassification struct {
	Category              *string  `json:"category"`
	Confidence            *float64 `json:"confidence"`
	RiskLevel             *string  `json:"riskLevel"`
	EscalationRecommended *bool    `json:"escalationRecommended"`
	EstimatedComplexity   *string  `json:"estimatedComplexity"`
}

// Classify makes a single model call. Transport errors are returned as-is;
// unusable output wraps ErrInvalidOutput.
func (l *LLMClassifier) Classify(ctx context.Context, text string) (legal.Classification, error) {
	if strings.TrimSpace(text) == "" {
		return legal.Classification{}, ErrEmptyText
	}
	raw, err := l.client.Complete(ctx, llm.Request{
		System:    llm.ClassifySystemPrompt(),
		Prompt:    llm.ClassifyPrompt(text),
		MaxTokens: 256,
	})
	if err != nil {
		return legal.Classification{}, fmt.Errorf("classify: %w", err)
	}
	return parseClassification(raw)
}

func parseClassification(raw string) (legal.Classification, error) {
	var out llmClassification
	dec := json.NewDecoder(strings.NewReader(llm.StripCodeFences(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return legal.Classification{}, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if out.Category == nil || out.Confidence == nil || out.RiskLevel == nil {
		return legal.Classification{}, fmt.Errorf("%w: category, confidence and riskLevel are required", ErrInvalidOutput)
	}
	c := legal.Classification{
		Category:            legal.Category(strings.ToLower(strings.TrimSpace(*out.Category))),
		Confidence:          *out.Confidence,
		RiskLevel:           legal.RiskLevel(strings.ToLower(strings.TrimSpace(*out.RiskLevel))),
		EstimatedComplexity: legal.ComplexityModerate,
	}
	if out.EstimatedComplexity != nil {
		c.EstimatedComplexity = legal.Complexity(strings.ToLower(strings.TrimSpace(*out.EstimatedComplexity)))
	}
	if out.EscalationRecommended != nil {
		c.EscalationRecommended = *out.EscalationRecommended
	}
	if c.RiskLevel == legal.RiskHigh {
		c.EscalationRecommended = true
	}
	if err := c.Validate(); err != nil {
		return legal.Classification{}, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	return c, nil
}
