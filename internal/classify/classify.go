// Package classify assigns a legal category, risk level and complexity to a
// free-text description of a tenancy situation.
package classify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mietrecht-backend/internal/legal"
	"mietrecht-backend/internal/llm/anthropic"
)

const (
	ProviderKeyword   = "keyword"
	ProviderAnthropic = "anthropic"
)

var (
	// ErrEmptyText is returned when there is nothing to classify.
	ErrEmptyText = errors.New("text is empty")
	// ErrInvalidOutput is returned when a provider response cannot be used.
	ErrInvalidOutput = errors.New("classifier returned invalid output")
)

// Classifier produces a Classification from free text.
type Classifier interface {
	Classify(ctx context.Context, text string) (legal.Classification, error)
}

// Options selects and configures a classifier implementation.
type Options struct {
	Provider        string
	AnthropicAPIKey string
	AnthropicModel  string
}

// New builds the classifier for opts.Provider.
func New(opts Options) (Classifier, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case "", ProviderKeyword:
		return NewKeywordClassifier(), nil
	case ProviderAnthropic:
		client, err := anthropic.NewClient(opts.AnthropicAPIKey, opts.AnthropicModel)
		if err != nil {
			return nil, err
		}
		return NewLLMClassifier(client), nil
	default:
		return nil, fmt.Errorf("unknown classifier provider %q", opts.Provider)
	}
}

var riskByCategory = map[legal.Category]legal.RiskLevel{
	legal.CategoryRentReduction:    legal.RiskMedium,
	legal.CategoryRentIncrease:     legal.RiskMedium,
	legal.CategoryRentCap:          legal.RiskMedium,
	legal.CategoryDeposit:          legal.RiskLow,
	legal.CategoryUtilityCosts:     legal.RiskLow,
	legal.CategoryRepairs:          legal.RiskLow,
	legal.CategoryModernization:    legal.RiskMedium,
	legal.CategoryTermination:      legal.RiskHigh,
	legal.CategoryEviction:         legal.RiskHigh,
	legal.CategoryLandlordConflict: legal.RiskMedium,
	legal.CategoryNeighborDispute:  legal.RiskLow,
	legal.CategoryDiscrimination:   legal.RiskHigh,
	legal.CategoryGeneral:          legal.RiskLow,
}

// RiskFor returns the baseline risk level for a category.
func RiskFor(c legal.Category) legal.RiskLevel {
	if risk, ok := riskByCategory[c]; ok {
		return risk
	}
	return legal.RiskLow
}
