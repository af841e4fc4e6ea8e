// Package guidance composes neutral, category-driven answers to tenancy
// questions.
package guidance

import (
	"mietrecht-backend/internal/legal"
	"mietrecht-backend/internal/policy"
	"mietrecht-backend/internal/shared/metrics"
	"mietrecht-backend/internal/shared/telemetry"
)

// Generator builds Responses. It is safe for concurrent use.
type Generator struct {
	policy *policy.Policy
}

// NewGenerator returns a Generator screening with p, or the embedded policy
// when p is nil.
func NewGenerator(p *policy.Policy) *Generator {
	if p == nil {
		p = policy.Default()
	}
	return &Generator{policy: p}
}

// GenerateResponse derives references, actions and escalation from the
// scenario alone. rawText is only screened against the content policy and
// never changes references or priorities.
func (g *Generator) GenerateResponse(scenario Scenario, rawText string) Response {
	c := scenario.Classification
	refs := legal.ReferencesFor(c.Category)
	actions := actionsFor(scenario)

	screen := g.policy.Evaluate(rawText)
	screened := screen.HasFlag(policy.FlagDiscriminatory)

	message := composeMessage(messageInput{
		scenario:   scenario,
		references: refs,
		screened:   screened,
	})
	message = g.policy.Sanitize(message)
	for i := range actions {
		actions[i].Action = g.policy.Sanitize(actions[i].Action)
		actions[i].Details = g.policy.Sanitize(actions[i].Details)
	}

	metrics.IncGuidanceResponse(string(c.Category), c.EscalationRecommended)
	telemetry.Info("guidance.response", map[string]any{
		"category":   string(c.Category),
		"risk_level": string(c.RiskLevel),
		"escalated":  c.EscalationRecommended,
		"actions":    len(actions),
		"screened":   screened,
		"flags":      screen.Flags,
	})

	return Response{
		Message:               message,
		LegalReferences:       refs,
		ActionRecommendations: actions,
		EscalationRecommended: c.EscalationRecommended,
		Category:              c.Category,
		RiskLevel:             c.RiskLevel,
		Disclaimer:            Disclaimer,
	}
}
