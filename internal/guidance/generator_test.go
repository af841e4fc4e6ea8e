package guidance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mietrecht-backend/internal/legal"
	"mietrecht-backend/internal/policy"
)

func scenario(category legal.Category, risk legal.RiskLevel, escalate bool) Scenario {
	return Scenario{
		Classification: legal.Classification{
			Category:              category,
			Confidence:            0.8,
			RiskLevel:             risk,
			EscalationRecommended: escalate,
			EstimatedComplexity:   legal.ComplexityModerate,
		},
		Intent:  Intent{Type: IntentLegalQuestion, Confidence: 0.9},
		Context: Context{UserRole: legal.RoleTenant},
	}
}

func highPriority(actions []legal.ActionRecommendation) []string {
	var out []string
	for _, a := range actions {
		if a.Priority == legal.PriorityHigh {
			out = append(out, a.Action)
		}
	}
	return out
}

func TestReferencesComeFromCategory(t *testing.T) {
	gen := NewGenerator(nil)
	resp := gen.GenerateResponse(scenario(legal.CategoryRentReduction, legal.RiskMedium, false), "Meine Heizung ist seit Wochen kaputt.")

	assert.Contains(t, resp.LegalReferences, "§ 536 BGB")
	assert.Equal(t, legal.ReferencesFor(legal.CategoryRentReduction), resp.LegalReferences)
	assert.Equal(t, Disclaimer, resp.Disclaimer)
	assert.Equal(t, legal.CategoryRentReduction, resp.Category)
}

func TestNeutralAcrossPersonas(t *testing.T) {
	gen := NewGenerator(nil)
	texts := []string{
		"My name is Thomas Müller and my heating has been broken for weeks.",
		"My name is Mehmet Yılmaz and my heating has been broken for weeks.",
		"Ich heiße Fatima Al-Hassan, meine Heizung ist seit Wochen kaputt.",
		"As a young Nigerian student, my heating has been broken for weeks.",
		"I am an elderly woman in a wheelchair, my heating has been broken for weeks.",
	}

	for _, category := range legal.Categories {
		for _, risk := range []legal.RiskLevel{legal.RiskLow, legal.RiskMedium, legal.RiskHigh} {
			s := scenario(category, risk, risk == legal.RiskHigh)
			base := gen.GenerateResponse(s, texts[0])
			for _, text := range texts[1:] {
				resp := gen.GenerateResponse(s, text)
				assert.Equal(t, base.LegalReferences, resp.LegalReferences, "category=%s risk=%s", category, risk)
				assert.ElementsMatch(t, highPriority(base.ActionRecommendations), highPriority(resp.ActionRecommendations), "category=%s risk=%s", category, risk)
				assert.Equal(t, base.EscalationRecommended, resp.EscalationRecommended)
			}
		}
	}
}

func TestDiscriminatoryInputNeverEchoedAndFlagged(t *testing.T) {
	gen := NewGenerator(nil)
	resp := gen.GenerateResponse(scenario(legal.CategoryDiscrimination, legal.RiskHigh, true),
		"The landlord said keine Ausländer and whites only in the ad.")

	p := policy.Default()
	assert.True(t, p.Evaluate(resp.Message).Clean, "message contains a configured term: %s", resp.Message)
	assert.Contains(t, resp.Message, "not taken into account")

	clean := gen.GenerateResponse(scenario(legal.CategoryDiscrimination, legal.RiskHigh, true), "The landlord refused me.")
	assert.NotContains(t, clean.Message, "not taken into account")
	assert.Equal(t, clean.LegalReferences, resp.LegalReferences)
	assert.Equal(t, clean.ActionRecommendations, resp.ActionRecommendations)
}

func TestMessageNeverContainsConfiguredTerms(t *testing.T) {
	gen := NewGenerator(nil)
	p := policy.Default()
	for _, category := range legal.Categories {
		for _, complexity := range []legal.Complexity{legal.ComplexitySimple, legal.ComplexityComplex} {
			s := scenario(category, legal.RiskHigh, true)
			s.Classification.EstimatedComplexity = complexity
			s.Intent.Type = IntentDocumentReview
			resp := gen.GenerateResponse(s, "Dieser Miethai ist eine Abzocke, das ist Krieg!")
			assert.True(t, p.Evaluate(resp.Message).Clean, "category=%s: %s", category, resp.Message)
			for _, a := range resp.ActionRecommendations {
				assert.True(t, p.Evaluate(a.Action+" "+a.Details).Clean)
			}
		}
	}
}

func TestCustomPolicySanitizesTemplates(t *testing.T) {
	p, err := policy.New(policy.Config{EmotionalTerms: []string{"stressful"}})
	require.NoError(t, err)
	gen := NewGenerator(p)

	resp := gen.GenerateResponse(scenario(legal.CategoryEviction, legal.RiskHigh, true), "")
	assert.NotContains(t, strings.ToLower(resp.Message), "stressful")
	assert.Contains(t, resp.Message, "[removed]")
}

func TestHighRiskConflictEscalates(t *testing.T) {
	gen := NewGenerator(nil)
	resp := gen.GenerateResponse(scenario(legal.CategoryEviction, legal.RiskHigh, true), "My landlord wants me out next week!")

	assert.True(t, resp.EscalationRecommended)
	require.NotEmpty(t, resp.ActionRecommendations)
	assert.Contains(t, highPriority(resp.ActionRecommendations), ActionProfessionalCounsel)
	assert.Contains(t, strings.ToLower(ActionProfessionalCounsel), "lawyer")

	emotional := []string{"outrageous", "scandalous", "war", "enemy", "revenge", "crook", "scam"}
	for _, word := range emotional {
		assert.NotContains(t, strings.ToLower(resp.Message), " "+word+" ")
	}
	assert.Contains(t, resp.Message, "calm, factual")
}

func TestConflictCategoryAddsCounselEvenAtLowRisk(t *testing.T) {
	gen := NewGenerator(nil)
	resp := gen.GenerateResponse(scenario(legal.CategoryNeighborDispute, legal.RiskLow, false), "")

	assert.False(t, resp.EscalationRecommended)
	assert.Equal(t, ActionProfessionalCounsel, resp.ActionRecommendations[0].Action)
	assert.Equal(t, legal.PriorityHigh, resp.ActionRecommendations[0].Priority)
}

func TestLowRiskNonConflictHasNoCounsel(t *testing.T) {
	gen := NewGenerator(nil)
	resp := gen.GenerateResponse(scenario(legal.CategoryDeposit, legal.RiskLow, false), "")
	for _, a := range resp.ActionRecommendations {
		assert.NotEqual(t, ActionProfessionalCounsel, a.Action)
	}
	assert.NotContains(t, resp.Message, "calm, factual")
}

func TestEscalationMirrorsClassification(t *testing.T) {
	gen := NewGenerator(nil)
	resp := gen.GenerateResponse(scenario(legal.CategoryDeposit, legal.RiskLow, true), "")
	assert.True(t, resp.EscalationRecommended)
	resp = gen.GenerateResponse(scenario(legal.CategoryEviction, legal.RiskHigh, false), "")
	assert.False(t, resp.EscalationRecommended)
}

func TestComplexityAndIntentHints(t *testing.T) {
	gen := NewGenerator(nil)
	s := scenario(legal.CategoryUtilityCosts, legal.RiskLow, false)
	s.Classification.EstimatedComplexity = legal.ComplexityComplex
	s.Intent.Type = IntentDocumentReview

	resp := gen.GenerateResponse(s, "")
	priorities := map[string]legal.Priority{}
	for _, a := range resp.ActionRecommendations {
		priorities[a.Action] = a.Priority
	}
	assert.Equal(t, legal.PriorityMedium, priorities[ActionConsultation])
	assert.Equal(t, legal.PriorityMedium, priorities[ActionUploadDocuments])
	assert.Contains(t, resp.Message, "upload your contract")
}

func TestActionsOrderedByPriority(t *testing.T) {
	gen := NewGenerator(nil)
	s := scenario(legal.CategoryRentReduction, legal.RiskHigh, true)
	s.Classification.EstimatedComplexity = legal.ComplexityComplex

	resp := gen.GenerateResponse(s, "")
	for i := 1; i < len(resp.ActionRecommendations); i++ {
		prev := resp.ActionRecommendations[i-1].Priority.Rank()
		cur := resp.ActionRecommendations[i].Priority.Rank()
		assert.GreaterOrEqual(t, prev, cur, "actions out of order: %+v", resp.ActionRecommendations)
	}
}

func TestDedupeKeepsHighestPriority(t *testing.T) {
	items := dedupe([]legal.ActionRecommendation{
		{Action: "Write to the landlord", Priority: legal.PriorityLow},
		{Action: "write to the landlord ", Priority: legal.PriorityHigh, Details: "in writing"},
		{Action: "Keep records", Priority: legal.PriorityMedium},
		{Action: " ", Priority: legal.PriorityHigh},
	})
	require.Len(t, items, 2)
	assert.Equal(t, legal.PriorityHigh, items[0].Priority)
	assert.Equal(t, "in writing", items[0].Details)

	sortActions(items)
	assert.Equal(t, "Write to the landlord", items[0].Action)
}

func TestUnknownCategoryFallsBackToGeneral(t *testing.T) {
	gen := NewGenerator(nil)
	resp := gen.GenerateResponse(scenario(legal.Category("space_law"), legal.RiskLow, false), "")
	assert.Equal(t, legal.ReferencesFor(legal.CategoryGeneral), resp.LegalReferences)
	assert.NotEmpty(t, resp.ActionRecommendations)
}

func TestDetectIntent(t *testing.T) {
	assert.Equal(t, IntentDocumentReview, DetectIntent("Können Sie meinen Mietvertrag überprüfen?").Type)
	assert.Equal(t, IntentDocumentReview, DetectIntent("Please review my lease").Type)
	assert.Equal(t, IntentComplaint, DetectIntent("Ich habe Ärger mit dem Nachbarn").Type)
	assert.Equal(t, IntentLegalQuestion, DetectIntent("Wie hoch darf die Kaution sein?").Type)
	assert.Equal(t, IntentGeneral, DetectIntent("   ").Type)
}
