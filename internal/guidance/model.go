package guidance

import "mietrecht-backend/internal/legal"

// IntentType describes what the user wants from the assistant.
type IntentType string

const (
	IntentLegalQuestion  IntentType = "legal_question"
	IntentDocumentReview IntentType = "document_review"
	IntentComplaint      IntentType = "complaint"
	IntentGeneral        IntentType = "general"
)

type Intent struct {
	Type       IntentType `json:"type"`
	Confidence float64    `json:"confidence"`
}

type Context struct {
	UserRole legal.UserRole `json:"userRole,omitempty"`
}

// Scenario is the pre-computed input for GenerateResponse.
type Scenario struct {
	Classification legal.Classification `json:"classification"`
	Intent         Intent               `json:"intent"`
	Context        Context              `json:"context"`
}

// Response is the guidance returned to the user.
type Response struct {
	Message               string                       `json:"message"`
	LegalReferences       []string                     `json:"legalReferences"`
	ActionRecommendations []legal.ActionRecommendation `json:"actionRecommendations"`
	EscalationRecommended bool                         `json:"escalationRecommended"`
	Category              legal.Category               `json:"category"`
	RiskLevel             legal.RiskLevel              `json:"riskLevel"`
	Disclaimer            string                       `json:"disclaimer"`
}

// Disclaimer is attached to every response.
const Disclaimer = "This is general information about German tenancy law and does not replace individual legal advice."
