package guidance

import (
	"strings"

	"mietrecht-backend/internal/legal"
)

var introByCategory = map[legal.Category]string{
	legal.CategoryRentReduction:    "If the rented property has a defect that significantly impairs its use, the rent is reduced by law for as long as the defect exists.",
	legal.CategoryRentIncrease:     "A rent increase is only valid within the statutory limits and must be justified, for example by the local rent index.",
	legal.CategoryRentCap:          "In areas with a rent cap, the rent at the start of a tenancy may exceed the local comparative rent by at most 10%.",
	legal.CategoryDeposit:          "The rental deposit may not exceed three monthly base rents and must be held separately from the landlord's assets.",
	legal.CategoryUtilityCosts:     "Operating costs can only be charged if they are agreed in the contract and billed correctly within twelve months.",
	legal.CategoryRepairs:          "The landlord is responsible for keeping the property in a condition suitable for the agreed use.",
	legal.CategoryModernization:    "Modernisation measures must be announced in advance, and the resulting rent increase is limited by law.",
	legal.CategoryTermination:      "A termination must meet formal requirements and statutory notice periods; a landlord also needs a legitimate interest.",
	legal.CategoryEviction:         "An eviction requires a court title, and tenants have procedural protections and deadlines in these proceedings.",
	legal.CategoryLandlordConflict: "Disagreements between tenants and landlords are often resolved through clear written communication about the specific obligations involved.",
	legal.CategoryNeighborDispute:  "Disturbances between neighbours are usually addressed first through the landlord or property management.",
	legal.CategoryDiscrimination:   "Unequal treatment in access to housing on grounds such as ethnic origin, religion, gender, disability, age or sexual identity is prohibited under the General Equal Treatment Act.",
	legal.CategoryGeneral:          "German tenancy law sets out the rights and obligations of tenants and landlords in the Civil Code (BGB).",
}

var roleLine = map[legal.UserRole]string{
	legal.RoleTenant:   "As a tenant, you should keep records of all relevant communication and payments.",
	legal.RoleLandlord: "As a landlord, you should make sure that notices and statements meet the formal requirements.",
}

const (
	deescalationLine = "Situations like this can be stressful. A calm, factual approach in writing usually leads to the best outcome, and professional advice helps to protect your position."
	complexLine      = "Your situation involves several legal questions, so the details of your contract will matter."
	reviewLine       = "You can upload your contract for an automated check of rent, deposit and missing information."
	screenedNotice   = "Note: parts of your message contain wording that was not taken into account. This assessment is based only on the objective facts of your situation."
)

type messageInput struct {
	scenario   Scenario
	references []string
	screened   bool
}

func composeMessage(in messageInput) string {
	c := in.scenario.Classification
	parts := make([]string, 0, 6)

	intro, ok := introByCategory[c.Category]
	if !ok {
		intro = introByCategory[legal.CategoryGeneral]
	}
	parts = append(parts, intro)

	if line, ok := roleLine[in.scenario.Context.UserRole]; ok {
		parts = append(parts, line)
	}
	if needsCounsel(c) {
		parts = append(parts, deescalationLine)
	}
	if c.EstimatedComplexity == legal.ComplexityComplex {
		parts = append(parts, complexLine)
	}
	if in.scenario.Intent.Type == IntentDocumentReview {
		parts = append(parts, reviewLine)
	}
	if len(in.references) > 0 {
		parts = append(parts, "Relevant provisions: "+strings.Join(in.references, ", ")+".")
	}
	if in.screened {
		parts = append(parts, screenedNotice)
	}
	return strings.Join(parts, " ")
}
