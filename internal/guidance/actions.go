package guidance

import (
	"sort"
	"strings"

	"mietrecht-backend/internal/legal"
)

// Actions shared across categories. The counsel action text is matched by
// clients, so keep its wording stable.
const (
	ActionProfessionalCounsel = "Seek advice from a lawyer specialising in tenancy law or a local tenants' or landlords' association"
	ActionConsultation        = "Book a consultation to review the details of your case"
	ActionUploadDocuments     = "Upload the relevant documents for an automated check"
)

func action(text string, priority legal.Priority, details string) legal.ActionRecommendation {
	return legal.ActionRecommendation{Action: text, Priority: priority, Details: details}
}

var catalog = map[legal.Category][]legal.ActionRecommendation{
	legal.CategoryRentReduction: {
		action("Notify the landlord of the defect in writing and set a reasonable deadline for repair", legal.PriorityHigh, "Rent is reduced by law for the period of a significant defect (§ 536 BGB); the notice is required."),
		action("Document the defect with dated photos and notes", legal.PriorityMedium, ""),
		action("Continue paying the full rent under reservation until the reduction is agreed", legal.PriorityMedium, "Paying under reservation avoids arrears if the reduction is disputed."),
	},
	legal.CategoryRentIncrease: {
		action("Check the increase against the local rent index (Mietspiegel)", legal.PriorityHigh, "Increases up to the local comparative rent are limited by § 558 BGB."),
		action("Verify that rent has not risen by more than the capping limit within three years", legal.PriorityMedium, ""),
		action("Respond within the consent period stated in the notice", legal.PriorityMedium, ""),
	},
	legal.CategoryRentCap: {
		action("Compare the agreed rent with the local comparative rent plus 10%", legal.PriorityHigh, "§ 556d BGB caps rent in designated areas."),
		action("Send a written complaint (Rüge) to the landlord to reclaim excess rent", legal.PriorityMedium, ""),
	},
	legal.CategoryDeposit: {
		action("Check that the deposit does not exceed three monthly base rents", legal.PriorityHigh, "§ 551 BGB limits the deposit and allows payment in three instalments."),
		action("Request written confirmation of how the deposit is held", legal.PriorityLow, ""),
	},
	legal.CategoryUtilityCosts: {
		action("Review the utility statement for formal errors and the 12-month deadline", legal.PriorityHigh, "Statements delivered later than 12 months after the billing period generally cannot claim back payments (§ 556 BGB)."),
		action("Request access to the underlying invoices", legal.PriorityMedium, ""),
	},
	legal.CategoryRepairs: {
		action("Report the need for repair to the landlord in writing", legal.PriorityHigh, "The landlord must keep the property in a usable condition (§ 535 BGB)."),
		action("Keep copies of all correspondence", legal.PriorityLow, ""),
	},
	legal.CategoryModernization: {
		action("Check that the modernisation notice was given at least three months in advance", legal.PriorityHigh, ""),
		action("Verify the announced rent increase against the 8% allocation limit", legal.PriorityMedium, "§ 559 BGB caps the annual allocation of modernisation costs."),
	},
	legal.CategoryTermination: {
		action("Check the notice period and the formal requirements of the termination", legal.PriorityHigh, "A termination must be in writing (§ 568 BGB) and observe the statutory periods (§ 573c BGB)."),
		action("Note all deadlines, including the deadline for an objection under the hardship clause", legal.PriorityHigh, ""),
	},
	legal.CategoryEviction: {
		action("Do not ignore court documents and observe every deadline", legal.PriorityHigh, "Deadlines in eviction proceedings are short (§ 721 ZPO)."),
		action("Clarify whether outstanding arrears can still be settled", legal.PriorityMedium, ""),
	},
	legal.CategoryLandlordConflict: {
		action("Keep communication in writing and factual", legal.PriorityMedium, ""),
		action("Consider mediation through a tenants' or landlords' association", legal.PriorityMedium, ""),
	},
	legal.CategoryNeighborDispute: {
		action("Keep a log of disturbances with dates and times", legal.PriorityMedium, ""),
		action("Inform the landlord or property management in writing", legal.PriorityMedium, ""),
	},
	legal.CategoryDiscrimination: {
		action("Record what happened, including dates and witnesses", legal.PriorityHigh, "Claims under the AGG must be asserted within two months."),
		action("Contact an anti-discrimination counselling service", legal.PriorityMedium, ""),
	},
	legal.CategoryGeneral: {
		action("Describe your situation in more detail for a specific assessment", legal.PriorityLow, ""),
	},
}

// actionsFor assembles the recommendations for a scenario. It reads only the
// classification and intent.
func actionsFor(s Scenario) []legal.ActionRecommendation {
	c := s.Classification
	out := make([]legal.ActionRecommendation, 0, 6)
	if base, ok := catalog[c.Category]; ok {
		out = append(out, base...)
	} else {
		out = append(out, catalog[legal.CategoryGeneral]...)
	}
	if needsCounsel(c) {
		out = append(out, action(ActionProfessionalCounsel, legal.PriorityHigh, "Professional advice is recommended given the risk involved in this matter."))
	}
	if c.EstimatedComplexity == legal.ComplexityComplex {
		out = append(out, action(ActionConsultation, legal.PriorityMedium, "Cases of this complexity usually depend on details of the individual contract."))
	}
	if s.Intent.Type == IntentDocumentReview {
		out = append(out, action(ActionUploadDocuments, legal.PriorityMedium, "Contracts can be checked for rent, deposit and missing information."))
	}

	out = dedupe(out)
	sortActions(out)
	return out
}

func needsCounsel(c legal.Classification) bool {
	return c.RiskLevel == legal.RiskHigh || c.Category.ConflictOriented()
}

// dedupe keeps the first occurrence of each action, raised to the highest
// priority seen for it.
func dedupe(items []legal.ActionRecommendation) []legal.ActionRecommendation {
	index := make(map[string]int, len(items))
	out := make([]legal.ActionRecommendation, 0, len(items))
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item.Action))
		if key == "" {
			continue
		}
		if i, ok := index[key]; ok {
			if item.Priority.Rank() > out[i].Priority.Rank() {
				out[i].Priority = item.Priority
			}
			if out[i].Details == "" {
				out[i].Details = item.Details
			}
			continue
		}
		index[key] = len(out)
		out = append(out, item)
	}
	return out
}

func sortActions(items []legal.ActionRecommendation) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Priority.Rank() > items[j].Priority.Rank()
	})
}
