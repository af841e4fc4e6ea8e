package classify

import (
	"context"
	"math"
	"regexp"
	"strings"

	"mietrecht-backend/internal/legal"
)

// keywords are matched as lowercase substrings, so German stems also catch
// compounds ("mieterhöhung", "mieterhöhungsverlangen").
var keywords = map[legal.Category][]string{
	legal.CategoryRentReduction: {
		"mietminderung", "miete mindern", "minderung", "mangel", "mängel", "schimmel",
		"heizung ausgefallen", "kein warmwasser", "rent reduction", "reduce the rent", "reduce my rent",
		"mould", "mold", "defect",
	},
	legal.CategoryRentIncrease: {
		"mieterhöhung", "miete erhöht", "miete erhöhen", "erhöhungsverlangen", "staffelmiete", "indexmiete",
		"rent increase", "raise the rent", "raised the rent", "increase the rent",
	},
	legal.CategoryRentCap: {
		"mietpreisbremse", "vergleichsmiete", "mietspiegel", "rent cap", "rent control", "rent brake",
	},
	legal.CategoryDeposit: {
		"kaution", "mietsicherheit", "deposit", "security deposit",
	},
	legal.CategoryUtilityCosts: {
		"nebenkosten", "betriebskosten", "heizkosten", "abrechnung", "utility", "utilities", "service charge",
	},
	legal.CategoryRepairs: {
		"reparatur", "instandsetzung", "instandhaltung", "schönheitsreparatur", "kaputt", "defekt",
		"repair", "broken", "leak", "leaking",
	},
	legal.CategoryModernization: {
		"modernisierung", "sanierung", "energetische", "modernization", "modernisation", "renovation", "refurbish",
	},
	legal.CategoryTermination: {
		"kündigung", "gekündigt", "kündigen", "eigenbedarf", "kündigungsfrist",
		"termination", "terminate", "notice to quit", "notice period", "own use",
	},
	legal.CategoryEviction: {
		"räumung", "zwangsräumung", "räumungsklage", "gerichtsvollzieher", "rauswurf",
		"eviction", "evict", "bailiff", "thrown out",
	},
	legal.CategoryLandlordConflict: {
		"streit mit", "vermieter droht", "bedroht", "belästig", "schikan", "betritt die wohnung",
		"harass", "threaten", "dispute with my landlord", "conflict with my landlord", "enters my flat", "enters my apartment",
	},
	legal.CategoryNeighborDispute: {
		"nachbar", "lärm", "ruhestörung", "neighbor", "neighbour", "noise",
	},
	// Only acts of unequal treatment. Identity words alone describe the
	// writer, not the problem; see unequalTreatment.
	legal.CategoryDiscrimination: {
		"diskriminier", "benachteiligt", "rassis", "gleichbehandlung", "ungleich behandelt",
		"discriminat", "racis", "treated differently", "treated unfairly because",
	},
}

// unequalTreatment matches an identity ground tied to a cause ("wegen meiner
// Herkunft", "because of my religion"). It counts as one discrimination hit.
var unequalTreatment = regexp.MustCompile(
	`\b(?:wegen|aufgrund) (?:meiner|meines|meinem|unserer|unseres|seiner|ihrer) ` +
		`(?:herkunft|hautfarbe|religion|nationalität|ethnie|ethnischen herkunft|glaubens|behinderung|sexuellen identität|abstammung)` +
		`|\b(?:because of|due to|on account of) (?:my|our|his|her|their) ` +
		`(?:ethnicity|ethnic origin|origin|race|skin colou?r|religion|nationality|faith|disability|sexual orientation)`,
)

// KeywordClassifier classifies text with a fixed keyword table.
type KeywordClassifier struct {
	table map[legal.Category][]string
}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{table: keywords}
}

// Classify picks the category with the most keyword hits. Ties are resolved
// by category order. Text without any hit is classified as general.
func (k *KeywordClassifier) Classify(_ context.Context, text string) (legal.Classification, error) {
	normalized := strings.ToLower(strings.Join(strings.Fields(text), " "))
	if normalized == "" {
		return legal.Classification{}, ErrEmptyText
	}

	best := legal.CategoryGeneral
	bestHits := 0
	matched := 0
	for _, category := range legal.Categories {
		hits := 0
		for _, kw := range k.table[category] {
			if strings.Contains(normalized, kw) {
				hits++
			}
		}
		if category == legal.CategoryDiscrimination && unequalTreatment.MatchString(normalized) {
			hits++
		}
		if hits == 0 {
			continue
		}
		matched++
		if hits > bestHits {
			best = category
			bestHits = hits
		}
	}

	risk := RiskFor(best)
	return legal.Classification{
		Category:              best,
		Confidence:            confidenceFor(bestHits),
		RiskLevel:             risk,
		EscalationRecommended: risk == legal.RiskHigh,
		EstimatedComplexity:   complexityFor(matched),
	}, nil
}

func confidenceFor(hits int) float64 {
	if hits == 0 {
		return 0.3
	}
	c := 0.5 + 0.15*float64(hits)
	return math.Min(c, 0.95)
}

func complexityFor(matchedCategories int) legal.Complexity {
	switch {
	case matchedCategories >= 3:
		return legal.ComplexityComplex
	case matchedCategories == 2:
		return legal.ComplexityModerate
	default:
		return legal.ComplexitySimple
	}
}
