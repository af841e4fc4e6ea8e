package guidance

import (
	"regexp"
	"strings"
)

var intentPatterns = []struct {
	intent IntentType
	re     *regexp.Regexp
}{
	{IntentDocumentReview, regexp.MustCompile(`(?i)(?:prüf|durchseh|\bcheck|\breview|\blook\s+over).*(?:vertrag|abrechnung|schreiben|brief|kündigung|\bcontract|\blease|\bstatement|\bletter|\bnotice)`)},
	{IntentDocumentReview, regexp.MustCompile(`(?i)(?:vertrag|abrechnung|\bcontract|\blease|\bstatement).*(?:prüf|\bcheck|\breview)`)},
	{IntentComplaint, regexp.MustCompile(`(?i)(?:beschwer|\bcomplain|ärger|\bproblem)`)},
}

// DetectIntent infers the intent of free text. Text ending in a question
// mark without any other signal is a legal question.
func DetectIntent(text string) Intent {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Intent{Type: IntentGeneral, Confidence: 0}
	}
	for _, p := range intentPatterns {
		if p.re.MatchString(trimmed) {
			return Intent{Type: p.intent, Confidence: 0.7}
		}
	}
	if strings.Contains(trimmed, "?") {
		return Intent{Type: IntentLegalQuestion, Confidence: 0.6}
	}
	return Intent{Type: IntentLegalQuestion, Confidence: 0.4}
}
