package llm

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/classify_system.txt
	classifySystem string
	//go:embed prompts/classify_user.txt
	classifyUser string
)

// ClassifySystemPrompt returns the system prompt for case classification.
func ClassifySystemPrompt() string {
	return strings.TrimSpace(classifySystem)
}

// ClassifyPrompt renders the classification prompt for text.
func ClassifyPrompt(text string) string {
	return strings.ReplaceAll(classifyUser, "{{TEXT}}", strings.TrimSpace(text))
}
