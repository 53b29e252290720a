package ai

import "strings"

// tldrMaxChars bounds the fallback summary length
const tldrMaxChars = 150

// FallbackTLDR builds a summary without an LLM: the first 150 characters of
// the transcript, with an ellipsis when truncated.
func FallbackTLDR(transcript string) string {
	transcript = strings.TrimSpace(transcript)
	if len(transcript) <= tldrMaxChars {
		return transcript
	}
	return transcript[:tldrMaxChars] + "..."
}

// extractJSONFromMarkdown extracts JSON from markdown code blocks
func extractJSONFromMarkdown(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}

	return strings.TrimSpace(content)
}
