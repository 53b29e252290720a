package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/sashabaranov/go-openai"
)

// OpenAIEngine transcribes audio with the OpenAI audio API and produces the
// tldr with a chat completion.
type OpenAIEngine struct {
	client       *openai.Client
	whisperModel string
	summaryModel string
}

// NewOpenAIEngine creates an engine backed by the OpenAI API
func NewOpenAIEngine(apiKey, whisperModel, summaryModel string) *OpenAIEngine {
	if whisperModel == "" {
		whisperModel = openai.Whisper1
	}
	if summaryModel == "" {
		summaryModel = openai.GPT4oMini
	}
	return &OpenAIEngine{
		client:       openai.NewClient(apiKey),
		whisperModel: whisperModel,
		summaryModel: summaryModel,
	}
}

// Name returns the engine identifier
func (e *OpenAIEngine) Name() string {
	return e.whisperModel
}

// Transcribe runs speech-to-text on the audio file and summarizes the
// transcript. A summarization failure is not fatal: the tldr falls back to
// a transcript prefix.
func (e *OpenAIEngine) Transcribe(ctx context.Context, path string, language string) (*Result, error) {
	log.Printf("[OpenAI Engine] Transcribing %s with model %s", path, e.whisperModel)

	resp, err := e.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    e.whisperModel,
		FilePath: path,
		Language: language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("transcription API error: %w", err)
	}

	detectedLanguage := resp.Language
	if detectedLanguage == "" {
		detectedLanguage = "unknown"
	}

	log.Printf("[OpenAI Engine] Transcription complete. Language: %s, length: %d characters",
		detectedLanguage, len(resp.Text))

	tldr, err := e.summarize(ctx, resp.Text)
	if err != nil {
		log.Printf("[OpenAI Engine] Summarization failed, using fallback: %v", err)
		tldr = FallbackTLDR(resp.Text)
	}

	return &Result{
		Transcript: resp.Text,
		Language:   detectedLanguage,
		TLDR:       tldr,
		Duration:   resp.Duration,
	}, nil
}

// summarize produces a one-paragraph tldr of the transcript via chat
// completion. The model is asked for a JSON object so the answer can be
// parsed deterministically.
func (e *OpenAIEngine) summarize(ctx context.Context, transcript string) (string, error) {
	if transcript == "" {
		return "", nil
	}

	req := openai.ChatCompletionRequest{
		Model: e.summaryModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: `You summarize transcripts. Respond with a JSON object {"tldr": "..."} containing a single short paragraph (max 2 sentences) summarizing the transcript in its own language.`,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: transcript,
			},
		},
		Temperature: 0.3, // Low temperature for factual output
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI returned no choices")
	}

	content := resp.Choices[0].Message.Content

	var parsed struct {
		TLDR string `json:"tldr"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		// Some models wrap JSON in markdown code blocks despite the
		// response format; try to extract it before giving up.
		extracted := extractJSONFromMarkdown(content)
		if err := json.Unmarshal([]byte(extracted), &parsed); err != nil {
			return "", fmt.Errorf("failed to parse summary response as JSON: %w", err)
		}
	}

	if parsed.TLDR == "" {
		return "", fmt.Errorf("empty tldr in summary response")
	}
	return parsed.TLDR, nil
}
