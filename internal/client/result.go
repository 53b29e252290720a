package client

import (
	"encoding/json"
	"fmt"
)

// TranscriptionResult represents a parsed response from the transcribe API.
// Transcript, Language and TLDR are always present on a successful parse;
// Duration and Status are optional extras the server may include.
type TranscriptionResult struct {
	Transcript string   // The full transcribed text
	Language   string   // Detected language code or name
	TLDR       string   // Short summary of the transcript
	Duration   *float64 // Audio duration in seconds, if reported
	Status     string   // Server-reported status, if any
}

// wireResult mirrors the JSON shape returned by the transcribe API. The
// three required fields are pointers so a missing key can be told apart
// from an empty string.
type wireResult struct {
	Transcript *string  `json:"transcript"`
	Language   *string  `json:"language"`
	TLDR       *string  `json:"tldr"`
	Duration   *float64 `json:"duration"`
	Status     string   `json:"status"`
}

// parseResult decodes a response body into a TranscriptionResult. The result
// is all-or-nothing: if any of transcript, language or tldr is absent the
// whole parse fails.
func parseResult(body []byte) (*TranscriptionResult, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	var wire wireResult
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	for _, f := range []struct {
		name  string
		value *string
	}{
		{"transcript", wire.Transcript},
		{"language", wire.Language},
		{"tldr", wire.TLDR},
	} {
		if f.value == nil {
			return nil, fmt.Errorf("missing required field %q", f.name)
		}
	}

	return &TranscriptionResult{
		Transcript: *wire.Transcript,
		Language:   *wire.Language,
		TLDR:       *wire.TLDR,
		Duration:   wire.Duration,
		Status:     wire.Status,
	}, nil
}
