package ai

import "context"

// Result represents the output of a transcription engine run
type Result struct {
	Transcript string
	Language   string
	TLDR       string
	Duration   float64 // seconds, 0 if unknown
}

// Engine defines the interface for transcription engines
type Engine interface {
	// Transcribe transcribes the audio file at path. language is an
	// optional hint; empty means auto-detect.
	Transcribe(ctx context.Context, path string, language string) (*Result, error)

	// Name returns the engine identifier (e.g. the model name)
	Name() string
}
