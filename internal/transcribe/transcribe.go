package transcribe

import (
	"context"
	"fmt"
	"sync"

	"github.com/miyakawa-h/jimaku/internal/subtitle"
)

// Info describes what the provider detected about the audio.
type Info struct {
	Language   string  // ISO 639 code
	Confidence float64 // 0..1
}

// Result is a completed transcription: ordered segments plus detection info.
type Result struct {
	Segments []subtitle.Segment
	Info     Info
}

// Transcriber converts an audio file into time-stamped segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
}

// Provider names a transcription backend.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// Options configure a transcriber.
type Options struct {
	Model    string // provider-specific model, empty for the default
	Language string // expected source language hint, empty for auto-detect
}

// Factory creates a transcriber for a provider.
func Factory(ctx context.Context, provider Provider, apiKey string, opts Options) (Transcriber, error) {
	switch provider {
	case ProviderGemini:
		return NewGeminiTranscriber(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAITranscriber(apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported transcription provider: %s", provider)
	}
}

// Cache keeps transcriber instances alive across videos so clients are not
// rebuilt per call. Keys are (provider, model) profiles. The cache is owned
// by the caller and injected into the pipeline; there is no package-level
// state.
type Cache struct {
	mu      sync.Mutex
	entries map[string]Transcriber
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]Transcriber)}
}

// Get returns the cached transcriber for the profile, building it on first
// use.
func (c *Cache) Get(provider Provider, opts Options, build func() (Transcriber, error)) (Transcriber, error) {
	key := fmt.Sprintf("%s/%s", provider, opts.Model)

	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.entries[key]; ok {
		return t, nil
	}

	t, err := build()
	if err != nil {
		return nil, err
	}
	c.entries[key] = t
	return t, nil
}
