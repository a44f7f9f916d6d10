package translate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	geminiDefaultModel = "gemini-2.5-flash"
	geminiMaxAttempts  = 3
	geminiRetryDelay   = time.Second
)

// GeminiTranslator implements Translator using Google Gemini.
type GeminiTranslator struct {
	client *genai.Client
	model  string
}

func NewGeminiTranslator(ctx context.Context, apiKey string) (*GeminiTranslator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiTranslator{
		client: client,
		model:  geminiDefaultModel,
	}, nil
}

func (t *GeminiTranslator) Name() Provider {
	return ProviderGemini
}

// Translate calls Gemini with a bounded retry loop: up to three attempts with
// a linearly growing delay between them.
func (t *GeminiTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if text == "" {
		return "", nil
	}

	prompt := buildPrompt(text, sourceLang, targetLang)
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	var lastErr error
	for attempt := 1; attempt <= geminiMaxAttempts; attempt++ {
		result, err := t.client.Models.GenerateContent(ctx, t.model, contents, nil)
		if err == nil {
			translated, perr := geminiResponseText(result)
			if perr == nil {
				return translated, nil
			}
			err = perr
		}
		lastErr = err

		if attempt == geminiMaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(geminiRetryDelay * time.Duration(attempt)):
		}
	}

	return "", fmt.Errorf("Gemini translation failed after %d attempts: %w", geminiMaxAttempts, lastErr)
}

func geminiResponseText(result *genai.GenerateContentResponse) (string, error) {
	if result == nil || len(result.Candidates) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}

	var sb strings.Builder
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
		if sb.Len() > 0 {
			break
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("no text in Gemini response")
	}
	return text, nil
}
