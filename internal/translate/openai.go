package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const openaiDefaultModel = "gpt-5-mini"

// OpenAITranslator implements Translator using OpenAI Chat Completions.
type OpenAITranslator struct {
	client openai.Client
	model  string
}

func NewOpenAITranslator(apiKey string) (*OpenAITranslator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	return &OpenAITranslator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  openaiDefaultModel,
	}, nil
}

func (t *OpenAITranslator) Name() Provider {
	return ProviderOpenAI
}

func (t *OpenAITranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if text == "" {
		return "", nil
	}

	completion, err := t.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: t.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(buildPrompt(text, sourceLang, targetLang)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("translation failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}

	translated := strings.TrimSpace(completion.Choices[0].Message.Content)
	if translated == "" {
		return "", fmt.Errorf("no text in OpenAI response")
	}
	return translated, nil
}
