package translate

import (
	"context"
	"fmt"
	"strings"
)

// Provider names a translation backend.
type Provider string

const (
	ProviderNone      Provider = ""
	ProviderDeepL     Provider = "deepl"
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Translator translates one text between two languages identified by ISO 639
// codes. Implementations are stateless between calls; transient retry is an
// implementation concern and bounded.
type Translator interface {
	Name() Provider
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// Credentials carries API keys for the supported providers. Empty keys make
// the corresponding provider unavailable, which the chain treats as a
// recoverable per-provider failure.
type Credentials struct {
	DeepLKey     string
	GeminiKey    string
	OpenAIKey    string
	AnthropicKey string
}

// KeyFor returns the credential for a provider, empty when none is set.
func (c Credentials) KeyFor(provider Provider) string {
	switch provider {
	case ProviderDeepL:
		return c.DeepLKey
	case ProviderGemini:
		return c.GeminiKey
	case ProviderOpenAI:
		return c.OpenAIKey
	case ProviderAnthropic:
		return c.AnthropicKey
	default:
		return ""
	}
}

// DefaultProviderOrder is the standard fallback order: DeepL first, Gemini
// as the backstop.
func DefaultProviderOrder() []Provider {
	return []Provider{ProviderDeepL, ProviderGemini}
}

// ParseProviders parses a comma-separated provider list (e.g.
// "deepl,gemini" or "openai,anthropic") into an ordered slice.
func ParseProviders(s string) ([]Provider, error) {
	var order []Provider
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		switch p := Provider(part); p {
		case ProviderDeepL, ProviderGemini, ProviderOpenAI, ProviderAnthropic:
			order = append(order, p)
		default:
			return nil, fmt.Errorf("unsupported translation provider %q: use deepl, gemini, openai, or anthropic", part)
		}
	}
	if len(order) == 0 {
		return nil, fmt.Errorf("no translation providers given")
	}
	return order, nil
}

// Factory creates a Translator for a provider.
func Factory(ctx context.Context, provider Provider, apiKey string) (Translator, error) {
	switch provider {
	case ProviderDeepL:
		return NewDeepLTranslator(apiKey)
	case ProviderGemini:
		return NewGeminiTranslator(ctx, apiKey)
	case ProviderOpenAI:
		return NewOpenAITranslator(apiKey)
	case ProviderAnthropic:
		return NewAnthropicTranslator(apiKey)
	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", provider)
	}
}

// deeplSourceLang maps ISO codes to DeepL source language codes.
var deeplSourceLang = map[string]string{
	"en": "EN",
	"ja": "JA",
	"zh": "ZH",
	"es": "ES",
	"fr": "FR",
	"de": "DE",
	"pt": "PT-PT",
}

// deeplTargetLang maps ISO codes to DeepL target language codes. DeepL
// requires regional variants for some targets.
var deeplTargetLang = map[string]string{
	"en": "EN-US",
	"ja": "JA",
	"zh": "ZH",
	"es": "ES",
	"fr": "FR",
	"de": "DE",
	"pt": "PT-PT",
}

// displayName maps ISO codes to the English language names the LLM providers
// are prompted with. Unknown codes pass through unchanged.
var displayName = map[string]string{
	"en": "English",
	"ja": "Japanese",
	"zh": "Chinese",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"pt": "Portuguese",
}

func languageDisplayName(code string) string {
	if name, ok := displayName[strings.ToLower(code)]; ok {
		return name
	}
	return code
}

// buildPrompt is the shared single-text translation prompt for the LLM
// providers.
func buildPrompt(text, sourceLang, targetLang string) string {
	return fmt.Sprintf(
		"Translate the following text from %s to %s. "+
			"Output only the translated text, without any introductory phrases or explanations:\n\n%s",
		languageDisplayName(sourceLang),
		languageDisplayName(targetLang),
		text,
	)
}
