package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	deeplFreeEndpoint = "https://api-free.deepl.com/v2/translate"
	deeplProEndpoint  = "https://api.deepl.com/v2/translate"
)

// DeepLTranslator implements Translator against the DeepL REST API.
type DeepLTranslator struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewDeepLTranslator(apiKey string) (*DeepLTranslator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	// Free-tier keys carry an ":fx" suffix and use a separate host.
	endpoint := deeplProEndpoint
	if strings.HasSuffix(apiKey, ":fx") {
		endpoint = deeplFreeEndpoint
	}

	return &DeepLTranslator{
		apiKey:   apiKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (t *DeepLTranslator) Name() Provider {
	return ProviderDeepL
}

type deeplResponse struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

func (t *DeepLTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if text == "" {
		return "", nil
	}

	source, ok := deeplSourceLang[strings.ToLower(sourceLang)]
	if !ok {
		return "", fmt.Errorf("DeepL does not support source language: %s", sourceLang)
	}
	target, ok := deeplTargetLang[strings.ToLower(targetLang)]
	if !ok {
		return "", fmt.Errorf("DeepL does not support target language: %s", targetLang)
	}

	form := url.Values{}
	form.Set("text", text)
	form.Set("source_lang", source)
	form.Set("target_lang", target)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build DeepL request: %w", err)
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+t.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("DeepL request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read DeepL response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden, http.StatusUnauthorized:
		return "", fmt.Errorf("DeepL authentication failed: %s", resp.Status)
	case 456:
		return "", fmt.Errorf("DeepL quota exceeded")
	default:
		return "", fmt.Errorf("DeepL API error: %s", resp.Status)
	}

	var parsed deeplResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse DeepL response: %w", err)
	}
	if len(parsed.Translations) == 0 {
		return "", fmt.Errorf("empty DeepL response")
	}

	return parsed.Translations[0].Text, nil
}
