package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/miyakawa-h/jimaku/internal/subtitle"
)

const openaiDefaultModel = "whisper-1"

// OpenAITranscriber implements Transcriber using the OpenAI Audio API with
// verbose_json segment timestamps.
type OpenAITranscriber struct {
	client  openai.Client
	model   string
	options Options
}

// whisperVerboseResponse is the verbose_json payload from the Audio API.
type whisperVerboseResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func NewOpenAITranscriber(apiKey string, opts Options) (*OpenAITranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	model := opts.Model
	if model == "" {
		model = openaiDefaultModel
	}

	return &OpenAITranscriber{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		options: opts,
	}, nil
}

func (t *OpenAITranscriber) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	params := openai.AudioTranscriptionNewParams{
		File:                   file,
		Model:                  openai.AudioModel(t.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"segment"},
	}
	if t.options.Language != "" {
		params.Language = openai.String(t.options.Language)
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	return parseVerboseJSON(resp.RawJSON(), t.options.Language)
}

// whisperLanguageNames maps the full language names the Audio API reports
// in verbose_json ("english") to ISO 639-1 codes. Unknown names pass
// through lowered so downstream comparisons stay case insensitive.
var whisperLanguageNames = map[string]string{
	"arabic":     "ar",
	"chinese":    "zh",
	"czech":      "cs",
	"danish":     "da",
	"dutch":      "nl",
	"english":    "en",
	"finnish":    "fi",
	"french":     "fr",
	"german":     "de",
	"greek":      "el",
	"hebrew":     "he",
	"hindi":      "hi",
	"hungarian":  "hu",
	"indonesian": "id",
	"italian":    "it",
	"japanese":   "ja",
	"korean":     "ko",
	"norwegian":  "no",
	"polish":     "pl",
	"portuguese": "pt",
	"romanian":   "ro",
	"russian":    "ru",
	"spanish":    "es",
	"swedish":    "sv",
	"thai":       "th",
	"turkish":    "tr",
	"ukrainian":  "uk",
	"vietnamese": "vi",
}

func whisperLanguageCode(language string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	if code, ok := whisperLanguageNames[language]; ok {
		return code
	}
	return language
}

func parseVerboseJSON(rawJSON, fallbackLanguage string) (*Result, error) {
	if rawJSON == "" {
		return nil, fmt.Errorf("empty response")
	}

	var verbose whisperVerboseResponse
	if err := json.Unmarshal([]byte(rawJSON), &verbose); err != nil {
		return nil, fmt.Errorf("failed to parse verbose_json response: %w", err)
	}

	language := whisperLanguageCode(verbose.Language)
	if language == "" {
		language = fallbackLanguage
	}
	info := Info{Language: language, Confidence: 1.0}

	if len(verbose.Segments) == 0 {
		text := strings.TrimSpace(verbose.Text)
		if text == "" {
			return nil, fmt.Errorf("no segments or text in response")
		}
		// Whole-file fallback when the API returns no per-segment timing.
		return &Result{
			Segments: []subtitle.Segment{{Start: 0, End: verbose.Duration, Text: text}},
			Info:     info,
		}, nil
	}

	segments := make([]subtitle.Segment, 0, len(verbose.Segments))
	for _, seg := range verbose.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		segments = append(segments, subtitle.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  text,
		})
	}

	return &Result{Segments: segments, Info: info}, nil
}
