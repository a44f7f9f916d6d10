package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"google.golang.org/genai"

	"github.com/miyakawa-h/jimaku/internal/subtitle"
)

const geminiDefaultModel = "gemini-2.5-flash"

// GeminiTranscriber implements Transcriber using Google Gemini file upload
// plus a structured JSON prompt.
type GeminiTranscriber struct {
	client  *genai.Client
	model   string
	options Options
}

// transcript is the JSON shape the model is asked to produce.
type transcript struct {
	Language string              `json:"language"`
	Segments []transcriptSegment `json:"segments"`
}

type transcriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

func NewGeminiTranscriber(ctx context.Context, apiKey string, opts Options) (*GeminiTranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = geminiDefaultModel
	}

	return &GeminiTranscriber{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

func (t *GeminiTranscriber) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	uploadedFile, err := t.client.Files.UploadFromPath(ctx, audioPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upload audio file: %w", err)
	}
	defer func() {
		_, _ = t.client.Files.Delete(ctx, uploadedFile.Name, nil)
	}()

	parts := []*genai.Part{
		genai.NewPartFromText(t.buildPrompt()),
		genai.NewPartFromURI(uploadedFile.URI, uploadedFile.MIMEType),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := t.client.Models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	return t.parseResponse(result)
}

func (t *GeminiTranscriber) buildPrompt() string {
	var sb strings.Builder
	sb.WriteString("Transcribe the attached audio into time-stamped segments.\n\n")
	sb.WriteString("Return ONLY a JSON object with this structure:\n")
	sb.WriteString(`{"language": "<ISO 639-1 code of the spoken language>", `)
	sb.WriteString(`"segments": [{"start": 0.0, "end": 2.5, "text": "..."}]}` + "\n\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("1. start and end are seconds from the beginning of the audio.\n")
	sb.WriteString("2. Segments must be ordered and non-overlapping.\n")
	sb.WriteString("3. Keep each segment to one spoken phrase or sentence.\n")
	sb.WriteString("4. Transcribe in the original spoken language.\n")
	sb.WriteString("5. Do not add markdown fences or commentary.\n")
	if t.options.Language != "" {
		fmt.Fprintf(&sb, "\nThe audio is expected to be in %q.\n", t.options.Language)
	}
	return sb.String()
}

var jsonFenceRe = regexp.MustCompile("```(?:json)?\\s*")

func (t *GeminiTranscriber) parseResponse(result *genai.GenerateContentResponse) (*Result, error) {
	if result == nil || len(result.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	var responseText string
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			responseText += part.Text
		}
		if responseText != "" {
			break
		}
	}
	if responseText == "" {
		return nil, fmt.Errorf("no text in Gemini response")
	}

	responseText = jsonFenceRe.ReplaceAllString(responseText, "")
	responseText = strings.ReplaceAll(responseText, "```", "")

	start := strings.Index(responseText, "{")
	if start < 0 {
		return nil, fmt.Errorf("no JSON object in Gemini response")
	}

	var parsed transcript
	decoder := json.NewDecoder(strings.NewReader(responseText[start:]))
	if err := decoder.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to parse transcription JSON: %w", err)
	}

	segments := make([]subtitle.Segment, 0, len(parsed.Segments))
	for _, seg := range parsed.Segments {
		segments = append(segments, subtitle.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		})
	}

	language := strings.ToLower(strings.TrimSpace(parsed.Language))
	if language == "" {
		language = t.options.Language
	}

	return &Result{
		Segments: segments,
		// Gemini reports no probability; treat a detected language as firm.
		Info: Info{Language: language, Confidence: 1.0},
	}, nil
}
