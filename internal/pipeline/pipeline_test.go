package pipeline

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/miyakawa-h/jimaku/internal/subtitle"
	"github.com/miyakawa-h/jimaku/internal/transcribe"
	"github.com/miyakawa-h/jimaku/internal/translate"
)

func TestRunMissingInputsAreIsolated(t *testing.T) {
	runner := New(context.Background(), Options{}, nil)

	inputs := []string{"/nonexistent/a.mp4", "/nonexistent/b.mp4"}
	results := runner.Run(context.Background(), inputs)

	if len(results) != len(inputs) {
		t.Fatalf("expected %d results, got %d", len(inputs), len(results))
	}
	for i, result := range results {
		if result.Input != inputs[i] {
			t.Errorf("result %d: expected input %q, got %q", i, inputs[i], result.Input)
		}
		if result.Err == nil {
			t.Errorf("result %d: expected error for missing input", i)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name      string
		outputDir string
		format    subtitle.Format
		input     string
		want      string
	}{
		{
			name:   "next to input",
			format: subtitle.FormatSRT,
			input:  filepath.Join("videos", "episode1.mp4"),
			want:   filepath.Join("videos", "episode1.srt"),
		},
		{
			name:      "explicit output dir",
			outputDir: "out",
			format:    subtitle.FormatASS,
			input:     filepath.Join("videos", "episode1.mp4"),
			want:      filepath.Join("out", "episode1.ass"),
		},
		{
			name:      "fcpxml extension",
			outputDir: "out",
			format:    subtitle.FormatFCPXML,
			input:     "clip.mov",
			want:      filepath.Join("out", "clip.fcpxml"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := New(context.Background(), Options{
				OutputDir: tt.outputDir,
				Format:    tt.format,
			}, nil)
			if got := runner.outputPath(tt.input); got != tt.want {
				t.Errorf("outputPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNeedsTranslation(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		detected string
		want     bool
	}{
		{"no target disables translation", "", "ja", false},
		{"same language skipped", "en", "en", false},
		{"case insensitive match", "en", "EN", false},
		{"different language translated", "en", "ja", true},
		{"unknown detected language translated", "en", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := New(context.Background(), Options{TargetLanguage: tt.target}, nil)
			if got := runner.needsTranslation(tt.detected); got != tt.want {
				t.Errorf("needsTranslation(%q) with target %q = %v, want %v",
					tt.detected, tt.target, got, tt.want)
			}
		})
	}
}

func TestTranscribeKeySelection(t *testing.T) {
	creds := translate.Credentials{GeminiKey: "gem", OpenAIKey: "oai"}

	gemini := New(context.Background(), Options{
		TranscribeProvider: transcribe.ProviderGemini,
		Credentials:        creds,
	}, nil)
	if got := gemini.transcribeKey(); got != "gem" {
		t.Errorf("expected Gemini key, got %q", got)
	}

	openai := New(context.Background(), Options{
		TranscribeProvider: transcribe.ProviderOpenAI,
		Credentials:        creds,
	}, nil)
	if got := openai.transcribeKey(); got != "oai" {
		t.Errorf("expected OpenAI key, got %q", got)
	}
}

func TestNewDefaults(t *testing.T) {
	runner := New(context.Background(), Options{}, nil)

	if runner.opts.Format != subtitle.FormatSRT {
		t.Errorf("expected default format srt, got %s", runner.opts.Format)
	}
	if runner.opts.TranscribeProvider != transcribe.ProviderGemini {
		t.Errorf("expected default provider gemini, got %s", runner.opts.TranscribeProvider)
	}
	if runner.logger == nil {
		t.Error("expected a logger even when none is supplied")
	}

	want := translate.DefaultProviderOrder()
	if len(runner.opts.TranslateProviders) != len(want) {
		t.Fatalf("expected default provider order %v, got %v", want, runner.opts.TranslateProviders)
	}
	for i := range want {
		if runner.opts.TranslateProviders[i] != want[i] {
			t.Errorf("provider %d: got %s, want %s", i, runner.opts.TranslateProviders[i], want[i])
		}
	}
}
