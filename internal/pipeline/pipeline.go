// Package pipeline runs the end-to-end subtitle generation flow for a batch
// of videos: probe, audio extraction, transcription, translation, encoding
// and output. Videos are processed sequentially; one failing video never
// aborts the rest of the batch.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/miyakawa-h/jimaku/internal/logging"
	"github.com/miyakawa-h/jimaku/internal/style"
	"github.com/miyakawa-h/jimaku/internal/subtitle"
	"github.com/miyakawa-h/jimaku/internal/transcribe"
	"github.com/miyakawa-h/jimaku/internal/translate"
	"github.com/miyakawa-h/jimaku/internal/video"
)

// Options configure a batch run.
type Options struct {
	Format         subtitle.Format
	OutputDir      string // empty means next to each input
	TargetLanguage string // ISO 639 code, empty disables translation

	FontSize        int // 0 selects an automatic size from the video width
	FontSizeDivisor int // width divisor for automatic sizing, 0 means 30
	MaxLines        int

	StyleName      string
	StylePath      string // JSON style table for ASS output
	ShowBackground bool

	TranscribeProvider transcribe.Provider
	TranscribeModel    string
	SourceLanguage     string // hint passed to the transcriber

	// TranslateProviders is the fallback order; empty selects the default
	// DeepL-then-Gemini chain.
	TranslateProviders []translate.Provider
	Credentials        translate.Credentials
}

// Result reports the outcome for a single input video.
type Result struct {
	Input               string
	OutputPath          string
	Language            string // detected source language
	Segments            int
	TranslationFailures int
	Err                 error
}

// Runner executes batches. Transcriber clients are cached across videos so a
// batch builds each provider once.
type Runner struct {
	opts   Options
	logger *logging.Logger
	cache  *transcribe.Cache
	chain  *translate.Chain
	styles style.Table
}

func New(ctx context.Context, opts Options, logger *logging.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	if opts.Format == "" {
		opts.Format = subtitle.FormatSRT
	}
	if opts.TranscribeProvider == "" {
		opts.TranscribeProvider = transcribe.ProviderGemini
	}
	if len(opts.TranslateProviders) == 0 {
		opts.TranslateProviders = translate.DefaultProviderOrder()
	}

	var styles style.Table
	if opts.StylePath != "" {
		styles = style.Load(opts.StylePath, logger)
	}

	return &Runner{
		opts:   opts,
		logger: logger,
		cache:  transcribe.NewCache(),
		chain:  translate.NewChainFor(ctx, opts.TranslateProviders, opts.Credentials, logger),
		styles: styles,
	}
}

// Run processes each input in order and returns one result per input, in the
// same order. A failed video is reported through its Result.Err.
func (r *Runner) Run(ctx context.Context, inputs []string) []Result {
	results := make([]Result, 0, len(inputs))
	for _, input := range inputs {
		result := r.processOne(ctx, input)
		if result.Err != nil {
			r.logger.Warnw("Video failed",
				"input", input,
				"error", result.Err,
			)
		} else {
			r.logger.Infow("Video done",
				"input", input,
				"output", result.OutputPath,
				"segments", result.Segments,
			)
		}
		results = append(results, result)
	}
	return results
}

func (r *Runner) processOne(ctx context.Context, input string) Result {
	result := Result{Input: input}

	if _, err := os.Stat(input); err != nil {
		result.Err = fmt.Errorf("input not accessible: %w", err)
		return result
	}

	meta := video.Probe(ctx, input, r.logger)

	tmpDir, err := os.MkdirTemp("", "jimaku-*")
	if err != nil {
		result.Err = fmt.Errorf("failed to create working directory: %w", err)
		return result
	}
	defer os.RemoveAll(tmpDir)

	audioPath := filepath.Join(tmpDir, "audio.wav")
	if err := video.ExtractAudio(ctx, input, audioPath); err != nil {
		result.Err = fmt.Errorf("audio extraction failed: %w", err)
		return result
	}

	transcriber, err := r.transcriber(ctx)
	if err != nil {
		result.Err = err
		return result
	}

	r.logger.Infow("Transcribing",
		"input", input,
		"provider", r.opts.TranscribeProvider,
	)
	transcription, err := transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		result.Err = fmt.Errorf("transcription failed: %w", err)
		return result
	}
	result.Language = transcription.Info.Language

	segments := transcription.Segments
	if r.needsTranslation(transcription.Info.Language) {
		segments, result.TranslationFailures = r.chain.TranslateSegments(
			ctx, segments, transcription.Info.Language, r.opts.TargetLanguage)
	}
	result.Segments = len(segments)

	fontSize := r.opts.FontSize
	if fontSize <= 0 {
		fontSize = subtitle.AutoFontSize(meta.Width, r.opts.FontSizeDivisor)
	}

	encoder, err := subtitle.NewEncoder(r.opts.Format, subtitle.Config{
		FontSize:       fontSize,
		MaxLines:       r.opts.MaxLines,
		StyleName:      r.opts.StyleName,
		Styles:         r.styles,
		ShowBackground: r.opts.ShowBackground,
		Logger:         r.logger,
	})
	if err != nil {
		result.Err = err
		return result
	}

	data, err := encoder.Encode(segments, meta)
	if err != nil {
		result.Err = fmt.Errorf("encoding failed: %w", err)
		return result
	}
	if len(data) == 0 {
		result.Err = fmt.Errorf("no usable segments in %s", input)
		return result
	}

	outPath := r.outputPath(input)
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			result.Err = fmt.Errorf("failed to create output directory: %w", err)
			return result
		}
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		result.Err = fmt.Errorf("failed to write subtitle file: %w", err)
		return result
	}
	result.OutputPath = outPath

	return result
}

func (r *Runner) transcriber(ctx context.Context) (transcribe.Transcriber, error) {
	opts := transcribe.Options{
		Model:    r.opts.TranscribeModel,
		Language: r.opts.SourceLanguage,
	}
	return r.cache.Get(r.opts.TranscribeProvider, opts, func() (transcribe.Transcriber, error) {
		return transcribe.Factory(ctx, r.opts.TranscribeProvider, r.transcribeKey(), opts)
	})
}

func (r *Runner) transcribeKey() string {
	switch r.opts.TranscribeProvider {
	case transcribe.ProviderOpenAI:
		return r.opts.Credentials.OpenAIKey
	default:
		return r.opts.Credentials.GeminiKey
	}
}

func (r *Runner) needsTranslation(detected string) bool {
	target := strings.TrimSpace(r.opts.TargetLanguage)
	if target == "" {
		return false
	}
	return !strings.EqualFold(strings.TrimSpace(detected), target)
}

func (r *Runner) outputPath(input string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name := base + r.opts.Format.Extension()
	if r.opts.OutputDir != "" {
		return filepath.Join(r.opts.OutputDir, name)
	}
	return filepath.Join(filepath.Dir(input), name)
}
