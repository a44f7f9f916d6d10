package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/miyakawa-h/jimaku/internal/pipeline"
	"github.com/miyakawa-h/jimaku/internal/subtitle"
	"github.com/miyakawa-h/jimaku/internal/transcribe"
	"github.com/miyakawa-h/jimaku/internal/translate"
	"github.com/miyakawa-h/jimaku/internal/video"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [video_file...]",
	Short: "Generate subtitles for one or more video files",
	Long: `Generate subtitles for the specified video files using AI transcription.

Each video is processed in turn: audio is extracted, transcribed into
time-stamped segments, translated to the target language when one is set,
and written as a subtitle file. A failure in one video does not stop the
others.

Translation tries DeepL first and falls back to Google Gemini. Segments
that every provider fails on keep their original text.

Examples:
  jimaku generate video.mp4
  jimaku generate *.mp4 --format ass --show-background
  jimaku generate video.mp4 -l en --font-size 48
  jimaku generate clip.mov -f fcpxml -o exports/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().
		StringP("format", "f", "srt", "Output subtitle format (srt, ass, fcpxml)")
	generateCmd.Flags().
		Int("font-size", 0, "Subtitle font size (0 selects one from the video width)")
	generateCmd.Flags().
		Int("max-lines", 0, "Maximum displayed lines per subtitle entry")
	generateCmd.Flags().
		String("style", "Default", "ASS style name to use")
	generateCmd.Flags().
		String("style-file", "", "JSON file with ASS style definitions")
	generateCmd.Flags().
		Bool("show-background", false, "Render an opaque box behind ASS subtitles")
	generateCmd.Flags().
		String("provider", "gemini", "Transcription provider (gemini, openai)")
	generateCmd.Flags().
		String("model", "", "Transcription model (provider-specific default when empty)")
	generateCmd.Flags().
		String("source-language", "", "Expected spoken language hint for transcription")
	generateCmd.Flags().
		String("translate-providers", "deepl,gemini", "Ordered translation fallback chain (deepl, gemini, openai, anthropic)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	for _, input := range args {
		if !video.IsMediaFile(input) {
			return fmt.Errorf("unsupported file type: %s (expected a video file)", filepath.Ext(input))
		}
	}

	formatStr, _ := cmd.Flags().GetString("format")
	format, err := subtitle.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	fontSize, _ := cmd.Flags().GetInt("font-size")
	maxLines, _ := cmd.Flags().GetInt("max-lines")
	styleName, _ := cmd.Flags().GetString("style")
	stylePath, _ := cmd.Flags().GetString("style-file")
	showBackground, _ := cmd.Flags().GetBool("show-background")
	providerStr, _ := cmd.Flags().GetString("provider")
	model, _ := cmd.Flags().GetString("model")
	sourceLang, _ := cmd.Flags().GetString("source-language")
	outputDir, _ := cmd.Flags().GetString("output")
	targetLang, _ := cmd.Flags().GetString("language")
	providersStr, _ := cmd.Flags().GetString("translate-providers")

	translateOrder, err := translate.ParseProviders(providersStr)
	if err != nil {
		return err
	}

	provider := transcribe.Provider(providerStr)
	creds := credentialsFromEnv()

	switch provider {
	case transcribe.ProviderGemini:
		if creds.GeminiKey == "" {
			return fmt.Errorf("Gemini API key is required: set GEMINI_API_KEY")
		}
	case transcribe.ProviderOpenAI:
		if creds.OpenAIKey == "" {
			return fmt.Errorf("OpenAI API key is required: set OPENAI_API_KEY")
		}
	default:
		return fmt.Errorf("unsupported transcription provider %q: use gemini or openai", providerStr)
	}

	runner := pipeline.New(ctx, pipeline.Options{
		Format:             format,
		OutputDir:          outputDir,
		TargetLanguage:     targetLang,
		FontSize:           fontSize,
		MaxLines:           maxLines,
		StyleName:          styleName,
		StylePath:          stylePath,
		ShowBackground:     showBackground,
		TranscribeProvider: provider,
		TranscribeModel:    model,
		SourceLanguage:     sourceLang,
		TranslateProviders: translateOrder,
		Credentials:        creds,
	}, logger)

	results := runner.Run(ctx, args)

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAILED  %s: %v\n", result.Input, result.Err)
			continue
		}
		fmt.Printf("OK      %s -> %s (%d segments", result.Input, result.OutputPath, result.Segments)
		if result.TranslationFailures > 0 {
			fmt.Printf(", %d kept original text", result.TranslationFailures)
		}
		fmt.Println(")")
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d videos failed", failed, len(results))
	}
	return nil
}

func credentialsFromEnv() translate.Credentials {
	return translate.Credentials{
		DeepLKey:     os.Getenv("DEEPL_API_KEY"),
		GeminiKey:    os.Getenv("GEMINI_API_KEY"),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
	}
}
