package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/miyakawa-h/jimaku/internal/subtitle"
	"github.com/miyakawa-h/jimaku/internal/translate"
	"github.com/miyakawa-h/jimaku/internal/video"
	"github.com/spf13/cobra"
)

var translateCmd = &cobra.Command{
	Use:   "translate [srt_file]",
	Short: "Translate an existing SRT file to another language",
	Long: `Translate an existing SRT subtitle file to another language.

DeepL is tried first, then Google Gemini. Entries that every provider
fails on keep their original text and are reported at the end.

Examples:
  jimaku translate video.srt --target-language en
  jimaku translate video.srt -s ja -t en -o video.en.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().
		StringP("source-language", "s", "", "Source language code (required)")
	translateCmd.Flags().
		StringP("target-language", "t", "", "Target language code (required)")
	translateCmd.Flags().
		String("translate-providers", "deepl,gemini", "Ordered translation fallback chain (deepl, gemini, openai, anthropic)")

	_ = translateCmd.MarkFlagRequired("source-language")
	_ = translateCmd.MarkFlagRequired("target-language")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	subtitlePath := args[0]
	ctx := context.Background()

	if !strings.EqualFold(filepath.Ext(subtitlePath), ".srt") {
		return fmt.Errorf("unsupported subtitle format: %s (only .srt is supported)", filepath.Ext(subtitlePath))
	}

	sourceLang, _ := cmd.Flags().GetString("source-language")
	targetLang, _ := cmd.Flags().GetString("target-language")
	outputPath, _ := cmd.Flags().GetString("output")

	file, err := os.Open(subtitlePath)
	if err != nil {
		return fmt.Errorf("failed to open subtitle file: %w", err)
	}
	cues, err := subtitle.ParseSRT(file, logger)
	file.Close()
	if err != nil {
		return err
	}
	if len(cues) == 0 {
		return fmt.Errorf("no subtitle entries found in %s", subtitlePath)
	}

	segments := make([]subtitle.Segment, len(cues))
	for i, cue := range cues {
		segments[i] = subtitle.Segment{Start: cue.Start, End: cue.End, Text: cue.Text}
	}

	providersStr, _ := cmd.Flags().GetString("translate-providers")
	order, err := translate.ParseProviders(providersStr)
	if err != nil {
		return err
	}
	chain := translate.NewChainFor(ctx, order, credentialsFromEnv(), logger)

	logger.Infow("Translating subtitles",
		"input", subtitlePath,
		"entries", len(segments),
		"source", sourceLang,
		"target", targetLang,
	)

	translated, failures := chain.TranslateSegments(ctx, segments, sourceLang, targetLang)

	encoder, err := subtitle.NewEncoder(subtitle.FormatSRT, subtitle.Config{Logger: logger})
	if err != nil {
		return err
	}
	data, err := encoder.Encode(translated, video.DefaultMetadata())
	if err != nil {
		return fmt.Errorf("failed to encode subtitles: %w", err)
	}

	if outputPath == "" {
		base := strings.TrimSuffix(subtitlePath, filepath.Ext(subtitlePath))
		outputPath = fmt.Sprintf("%s.%s.srt", base, strings.ToLower(targetLang))
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write subtitle file: %w", err)
	}

	fmt.Printf("Translated subtitles written to %s\n", outputPath)
	if failures > 0 {
		fmt.Printf("%d of %d entries kept their original text\n", failures, len(segments))
	}
	return nil
}
