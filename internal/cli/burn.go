package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/miyakawa-h/jimaku/internal/burn"
	"github.com/miyakawa-h/jimaku/internal/subtitle"
	"github.com/miyakawa-h/jimaku/internal/video"
	"github.com/spf13/cobra"
)

var burnCmd = &cobra.Command{
	Use:   "burn [video_file] [subtitle_file]",
	Short: "Burn a subtitle file into a video",
	Long: `Burn the given subtitle file into the video as hard subtitles.

ASS files carry their own styling and are rendered as-is. For other
formats a font size override is applied, and vertical videos get their
subtitles moved to the top with a wider margin.

Examples:
  jimaku burn video.mp4 video.srt
  jimaku burn video.mp4 video.ass -o out/
  jimaku burn short.mp4 short.srt --font-size 36`,
	Args: cobra.ExactArgs(2),
	RunE: runBurn,
}

func init() {
	rootCmd.AddCommand(burnCmd)

	burnCmd.Flags().
		Int("font-size", 0, "Font size override (0 selects one from the video width)")
	burnCmd.Flags().
		Bool("dry-run", false, "Print the ffmpeg filter expression without encoding")
}

func runBurn(cmd *cobra.Command, args []string) error {
	videoPath, subtitlePath := args[0], args[1]
	ctx := context.Background()

	for _, path := range []string{videoPath, subtitlePath} {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("file not found: %s", path)
		}
	}

	fontSize, _ := cmd.Flags().GetInt("font-size")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	outputDir, _ := cmd.Flags().GetString("output")

	meta := video.Probe(ctx, videoPath, logger)
	if fontSize <= 0 {
		fontSize = subtitle.AutoFontSize(meta.Width, 0)
	}

	if dryRun {
		spec := burn.BuildSpec(subtitlePath, fontSize, meta)
		fmt.Println(spec.FilterExpression)
		return nil
	}

	logger.Infow("Burning subtitles",
		"video", videoPath,
		"subtitles", subtitlePath,
		"font_size", fontSize,
	)

	outPath, err := burn.Burn(ctx, videoPath, subtitlePath, meta, burn.Options{
		FontSize:  fontSize,
		OutputDir: outputDir,
	})
	if err != nil {
		return fmt.Errorf("burn failed: %w", err)
	}

	fmt.Printf("Burned video written to %s\n", outPath)
	return nil
}
