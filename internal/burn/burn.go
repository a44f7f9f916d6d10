package burn

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/miyakawa-h/jimaku/internal/video"
)

// Spec is the instruction handed to the transcoder for rasterizing a subtitle
// file onto video frames.
type Spec struct {
	// FilterExpression is the complete -vf value.
	FilterExpression string
	// StyleOverride is the force_style payload. Empty for ASS, which carries
	// its own styling.
	StyleOverride string
}

// BuildSpec constructs the filter graph for burning subtitlePath into a video
// described by meta. ASS files are rendered with their embedded style; every
// other format goes through the subtitles filter with a force_style override.
func BuildSpec(subtitlePath string, fontSize int, meta video.Metadata) Spec {
	abs, err := filepath.Abs(subtitlePath)
	if err != nil {
		abs = subtitlePath
	}
	escaped := escapeFilterPath(abs)

	if strings.EqualFold(filepath.Ext(subtitlePath), ".ass") {
		return Spec{
			FilterExpression: fmt.Sprintf("ass='%s'", escaped),
		}
	}

	override := fmt.Sprintf("FontSize=%d", fontSize)
	if meta.Vertical() {
		// Vertical clips place subtitles at the top so they stay clear of
		// platform UI overlays at the bottom.
		margin := meta.Width * 5 / 100
		if margin < 10 {
			margin = 10
		}
		override += fmt.Sprintf(",MarginV=%d,Alignment=8", margin)
	}

	return Spec{
		FilterExpression: fmt.Sprintf("subtitles='%s':force_style='%s'", escaped, override),
		StyleOverride:    override,
	}
}

// escapeFilterPath prepares a path for use inside a quoted filter argument.
// Backslashes become forward slashes and colons are double-escaped so they
// survive both the filter-graph parser and the filter's own option parser.
func escapeFilterPath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	return strings.ReplaceAll(path, ":", `\\:`)
}

// Options control burn output placement.
type Options struct {
	FontSize  int
	OutputDir string
}

// Burn composites the subtitle file onto the video and returns the output
// path. The audio stream is copied untouched.
func Burn(ctx context.Context, videoPath, subtitlePath string, meta video.Metadata, opts Options) (string, error) {
	// ffmpeg-go runs cannot be interrupted, so cancellation is honored at
	// the launch boundary only.
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return "", fmt.Errorf("video file not found: %s", videoPath)
	}
	if _, err := os.Stat(subtitlePath); os.IsNotExist(err) {
		return "", fmt.Errorf("subtitle file not found: %s", subtitlePath)
	}

	outDir := opts.OutputDir
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	spec := BuildSpec(subtitlePath, opts.FontSize, meta)
	outputPath := filepath.Join(outDir, "burn_"+filepath.Base(videoPath))

	err := ffmpeg.Input(videoPath).
		Output(outputPath, ffmpeg.KwArgs{
			"vf":  spec.FilterExpression,
			"c:a": "copy",
		}).
		OverWriteOutput().
		Run()
	if err != nil {
		_ = os.Remove(outputPath)
		return "", fmt.Errorf("ffmpeg burn failed: %w", err)
	}

	return outputPath, nil
}
