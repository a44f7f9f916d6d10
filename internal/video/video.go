package video

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/miyakawa-h/jimaku/internal/logging"
)

// Metadata describes the properties of a video file relevant to subtitle
// generation and burn-in.
type Metadata struct {
	Width     int
	Height    int
	FrameRate float64
	Duration  float64 // seconds
}

// DefaultMetadata is substituted whenever probing fails. Probing failure is
// never fatal to encoding.
func DefaultMetadata() Metadata {
	return Metadata{
		Width:     1280,
		Height:    720,
		FrameRate: 24.0,
		Duration:  60.0,
	}
}

// Vertical reports whether the video is taller than it is wide.
func (m Metadata) Vertical() bool {
	return m.Height > m.Width
}

// ffprobe JSON output, limited to the fields we read.
type probeOutput struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		RFrameRate   string `json:"r_frame_rate"`
		AvgFrameRate string `json:"avg_frame_rate"`
		Duration     string `json:"duration"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe inspects a video file with ffprobe. On any failure the defaults are
// returned so downstream encoding can proceed.
func Probe(ctx context.Context, path string, logger *logging.Logger) Metadata {
	if logger == nil {
		logger = logging.NewNop()
	}

	meta := DefaultMetadata()
	if path == "" {
		return meta
	}
	if err := ctx.Err(); err != nil {
		logger.Warnw("Probe cancelled, using default metadata",
			"path", path,
			"error", err,
		)
		return meta
	}

	raw, err := ffmpeg.Probe(path)
	if err != nil {
		logger.Warnw("ffprobe failed, using default metadata",
			"path", path,
			"error", err,
		)
		return meta
	}

	parsed, err := parseProbe(raw)
	if err != nil {
		logger.Warnw("Could not parse ffprobe output, using default metadata",
			"path", path,
			"error", err,
		)
		return meta
	}

	logger.Debugw("Probed video",
		"path", path,
		"width", parsed.Width,
		"height", parsed.Height,
		"frame_rate", parsed.FrameRate,
		"duration", parsed.Duration,
	)
	return parsed
}

func parseProbe(raw string) (Metadata, error) {
	var probe probeOutput
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return Metadata{}, err
	}

	meta := DefaultMetadata()
	for _, s := range probe.Streams {
		if s.CodecType != "video" {
			continue
		}
		if s.Width > 0 {
			meta.Width = s.Width
		}
		if s.Height > 0 {
			meta.Height = s.Height
		}
		if rate, ok := parseFrameRate(s.RFrameRate); ok {
			meta.FrameRate = rate
		} else if rate, ok := parseFrameRate(s.AvgFrameRate); ok {
			meta.FrameRate = rate
		}
		if d, err := strconv.ParseFloat(s.Duration, 64); err == nil && d > 0 {
			meta.Duration = d
		} else if d, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil && d > 0 {
			meta.Duration = d
		}
		return meta, nil
	}

	return Metadata{}, fmt.Errorf("no video stream found")
}

// parseFrameRate parses an ffprobe rate fraction like "30000/1001".
func parseFrameRate(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		rate, err := strconv.ParseFloat(s, 64)
		return rate, err == nil && rate > 0
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, false
	}
	rate := n / d
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, false
	}
	return rate, true
}

// ExtractAudio converts the input media to 16 kHz mono PCM WAV, the format
// the transcription providers expect.
func ExtractAudio(ctx context.Context, inputPath, outputPath string) error {
	// ffmpeg-go runs cannot be interrupted, so cancellation is honored at
	// the launch boundary only.
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("media file not found: %s", inputPath)
	}

	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	err := ffmpeg.Input(inputPath).
		Output(outputPath, ffmpeg.KwArgs{
			"vn":     "",          // no video
			"acodec": "pcm_s16le", // PCM 16-bit little-endian
			"ar":     16000,
			"ac":     1,
		}).
		OverWriteOutput().
		Run()
	if err != nil {
		// Remove a possibly truncated output so a retry starts clean.
		_ = os.Remove(outputPath)
		return fmt.Errorf("ffmpeg conversion failed: %w", err)
	}

	return nil
}

// IsMediaFile reports whether a path has a recognized audio or video
// extension.
func IsMediaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".mov", ".mkv", ".avi", ".webm",
		".wav", ".mp3", ".m4a", ".aac", ".flac":
		return true
	}
	return false
}
