package subtitle

import (
	"fmt"
	"math"
	"strings"

	"github.com/miyakawa-h/jimaku/internal/logging"
	"github.com/miyakawa-h/jimaku/internal/style"
	"github.com/miyakawa-h/jimaku/internal/video"
)

// Segment is one time-stamped unit of transcribed speech. Times are seconds
// from the start of the media. Text is kept untrimmed; encoders clean it.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// valid reports whether the segment can appear in an output document.
func (s Segment) valid() bool {
	if math.IsNaN(s.Start) || math.IsNaN(s.End) {
		return false
	}
	if s.Start < 0 || s.End <= s.Start {
		return false
	}
	return strings.TrimSpace(s.Text) != ""
}

// Format identifies a subtitle document grammar.
type Format string

const (
	FormatSRT    Format = "srt"
	FormatASS    Format = "ass"
	FormatFCPXML Format = "fcpxml"
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "srt":
		return FormatSRT, nil
	case "ass":
		return FormatASS, nil
	case "fcpxml":
		return FormatFCPXML, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use srt, ass, or fcpxml", s)
	}
}

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatASS:
		return ".ass"
	case FormatFCPXML:
		return ".fcpxml"
	default:
		return ".srt"
	}
}

// MediaType returns the MIME type of documents in this format.
func (f Format) MediaType() string {
	if f == FormatFCPXML {
		return "application/xml"
	}
	return "text/plain"
}

// Config carries the presentation parameters shared by the encoders.
type Config struct {
	FontSize int
	MaxLines int // display lines per entry, default 2

	// ASS only.
	StyleName      string
	Styles         style.Table
	ShowBackground bool

	Logger *logging.Logger
}

func (c Config) withDefaults() Config {
	if c.FontSize <= 0 {
		c.FontSize = 65
	}
	if c.MaxLines <= 0 {
		c.MaxLines = DefaultMaxLines
	}
	if c.StyleName == "" {
		c.StyleName = "Default"
	}
	if c.Logger == nil {
		c.Logger = logging.NewNop()
	}
	return c
}

// Encoder produces a self-contained subtitle document from ordered segments
// and video metadata.
type Encoder interface {
	Encode(segments []Segment, meta video.Metadata) ([]byte, error)
}

// NewEncoder returns the encoder for the requested format.
func NewEncoder(format Format, cfg Config) (Encoder, error) {
	cfg = cfg.withDefaults()
	switch format {
	case FormatSRT:
		return &srtEncoder{cfg: cfg}, nil
	case FormatASS:
		return &assEncoder{cfg: cfg}, nil
	case FormatFCPXML:
		return &fcpxmlEncoder{cfg: cfg}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
