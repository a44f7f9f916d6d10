package subtitle

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/miyakawa-h/jimaku/internal/logging"
	"github.com/miyakawa-h/jimaku/internal/video"
)

// srtEncoder emits SubRip documents.
type srtEncoder struct {
	cfg Config
}

func (e *srtEncoder) Encode(segments []Segment, meta video.Metadata) ([]byte, error) {
	wrapWidth := WrapWidth(meta.Width, e.cfg.FontSize)
	e.cfg.Logger.Debugw("SRT layout",
		"wrap_width", wrapWidth,
		"video_width", meta.Width,
		"font_size", e.cfg.FontSize,
	)

	var sb strings.Builder
	for i, seg := range segments {
		if !seg.valid() {
			e.cfg.Logger.Warnw("Skipping invalid segment for SRT",
				"position", i,
				"start", seg.Start,
				"end", seg.End,
			)
			continue
		}

		// Sequence numbers follow the segment position, so a skipped
		// segment leaves a gap rather than shifting later entries.
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteByte('\n')
		sb.WriteString(FormatSRTTime(seg.Start))
		sb.WriteString(" --> ")
		sb.WriteString(FormatSRTTime(seg.End))
		sb.WriteByte('\n')

		lines := WrapText(seg.Text, wrapWidth, e.cfg.MaxLines)
		sb.WriteString(strings.Join(lines, "\n"))
		sb.WriteString("\n\n")
	}

	return []byte(sb.String()), nil
}

// Cue is one parsed SRT entry. Times are seconds.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

var srtBlockRe = regexp.MustCompile(
	`(\d+)\s*(\d{2}:\d{2}:\d{2},\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2},\d{3})\s*([\s\S]*?)(?:\n\n|\z)`,
)

// ParseSRT reads an SRT document, skipping malformed blocks instead of
// failing on them.
func ParseSRT(r io.Reader, logger *logging.Logger) ([]Cue, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read SRT input: %w", err)
	}

	content := strings.TrimPrefix(string(data), "\uFEFF")
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var cues []Cue
	for _, block := range srtBlockRe.FindAllStringSubmatch(content, -1) {
		index, err := strconv.Atoi(block[1])
		if err != nil {
			logger.Warnw("Skipping SRT block with bad index", "block", block[0])
			continue
		}
		start, err := ParseSRTTime(block[2])
		if err != nil {
			logger.Warnw("Skipping SRT block with bad start time", "time", block[2])
			continue
		}
		end, err := ParseSRTTime(block[3])
		if err != nil {
			logger.Warnw("Skipping SRT block with bad end time", "time", block[3])
			continue
		}
		cues = append(cues, Cue{
			Index: index,
			Start: start,
			End:   end,
			Text:  strings.TrimSpace(block[4]),
		})
	}

	return cues, nil
}
