package subtitle

import (
	"fmt"
	"strings"

	"github.com/miyakawa-h/jimaku/internal/style"
	"github.com/miyakawa-h/jimaku/internal/video"
)

// assEncoder emits Advanced SubStation Alpha documents with a single resolved
// style. Wrapping is left to the renderer's WrapStyle; inserting manual \N
// breaks here would double-wrap at burn time.
type assEncoder struct {
	cfg Config
}

const assStyleColumns = "Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, " +
	"OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, " +
	"Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding"

const assEventColumns = "Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text"

func (e *assEncoder) Encode(segments []Segment, meta video.Metadata) ([]byte, error) {
	resolved := style.Resolve(e.cfg.StyleName, e.cfg.Styles, style.Options{
		VideoWidth:     meta.Width,
		VideoHeight:    meta.Height,
		FontSize:       e.cfg.FontSize,
		ShowBackground: e.cfg.ShowBackground,
	}, e.cfg.Logger)

	var sb strings.Builder
	sb.WriteString("[Script Info]\n")
	sb.WriteString("Title: Generated by jimaku\n")
	sb.WriteString("ScriptType: v4.00+\n")
	sb.WriteString("WrapStyle: 1\n")
	fmt.Fprintf(&sb, "PlayResX: %d\n", meta.Width)
	fmt.Fprintf(&sb, "PlayResY: %d\n", meta.Height)
	sb.WriteString("ScaledBorderAndShadow: yes\n")
	sb.WriteString("YCbCr Matrix: None\n\n")

	sb.WriteString("[V4+ Styles]\n")
	sb.WriteString(assStyleColumns + "\n")
	sb.WriteString(resolved.StyleLine() + "\n\n")

	sb.WriteString("[Events]\n")
	sb.WriteString(assEventColumns + "\n")

	for i, seg := range segments {
		if !seg.valid() {
			e.cfg.Logger.Warnw("Skipping invalid segment for ASS",
				"position", i,
				"start", seg.Start,
				"end", seg.End,
			)
			continue
		}

		text := strings.TrimSpace(strings.ReplaceAll(seg.Text, "\n", " "))
		fmt.Fprintf(&sb, "Dialogue: 0,%s,%s,%s,,,,,,%s\n",
			FormatASSTime(seg.Start),
			FormatASSTime(seg.End),
			resolved.Name,
			text,
		)
	}

	return []byte(sb.String()), nil
}
