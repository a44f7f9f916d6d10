package subtitle

import (
	"encoding/xml"
	"fmt"
	"math"
	"strings"

	"github.com/miyakawa-h/jimaku/internal/video"
)

// fcpxmlEncoder emits a minimal Final Cut Pro project: one format resource,
// one Basic Title effect, and a sequence whose spine holds a full-length gap
// carrying one title element per segment.
type fcpxmlEncoder struct {
	cfg Config
}

const basicTitleUID = ".../Titles.localized/Bumper:Opener.localized/Basic Title.localized/Basic Title.moti"

// Parameter keys for the Basic Title effect.
const (
	paramKeyPosition  = "9999/999166631/999166633/1/100/101"
	paramKeyAlignment = "9999/999166631/999166633/1/100/100"
	paramKeyFont      = "9999/999166631/999166633/5/100/105"
	paramKeySize      = "9999/999166631/999166633/5/100/103"
)

type fcpxmlDoc struct {
	XMLName   xml.Name       `xml:"fcpxml"`
	Version   string         `xml:"version,attr"`
	Resources fcpxmlResources `xml:"resources"`
	Library   fcpxmlLibrary   `xml:"library"`
}

type fcpxmlResources struct {
	Format fcpxmlFormat `xml:"format"`
	Effect fcpxmlEffect `xml:"effect"`
}

type fcpxmlFormat struct {
	ID            string `xml:"id,attr"`
	Name          string `xml:"name,attr"`
	FrameDuration string `xml:"frameDuration,attr"`
	Width         int    `xml:"width,attr"`
	Height        int    `xml:"height,attr"`
}

type fcpxmlEffect struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
	UID  string `xml:"uid,attr"`
}

type fcpxmlLibrary struct {
	Event fcpxmlEvent `xml:"event"`
}

type fcpxmlEvent struct {
	Name    string        `xml:"name,attr"`
	Project fcpxmlProject `xml:"project"`
}

type fcpxmlProject struct {
	Name     string         `xml:"name,attr"`
	Sequence fcpxmlSequence `xml:"sequence"`
}

type fcpxmlSequence struct {
	Duration string      `xml:"duration,attr"`
	Format   string      `xml:"format,attr"`
	TCStart  string      `xml:"tcStart,attr"`
	TCFormat string      `xml:"tcFormat,attr"`
	Spine    fcpxmlSpine `xml:"spine"`
}

type fcpxmlSpine struct {
	Gap fcpxmlGap `xml:"gap"`
}

type fcpxmlGap struct {
	Name     string        `xml:"name,attr"`
	Offset   string        `xml:"offset,attr"`
	Duration string        `xml:"duration,attr"`
	Start    string        `xml:"start,attr"`
	Titles   []fcpxmlTitle `xml:"title"`
}

type fcpxmlTitle struct {
	Name         string          `xml:"name,attr"`
	Lane         string          `xml:"lane,attr"`
	Offset       string          `xml:"offset,attr"`
	Ref          string          `xml:"ref,attr"`
	Duration     string          `xml:"duration,attr"`
	Text         fcpxmlText      `xml:"text"`
	TextStyleDef fcpxmlStyleDef  `xml:"text-style-def"`
	Params       []fcpxmlParam   `xml:"param"`
}

type fcpxmlText struct {
	Style fcpxmlTextStyle `xml:"text-style"`
}

type fcpxmlTextStyle struct {
	Ref  string `xml:"ref,attr"`
	Text string `xml:",chardata"`
}

type fcpxmlStyleDef struct {
	ID string `xml:"id,attr"`
}

type fcpxmlParam struct {
	Name  string `xml:"name,attr"`
	Key   string `xml:"key,attr"`
	Value string `xml:"value,attr"`
}

func (e *fcpxmlEncoder) Encode(segments []Segment, meta video.Metadata) ([]byte, error) {
	frameRate := meta.FrameRate
	if frameRate <= 0 {
		frameRate = 24.0
	}

	// The sequence must cover the last subtitle plus a one second buffer.
	sequenceDuration := meta.Duration
	if sequenceDuration <= 0 {
		sequenceDuration = 60.0
	}
	for _, seg := range segments {
		if seg.End > 0 && math.Ceil(seg.End)+1 > sequenceDuration {
			sequenceDuration = math.Ceil(seg.End) + 1
		}
	}
	sequenceFrac := FractionalTime(sequenceDuration, frameRate)

	fontSize := e.cfg.FontSize
	if fontSize < MinFontSize {
		fontSize = MinFontSize
	}

	gap := fcpxmlGap{
		Name:     "Base Gap",
		Offset:   "0s",
		Duration: sequenceFrac,
		Start:    "0s",
	}

	titleCount := 0
	for i, seg := range segments {
		if !seg.valid() {
			e.cfg.Logger.Warnw("Skipping invalid segment for FCPXML",
				"position", i,
				"start", seg.Start,
				"end", seg.End,
			)
			continue
		}
		titleCount++

		duration := seg.End - seg.Start
		if duration < 1/frameRate {
			// Below one frame the title would be invisible in FCP.
			duration = 1 / frameRate
		}

		text := strings.TrimSpace(seg.Text)
		styleID := fmt.Sprintf("ts%d", titleCount)

		gap.Titles = append(gap.Titles, fcpxmlTitle{
			Name:     titleName(text),
			Lane:     "1",
			Offset:   FractionalTime(seg.Start, frameRate),
			Ref:      "r2",
			Duration: FractionalTime(duration, frameRate),
			Text: fcpxmlText{
				Style: fcpxmlTextStyle{Ref: styleID, Text: text},
			},
			TextStyleDef: fcpxmlStyleDef{ID: styleID},
			Params: []fcpxmlParam{
				{Name: "Position", Key: paramKeyPosition, Value: "0 -450"},
				{Name: "Alignment", Key: paramKeyAlignment, Value: "1"},
				{Name: "Font", Key: paramKeyFont, Value: "Helvetica"},
				{Name: "Size", Key: paramKeySize, Value: fmt.Sprintf("%d", fontSize)},
			},
		})
	}

	if titleCount == 0 {
		e.cfg.Logger.Warnw("No valid titles added to FCPXML spine")
	}

	doc := fcpxmlDoc{
		Version: "1.13",
		Resources: fcpxmlResources{
			Format: fcpxmlFormat{
				ID:            "r1",
				Name:          fmt.Sprintf("FFVideoFormat%dp%.2f", meta.Height, frameRate),
				FrameDuration: fmt.Sprintf("%d/100000s", int(100000/frameRate)),
				Width:         meta.Width,
				Height:        meta.Height,
			},
			Effect: fcpxmlEffect{
				ID:   "r2",
				Name: "Basic Title",
				UID:  basicTitleUID,
			},
		},
		Library: fcpxmlLibrary{
			Event: fcpxmlEvent{
				Name: "Subtitle Import",
				Project: fcpxmlProject{
					Name: "Generated Subtitles Project",
					Sequence: fcpxmlSequence{
						Duration: sequenceFrac,
						Format:   "r1",
						TCStart:  "0s",
						TCFormat: "NDF",
						Spine:    fcpxmlSpine{Gap: gap},
					},
				},
			},
		},
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize FCPXML: %w", err)
	}

	return append([]byte(xml.Header), body...), nil
}

// titleName is the element name attribute, capped at 30 runes of the text.
func titleName(text string) string {
	runes := []rune(text)
	if len(runes) > 30 {
		runes = runes[:30]
	}
	return string(runes)
}
