package subtitle

import (
	"strings"
	"testing"

	"github.com/miyakawa-h/jimaku/internal/video"
)

func TestSRTEncodeTwoSegments(t *testing.T) {
	enc, err := NewEncoder(FormatSRT, Config{FontSize: 50})
	if err != nil {
		t.Fatalf("NewEncoder error: %v", err)
	}

	segments := []Segment{
		{Start: 0.0, End: 1.5, Text: "hello"},
		{Start: 1.5, End: 3.0, Text: "world"},
	}
	meta := video.Metadata{Width: 1280, Height: 720, FrameRate: 24, Duration: 10}

	data, err := enc.Encode(segments, meta)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	out := string(data)

	blocks := strings.Split(strings.TrimSpace(out), "\n\n")
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d:\n%s", len(blocks), out)
	}
	if !strings.Contains(blocks[0], "1\n00:00:00,000 --> 00:00:01,500\nhello") {
		t.Errorf("unexpected first block:\n%s", blocks[0])
	}
	if !strings.Contains(blocks[1], "2\n00:00:01,500 --> 00:00:03,000\nworld") {
		t.Errorf("unexpected second block:\n%s", blocks[1])
	}
}

func TestSRTEncodeSkipsInvalidSegments(t *testing.T) {
	enc, _ := NewEncoder(FormatSRT, Config{FontSize: 50})

	segments := []Segment{
		{Start: 0.0, End: 1.0, Text: "good"},
		{Start: 2.0, End: 1.0, Text: "end before start"},
		{Start: 3.0, End: 4.0, Text: "   "},
		{Start: 5.0, End: 6.0, Text: "also good"},
	}

	data, err := enc.Encode(segments, video.DefaultMetadata())
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	out := string(data)

	if strings.Contains(out, "end before start") {
		t.Error("invalid segment must be skipped")
	}
	// Sequence numbers keep their positions, so skips leave gaps.
	if !strings.Contains(out, "4\n00:00:05,000") {
		t.Errorf("surviving segment should keep position number 4:\n%s", out)
	}
	if strings.Contains(out, "\n2\n") || strings.Contains(out, "\n3\n") {
		t.Errorf("skipped positions must not be renumbered:\n%s", out)
	}
}

func TestSRTEncodeAllInvalidProducesNoOutput(t *testing.T) {
	enc, _ := NewEncoder(FormatSRT, Config{FontSize: 50})

	data, err := enc.Encode([]Segment{{Start: 1, End: 1, Text: "x"}}, video.DefaultMetadata())
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("expected empty output, got %q", data)
	}
}

func TestSRTEncodeWrapsLongText(t *testing.T) {
	enc, _ := NewEncoder(FormatSRT, Config{FontSize: 65, MaxLines: 2})

	long := strings.Repeat("palabras ", 30)
	data, err := enc.Encode(
		[]Segment{{Start: 0, End: 2, Text: long}},
		video.Metadata{Width: 1280, Height: 720, FrameRate: 24},
	)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	// index + timestamps + at most 2 text lines
	if len(lines) > 4 {
		t.Errorf("expected at most 2 text lines, got block:\n%s", data)
	}
}

func TestParseSRT(t *testing.T) {
	input := "1\n00:00:00,000 --> 00:00:01,500\nhello\n\n" +
		"2\n00:00:01,500 --> 00:00:03,000\nworld\ntwo lines\n"

	cues, err := ParseSRT(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("ParseSRT error: %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if cues[0].Start != 0 || cues[0].End != 1.5 || cues[0].Text != "hello" {
		t.Errorf("unexpected first cue: %+v", cues[0])
	}
	if cues[1].Text != "world\ntwo lines" {
		t.Errorf("multi-line text not preserved: %q", cues[1].Text)
	}
}

func TestParseSRTStripsByteOrderMark(t *testing.T) {
	input := "\ufeff1\n00:00:00,000 --> 00:00:01,000\nhello\n"

	cues, err := ParseSRT(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("ParseSRT error: %v", err)
	}
	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}
	if cues[0].Index != 1 || cues[0].Text != "hello" {
		t.Errorf("unexpected cue after BOM strip: %+v", cues[0])
	}
}

func TestParseSRTSkipsMalformedBlocks(t *testing.T) {
	input := "1\n00:00:00,000 --> 00:00:01,000\nok\n\n" +
		"garbage without timestamps\n\n" +
		"3\n00:00:02,000 --> 00:00:03,000\nalso ok\n"

	cues, err := ParseSRT(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("ParseSRT must not fail on malformed blocks: %v", err)
	}
	if len(cues) != 2 {
		t.Errorf("expected 2 cues, got %d: %+v", len(cues), cues)
	}
}

func TestSRTEncodeParseRoundTrip(t *testing.T) {
	enc, _ := NewEncoder(FormatSRT, Config{FontSize: 50})
	segments := []Segment{
		{Start: 0.25, End: 1.75, Text: "first"},
		{Start: 2.5, End: 4.0, Text: "second"},
	}

	data, err := enc.Encode(segments, video.DefaultMetadata())
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	cues, err := ParseSRT(strings.NewReader(string(data)), nil)
	if err != nil {
		t.Fatalf("ParseSRT error: %v", err)
	}
	if len(cues) != len(segments) {
		t.Fatalf("expected %d cues, got %d", len(segments), len(cues))
	}
	for i, cue := range cues {
		if cue.Start != segments[i].Start || cue.End != segments[i].End {
			t.Errorf("cue %d times changed: %+v vs %+v", i, cue, segments[i])
		}
	}
}
