package burn

import (
	"context"
	"strings"
	"testing"

	"github.com/miyakawa-h/jimaku/internal/video"
)

var (
	landscape = video.Metadata{Width: 1920, Height: 1080, FrameRate: 24, Duration: 60}
	portrait  = video.Metadata{Width: 1080, Height: 1920, FrameRate: 24, Duration: 60}
)

func TestBuildSpecASS(t *testing.T) {
	spec := BuildSpec("/tmp/subs.ass", 42, landscape)

	if !strings.HasPrefix(spec.FilterExpression, "ass='") {
		t.Errorf("filter = %q, want ass filter", spec.FilterExpression)
	}
	if spec.StyleOverride != "" {
		t.Errorf("ASS must not carry a style override, got %q", spec.StyleOverride)
	}
	if strings.Contains(spec.FilterExpression, "force_style") {
		t.Errorf("ASS filter must not include force_style: %q", spec.FilterExpression)
	}
}

func TestBuildSpecSRTHorizontal(t *testing.T) {
	spec := BuildSpec("/tmp/subs.srt", 42, landscape)

	if !strings.HasPrefix(spec.FilterExpression, "subtitles='") {
		t.Errorf("filter = %q, want subtitles filter", spec.FilterExpression)
	}
	if spec.StyleOverride != "FontSize=42" {
		t.Errorf("override = %q, want FontSize only", spec.StyleOverride)
	}
	if !strings.Contains(spec.FilterExpression, ":force_style='FontSize=42'") {
		t.Errorf("filter must embed the override: %q", spec.FilterExpression)
	}
}

func TestBuildSpecSRTVertical(t *testing.T) {
	spec := BuildSpec("/tmp/subs.srt", 42, portrait)

	for _, want := range []string{"FontSize=42", "MarginV=54", "Alignment=8"} {
		if !strings.Contains(spec.StyleOverride, want) {
			t.Errorf("override %q missing %q", spec.StyleOverride, want)
		}
	}
}

func TestBuildSpecVerticalMarginMinimum(t *testing.T) {
	tiny := video.Metadata{Width: 100, Height: 200, FrameRate: 24}
	spec := BuildSpec("subs.srt", 20, tiny)

	if !strings.Contains(spec.StyleOverride, "MarginV=10") {
		t.Errorf("margin must clamp to 10px, got %q", spec.StyleOverride)
	}
}

func TestBuildSpecUnknownExtensionTreatedAsSRT(t *testing.T) {
	spec := BuildSpec("/tmp/subs.vtt", 30, landscape)

	if !strings.HasPrefix(spec.FilterExpression, "subtitles='") {
		t.Errorf("non-ASS formats use the subtitles filter: %q", spec.FilterExpression)
	}
}

func TestBurnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Burn(ctx, "video.mp4", "subs.srt", landscape, Options{FontSize: 24})
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestEscapeFilterPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`C:\videos\subs.srt`, `C\\:/videos/subs.srt`},
		{"/plain/path.srt", "/plain/path.srt"},
		{"/odd:name.srt", `/odd\\:name.srt`},
	}

	for _, tt := range tests {
		if got := escapeFilterPath(tt.in); got != tt.want {
			t.Errorf("escapeFilterPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
