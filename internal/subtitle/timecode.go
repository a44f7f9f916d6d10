package subtitle

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatSRTTime converts seconds to the SRT timestamp grammar HH:MM:SS,mmm.
// Hours are not wrapped. Milliseconds are rounded to the nearest integer.
// Invalid inputs encode as the zero timestamp.
func FormatSRTTime(t float64) string {
	if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
		t = 0
	}
	total := int64(math.Round(t * 1000))
	hours := total / 3600000
	minutes := (total % 3600000) / 60000
	seconds := (total % 60000) / 1000
	millis := total % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

// FormatASSTime converts seconds to the ASS timestamp grammar H:MM:SS.cc.
// The hours field is not zero-padded and centiseconds are truncated, not
// rounded. Invalid inputs encode as the zero timestamp.
func FormatASSTime(t float64) string {
	if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
		t = 0
	}
	total := int64(t * 100) // truncate to centiseconds
	hours := total / 360000
	minutes := (total % 360000) / 6000
	seconds := (total % 6000) / 100
	centis := total % 100
	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, seconds, centis)
}

// ParseSRTTime converts an SRT timestamp HH:MM:SS,mmm back to seconds.
func ParseSRTTime(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid SRT time %q", s)
	}
	secPart, msPart, ok := strings.Cut(parts[2], ",")
	if !ok {
		return 0, fmt.Errorf("invalid SRT time %q", s)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid SRT time %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid SRT time %q: %w", s, err)
	}
	sec, err := strconv.Atoi(secPart)
	if err != nil {
		return 0, fmt.Errorf("invalid SRT time %q: %w", s, err)
	}
	ms, err := strconv.Atoi(msPart)
	if err != nil {
		return 0, fmt.Errorf("invalid SRT time %q: %w", s, err)
	}

	return float64(h)*3600 + float64(m)*60 + float64(sec) + float64(ms)/1000, nil
}

// FractionalTime converts seconds to the FCPXML rational grammar
// "<frames>/<rate>s" where frames = round(seconds * frameRate). Integer
// frame rates use an integer denominator; fractional ones are formatted to
// two decimals. Invalid times encode as "0/1s".
func FractionalTime(t, frameRate float64) string {
	if frameRate <= 0 || math.IsNaN(frameRate) || math.IsInf(frameRate, 0) {
		frameRate = 24.0
	}
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return "0/1s"
	}

	frames := int64(math.Round(t * frameRate))
	if frames < 0 {
		frames = 0
	}

	if frameRate == math.Trunc(frameRate) {
		return fmt.Sprintf("%d/%ds", frames, int64(frameRate))
	}
	return fmt.Sprintf("%d/%.2fs", frames, frameRate)
}
