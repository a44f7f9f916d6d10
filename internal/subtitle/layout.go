package subtitle

import (
	"strings"
	"unicode/utf8"
)

const (
	// Calibrated for a roughly 70% text area and an average glyph width of
	// 0.6 em. Shared by file generation and burn-in so both lay out the same.
	widthFraction    = 0.7
	glyphWidthFactor = 0.6

	// MinFontSize is the smallest font size any derivation may produce.
	MinFontSize = 10

	// DefaultMaxLines is the display-line cap per subtitle entry.
	DefaultMaxLines = 2

	minWrapWidth = 10
)

// AutoFontSize derives a font size from the video width. The divisor is a
// tunable profile constant (older pipelines used 30, later ones 40).
func AutoFontSize(videoWidth, divisor int) int {
	if divisor <= 0 {
		divisor = 30
	}
	size := videoWidth / divisor
	if size < MinFontSize {
		size = MinFontSize
	}
	return size
}

// WrapWidth derives the characters-per-line budget from the video width and
// font size.
func WrapWidth(videoWidth, fontSize int) int {
	if videoWidth < 1 {
		videoWidth = 1
	}
	if fontSize < 1 {
		fontSize = 1
	}
	width := int(float64(videoWidth) * widthFraction / (float64(fontSize) * glyphWidthFactor))
	if width < minWrapWidth {
		width = minWrapWidth
	}
	return width
}

// WrapText greedily wraps text to the given character width and truncates the
// result to at most maxLines lines. Embedded newlines are collapsed to spaces
// first. Text beyond maxLines is discarded; callers rely on this staying
// consistent between generated files and the burn-in command.
func WrapText(text string, width, maxLines int) []string {
	if width < 1 {
		width = minWrapWidth
	}
	if maxLines < 1 {
		maxLines = DefaultMaxLines
	}

	cleaned := strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	if cleaned == "" {
		return nil
	}

	words := strings.Fields(cleaned)
	var lines []string
	var current strings.Builder
	currentLen := 0

	for _, word := range words {
		wordLen := utf8.RuneCountInString(word)
		switch {
		case currentLen == 0:
			current.WriteString(word)
			currentLen = wordLen
		case currentLen+1+wordLen <= width:
			current.WriteByte(' ')
			current.WriteString(word)
			currentLen += 1 + wordLen
		default:
			lines = append(lines, current.String())
			current.Reset()
			current.WriteString(word)
			currentLen = wordLen
			if len(lines) >= maxLines {
				return lines[:maxLines]
			}
		}
	}
	if currentLen > 0 {
		lines = append(lines, current.String())
	}

	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
