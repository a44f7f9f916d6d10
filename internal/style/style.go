package style

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/miyakawa-h/jimaku/internal/logging"
)

// Record holds the full set of ASS style fields for one named style.
// Values are kept as strings because that is how style tables store them;
// numeric fields are interpreted only where resolution computes them.
type Record struct {
	Fontname        string `json:"Fontname"`
	Fontsize        string `json:"Fontsize"`
	PrimaryColour   string `json:"PrimaryColour"`
	SecondaryColour string `json:"SecondaryColour"`
	OutlineColour   string `json:"OutlineColour"`
	BackColour      string `json:"BackColour"`
	Bold            string `json:"Bold"`
	Italic          string `json:"Italic"`
	Underline       string `json:"Underline"`
	StrikeOut       string `json:"StrikeOut"`
	ScaleX          string `json:"ScaleX"`
	ScaleY          string `json:"ScaleY"`
	Spacing         string `json:"Spacing"`
	Angle           string `json:"Angle"`
	BorderStyle     string `json:"BorderStyle"`
	Outline         string `json:"Outline"`
	Shadow          string `json:"Shadow"`
	Alignment       string `json:"Alignment"`
	MarginL         string `json:"MarginL"`
	MarginR         string `json:"MarginR"`
	MarginV         string `json:"MarginV"`
	Encoding        string `json:"Encoding"`
}

// Table maps style names to their records.
type Table map[string]Record

// Load reads a style table from a JSON file. A missing or unreadable file
// yields an empty table; styling falls back to built-in defaults downstream.
func Load(path string, logger *logging.Logger) Table {
	if logger == nil {
		logger = logging.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warnw("Style file not loaded, using built-in defaults",
			"path", path,
			"error", err,
		)
		return Table{}
	}

	var table Table
	if err := json.Unmarshal(data, &table); err != nil {
		logger.Warnw("Style file is not valid JSON, using built-in defaults",
			"path", path,
			"error", err,
		)
		return Table{}
	}

	logger.Debugw("Loaded styles", "path", path, "count", len(table))
	return table
}

// builtinDefault is used when neither the requested style nor "Default"
// exists in the table.
func builtinDefault() Record {
	return Record{
		Fontname:        "Meiryo",
		Fontsize:        "20",
		PrimaryColour:   "&H00FFFFFF",
		SecondaryColour: "&H000000FF",
		OutlineColour:   "&H00000000",
		BackColour:      "&H80000000",
		Bold:            "0",
		Italic:          "0",
		Underline:       "0",
		StrikeOut:       "0",
		ScaleX:          "100",
		ScaleY:          "100",
		Spacing:         "0",
		Angle:           "0",
		BorderStyle:     "1",
		Outline:         "1",
		Shadow:          "0",
		Alignment:       "2",
		MarginL:         "10",
		MarginR:         "10",
		MarginV:         "10",
		Encoding:        "128",
	}
}

// Options controls how a style is resolved against a video.
type Options struct {
	VideoWidth     int
	VideoHeight    int
	FontSize       int
	ShowBackground bool
}

// Resolved is a fully populated style ready for emission. Every field has a
// defined value.
type Resolved struct {
	Name string
	Record
}

// Resolve produces a complete style record for the requested name. An unknown
// name falls back to the table's "Default" entry, then to a built-in record;
// resolution never fails. Background, border, margins and font size are
// recomputed from Options regardless of what the table stores.
func Resolve(name string, table Table, opts Options, logger *logging.Logger) Resolved {
	if logger == nil {
		logger = logging.NewNop()
	}

	rec, ok := table[name]
	if !ok {
		logger.Warnw("Style not found, falling back to Default", "style", name)
		rec, ok = table["Default"]
		if !ok {
			logger.Warnw("Default style not found, using built-in record")
			rec = builtinDefault()
		}
		name = "Default"
	}

	fillDefaults(&rec)

	rec.BackColour = backColour(rec.BackColour, opts.ShowBackground)
	if opts.ShowBackground {
		// Boxed border so the derived background is actually drawn.
		rec.BorderStyle = "3"
	}

	size := opts.FontSize
	if size < 10 {
		size = 10
	}
	rec.Fontsize = fmt.Sprintf("%d", size)

	// Margins track the video geometry, not the stored style.
	rec.MarginL = fmt.Sprintf("%d", opts.VideoWidth*5/100)
	rec.MarginR = fmt.Sprintf("%d", opts.VideoWidth*5/100)
	rec.MarginV = fmt.Sprintf("%d", opts.VideoHeight*5/100)

	return Resolved{Name: name, Record: rec}
}

// backColour derives the effective BackColour. With a background requested
// the stored colour's RGB is kept and its alpha forced opaque; otherwise the
// colour is forced fully transparent.
func backColour(stored string, show bool) string {
	if !show {
		return "&HFF000000"
	}
	rgb := "000000"
	if len(stored) == 10 && strings.HasPrefix(stored, "&H") {
		rgb = stored[4:]
	}
	return "&H00" + rgb
}

func fillDefaults(rec *Record) {
	def := func(field *string, fallback string) {
		if *field == "" {
			*field = fallback
		}
	}
	def(&rec.Fontname, "Arial")
	def(&rec.Fontsize, "20")
	def(&rec.PrimaryColour, "&H00FFFFFF")
	def(&rec.SecondaryColour, "&H000000FF")
	def(&rec.OutlineColour, "&H00000000")
	def(&rec.BackColour, "&H80000000")
	def(&rec.Bold, "0")
	def(&rec.Italic, "0")
	def(&rec.Underline, "0")
	def(&rec.StrikeOut, "0")
	def(&rec.ScaleX, "100")
	def(&rec.ScaleY, "100")
	def(&rec.Spacing, "0")
	def(&rec.Angle, "0")
	def(&rec.BorderStyle, "1")
	def(&rec.Outline, "1")
	def(&rec.Shadow, "0")
	def(&rec.Alignment, "2")
	def(&rec.MarginL, "10")
	def(&rec.MarginR, "10")
	def(&rec.MarginV, "10")
	def(&rec.Encoding, "1")
}

// StyleLine renders the resolved record as an ASS "Style:" line in the fixed
// V4+ column order.
func (r Resolved) StyleLine() string {
	fields := []string{
		r.Name,
		r.Fontname,
		r.Fontsize,
		r.PrimaryColour,
		r.SecondaryColour,
		r.OutlineColour,
		r.BackColour,
		r.Bold,
		r.Italic,
		r.Underline,
		r.StrikeOut,
		r.ScaleX,
		r.ScaleY,
		r.Spacing,
		r.Angle,
		r.BorderStyle,
		r.Outline,
		r.Shadow,
		r.Alignment,
		r.MarginL,
		r.MarginR,
		r.MarginV,
		r.Encoding,
	}
	return "Style: " + strings.Join(fields, ",")
}
