package replacer

import (
	"io"

	"github.com/gardar/pdfreplace/pkg/geometry"
	"github.com/gardar/pdfreplace/pkg/hocr"
)

// Config holds options for a replacement run.
type Config struct {
	FooterMargin float64           // Height of the footer band in points
	HeaderMargin float64           // Height of the header band in points
	DateLabel    string            // Label token that precedes the header date
	Password     string            // Password for encrypted input
	Font         FontConfig        // Face and sizes of reinserted text
	Measurer     geometry.Measurer // Text measurement (nil = standard font metrics)
	OCR          *hocr.HOCR        // Words for pages without a text layer
	Debug        bool              // Log every replacement
	LogWarnings  bool              // Whether to print warnings
	Logger       io.Writer         // Custom logger (nil = stdout)
}

// DefaultConfig returns a config with the standard margins and font.
func DefaultConfig() Config {
	return Config{
		FooterMargin: 120,
		HeaderMargin: 120,
		DateLabel:    "date:",
		Font:         DefaultFont,
		LogWarnings:  true,
	}
}

// FontConfig controls the text written in place of a match.
type FontConfig struct {
	Face           string  // Standard face name (e.g., "helv")
	Size           float64 // Size of roll and name text, and the base for fitting dates
	MinSize        float64 // Lower bound of a fitted size
	MaxSize        float64 // Upper bound of a fitted size
	BaselineOffset float64 // Distance from the match bottom up to the new baseline
}

// DefaultFont is Helvetica 10, with dates fitted within 8 to 14.
var DefaultFont = FontConfig{
	Face:           "helv",
	Size:           10,
	MinSize:        8,
	MaxSize:        14,
	BaselineOffset: 2,
}
