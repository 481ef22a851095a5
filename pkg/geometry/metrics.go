package geometry

import (
	"math"
	"strings"
	"sync"
	"unicode/utf8"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// ApproxCharWidth is the average glyph advance, as a fraction of the font
// size, assumed when no metrics are available for a face.
const ApproxCharWidth = 0.55

// Measurer reports the rendered width of text set in a named face.
type Measurer interface {
	MeasureWidth(text, face string, size float64) float64
}

// Face identifies one of the standard PDF Type1 faces.
type Face struct {
	Family   string // fpdf family name
	Style    string // "", "B", "I" or "BI"
	BaseFont string // PostScript name used in PDF font dictionaries
}

var shortFaces = map[string]Face{
	"helv": {"Helvetica", "", "Helvetica"},
	"hebo": {"Helvetica", "B", "Helvetica-Bold"},
	"heit": {"Helvetica", "I", "Helvetica-Oblique"},
	"hebi": {"Helvetica", "BI", "Helvetica-BoldOblique"},
	"tiro": {"Times", "", "Times-Roman"},
	"tibo": {"Times", "B", "Times-Bold"},
	"tiit": {"Times", "I", "Times-Italic"},
	"tibi": {"Times", "BI", "Times-BoldItalic"},
	"cour": {"Courier", "", "Courier"},
	"cobo": {"Courier", "B", "Courier-Bold"},
	"coit": {"Courier", "I", "Courier-Oblique"},
	"cobi": {"Courier", "BI", "Courier-BoldOblique"},
	"symb": {"Symbol", "", "Symbol"},
	"zadb": {"ZapfDingbats", "", "ZapfDingbats"},
}

// LookupFace resolves a short face name ("helv", "tibo", ...) or a PostScript
// font name, including common aliases such as Arial and TimesNewRoman, to one
// of the standard faces.
func LookupFace(name string) (Face, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if f, ok := shortFaces[n]; ok {
		return f, true
	}

	var family string
	switch {
	case strings.HasPrefix(n, "helvetica"), strings.HasPrefix(n, "arial"):
		family = "Helvetica"
	case strings.HasPrefix(n, "times"):
		family = "Times"
	case strings.HasPrefix(n, "courier"):
		family = "Courier"
	case strings.HasPrefix(n, "symbol"):
		return shortFaces["symb"], true
	case strings.Contains(n, "dingbats"):
		return shortFaces["zadb"], true
	default:
		return Face{}, false
	}

	style := ""
	if strings.Contains(n, "bold") || strings.Contains(n, "black") {
		style += "B"
	}
	if strings.Contains(n, "italic") || strings.Contains(n, "oblique") {
		style += "I"
	}
	for _, f := range shortFaces {
		if f.Family == family && f.Style == style {
			return f, true
		}
	}
	return Face{}, false
}

// Metrics measures text with the standard font metric tables bundled with fpdf.
// It is safe for concurrent use.
type Metrics struct {
	mu     sync.Mutex
	pdf    *fpdf.Fpdf
	tables map[string]*[256]float64
}

// NewMetrics returns an empty metrics cache; tables load on first use.
func NewMetrics() *Metrics {
	return &Metrics{tables: make(map[string]*[256]float64)}
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// DefaultMetrics returns a process-wide shared Metrics.
func DefaultMetrics() *Metrics {
	defaultOnce.Do(func() { defaultMetrics = NewMetrics() })
	return defaultMetrics
}

// table returns per-code advance widths in 1/1000 em for the face,
// or nil when fpdf cannot provide them.
func (m *Metrics) table(face Face) *[256]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := face.Family + "/" + face.Style
	if t, ok := m.tables[key]; ok {
		return t
	}

	if m.pdf == nil {
		m.pdf = fpdf.New("P", "pt", "A4", "")
	}
	m.pdf.ClearError()
	m.pdf.SetFont(face.Family, face.Style, 1)
	if m.pdf.Err() {
		m.tables[key] = nil
		return nil
	}

	t := new([256]float64)
	for code := 1; code < 256; code++ {
		t[code] = m.pdf.GetStringWidth(string([]byte{byte(code)})) * 1000
	}
	if m.pdf.Err() {
		t = nil
	}
	m.tables[key] = t
	return t
}

// CodeWidth returns the advance of a single-byte code in 1/1000 em.
func (m *Metrics) CodeWidth(face Face, code byte) (float64, bool) {
	t := m.table(face)
	if t == nil {
		return 0, false
	}
	return t[code], true
}

// MeasureWidth returns the width of text set in face at size points.
// Unknown faces fall back to ApproxWidth.
func (m *Metrics) MeasureWidth(text, face string, size float64) float64 {
	f, ok := LookupFace(face)
	if !ok {
		return ApproxWidth(text, size)
	}
	t := m.table(f)
	if t == nil {
		return ApproxWidth(text, size)
	}

	var total float64
	for _, b := range EncodeWinAnsi(text) {
		total += t[b]
	}
	return total * size / 1000
}

// EncodeWinAnsi converts UTF-8 text to WinAnsiEncoding bytes.
// Characters outside the code page become '?'.
func EncodeWinAnsi(text string) []byte {
	enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
	out, err := enc.Bytes([]byte(text))
	if err != nil {
		return []byte(text)
	}
	return out
}

// ApproxWidth estimates the width of text as size * 0.55 per character.
func ApproxWidth(text string, size float64) float64 {
	return size * ApproxCharWidth * float64(utf8.RuneCountInString(text))
}

// Approx is a Measurer that only uses ApproxWidth.
type Approx struct{}

func (Approx) MeasureWidth(text, _ string, size float64) float64 {
	return ApproxWidth(text, size)
}

// FitFontSize scales base so that text measures targetWidth, clamped to
// [min, max]. When text measures nothing at base size, base is returned.
// A target equal to the width at base yields base exactly.
func FitFontSize(m Measurer, targetWidth float64, text, face string, base, min, max float64) float64 {
	w := m.MeasureWidth(text, face, base)
	if w <= 0 {
		return base
	}
	size := base * (targetWidth / w)
	return math.Max(min, math.Min(max, size))
}
