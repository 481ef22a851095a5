package hocr

import "fmt"

// HOCR is a parsed or generated hOCR document.
type HOCR struct {
	Title    string            // Document title
	System   string            // ocr-system meta value
	Language string            // Document language
	Metadata map[string]string // Other head meta values
	Pages    []Page
}

// Page corresponds to the hOCR class 'ocr_page'.
type Page struct {
	ID         string
	PageNumber int    // ppageno, zero based as in the hOCR spec
	ImageName  string // image property, if any
	Lang       string
	BBox       BoundingBox
	Areas      []Area
	Lines      []Line // lines without an area parent
}

func (Page) Class() string { return "ocr_page" }

// Area corresponds to the hOCR class 'ocr_carea'.
type Area struct {
	ID         string
	BBox       BoundingBox
	Paragraphs []Paragraph
	Lines      []Line // lines without a paragraph parent
}

func (Area) Class() string { return "ocr_carea" }

// Paragraph corresponds to the hOCR class 'ocr_par'.
type Paragraph struct {
	ID    string
	Lang  string
	BBox  BoundingBox
	Lines []Line
}

func (Paragraph) Class() string { return "ocr_par" }

// Line corresponds to the hOCR class 'ocr_line'.
type Line struct {
	ID       string
	BBox     BoundingBox
	Baseline string // raw baseline property, e.g. "0 -3"
	Words    []Word
}

func (Line) Class() string { return "ocr_line" }

// Word corresponds to the hOCR class 'ocrx_word'.
type Word struct {
	ID         string
	Text       string
	BBox       BoundingBox
	Confidence float64 // x_wconf, 0-100
}

func (Word) Class() string { return "ocrx_word" }

// BoundingBox is an hOCR bbox: top-left (X1, Y1), bottom-right (X2, Y2).
type BoundingBox struct {
	X1, Y1, X2, Y2 float64
}

// NewBoundingBox creates a bounding box from its corners.
func NewBoundingBox(x1, y1, x2, y2 float64) BoundingBox {
	return BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

func (b BoundingBox) Width() float64  { return b.X2 - b.X1 }
func (b BoundingBox) Height() float64 { return b.Y2 - b.Y1 }

// Title renders the box as an hOCR title property.
func (b BoundingBox) Title() string {
	return fmt.Sprintf("bbox %d %d %d %d", round(b.X1), round(b.Y1), round(b.X2), round(b.Y2))
}

func round(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

// AllLines returns every line on the page in document order.
func (p Page) AllLines() []Line {
	var out []Line
	for _, a := range p.Areas {
		for _, par := range a.Paragraphs {
			out = append(out, par.Lines...)
		}
		out = append(out, a.Lines...)
	}
	return append(out, p.Lines...)
}

// Words returns every word on the page in document order.
func (p Page) Words() []Word {
	var out []Word
	for _, l := range p.AllLines() {
		out = append(out, l.Words...)
	}
	return out
}
