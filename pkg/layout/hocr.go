package layout

import (
	"unicode/utf8"

	"github.com/gardar/pdfreplace/pkg/geometry"
	"github.com/gardar/pdfreplace/pkg/hocr"
)

// ToHOCRPage exports lines as an hOCR page in page space (points).
// number is the 1-based page number.
func ToHOCRPage(number int, pageRect geometry.Rect, lines []Line) hocr.Page {
	page := hocr.Page{
		PageNumber: number - 1,
		BBox:       toBBox(pageRect),
	}
	for _, l := range lines {
		if len(page.Areas) == 0 || len(page.Areas)-1 < l.Block {
			page.Areas = append(page.Areas, hocr.Area{BBox: toBBox(l.Box)})
		}
		area := &page.Areas[len(page.Areas)-1]
		area.BBox = toBBox(fromBBox(area.BBox).Union(l.Box))

		line := hocr.Line{BBox: toBBox(l.Box)}
		for _, t := range Tokenize([]Line{l}) {
			line.Words = append(line.Words, hocr.Word{
				Text:       t.Text,
				BBox:       toBBox(t.Box),
				Confidence: 100,
			})
		}
		area.Lines = append(area.Lines, line)
	}
	return page
}

// GlyphsFromHOCR converts the words of an hOCR page into glyphs in page space.
// Word boxes are scaled from the hOCR page bbox onto pageRect and each
// character gets an equal share of its word's width.
func GlyphsFromHOCR(page hocr.Page, pageRect geometry.Rect) []Glyph {
	sx, sy := 1.0, 1.0
	if w := page.BBox.Width(); w > 0 {
		sx = pageRect.Width() / w
	}
	if h := page.BBox.Height(); h > 0 {
		sy = pageRect.Height() / h
	}
	scale := func(b hocr.BoundingBox) geometry.Rect {
		return geometry.NewRect(
			pageRect.X0+(b.X1-page.BBox.X1)*sx,
			pageRect.Y0+(b.Y1-page.BBox.Y1)*sy,
			pageRect.X0+(b.X2-page.BBox.X1)*sx,
			pageRect.Y0+(b.Y2-page.BBox.Y1)*sy,
		)
	}

	var glyphs []Glyph
	for _, l := range page.AllLines() {
		baseline := scale(l.BBox).Y1
		var prev geometry.Rect
		for wi, w := range l.Words {
			box := scale(w.BBox)
			if l.BBox == (hocr.BoundingBox{}) {
				baseline = box.Y1
			}
			size := box.Height()
			if wi > 0 {
				gap := geometry.NewRect(prev.X1, box.Y0, max(prev.X1, box.X0), box.Y1)
				glyphs = append(glyphs, Glyph{
					Text:   " ",
					Box:    gap,
					Origin: geometry.Point{X: gap.X0, Y: baseline},
					Size:   size,
				})
			}
			prev = box
			n := utf8.RuneCountInString(w.Text)
			if n == 0 {
				continue
			}
			step := box.Width() / float64(n)
			i := 0
			for _, r := range w.Text {
				x := box.X0 + float64(i)*step
				glyphs = append(glyphs, Glyph{
					Text:   string(r),
					Box:    geometry.Rect{X0: x, Y0: box.Y0, X1: x + step, Y1: box.Y1},
					Origin: geometry.Point{X: x, Y: baseline},
					Size:   size,
				})
				i++
			}
		}
	}
	return glyphs
}

func toBBox(r geometry.Rect) hocr.BoundingBox {
	return hocr.NewBoundingBox(r.X0, r.Y0, r.X1, r.Y1)
}

func fromBBox(b hocr.BoundingBox) geometry.Rect {
	return geometry.NewRect(b.X1, b.Y1, b.X2, b.Y2)
}
