// Package redact erases a rectangle of a page and writes replacement text at
// the same anchor.
package redact

import (
	"fmt"
	"image/color"

	"github.com/gardar/pdfreplace/pkg/geometry"
)

// BaselineOffset is the distance from a match's bottom edge up to the
// baseline of the reinserted text.
const BaselineOffset = 2.0

// Canvas is a page that supports destructive redaction and text insertion.
type Canvas interface {
	Redact(box geometry.Rect, fill color.Color) error
	InsertText(at geometry.Point, text, face string, size float64, ink color.Color) error
}

// Style controls how replacement text is drawn.
type Style struct {
	Face           string
	Fill           color.Color // redaction fill
	Ink            color.Color // text color
	BaselineOffset float64
}

// DefaultStyle is Helvetica, black on white, 2pt above the box bottom.
var DefaultStyle = Style{
	Face:           "helv",
	Fill:           color.White,
	Ink:            color.Black,
	BaselineOffset: BaselineOffset,
}

// AnchorFrom returns the insertion point for text replacing box:
// the box's left edge, BaselineOffset above its bottom.
func AnchorFrom(box geometry.Rect) geometry.Point {
	return DefaultStyle.Anchor(box)
}

// Anchor returns the insertion point for box under this style.
func (s Style) Anchor(box geometry.Rect) geometry.Point {
	return geometry.Point{X: box.X0, Y: box.Y1 - s.BaselineOffset}
}

// Replace erases box and draws text at its anchor in the default style.
func Replace(c Canvas, box geometry.Rect, text string, size float64) error {
	return DefaultStyle.Replace(c, box, text, size)
}

// Replace erases box and draws text at its anchor. Nothing is drawn when
// the redaction fails.
func (s Style) Replace(c Canvas, box geometry.Rect, text string, size float64) error {
	if err := c.Redact(box, s.Fill); err != nil {
		return fmt.Errorf("redact %v: %w", box, err)
	}
	if err := c.InsertText(s.Anchor(box), text, s.Face, size, s.Ink); err != nil {
		return fmt.Errorf("insert %q at %v: %w", text, box, err)
	}
	return nil
}

// ReplaceFitted is Replace with the font size chosen so text spans the
// width of box, within [min, max]. It returns the size used.
func (s Style) ReplaceFitted(c Canvas, m geometry.Measurer, box geometry.Rect, text string, base, min, max float64) (float64, error) {
	size := geometry.FitFontSize(m, box.Width(), text, s.Face, base, min, max)
	return size, s.Replace(c, box, text, size)
}
