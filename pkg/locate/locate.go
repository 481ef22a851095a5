// Package locate finds literal text and labeled values inside page regions.
package locate

import (
	"slices"
	"strings"

	"github.com/gardar/pdfreplace/pkg/geometry"
	"github.com/gardar/pdfreplace/pkg/layout"
)

// Source provides the positioned glyphs of one page.
type Source interface {
	Glyphs() ([]layout.Glyph, error)
}

// Edge is the page edge a Region is anchored to.
type Edge int

const (
	Bottom Edge = iota
	Top
)

// Region is a band of fixed height along the top or bottom of a page.
type Region struct {
	Name   string
	Edge   Edge
	Margin float64
}

// Footer returns the band of height margin along the bottom edge.
func Footer(margin float64) Region {
	return Region{Name: "footer", Edge: Bottom, Margin: margin}
}

// Header returns the band of height margin along the top edge.
func Header(margin float64) Region {
	return Region{Name: "header", Edge: Top, Margin: margin}
}

// Rect resolves the region against a page rectangle. Margins larger than the
// page yield bands that extend past the opposite edge.
func (r Region) Rect(page geometry.Rect) geometry.Rect {
	if r.Edge == Top {
		return geometry.Rect{X0: page.X0, Y0: page.Y0, X1: page.X1, Y1: page.Y0 + r.Margin}
	}
	return geometry.Rect{X0: page.X0, Y0: page.Y1 - r.Margin, X1: page.X1, Y1: page.Y1}
}

// TextInstance is one occurrence of a literal.
type TextInstance struct {
	Text string
	Box  geometry.Rect
}

// Lines returns the lines made of glyphs whose centre lies inside region.
func Lines(src Source, region geometry.Rect) ([]layout.Line, error) {
	glyphs, err := src.Glyphs()
	if err != nil {
		return nil, err
	}
	in := glyphs[:0:0]
	for _, g := range glyphs {
		if region.Contains(g.Box.Center()) {
			in = append(in, g)
		}
	}
	return layout.GroupLines(in), nil
}

// FindLiteral returns every non-overlapping occurrence of literal inside
// region. The match is exact and case-sensitive; an empty literal matches
// nothing.
func FindLiteral(src Source, literal string, region geometry.Rect) ([]TextInstance, error) {
	if literal == "" {
		return nil, nil
	}
	lines, err := Lines(src, region)
	if err != nil {
		return nil, err
	}

	lit := []rune(literal)
	var found []TextInstance
	for _, l := range lines {
		text, index := l.Runes()
		for i := 0; i+len(lit) <= len(text); {
			if !slices.Equal(text[i:i+len(lit)], lit) {
				i++
				continue
			}
			if box, ok := l.Span(index, i, i+len(lit)); ok {
				found = append(found, TextInstance{Text: literal, Box: box})
			}
			i += len(lit)
		}
	}
	return found, nil
}

// ExtractTokens returns the words inside region in reading order.
func ExtractTokens(src Source, region geometry.Rect) ([]layout.Token, error) {
	lines, err := Lines(src, region)
	if err != nil {
		return nil, err
	}
	return layout.Tokenize(lines), nil
}

// RegionText returns the text inside region, one line per row.
func RegionText(src Source, region geometry.Rect) (string, error) {
	lines, err := Lines(src, region)
	if err != nil {
		return "", err
	}
	return layout.Text(lines), nil
}

// LabelValue is a label token and the token that follows it.
type LabelValue struct {
	Label layout.Token
	Value layout.Token
}

// FindLabelValue returns the first token equal to label, ignoring case and
// surrounding whitespace, that has a successor. tokens must be in reading
// order.
func FindLabelValue(tokens []layout.Token, label string) (LabelValue, bool) {
	want := normalize(label)
	if want == "" {
		return LabelValue{}, false
	}
	for i := 0; i+1 < len(tokens); i++ {
		if normalize(tokens[i].Text) == want {
			return LabelValue{Label: tokens[i], Value: tokens[i+1]}, true
		}
	}
	return LabelValue{}, false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
