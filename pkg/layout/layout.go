// Package layout groups positioned glyphs into lines, blocks and words.
package layout

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/gardar/pdfreplace/pkg/geometry"
)

const (
	// baselineTolerance is the largest baseline difference, relative to the
	// font size, for two glyphs to share a line.
	baselineTolerance = 0.35
	// gapThreshold is the horizontal gap, relative to the font size, above
	// which a space is assumed between two glyphs.
	gapThreshold = 0.15
)

// Glyph is one shown character code.
type Glyph struct {
	Text   string         // decoded text, usually a single rune
	Box    geometry.Rect  // page space bounding box
	Origin geometry.Point // start of the glyph on its baseline
	Size   float64        // effective font size in page units
}

// IsSpace reports whether the glyph renders as whitespace.
func (g Glyph) IsSpace() bool {
	if g.Text == "" {
		return false
	}
	for _, r := range g.Text {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// Line is a run of glyphs sharing a baseline, ordered left to right.
type Line struct {
	Glyphs   []Glyph
	Box      geometry.Rect
	Baseline float64
	Block    int
}

// GroupLines sorts glyphs into lines ordered top to bottom and assigns block
// numbers. A vertical gap taller than the previous line starts a new block.
func GroupLines(glyphs []Glyph) []Line {
	if len(glyphs) == 0 {
		return nil
	}
	sorted := make([]Glyph, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Origin.Y < sorted[j].Origin.Y
	})

	var lines []Line
	for _, g := range sorted {
		if n := len(lines); n > 0 {
			cur := &lines[n-1]
			tol := baselineTolerance * math.Max(1, math.Max(g.Size, lineSize(*cur)))
			if math.Abs(g.Origin.Y-cur.Baseline) <= tol {
				cur.Glyphs = append(cur.Glyphs, g)
				continue
			}
		}
		lines = append(lines, Line{Glyphs: []Glyph{g}, Baseline: g.Origin.Y})
	}

	for i := range lines {
		l := &lines[i]
		sort.SliceStable(l.Glyphs, func(a, b int) bool {
			return l.Glyphs[a].Origin.X < l.Glyphs[b].Origin.X
		})
		for _, g := range l.Glyphs {
			l.Box = l.Box.Union(g.Box)
		}
		if i > 0 {
			prev := lines[i-1]
			l.Block = prev.Block
			if l.Box.Y0-prev.Box.Y1 > prev.Box.Height() {
				l.Block++
			}
		}
	}
	return lines
}

func lineSize(l Line) float64 {
	var s float64
	for _, g := range l.Glyphs {
		s = math.Max(s, g.Size)
	}
	return s
}

// Runes returns the line's text together with, for every rune, the index of
// the glyph it came from. Spaces inferred from gaps map to -1.
func (l Line) Runes() ([]rune, []int) {
	var (
		text  []rune
		index []int
	)
	for i, g := range l.Glyphs {
		if i > 0 {
			prev := l.Glyphs[i-1]
			size := math.Max(prev.Size, g.Size)
			if !prev.IsSpace() && !g.IsSpace() && g.Box.X0-prev.Box.X1 > gapThreshold*size {
				text = append(text, ' ')
				index = append(index, -1)
			}
		}
		for _, r := range g.Text {
			text = append(text, r)
			index = append(index, i)
		}
	}
	return text, index
}

// Text returns the line's text with inferred spaces.
func (l Line) Text() string {
	r, _ := l.Runes()
	return string(r)
}

// Span returns the union box of the glyphs behind runes [from, to).
// ok is false when the range covers no glyph.
func (l Line) Span(index []int, from, to int) (box geometry.Rect, ok bool) {
	last := -1
	for _, gi := range index[from:to] {
		if gi < 0 || gi == last {
			continue
		}
		box = box.Union(l.Glyphs[gi].Box)
		last, ok = gi, true
	}
	return box, ok
}

// Token is a word together with its position in reading order.
type Token struct {
	Text  string
	Box   geometry.Rect
	Block int
	Line  int // line number within the block
	Word  int // word number within the line
}

// Less orders tokens left to right, top to bottom.
func (t Token) Less(o Token) bool {
	if t.Block != o.Block {
		return t.Block < o.Block
	}
	if t.Line != o.Line {
		return t.Line < o.Line
	}
	return t.Word < o.Word
}

// Tokenize splits lines into words at real and inferred spaces.
func Tokenize(lines []Line) []Token {
	var (
		tokens   []Token
		lineInBl int
	)
	for li, l := range lines {
		if li > 0 && l.Block != lines[li-1].Block {
			lineInBl = 0
		} else if li > 0 {
			lineInBl++
		}

		text, index := l.Runes()
		word := 0
		for i := 0; i < len(text); {
			if unicode.IsSpace(text[i]) {
				i++
				continue
			}
			j := i
			for j < len(text) && !unicode.IsSpace(text[j]) {
				j++
			}
			box, ok := l.Span(index, i, j)
			if ok {
				tokens = append(tokens, Token{
					Text:  string(text[i:j]),
					Box:   box,
					Block: l.Block,
					Line:  lineInBl,
					Word:  word,
				})
				word++
			}
			i = j
		}
	}
	sort.SliceStable(tokens, func(i, j int) bool { return tokens[i].Less(tokens[j]) })
	return tokens
}

// Text joins lines with newlines.
func Text(lines []Line) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.Text()
	}
	return strings.Join(parts, "\n")
}
