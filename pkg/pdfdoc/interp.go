package pdfdoc

import (
	"math"

	"github.com/gardar/pdfreplace/pkg/content"
	"github.com/gardar/pdfreplace/pkg/geometry"
	"github.com/gardar/pdfreplace/pkg/layout"
)

// placedGlyph ties a glyph to the bytes that show it.
type placedGlyph struct {
	layout.Glyph

	op   int // index into Page.ops
	elem int // index of the string within a TJ array, 0 otherwise
	off  int // byte offset of the code within the string
	n    int // code length in bytes

	advance  float64 // horizontal displacement in unscaled text space
	fontSize float64 // Tfs when shown
}

type textState struct {
	font      *font
	size      float64
	charSpace float64
	wordSpace float64
	scale     float64 // Tz / 100
	leading   float64
	rise      float64
}

type graphicsState struct {
	ctm  geometry.Matrix
	text textState
}

type interpreter struct {
	page   *Page
	gs     graphicsState
	stack  []graphicsState
	tm     geometry.Matrix
	tlm    geometry.Matrix
	glyphs []placedGlyph
}

// interpret runs the text-related operators of ops and records every glyph.
func (p *Page) interpret(ops []content.Operation) []placedGlyph {
	in := &interpreter{
		page: p,
		gs: graphicsState{
			ctm:  geometry.Identity,
			text: textState{scale: 1},
		},
		tm:  geometry.Identity,
		tlm: geometry.Identity,
	}
	for i, op := range ops {
		in.step(i, op)
	}
	return in.glyphs
}

func nums(args []content.Object, n int) ([]float64, bool) {
	if len(args) < n {
		return nil, false
	}
	out := make([]float64, n)
	for i := range out {
		v, ok := content.Float(args[len(args)-n+i])
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func (in *interpreter) nextLine() {
	in.tlm = geometry.Translate(0, -in.gs.text.leading).Mult(in.tlm)
	in.tm = in.tlm
}

func (in *interpreter) step(i int, op content.Operation) {
	ts := &in.gs.text
	args := op.Operands

	switch op.Operator {
	case "q":
		in.stack = append(in.stack, in.gs)
	case "Q":
		if n := len(in.stack); n > 0 {
			in.gs = in.stack[n-1]
			in.stack = in.stack[:n-1]
		}
	case "cm":
		if v, ok := nums(args, 6); ok {
			in.gs.ctm = geometry.Matrix(v).Mult(in.gs.ctm)
		}
	case "BT":
		in.tm, in.tlm = geometry.Identity, geometry.Identity
	case "Tc":
		if v, ok := nums(args, 1); ok {
			ts.charSpace = v[0]
		}
	case "Tw":
		if v, ok := nums(args, 1); ok {
			ts.wordSpace = v[0]
		}
	case "Tz":
		if v, ok := nums(args, 1); ok {
			ts.scale = v[0] / 100
		}
	case "TL":
		if v, ok := nums(args, 1); ok {
			ts.leading = v[0]
		}
	case "Ts":
		if v, ok := nums(args, 1); ok {
			ts.rise = v[0]
		}
	case "Tf":
		if len(args) >= 2 {
			if name, ok := args[0].(content.Name); ok {
				ts.font = in.page.font(string(name))
			}
			if v, ok := content.Float(args[1]); ok {
				ts.size = v
			}
		}
	case "Td", "TD":
		if v, ok := nums(args, 2); ok {
			if op.Operator == "TD" {
				ts.leading = -v[1]
			}
			in.tlm = geometry.Translate(v[0], v[1]).Mult(in.tlm)
			in.tm = in.tlm
		}
	case "Tm":
		if v, ok := nums(args, 6); ok {
			in.tlm = geometry.Matrix(v)
			in.tm = in.tlm
		}
	case "T*":
		in.nextLine()
	case "Tj":
		if len(args) > 0 {
			in.show(i, 0, args[len(args)-1])
		}
	case "'":
		in.nextLine()
		if len(args) > 0 {
			in.show(i, 0, args[len(args)-1])
		}
	case "\"":
		if v, ok := nums(args[:max(0, len(args)-1)], 2); ok {
			ts.wordSpace, ts.charSpace = v[0], v[1]
		}
		in.nextLine()
		if len(args) > 0 {
			in.show(i, 0, args[len(args)-1])
		}
	case "TJ":
		if len(args) == 0 {
			return
		}
		arr, _ := args[len(args)-1].(content.Array)
		for elem, o := range arr {
			if adj, ok := content.Float(o); ok {
				tx := -adj / 1000 * ts.size * ts.scale
				in.tm = geometry.Translate(tx, 0).Mult(in.tm)
				continue
			}
			in.show(i, elem, o)
		}
	}
}

// show advances the text matrix over a shown string, recording its glyphs.
func (in *interpreter) show(opIndex, elem int, o content.Object) {
	s, ok := content.Bytes(o)
	if !ok {
		return
	}
	ts := in.gs.text
	f := ts.font
	if f == nil {
		f = in.page.font("")
	}

	for _, c := range f.decode(s) {
		w0 := f.width(c.code) / 1000
		trm := geometry.Matrix{ts.size * ts.scale, 0, 0, ts.size, 0, ts.rise}.
			Mult(in.tm).Mult(in.gs.ctm)

		box := in.glyphBox(trm, w0, f)
		ox, oy := trm.Apply(0, 0)

		advance := w0*ts.size + ts.charSpace
		if c.n == 1 && c.code == ' ' {
			advance += ts.wordSpace
		}

		in.glyphs = append(in.glyphs, placedGlyph{
			Glyph: layout.Glyph{
				Text:   c.text,
				Box:    box,
				Origin: in.page.toPage(ox, oy),
				Size:   trm.ScaleY(),
			},
			op:       opIndex,
			elem:     elem,
			off:      c.off,
			n:        c.n,
			advance:  advance,
			fontSize: ts.size,
		})
		in.tm = geometry.Translate(advance*ts.scale, 0).Mult(in.tm)
	}
}

// glyphBox maps the glyph cell (0, descent)-(w0, ascent) to page space.
func (in *interpreter) glyphBox(trm geometry.Matrix, w0 float64, f *font) geometry.Rect {
	corners := [4][2]float64{
		{0, f.descent}, {w0, f.descent}, {0, f.ascent}, {w0, f.ascent},
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		x, y := trm.Apply(c[0], c[1])
		pt := in.page.toPage(x, y)
		minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
		minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
	}
	return geometry.Rect{X0: minX, Y0: minY, X1: maxX, Y1: maxY}
}
