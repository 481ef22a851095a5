package pdfdoc

import (
	"fmt"
	"image/color"
	"slices"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/gardar/pdfreplace/pkg/content"
	"github.com/gardar/pdfreplace/pkg/geometry"
)

// Redact removes every glyph whose centre lies inside box and paints box with
// fill. Glyphs outside box keep their positions. Vector graphics and images
// under box are covered by the fill, not removed.
func (p *Page) Redact(box geometry.Rect, fill color.Color) error {
	placed, err := p.placedGlyphs()
	if err != nil {
		return err
	}

	byOp := make(map[int][]placedGlyph)
	hit := make(map[int]bool)
	for _, g := range placed {
		byOp[g.op] = append(byOp[g.op], g)
		if box.Contains(g.Box.Center()) {
			hit[g.op] = true
		}
	}

	ops := make([]content.Operation, 0, len(p.ops)+8)
	for i, op := range p.ops {
		if !hit[i] {
			ops = append(ops, op)
			continue
		}
		ops = append(ops, rewriteShow(op, byOp[i], box)...)
	}

	x, y := p.toUser(geometry.Point{X: box.X0, Y: box.Y1})
	paint := []content.Operation{
		content.NewOperation("q"),
		colorOp("rg", fill),
		content.NewOperation("re",
			content.Number(x), content.Number(y),
			content.Number(box.Width()), content.Number(box.Height())),
		content.NewOperation("f"),
		content.NewOperation("Q"),
	}
	p.apply(ops, paint)
	return nil
}

// rewriteShow replaces a text showing operator with a TJ that omits the
// glyphs inside box, keeping the advance of each removed glyph as a TJ
// displacement.
func rewriteShow(op content.Operation, glyphs []placedGlyph, box geometry.Rect) []content.Operation {
	var elems []content.Object
	switch op.Operator {
	case "TJ":
		elems, _ = op.Operands[len(op.Operands)-1].(content.Array)
	default:
		elems = []content.Object{op.Operands[len(op.Operands)-1]}
	}

	byElem := make(map[int][]placedGlyph)
	for _, g := range glyphs {
		byElem[g.elem] = append(byElem[g.elem], g)
	}

	arr := content.Array{}
	for ei, o := range elems {
		s, ok := content.Bytes(o)
		if !ok {
			arr = append(arr, o)
			continue
		}
		var run []byte
		for _, g := range byElem[ei] {
			if !box.Contains(g.Box.Center()) {
				run = append(run, s[g.off:g.off+g.n]...)
				continue
			}
			if len(run) > 0 {
				arr = append(arr, content.HexString(run))
				run = nil
			}
			if g.fontSize != 0 {
				arr = append(arr, content.Number(-g.advance*1000/g.fontSize))
			}
		}
		if len(run) > 0 {
			arr = append(arr, content.HexString(run))
		}
	}

	tj := content.NewOperation("TJ", arr)
	switch op.Operator {
	case "'":
		return []content.Operation{content.NewOperation("T*"), tj}
	case "\"":
		return []content.Operation{
			content.NewOperation("Tw", op.Operands[0]),
			content.NewOperation("Tc", op.Operands[1]),
			content.NewOperation("T*"),
			tj,
		}
	}
	return []content.Operation{tj}
}

// InsertText draws text with its baseline starting at the page space point at,
// in one of the standard faces.
func (p *Page) InsertText(at geometry.Point, text, face string, size float64, ink color.Color) error {
	f, ok := geometry.LookupFace(face)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFace, face)
	}
	if _, err := p.operations(); err != nil {
		return err
	}
	name, err := p.fontResource(f)
	if err != nil {
		return err
	}

	x, y := p.toUser(at)
	show := []content.Operation{
		content.NewOperation("q"),
		content.NewOperation("BT"),
		content.NewOperation("Tf", content.Name(name), content.Number(size)),
		colorOp("rg", ink),
		content.NewOperation("Tm",
			content.Number(1), content.Number(0), content.Number(0), content.Number(1),
			content.Number(x), content.Number(y)),
		content.NewOperation("Tj", content.HexString(geometry.EncodeWinAnsi(text))),
		content.NewOperation("ET"),
		content.NewOperation("Q"),
	}
	p.apply(slices.Clone(p.ops), show)
	return nil
}

// apply installs ops, wrapping the original content in q/Q on the first
// edit, and appends extra.
func (p *Page) apply(ops, extra []content.Operation) {
	if !p.wrapped {
		wrapped := make([]content.Operation, 0, len(ops)+2)
		wrapped = append(wrapped, content.NewOperation("q"))
		wrapped = append(wrapped, ops...)
		ops = append(wrapped, content.NewOperation("Q"))
		p.wrapped = true
	}
	p.ops = append(ops, extra...)
	p.dirty = true
	p.valid = false
}

func colorOp(op string, c color.Color) content.Operation {
	if c == nil {
		c = color.Black
	}
	r, g, b, _ := c.RGBA()
	return content.NewOperation(op,
		content.Number(float64(r)/0xffff),
		content.Number(float64(g)/0xffff),
		content.Number(float64(b)/0xffff))
}

// fontResource registers a standard font in the page resources and returns
// its resource name.
func (p *Page) fontResource(face geometry.Face) (string, error) {
	if name, ok := p.added[face.BaseFont]; ok {
		return name, nil
	}
	ref, err := p.doc.standardFont(face)
	if err != nil {
		return "", err
	}

	res := p.ownResources()
	fonts := p.doc.dict(res["Font"])
	if fonts == nil {
		fonts = types.NewDict()
	} else {
		fonts = fonts.Clone().(types.Dict)
	}
	name := "FRpl"
	for i := 1; ; i++ {
		if _, taken := fonts[name]; !taken {
			break
		}
		name = fmt.Sprintf("FRpl%d", i)
	}
	fonts[name] = ref
	res["Font"] = fonts

	p.added[face.BaseFont] = name
	delete(p.fonts, name)
	return name, nil
}

// ownResources gives the page a private copy of its resource dictionary.
func (p *Page) ownResources() types.Dict {
	if p.resOwned {
		return p.doc.dict(p.dict["Resources"])
	}
	res := types.NewDict()
	if base := p.resources(); base != nil {
		res = base.Clone().(types.Dict)
	}
	p.dict["Resources"] = res
	p.resOwned = true
	return res
}
