package pdfdoc

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/gardar/pdfreplace/pkg/content"
	"github.com/gardar/pdfreplace/pkg/geometry"
	"github.com/gardar/pdfreplace/pkg/layout"
)

// defaultBox is US Letter, used when a page declares neither a crop box nor a media box.
var defaultBox = types.NewRectangle(0, 0, 612, 792)

// Page is one page of a Document. Edits are held in memory until Save.
type Page struct {
	doc    *Document
	number int
	dict   types.Dict
	ref    *types.IndirectRef
	box    *types.Rectangle
	rotate int

	inherited types.Dict // resources inherited from the page tree
	resOwned  bool       // page dict carries its own cloned Resources

	ops      []content.Operation
	loaded   bool
	parseErr error

	fonts  map[string]*font
	placed []placedGlyph
	valid  bool // placed reflects ops

	dirty   bool
	wrapped bool
	added   map[string]string // BaseFont → resource name
}

func newPage(d *Document, number int, dict types.Dict, ref *types.IndirectRef, inh *model.InheritedPageAttrs) *Page {
	p := &Page{
		doc:    d,
		number: number,
		dict:   dict,
		ref:    ref,
		fonts:  make(map[string]*font),
		added:  make(map[string]string),
	}

	p.box = d.rect(dict["CropBox"])
	if p.box == nil {
		p.box = d.rect(dict["MediaBox"])
	}
	if inh != nil {
		if p.box == nil {
			p.box = inh.CropBox
		}
		if p.box == nil {
			p.box = inh.MediaBox
		}
		p.inherited = inh.Resources
		p.rotate = inh.Rotate
	}
	if p.box == nil {
		p.box = defaultBox
	}
	if r, ok := d.number(dict["Rotate"]); ok {
		p.rotate = int(r)
	}
	return p
}

// Number returns the 1-based page number.
func (p *Page) Number() int { return p.number }

// Rotation returns the page's /Rotate value in degrees. Page space is not
// rotated: it always follows the unrotated crop box.
func (p *Page) Rotation() int { return p.rotate }

// Rect returns the page rectangle in page space, (0, 0, width, height).
func (p *Page) Rect() geometry.Rect {
	return geometry.Rect{X1: p.box.Width(), Y1: p.box.Height()}
}

// toPage converts PDF user space to page space.
func (p *Page) toPage(x, y float64) geometry.Point {
	return geometry.Point{X: x - p.box.LL.X, Y: p.box.UR.Y - y}
}

// toUser converts page space to PDF user space.
func (p *Page) toUser(pt geometry.Point) (float64, float64) {
	return pt.X + p.box.LL.X, p.box.UR.Y - pt.Y
}

// resources returns the page's resource dictionary, own or inherited.
func (p *Page) resources() types.Dict {
	if r := p.doc.dict(p.dict["Resources"]); r != nil {
		return r
	}
	return p.inherited
}

// operations parses the page's content streams once.
func (p *Page) operations() ([]content.Operation, error) {
	if p.loaded {
		return p.ops, p.parseErr
	}
	p.loaded = true

	data, err := p.contentBytes()
	if err != nil {
		p.parseErr = fmt.Errorf("%w: page %d: %w", ErrContent, p.number, err)
		return nil, p.parseErr
	}
	p.ops, err = content.Parse(data)
	if err != nil {
		p.parseErr = fmt.Errorf("%w: page %d: %w", ErrContent, p.number, err)
	}
	return p.ops, p.parseErr
}

// contentBytes concatenates the decoded content streams of the page.
func (p *Page) contentBytes() ([]byte, error) {
	obj, ok := p.dict.Find("Contents")
	if !ok {
		return nil, nil
	}
	var parts []types.Object
	if arr := p.doc.array(obj); arr != nil {
		parts = arr
	} else {
		parts = []types.Object{obj}
	}

	var buf bytes.Buffer
	for _, part := range parts {
		data, err := p.doc.streamContent(part)
		if err != nil {
			return nil, err
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// font returns the font registered under name in the page resources.
func (p *Page) font(name string) *font {
	if f, ok := p.fonts[name]; ok {
		return f
	}
	var f *font
	if fonts := p.doc.dict(p.resources()["Font"]); fonts != nil {
		if fd := p.doc.dict(fonts[name]); fd != nil {
			f = p.doc.loadFont(fd)
		}
	}
	if f == nil {
		f = p.doc.loadFont(types.Dict{"BaseFont": types.Name("Helvetica")})
	}
	p.fonts[name] = f
	return f
}

// Glyphs returns the positioned glyphs shown by the page's content stream.
// Text inside form XObjects and annotations is not included.
func (p *Page) Glyphs() ([]layout.Glyph, error) {
	placed, err := p.placedGlyphs()
	if err != nil {
		return nil, err
	}
	out := make([]layout.Glyph, len(placed))
	for i, g := range placed {
		out[i] = g.Glyph
	}
	return out, nil
}

func (p *Page) placedGlyphs() ([]placedGlyph, error) {
	if p.valid {
		return p.placed, nil
	}
	ops, err := p.operations()
	if err != nil {
		return nil, err
	}
	p.placed = p.interpret(ops)
	p.valid = true
	return p.placed, nil
}

// commit stores edited content and resources into the page dictionary.
func (p *Page) commit() error {
	if !p.dirty {
		return nil
	}
	ctx := p.doc.ctx
	sd, err := ctx.NewStreamDictForBuf(content.Serialize(p.ops))
	if err != nil {
		return err
	}
	if err := sd.Encode(); err != nil {
		return err
	}
	ref, err := ctx.IndRefForNewObject(*sd)
	if err != nil {
		return err
	}
	p.dict["Contents"] = *ref

	if p.ref != nil {
		if entry, ok := ctx.FindTableEntryForIndRef(p.ref); ok {
			entry.Object = p.dict
		}
	}
	p.dirty = false
	return nil
}
