package pdfdoc

import (
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/gardar/pdfreplace/pkg/geometry"
)

const (
	defaultAscent  = 0.718
	defaultDescent = -0.207
)

// font holds what the text interpreter needs from a font dictionary:
// code splitting, advance widths and text mapping.
type font struct {
	baseFont  string
	composite bool // Type0, multi-byte codes

	firstChar int
	widths    []float64       // simple fonts, 1/1000 em from FirstChar
	cidWidths map[int]float64 // composite fonts
	missing   float64         // MissingWidth or DW
	scale     float64         // width multiplier, 1 except for Type3

	std     *geometry.Face // standard metrics when the dictionary has no widths
	metrics *geometry.Metrics

	encoding  [256]rune
	toUnicode *toUnicode

	ascent, descent float64
}

// charCode is one code read from a shown string.
type charCode struct {
	code int
	off  int // byte offset in the string
	n    int // length in bytes
	text string
}

// loadFont builds a font from a font dictionary. It never fails: missing
// pieces fall back to Helvetica metrics and WinAnsi text mapping.
func (d *Document) loadFont(fd types.Dict) *font {
	f := &font{
		baseFont: stripSubset(d.name(fd["BaseFont"])),
		scale:    1,
		metrics:  d.metrics,
		ascent:   defaultAscent,
		descent:  defaultDescent,
	}
	subtype := d.name(fd["Subtype"])

	if tu, ok := fd.Find("ToUnicode"); ok {
		if data, err := d.streamContent(tu); err == nil && len(data) > 0 {
			f.toUnicode = parseToUnicode(data)
		}
	}

	if subtype == "Type0" {
		f.composite = true
		f.missing = 1000
		if desc := d.array(fd["DescendantFonts"]); len(desc) > 0 {
			cid := d.dict(desc[0])
			if dw, ok := d.number(cid["DW"]); ok {
				f.missing = dw
			}
			f.cidWidths = d.cidWidths(d.array(cid["W"]))
			d.readDescriptor(f, d.dict(cid["FontDescriptor"]))
		}
		return f
	}

	f.firstChar = 0
	if fc, ok := d.number(fd["FirstChar"]); ok {
		f.firstChar = int(fc)
	}
	for _, w := range d.array(fd["Widths"]) {
		v, _ := d.number(w)
		f.widths = append(f.widths, v)
	}
	desc := d.dict(fd["FontDescriptor"])
	if mw, ok := d.number(desc["MissingWidth"]); ok {
		f.missing = mw
	}
	d.readDescriptor(f, desc)

	if subtype == "Type3" {
		if fm := d.array(fd["FontMatrix"]); len(fm) == 6 {
			if a, ok := d.number(fm[0]); ok {
				f.scale = a * 1000
			}
		}
	}

	face, known := geometry.LookupFace(f.baseFont)
	if !known {
		face, _ = geometry.LookupFace("helv")
	}
	f.std = &face

	symbolic := face.Family == "Symbol" || face.Family == "ZapfDingbats"
	if flags, ok := d.number(desc["Flags"]); ok {
		symbolic = symbolic || int(flags)&4 != 0 && int(flags)&32 == 0
	}
	f.encoding = d.simpleEncoding(fd["Encoding"], symbolic)
	return f
}

func (d *Document) readDescriptor(f *font, desc types.Dict) {
	if desc == nil {
		return
	}
	if a, ok := d.number(desc["Ascent"]); ok && a > 0 {
		f.ascent = a / 1000
	}
	if v, ok := d.number(desc["Descent"]); ok && v < 0 {
		f.descent = v / 1000
	}
}

func (d *Document) simpleEncoding(o types.Object, symbolic bool) [256]rune {
	var table [256]rune
	if symbolic {
		table = identityEncoding()
	} else {
		table = baseEncoding("StandardEncoding")
	}

	switch enc := d.deref(o).(type) {
	case types.Name:
		table = baseEncoding(string(enc))
	case types.Dict:
		if base := d.name(enc["BaseEncoding"]); base != "" {
			table = baseEncoding(base)
		}
		code := 0
		for _, item := range d.array(enc["Differences"]) {
			if n, ok := d.number(item); ok {
				code = int(n)
				continue
			}
			if name := d.name(item); name != "" {
				if r, ok := glyphRune(name); ok && code >= 0 && code < 256 {
					table[code] = r
				}
				code++
			}
		}
	}
	return table
}

// cidWidths reads a /W array: c [w1 w2 ...] or cfirst clast w.
func (d *Document) cidWidths(w types.Array) map[int]float64 {
	out := make(map[int]float64)
	for i := 0; i < len(w); {
		first, ok := d.number(w[i])
		if !ok || i+1 >= len(w) {
			break
		}
		if list := d.array(w[i+1]); list != nil {
			for j, v := range list {
				out[int(first)+j], _ = d.number(v)
			}
			i += 2
			continue
		}
		if i+2 >= len(w) {
			break
		}
		last, _ := d.number(w[i+1])
		width, _ := d.number(w[i+2])
		if last-first < maxRange {
			for c := int(first); c <= int(last); c++ {
				out[c] = width
			}
		}
		i += 3
	}
	return out
}

// stripSubset removes a subset tag such as "ABCDEF+".
func stripSubset(name string) string {
	if len(name) > 7 && name[6] == '+' && strings.ToUpper(name[:6]) == name[:6] {
		return name[7:]
	}
	return name
}

// decode splits a shown string into character codes.
func (f *font) decode(s []byte) []charCode {
	var out []charCode
	for i := 0; i < len(s); {
		n := 1
		if f.toUnicode != nil {
			if l := f.toUnicode.codeLength(s[i:]); l > 0 {
				n = l
			} else if f.composite {
				n = 2
			}
		} else if f.composite {
			n = 2
		}
		if i+n > len(s) {
			n = len(s) - i
		}
		raw := s[i : i+n]
		out = append(out, charCode{
			code: int(beUint(raw)),
			off:  i,
			n:    n,
			text: f.text(raw),
		})
		i += n
	}
	return out
}

func (f *font) text(raw []byte) string {
	if f.toUnicode != nil {
		if t, ok := f.toUnicode.lookup(raw); ok {
			return t
		}
	}
	if f.composite || len(raw) != 1 {
		return "\uFFFD"
	}
	r := f.encoding[raw[0]]
	if r == 0 || r == '\uFFFD' {
		return "\uFFFD"
	}
	return string(r)
}

// width returns the advance of code in 1/1000 text space units.
func (f *font) width(code int) float64 {
	if f.composite {
		if w, ok := f.cidWidths[code]; ok {
			return w
		}
		return f.missing
	}
	if i := code - f.firstChar; i >= 0 && i < len(f.widths) && f.widths[i] > 0 {
		return f.widths[i] * f.scale
	}
	if len(f.widths) > 0 && f.missing > 0 {
		return f.missing * f.scale
	}
	if f.std != nil && code >= 0 && code < 256 {
		if w, ok := f.metrics.CodeWidth(*f.std, byte(code)); ok {
			return w
		}
	}
	if f.missing > 0 {
		return f.missing
	}
	return 500
}
