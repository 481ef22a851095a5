// Package replacer rewrites identifying fields in the footer and header of
// every page of a PDF.
//
// Three fields are handled, in this order on each page:
//
// - Roll: every occurrence of a literal in the footer band.
// - Name: every occurrence of a literal in the footer band, when enabled.
// - Date: the value after a "date:" label in the header band, when enabled.
//
// Each occurrence is erased from the page content and the new text is written
// at the same position in Helvetica. Dates are sized to the width of the
// value they replace.
package replacer

import (
	"context"
	"fmt"
	"image/color"
	"io"

	"github.com/gardar/pdfreplace/pkg/geometry"
	"github.com/gardar/pdfreplace/pkg/layout"
	"github.com/gardar/pdfreplace/pkg/locate"
	"github.com/gardar/pdfreplace/pkg/pdfdoc"
	"github.com/gardar/pdfreplace/pkg/redact"
)

// Result reports the output document and what was replaced.
type Result struct {
	Output      []byte
	Count       int // Sum of the counts below
	Roll        int
	Name        int
	DateToken   int // Dates found after a label token
	DatePattern int // Dates found by matching the header text
}

func (r *Result) add(o Result) {
	r.Roll += o.Roll
	r.Name += o.Name
	r.DateToken += o.DateToken
	r.DatePattern += o.DatePattern
	r.Count = r.Roll + r.Name + r.DateToken + r.DatePattern
}

// Process applies spec to every page of the PDF in data and returns the
// modified document. Pages without a match are left as they were.
// Open failures are reported as *pdfdoc.DocumentOpenError. Any failure
// after the first edit aborts the run without output.
func Process(ctx context.Context, data []byte, spec Spec, config Config) (Result, error) {
	if err := spec.Validate(); err != nil {
		return Result{}, err
	}

	var opts []pdfdoc.Option
	if config.Password != "" {
		opts = append(opts, pdfdoc.WithPassword(config.Password))
	}
	doc, err := pdfdoc.Open(data, opts...)
	if err != nil {
		return Result{}, err
	}

	r, err := newRun(spec, config)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for i := 0; i < doc.PageCount(); i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		page, err := doc.Page(i)
		if err != nil {
			return Result{}, err
		}
		pr, err := r.page(page, i)
		if err != nil {
			return Result{}, fmt.Errorf("page %d: %w", i+1, err)
		}
		res.add(pr)
	}

	if spec.OldRoll != "" && res.Roll == 0 {
		r.warnf("roll %q not found in any footer", spec.OldRoll)
	}
	if spec.dateEnabled() && res.DateToken+res.DatePattern == 0 {
		r.warnf("no date found in any header")
	}

	out, err := doc.Save()
	if err != nil {
		return Result{}, err
	}
	res.Output = out
	return res, nil
}

// run holds the per-invocation state of Process.
type run struct {
	spec     Spec
	cfg      Config
	logger   io.Writer
	measurer geometry.Measurer
	style    redact.Style
	dates    []dateStrategy
}

func newRun(spec Spec, config Config) (*run, error) {
	r := &run{
		spec:     spec,
		cfg:      config,
		logger:   getLogger(config),
		measurer: getMeasurer(config),
		style: redact.Style{
			Face:           config.Font.Face,
			Fill:           color.White,
			Ink:            color.Black,
			BaselineOffset: config.Font.BaselineOffset,
		},
	}
	if spec.dateEnabled() {
		pattern, err := newPatternDate(config.DateLabel)
		if err != nil {
			return nil, err
		}
		r.dates = []dateStrategy{tokenDate{}, pattern}
	}
	return r, nil
}

// source returns where the page's text is located, or nil when the page
// cannot be searched.
func (r *run) source(page *pdfdoc.Page, index int) locate.Source {
	glyphs, err := page.Glyphs()
	if err != nil {
		r.warnf("page %d: skipping, %v", index+1, err)
		return nil
	}
	if len(glyphs) > 0 || r.cfg.OCR == nil || index >= len(r.cfg.OCR.Pages) {
		return page
	}
	r.debugf("page %d: no text layer, using hOCR words", index+1)
	return glyphList(layout.GlyphsFromHOCR(r.cfg.OCR.Pages[index], page.Rect()))
}

func (r *run) page(page *pdfdoc.Page, index int) (Result, error) {
	var res Result
	src := r.source(page, index)
	if src == nil {
		return res, nil
	}
	footer := locate.Footer(r.cfg.FooterMargin).Rect(page.Rect())
	header := locate.Header(r.cfg.HeaderMargin).Rect(page.Rect())

	var err error
	if res.Roll, err = r.replaceAll(page, src, footer, r.spec.OldRoll, r.spec.NewRoll); err != nil {
		return res, err
	}
	if r.spec.nameEnabled() {
		if res.Name, err = r.replaceAll(page, src, footer, r.spec.OldName, r.spec.NewName); err != nil {
			return res, err
		}
	}

	for _, s := range r.dates {
		n, err := s.replace(r, page, src, header)
		if err != nil {
			return res, err
		}
		if n > 0 {
			s.count(&res, n)
			break
		}
	}
	return res, nil
}

// replaceAll replaces every occurrence of old inside region.
func (r *run) replaceAll(c redact.Canvas, src locate.Source, region geometry.Rect, old, repl string) (int, error) {
	found, err := locate.FindLiteral(src, old, region)
	if err != nil {
		return 0, err
	}
	for _, inst := range found {
		if err := r.style.Replace(c, inst.Box, repl, r.cfg.Font.Size); err != nil {
			return 0, err
		}
		r.debugf("replaced %q with %q at %v", old, repl, inst.Box)
	}
	return len(found), nil
}
