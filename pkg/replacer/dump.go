package replacer

import (
	"context"
	"strconv"

	"github.com/gardar/pdfreplace/pkg/hocr"
	"github.com/gardar/pdfreplace/pkg/layout"
	"github.com/gardar/pdfreplace/pkg/locate"
	"github.com/gardar/pdfreplace/pkg/pdfdoc"
)

// RegionHOCR returns the words found in the header and footer bands of every
// page as hOCR, in page space points. It shows what Process can match.
func RegionHOCR(ctx context.Context, data []byte, config Config) (*hocr.HOCR, error) {
	var opts []pdfdoc.Option
	if config.Password != "" {
		opts = append(opts, pdfdoc.WithPassword(config.Password))
	}
	doc, err := pdfdoc.Open(data, opts...)
	if err != nil {
		return nil, err
	}
	r, err := newRun(Spec{}, config)
	if err != nil {
		return nil, err
	}

	out := &hocr.HOCR{
		Title:    "Header and footer text",
		Metadata: make(map[string]string),
	}
	for i := 0; i < doc.PageCount(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := doc.Page(i)
		if err != nil {
			return nil, err
		}

		var lines []layout.Line
		if src := r.source(page, i); src != nil {
			glyphs, err := src.Glyphs()
			if err != nil {
				return nil, err
			}
			header := locate.Header(config.HeaderMargin).Rect(page.Rect())
			footer := locate.Footer(config.FooterMargin).Rect(page.Rect())
			var in []layout.Glyph
			for _, g := range glyphs {
				c := g.Box.Center()
				if header.Contains(c) || footer.Contains(c) {
					in = append(in, g)
				}
			}
			lines = layout.GroupLines(in)
		}
		out.Pages = append(out.Pages, layout.ToHOCRPage(i+1, page.Rect(), lines))
	}
	out.Metadata["ocr-number-of-pages"] = strconv.Itoa(len(out.Pages))
	return out, nil
}
