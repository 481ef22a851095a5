package gdocai

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/pdfreplace/pkg/hocr"
)

// CreateHOCRStruct converts a Document AI proto directly to the HOCR struct
func CreateHOCRStruct(doc *documentaipb.Document) (*hocr.HOCR, error) {
	if doc == nil {
		return nil, fmt.Errorf("document ai response is nil")
	}
	text := []rune(doc.Text)

	result := &hocr.HOCR{
		Title:    "Document OCR",
		System:   "Document AI OCR",
		Language: documentLanguage(doc),
		Metadata: map[string]string{
			"ocr-number-of-pages": strconv.Itoa(len(doc.Pages)),
		},
	}
	for i, page := range doc.Pages {
		number := int(page.PageNumber)
		if number == 0 {
			number = i + 1
		}
		result.Pages = append(result.Pages, CreateHOCRPage(page, text, number))
	}
	return result, nil
}

// CreateHOCRPage converts a single Document AI page to an HOCR page.
// pageNumber is 1-based.
func CreateHOCRPage(page *documentaipb.Document_Page, fullText []rune, pageNumber int) hocr.Page {
	out := hocr.Page{
		ID:         fmt.Sprintf("page_%d", pageNumber),
		PageNumber: pageNumber - 1,
	}
	if dim := page.Dimension; dim != nil {
		out.BBox = hocr.NewBoundingBox(0, 0, float64(dim.Width), float64(dim.Height))
	}
	if len(page.DetectedLanguages) > 0 {
		out.Lang = page.DetectedLanguages[0].LanguageCode
	}

	c := pageConverter{page: page, text: fullText, number: pageNumber, used: make(map[int]bool)}

	for bi, block := range page.Blocks {
		area := hocr.Area{
			ID:   fmt.Sprintf("block_%d_%d", pageNumber, bi+1),
			BBox: c.bbox(block.Layout),
		}
		for pi, par := range page.Paragraphs {
			if contains(block.Layout, par.Layout) {
				area.Paragraphs = append(area.Paragraphs, c.paragraph(par, pi))
			}
		}
		out.Areas = append(out.Areas, area)
	}

	// Lines outside every paragraph, e.g. when the processor returns no blocks
	for li, line := range page.Lines {
		if !c.used[li] {
			out.Lines = append(out.Lines, c.line(line, li))
		}
	}
	return out
}

type pageConverter struct {
	page   *documentaipb.Document_Page
	text   []rune
	number int
	used   map[int]bool // line indexes already placed in a paragraph
}

func (c *pageConverter) paragraph(par *documentaipb.Document_Page_Paragraph, index int) hocr.Paragraph {
	out := hocr.Paragraph{
		ID:   fmt.Sprintf("par_%d_%d", c.number, index+1),
		BBox: c.bbox(par.Layout),
	}
	if len(par.DetectedLanguages) > 0 {
		out.Lang = par.DetectedLanguages[0].LanguageCode
	}
	for li, line := range c.page.Lines {
		if !c.used[li] && contains(par.Layout, line.Layout) {
			c.used[li] = true
			out.Lines = append(out.Lines, c.line(line, li))
		}
	}
	return out
}

func (c *pageConverter) line(line *documentaipb.Document_Page_Line, index int) hocr.Line {
	out := hocr.Line{
		ID:   fmt.Sprintf("line_%d_%d", c.number, index+1),
		BBox: c.bbox(line.Layout),
	}
	for ti, token := range c.page.Tokens {
		if !contains(line.Layout, token.Layout) {
			continue
		}
		text := strings.Join(strings.Fields(textFromLayout(token.Layout, c.text)), " ")
		if text == "" {
			continue
		}
		out.Words = append(out.Words, hocr.Word{
			ID:         fmt.Sprintf("word_%d_%d", c.number, ti+1),
			Text:       text,
			BBox:       c.bbox(token.Layout),
			Confidence: float64(token.GetLayout().GetConfidence()) * 100,
		})
	}
	return out
}

// bbox converts a layout's bounding polygon to pixel coordinates of the page.
// Normalized vertices are preferred; absolute vertices are used otherwise.
func (c *pageConverter) bbox(layout *documentaipb.Document_Page_Layout) hocr.BoundingBox {
	poly := layout.GetBoundingPoly()
	if poly == nil {
		return hocr.BoundingBox{}
	}

	var xs, ys []float64
	if nv := poly.NormalizedVertices; len(nv) > 0 && c.page.Dimension != nil {
		w, h := float64(c.page.Dimension.Width), float64(c.page.Dimension.Height)
		for _, v := range nv {
			xs = append(xs, float64(v.X)*w)
			ys = append(ys, float64(v.Y)*h)
		}
	} else {
		for _, v := range poly.Vertices {
			xs = append(xs, float64(v.X))
			ys = append(ys, float64(v.Y))
		}
	}
	if len(xs) == 0 {
		return hocr.BoundingBox{}
	}

	box := hocr.NewBoundingBox(math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1))
	for i := range xs {
		box.X1, box.X2 = math.Min(box.X1, xs[i]), math.Max(box.X2, xs[i])
		box.Y1, box.Y2 = math.Min(box.Y1, ys[i]), math.Max(box.Y2, ys[i])
	}
	return box
}

// documentLanguage finds the most common language in the document
// by counting language occurrences across pages and tokens.
func documentLanguage(doc *documentaipb.Document) string {
	count := make(map[string]int)
	for _, page := range doc.Pages {
		for _, lang := range page.DetectedLanguages {
			count[lang.LanguageCode]++
		}
		for _, token := range page.Tokens {
			for _, lang := range token.DetectedLanguages {
				count[lang.LanguageCode]++
			}
		}
	}

	best, highest := "", 0
	for lang, n := range count {
		if n > highest || (n == highest && lang < best) {
			best, highest = lang, n
		}
	}
	return best
}
