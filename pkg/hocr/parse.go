package hocr

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// ErrNoPages is returned when the input contains no ocr_page element.
var ErrNoPages = errors.New("no ocr_page elements found in hOCR data")

// lineClasses are the hOCR classes OCR engines use for a line of text.
var lineClasses = []string{"ocr_line", "ocr_header", "ocr_caption", "ocr_textfloat"}

// ParseHOCR converts raw hOCR data into the object model.
// The character encoding is taken from the document's meta charset.
func ParseHOCR(data []byte) (*HOCR, error) {
	r, err := charset.NewReader(bytes.NewReader(data), "text/html")
	if err != nil {
		return nil, fmt.Errorf("failed to detect hOCR encoding: %w", err)
	}
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse hOCR html: %w", err)
	}

	doc := &HOCR{Metadata: make(map[string]string)}
	parseHead(doc, root)

	walk(root, func(n *html.Node) bool {
		if hasClass(n, "ocr_page") {
			doc.Pages = append(doc.Pages, parsePage(n))
			return false
		}
		return true
	})
	if len(doc.Pages) == 0 {
		return nil, ErrNoPages
	}
	return doc, nil
}

// ParseTitle breaks an hOCR title attribute into its properties.
// Example input: "bbox 100 200 300 400; x_wconf 95"
func ParseTitle(title string) map[string][]string {
	props := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(part)
		if len(items) == 0 {
			continue
		}
		props[items[0]] = items[1:]
	}
	return props
}

// ParseBoundingBoxFromTitle extracts the bbox property of a title attribute.
func ParseBoundingBoxFromTitle(title string) (BoundingBox, bool) {
	v, ok := ParseTitle(title)["bbox"]
	if !ok || len(v) < 4 {
		return BoundingBox{}, false
	}
	var c [4]float64
	for i := range c {
		f, err := strconv.ParseFloat(v[i], 64)
		if err != nil {
			return BoundingBox{}, false
		}
		c[i] = f
	}
	return NewBoundingBox(c[0], c[1], c[2], c[3]), true
}

// walk visits n's descendants depth first; fn returns false to skip a subtree.
func walk(n *html.Node, fn func(*html.Node) bool) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if fn(c) {
			walk(c, fn)
		}
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, classes ...string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(attr(n, "class")) {
		for _, want := range classes {
			if c == want {
				return true
			}
		}
	}
	return false
}

func bbox(n *html.Node) BoundingBox {
	b, _ := ParseBoundingBoxFromTitle(attr(n, "title"))
	return b
}

func parseHead(doc *HOCR, root *html.Node) {
	walk(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		switch n.Data {
		case "html":
			if lang := attr(n, "lang"); lang != "" {
				doc.Language = lang
			}
		case "title":
			if n.FirstChild != nil {
				doc.Title = strings.TrimSpace(n.FirstChild.Data)
			}
		case "meta":
			name, content := attr(n, "name"), attr(n, "content")
			switch {
			case name == "" || content == "":
			case name == "ocr-system":
				doc.System = content
			case name == "dc.language" || name == "ocr-langs":
				doc.Language = content
			default:
				doc.Metadata[name] = content
			}
		case "body":
			return false
		}
		return true
	})
}

func parsePage(n *html.Node) Page {
	page := Page{
		ID:   attr(n, "id"),
		Lang: attr(n, "lang"),
		BBox: bbox(n),
	}
	props := ParseTitle(attr(n, "title"))
	if v := props["image"]; len(v) > 0 {
		page.ImageName = strings.Trim(strings.Join(v, " "), `"`)
	}
	if v := props["ppageno"]; len(v) > 0 {
		page.PageNumber, _ = strconv.Atoi(v[0])
	}

	var loose []Word
	walk(n, func(c *html.Node) bool {
		switch {
		case hasClass(c, "ocr_carea"):
			page.Areas = append(page.Areas, parseArea(c))
		case hasClass(c, "ocr_par"):
			par := parseParagraph(c)
			page.Areas = append(page.Areas, Area{BBox: par.BBox, Paragraphs: []Paragraph{par}})
		case hasClass(c, lineClasses...):
			page.Lines = append(page.Lines, parseLine(c))
		case hasClass(c, "ocrx_word"):
			loose = append(loose, parseWord(c))
		default:
			return true
		}
		return false
	})
	if len(loose) > 0 {
		page.Lines = append(page.Lines, wordsLine(loose))
	}
	return page
}

func parseArea(n *html.Node) Area {
	area := Area{ID: attr(n, "id"), BBox: bbox(n)}
	var loose []Word
	walk(n, func(c *html.Node) bool {
		switch {
		case hasClass(c, "ocr_par"):
			area.Paragraphs = append(area.Paragraphs, parseParagraph(c))
		case hasClass(c, lineClasses...):
			area.Lines = append(area.Lines, parseLine(c))
		case hasClass(c, "ocrx_word"):
			loose = append(loose, parseWord(c))
		default:
			return true
		}
		return false
	})
	if len(loose) > 0 {
		area.Lines = append(area.Lines, wordsLine(loose))
	}
	return area
}

func parseParagraph(n *html.Node) Paragraph {
	par := Paragraph{ID: attr(n, "id"), Lang: attr(n, "lang"), BBox: bbox(n)}
	var loose []Word
	walk(n, func(c *html.Node) bool {
		switch {
		case hasClass(c, lineClasses...):
			par.Lines = append(par.Lines, parseLine(c))
		case hasClass(c, "ocrx_word"):
			loose = append(loose, parseWord(c))
		default:
			return true
		}
		return false
	})
	if len(loose) > 0 {
		par.Lines = append(par.Lines, wordsLine(loose))
	}
	return par
}

func parseLine(n *html.Node) Line {
	line := Line{ID: attr(n, "id"), BBox: bbox(n)}
	if v := ParseTitle(attr(n, "title"))["baseline"]; len(v) > 0 {
		line.Baseline = strings.Join(v, " ")
	}
	walk(n, func(c *html.Node) bool {
		if hasClass(c, "ocrx_word") {
			line.Words = append(line.Words, parseWord(c))
			return false
		}
		return true
	})
	return line
}

func parseWord(n *html.Node) Word {
	w := Word{ID: attr(n, "id"), BBox: bbox(n), Text: textContent(n)}
	if v := ParseTitle(attr(n, "title"))["x_wconf"]; len(v) > 0 {
		w.Confidence, _ = strconv.ParseFloat(v[0], 64)
	}
	return w
}

// wordsLine wraps words that have no line parent in a line of their own.
func wordsLine(words []Word) Line {
	line := Line{Words: words}
	for i, w := range words {
		if i == 0 {
			line.BBox = w.BBox
			continue
		}
		line.BBox.X1 = min(line.BBox.X1, w.BBox.X1)
		line.BBox.Y1 = min(line.BBox.Y1, w.BBox.Y1)
		line.BBox.X2 = max(line.BBox.X2, w.BBox.X2)
		line.BBox.Y2 = max(line.BBox.Y2, w.BBox.Y2)
	}
	return line
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.TrimSpace(sb.String())
}
