package hocr

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed templates/hocr.tmpl
var templateFS embed.FS

var tmpl = template.Must(template.New("hocr.tmpl").Funcs(template.FuncMap{
	"pageTitle": pageTitle,
	"wordTitle": wordTitle,
	"lineTitle": lineTitle,
	"esc":       template.HTMLEscapeString,
	"inc":       func(i int) int { return i + 1 },
}).ParseFS(templateFS, "templates/hocr.tmpl"))

// GenerateHOCRDocument renders doc as an hOCR HTML document.
func GenerateHOCRDocument(doc *HOCR) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("error rendering hOCR template: %w", err)
	}
	return buf.Bytes(), nil
}

func pageTitle(p Page) string {
	t := p.BBox.Title() + fmt.Sprintf("; ppageno %d", p.PageNumber)
	if p.ImageName != "" {
		t += fmt.Sprintf("; image %q", p.ImageName)
	}
	return t
}

func lineTitle(l Line) string {
	if l.Baseline == "" {
		return l.BBox.Title()
	}
	return l.BBox.Title() + "; baseline " + l.Baseline
}

func wordTitle(w Word) string {
	return fmt.Sprintf("%s; x_wconf %d", w.BBox.Title(), round(w.Confidence))
}
