package hocr

import "strings"

// PageText returns the page's words, one line per hOCR line.
func PageText(p Page) string {
	var sb strings.Builder
	for _, l := range p.AllLines() {
		for i, w := range l.Words {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(w.Text)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Text returns the text of every page, pages separated by a blank line.
func (h *HOCR) Text() string {
	pages := make([]string, len(h.Pages))
	for i, p := range h.Pages {
		pages[i] = PageText(p)
	}
	return strings.Join(pages, "\n")
}
