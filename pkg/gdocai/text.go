package gdocai

import (
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
)

// textFromLayout extracts text from a layout's text anchor segments.
// Indexes are rune offsets into fullText.
func textFromLayout(layout *documentaipb.Document_Page_Layout, fullText []rune) string {
	if layout == nil || layout.TextAnchor == nil {
		return ""
	}
	var b strings.Builder
	for _, seg := range layout.TextAnchor.TextSegments {
		start := min(max(int(seg.StartIndex), 0), len(fullText))
		end := min(max(int(seg.EndIndex), start), len(fullText))
		b.WriteString(string(fullText[start:end]))
	}
	return b.String()
}

// span returns the range of the first text segment of layout.
func span(layout *documentaipb.Document_Page_Layout) (start, end int64, ok bool) {
	if layout == nil || layout.TextAnchor == nil || len(layout.TextAnchor.TextSegments) == 0 {
		return 0, 0, false
	}
	seg := layout.TextAnchor.TextSegments[0]
	return seg.StartIndex, seg.EndIndex, true
}

// contains reports whether child's text lies inside parent's text.
func contains(parent, child *documentaipb.Document_Page_Layout) bool {
	ps, pe, ok := span(parent)
	if !ok {
		return false
	}
	cs, ce, ok := span(child)
	return ok && cs >= ps && ce <= pe
}
