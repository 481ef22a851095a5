package locate

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gardar/pdfreplace/pkg/geometry"
	"github.com/gardar/pdfreplace/pkg/layout"
)

type glyphSource []layout.Glyph

func (s glyphSource) Glyphs() ([]layout.Glyph, error) { return s, nil }

type failingSource struct{}

func (failingSource) Glyphs() ([]layout.Glyph, error) { return nil, errors.New("broken") }

var page = geometry.Rect{X1: 600, Y1: 800}

// place lays out text with a fixed advance of 5 at size 10.
func place(src glyphSource, text string, x, baseline float64) glyphSource {
	for _, r := range text {
		src = append(src, layout.Glyph{
			Text:   string(r),
			Box:    geometry.Rect{X0: x, Y0: baseline - 7, X1: x + 5, Y1: baseline + 2},
			Origin: geometry.Point{X: x, Y: baseline},
			Size:   10,
		})
		x += 5
	}
	return src
}

func TestRegionRect(t *testing.T) {
	if got, want := Footer(120).Rect(page), (geometry.Rect{X0: 0, Y0: 680, X1: 600, Y1: 800}); got != want {
		t.Errorf("footer = %v, want %v", got, want)
	}
	if got, want := Header(120).Rect(page), (geometry.Rect{X0: 0, Y0: 0, X1: 600, Y1: 120}); got != want {
		t.Errorf("header = %v, want %v", got, want)
	}
}

func TestFindLiteral(t *testing.T) {
	var src glyphSource
	src = place(src, "Roll: AB12 AB12", 10, 780)
	src = place(src, "AB12", 10, 60) // header, outside the footer

	footer := Footer(120).Rect(page)
	got, err := FindLiteral(src, "AB12", footer)
	if err != nil {
		t.Fatal(err)
	}
	want := []TextInstance{
		{Text: "AB12", Box: geometry.Rect{X0: 40, Y0: 773, X1: 60, Y1: 782}},
		{Text: "AB12", Box: geometry.Rect{X0: 65, Y0: 773, X1: 85, Y1: 782}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("instances (-want +got):\n%s", diff)
	}

	if got, _ := FindLiteral(src, "", footer); len(got) != 0 {
		t.Errorf("empty literal matched %v", got)
	}
	if got, _ := FindLiteral(src, "ab12", footer); len(got) != 0 {
		t.Errorf("match should be case-sensitive, got %v", got)
	}
	if got, _ := FindLiteral(src, "AAA", Footer(120).Rect(page)); len(got) != 0 {
		t.Errorf("absent literal matched %v", got)
	}

	overlap := place(nil, "aaaa", 10, 780)
	if got, _ := FindLiteral(overlap, "aa", footer); len(got) != 2 {
		t.Errorf("got %d non-overlapping matches, want 2", len(got))
	}
}

func TestFindLiteralSourceError(t *testing.T) {
	if _, err := FindLiteral(failingSource{}, "x", page); err == nil {
		t.Error("expected source error")
	}
}

func TestExtractTokensAndLabel(t *testing.T) {
	var src glyphSource
	src = place(src, "Invoice", 10, 30)
	src = place(src, "DATE: 13-08-2025", 10, 60)
	src = place(src, "Date:", 300, 60)

	tokens, err := ExtractTokens(src, Header(120).Rect(page))
	if err != nil {
		t.Fatal(err)
	}
	var texts []string
	for _, tok := range tokens {
		texts = append(texts, tok.Text)
	}
	if diff := cmp.Diff([]string{"Invoice", "DATE:", "13-08-2025", "Date:"}, texts); diff != "" {
		t.Fatalf("tokens (-want +got):\n%s", diff)
	}

	lv, ok := FindLabelValue(tokens, " date: ")
	if !ok {
		t.Fatal("label not found")
	}
	if lv.Value.Text != "13-08-2025" || lv.Value.Box.X0 != 40 {
		t.Errorf("value = %+v", lv.Value)
	}

	// the trailing "Date:" has no successor and is never returned
	if _, ok := FindLabelValue(tokens[3:], "date:"); ok {
		t.Error("label without a following token matched")
	}
	if _, ok := FindLabelValue(tokens, ""); ok {
		t.Error("empty label matched")
	}
}

func TestRegionText(t *testing.T) {
	var src glyphSource
	src = place(src, "Date:13-08-2025", 10, 60)
	src = place(src, "page 1", 10, 90)
	src = place(src, "footer", 10, 780)

	got, err := RegionText(src, Header(120).Rect(page))
	if err != nil {
		t.Fatal(err)
	}
	if want := "Date:13-08-2025\npage 1"; got != want {
		t.Errorf("RegionText = %q, want %q", got, want)
	}
}
