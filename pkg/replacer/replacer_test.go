package replacer

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"codeberg.org/go-pdf/fpdf"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/gardar/pdfreplace/pkg/geometry"
	"github.com/gardar/pdfreplace/pkg/hocr"
	"github.com/gardar/pdfreplace/pkg/layout"
	"github.com/gardar/pdfreplace/pkg/locate"
	"github.com/gardar/pdfreplace/pkg/pdfdoc"
)

type textAt struct {
	x, y float64
	text string
}

// makePDF renders one A4 page per entry with Helvetica 10 text at baseline y.
func makePDF(t *testing.T, pages ...[]textAt) []byte {
	t.Helper()
	pdf := fpdf.New("P", "pt", "A4", "")
	for _, texts := range pages {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "", 10)
		for _, s := range texts {
			pdf.Text(s.x, s.y, s.text)
		}
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func openPage(t *testing.T, data []byte, i int) *pdfdoc.Page {
	t.Helper()
	doc, err := pdfdoc.Open(data)
	if err != nil {
		t.Fatal(err)
	}
	p, err := doc.Page(i)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func count(t *testing.T, p *pdfdoc.Page, literal string, region geometry.Rect) int {
	t.Helper()
	found, err := locate.FindLiteral(p, literal, region)
	if err != nil {
		t.Fatal(err)
	}
	return len(found)
}

func quietConfig() Config {
	c := DefaultConfig()
	c.LogWarnings = false
	return c
}

var (
	rollPage = []textAt{
		{40, 400, "ABC-123 appears in the body"},
		{40, 800, "Roll: ABC-123"},
		{400, 800, "ABC-123"},
	}
	plainPage = []textAt{
		{40, 400, "Nothing to replace"},
		{40, 800, "Footer text"},
	}
)

func TestProcessRoll(t *testing.T) {
	in := makePDF(t, rollPage, plainPage, rollPage, plainPage, rollPage)
	spec := Spec{OldRoll: "ABC-123", NewRoll: "XYZ-789"}

	res, err := Process(context.Background(), in, spec, quietConfig())
	if err != nil {
		t.Fatal(err)
	}
	if res.Count != 6 || res.Roll != 6 {
		t.Fatalf("Count = %d, Roll = %d, want 6", res.Count, res.Roll)
	}

	for _, i := range []int{0, 2, 4} {
		p := openPage(t, res.Output, i)
		footer := locate.Footer(120).Rect(p.Rect())
		if n := count(t, p, "ABC-123", footer); n != 0 {
			t.Errorf("page %d: %d old rolls left in footer", i+1, n)
		}
		if n := count(t, p, "XYZ-789", footer); n != 2 {
			t.Errorf("page %d: %d new rolls in footer, want 2", i+1, n)
		}
		if n := count(t, p, "ABC-123", p.Rect()); n != 1 {
			t.Errorf("page %d: body roll count = %d, want 1", i+1, n)
		}
	}
}

func TestProcessLeavesOtherPagesAlone(t *testing.T) {
	in := makePDF(t, rollPage, plainPage)
	res, err := Process(context.Background(), in, Spec{OldRoll: "ABC-123", NewRoll: "XYZ-789"}, quietConfig())
	if err != nil {
		t.Fatal(err)
	}

	want, err := openPage(t, in, 1).Glyphs()
	if err != nil {
		t.Fatal(err)
	}
	got, err := openPage(t, res.Output, 1).Glyphs()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-3)); diff != "" {
		t.Errorf("untouched page changed (-want +got):\n%s", diff)
	}
}

func TestProcessSecondPassFindsNothing(t *testing.T) {
	spec := Spec{OldRoll: "ABC-123", NewRoll: "XYZ-789"}
	first, err := Process(context.Background(), makePDF(t, rollPage), spec, quietConfig())
	if err != nil {
		t.Fatal(err)
	}
	second, err := Process(context.Background(), first.Output, spec, quietConfig())
	if err != nil {
		t.Fatal(err)
	}
	if second.Count != 0 {
		t.Errorf("second pass Count = %d, want 0", second.Count)
	}
}

func TestProcessName(t *testing.T) {
	in := makePDF(t, []textAt{{40, 780, "Name: John Smith"}})
	spec := Spec{OldName: "John Smith", NewName: "Jane Doe"}

	res, err := Process(context.Background(), in, spec, quietConfig())
	if err != nil {
		t.Fatal(err)
	}
	if res.Count != 0 {
		t.Errorf("name replaced while disabled: Count = %d", res.Count)
	}

	spec.ReplaceName = true
	res, err = Process(context.Background(), in, spec, quietConfig())
	if err != nil {
		t.Fatal(err)
	}
	if res.Name != 1 || res.Count != 1 {
		t.Fatalf("Name = %d, Count = %d, want 1", res.Name, res.Count)
	}
	p := openPage(t, res.Output, 0)
	if n := count(t, p, "Jane Doe", p.Rect()); n != 1 {
		t.Errorf("found %d new names, want 1", n)
	}
	if n := count(t, p, "John Smith", p.Rect()); n != 0 {
		t.Errorf("found %d old names, want 0", n)
	}
}

func TestProcessBlankNameIsSkipped(t *testing.T) {
	in := makePDF(t, []textAt{{40, 780, "Name: John Smith"}})
	res, err := Process(context.Background(), in, Spec{ReplaceName: true, OldName: "John Smith", NewName: "  "}, quietConfig())
	if err != nil {
		t.Fatal(err)
	}
	if res.Count != 0 {
		t.Errorf("Count = %d, want 0", res.Count)
	}
}

func TestProcessDateToken(t *testing.T) {
	in := makePDF(t, []textAt{{40, 60, "Date: 13-08-2025"}})
	res, err := Process(context.Background(), in, Spec{ReplaceDate: true, NewDate: "14-09-2025"}, quietConfig())
	if err != nil {
		t.Fatal(err)
	}
	if res.DateToken != 1 || res.DatePattern != 0 || res.Count != 1 {
		t.Fatalf("got %+v", res)
	}

	before := dateValue(t, openPage(t, in, 0))
	after := dateValue(t, openPage(t, res.Output, 0))
	if after.Text != "14-09-2025" {
		t.Errorf("date = %q", after.Text)
	}
	// digits share one advance width, so the fitted size is the base size
	if diff := cmp.Diff(before.Box.Width(), after.Box.Width(), cmpopts.EquateApprox(0, 0.05)); diff != "" {
		t.Errorf("date width (-before +after):\n%s", diff)
	}
	if after.Box.X0 < before.Box.X0-0.01 {
		t.Errorf("date moved left: %v -> %v", before.Box, after.Box)
	}
}

func dateValue(t *testing.T, p *pdfdoc.Page) layout.Token {
	t.Helper()
	tokens, err := locate.ExtractTokens(p, locate.Header(120).Rect(p.Rect()))
	if err != nil {
		t.Fatal(err)
	}
	lv, ok := locate.FindLabelValue(tokens, "date:")
	if !ok {
		t.Fatalf("no date label in %v", tokens)
	}
	return lv.Value
}

func TestProcessDatePattern(t *testing.T) {
	in := makePDF(t, []textAt{{40, 60, "Date:13-08-2025"}})
	res, err := Process(context.Background(), in, Spec{ReplaceDate: true, NewDate: "14-09-2025"}, quietConfig())
	if err != nil {
		t.Fatal(err)
	}
	if res.DatePattern != 1 || res.DateToken != 0 {
		t.Fatalf("got %+v", res)
	}

	p := openPage(t, res.Output, 0)
	text, err := locate.RegionText(p, locate.Header(120).Rect(p.Rect()))
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(text) != "Date:14-09-2025" {
		t.Errorf("header = %q", text)
	}
}

func TestProcessDateNotInBody(t *testing.T) {
	in := makePDF(t, []textAt{{40, 400, "Date: 13-08-2025"}})
	res, err := Process(context.Background(), in, Spec{ReplaceDate: true, NewDate: "14-09-2025"}, quietConfig())
	if err != nil {
		t.Fatal(err)
	}
	if res.Count != 0 {
		t.Errorf("Count = %d, want 0", res.Count)
	}
}

func TestProcessOCRFallback(t *testing.T) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.AddPage()
	pdf.Rect(40, 40, 100, 100, "F")
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatal(err)
	}

	box := hocr.NewBoundingBox(40, 790, 85, 802)
	config := quietConfig()
	config.OCR = &hocr.HOCR{Pages: []hocr.Page{{
		BBox:  hocr.NewBoundingBox(0, 0, 595.28, 841.89),
		Lines: []hocr.Line{{BBox: box, Words: []hocr.Word{{Text: "ABC-123", BBox: box}}}},
	}}}

	res, err := Process(context.Background(), buf.Bytes(), Spec{OldRoll: "ABC-123", NewRoll: "XYZ-789"}, config)
	if err != nil {
		t.Fatal(err)
	}
	if res.Roll != 1 {
		t.Fatalf("Roll = %d, want 1", res.Roll)
	}
	p := openPage(t, res.Output, 0)
	if n := count(t, p, "XYZ-789", p.Rect()); n != 1 {
		t.Errorf("found %d new rolls, want 1", n)
	}
}

func TestProcessLogging(t *testing.T) {
	var log bytes.Buffer
	config := DefaultConfig()
	config.Debug = true
	config.Logger = &log

	in := makePDF(t, rollPage)
	if _, err := Process(context.Background(), in, Spec{OldRoll: "ABC-123", NewRoll: "XYZ-789"}, config); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(log.String(), `replaced "ABC-123" with "XYZ-789"`) {
		t.Errorf("debug log missing replacement:\n%s", log.String())
	}

	log.Reset()
	if _, err := Process(context.Background(), in, Spec{OldRoll: "QQQ", NewRoll: "R"}, config); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(log.String(), `Warning: roll "QQQ" not found`) {
		t.Errorf("missing warning:\n%s", log.String())
	}
}

func TestProcessOpenError(t *testing.T) {
	_, err := Process(context.Background(), []byte("not a pdf"), Spec{OldRoll: "a", NewRoll: "b"}, quietConfig())
	var openErr *pdfdoc.DocumentOpenError
	if !errors.As(err, &openErr) {
		t.Errorf("err = %v, want DocumentOpenError", err)
	}
}

func TestProcessCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Process(ctx, makePDF(t, rollPage), Spec{OldRoll: "ABC-123", NewRoll: "XYZ-789"}, quietConfig())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if res.Output != nil {
		t.Error("cancelled run returned output")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
		ok   bool
	}{
		{"roll", Spec{OldRoll: "A", NewRoll: "B"}, true},
		{"empty", Spec{}, true},
		{"blank new roll", Spec{OldRoll: "A", NewRoll: " "}, false},
		{"date", Spec{ReplaceDate: true, NewDate: "14-09-2025"}, true},
		{"date disabled", Spec{NewDate: "2025-09-14"}, true},
		{"blank date", Spec{ReplaceDate: true}, true},
		{"iso date", Spec{ReplaceDate: true, NewDate: "2025-09-14"}, false},
		{"slashes", Spec{ReplaceDate: true, NewDate: "14/09/2025"}, false},
		{"no such day", Spec{ReplaceDate: true, NewDate: "31-02-2025"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidSpec) {
				t.Errorf("err = %v, want ErrInvalidSpec", err)
			}
		})
	}
}

func TestRegionHOCR(t *testing.T) {
	in := makePDF(t, []textAt{
		{40, 60, "Date: 13-08-2025"},
		{40, 400, "Body text"},
		{40, 800, "Roll: ABC-123"},
	})
	h, err := RegionHOCR(context.Background(), in, quietConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(h.Pages) != 1 {
		t.Fatalf("%d pages", len(h.Pages))
	}

	var words []string
	for _, w := range h.Pages[0].Words() {
		words = append(words, w.Text)
	}
	want := []string{"Date:", "13-08-2025", "Roll:", "ABC-123"}
	if diff := cmp.Diff(want, words); diff != "" {
		t.Errorf("words (-want +got):\n%s", diff)
	}
}

func TestProcessDateSlashes(t *testing.T) {
	m := geometry.DefaultMetrics()
	// the old value is narrower, so the new one is set below the base size
	wantSize := 10 * m.MeasureWidth("13/08/2025", "helv", 10) / m.MeasureWidth("14-09-2025", "helv", 10)

	tests := []struct {
		name    string
		header  string
		token   int
		pattern int
	}{
		{"token", "DATE: 13/08/2025", 1, 0},
		{"fused", "DATE:13/08/2025", 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := makePDF(t, []textAt{{40, 60, tt.header}})
			res, err := Process(context.Background(), in, Spec{ReplaceDate: true, NewDate: "14-09-2025"}, quietConfig())
			if err != nil {
				t.Fatal(err)
			}
			if res.DateToken != tt.token || res.DatePattern != tt.pattern {
				t.Fatalf("got %+v", res)
			}

			p := openPage(t, res.Output, 0)
			glyphs, err := p.Glyphs()
			if err != nil {
				t.Fatal(err)
			}
			var value strings.Builder
			for _, g := range glyphs {
				if g.Size > 10-1e-6 && g.Size < 10+1e-6 {
					continue
				}
				value.WriteString(g.Text)
				if g.Size < 8 || g.Size > 14 {
					t.Errorf("glyph %q size %v outside [8, 14]", g.Text, g.Size)
				}
				if math.Abs(g.Size-wantSize) > 0.01 {
					t.Errorf("glyph %q size %v, want %v", g.Text, g.Size, wantSize)
				}
			}
			if value.String() != "14-09-2025" {
				t.Errorf("resized text = %q, want the new date", value.String())
			}
		})
	}
}
