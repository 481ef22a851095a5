package geometry

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestRectOps(t *testing.T) {
	a := NewRect(10, 20, 0, 0)
	if a != (Rect{0, 0, 10, 20}) {
		t.Fatalf("NewRect not normalized: %v", a)
	}
	b := Rect{5, 5, 15, 15}

	if got, want := a.Intersect(b), (Rect{5, 5, 10, 15}); got != want {
		t.Errorf("Intersect = %v, want %v", got, want)
	}
	if got, want := a.Union(b), (Rect{0, 0, 15, 20}); got != want {
		t.Errorf("Union = %v, want %v", got, want)
	}
	if got := (Rect{}).Union(b); got != b {
		t.Errorf("zero Union = %v, want %v", got, b)
	}
	if !a.Contains(Point{10, 20}) {
		t.Error("Contains should include edges")
	}
	if a.Intersects(Rect{10, 0, 20, 5}) {
		t.Error("touching rectangles should not intersect")
	}
	if got := a.Intersect(Rect{50, 50, 60, 60}); got != (Rect{}) {
		t.Errorf("disjoint Intersect = %v", got)
	}
}

func TestMatrixMult(t *testing.T) {
	scale := Matrix{2, 0, 0, 2, 0, 0}
	m := scale.Mult(Translate(10, 5))
	x, y := m.Apply(1, 1)
	if x != 12 || y != 7 {
		t.Errorf("Apply = (%v, %v), want (12, 7)", x, y)
	}
	if got := m.ScaleY(); got != 2 {
		t.Errorf("ScaleY = %v, want 2", got)
	}
}

func TestLookupFace(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"helv", "Helvetica"},
		{"HEBO", "Helvetica-Bold"},
		{"Helvetica-Oblique", "Helvetica-Oblique"},
		{"ArialMT", "Helvetica"},
		{"Arial,BoldItalic", "Helvetica-BoldOblique"},
		{"TimesNewRomanPS-BoldMT", "Times-Bold"},
		{"CourierNew", "Courier"},
		{"ZapfDingbats", "ZapfDingbats"},
	}
	for _, tt := range tests {
		f, ok := LookupFace(tt.name)
		if !ok {
			t.Errorf("LookupFace(%q) not found", tt.name)
			continue
		}
		if f.BaseFont != tt.want {
			t.Errorf("LookupFace(%q) = %s, want %s", tt.name, f.BaseFont, tt.want)
		}
	}
	if _, ok := LookupFace("Garamond"); ok {
		t.Error("unexpected match for non-standard face")
	}
}

func TestMeasureWidth(t *testing.T) {
	m := NewMetrics()
	approx := cmpopts.EquateApprox(0, 1e-9)

	// Helvetica: D=722 a=556 t=278 e=556 :=278
	if diff := cmp.Diff(23.9, m.MeasureWidth("Date:", "helv", 10), approx); diff != "" {
		t.Errorf("MeasureWidth(Date:) mismatch (-want +got):\n%s", diff)
	}

	w10 := m.MeasureWidth("13-08-2025", "helv", 10)
	w20 := m.MeasureWidth("13-08-2025", "helv", 20)
	if diff := cmp.Diff(2*w10, w20, approx); diff != "" {
		t.Errorf("width not linear in size (-want +got):\n%s", diff)
	}

	if got := m.MeasureWidth("abc", "nosuchface", 10); got != ApproxWidth("abc", 10) {
		t.Errorf("unknown face width = %v, want approximation", got)
	}
	if got := m.MeasureWidth("", "helv", 10); got != 0 {
		t.Errorf("empty text width = %v", got)
	}
}

func TestCodeWidth(t *testing.T) {
	m := NewMetrics()
	face, _ := LookupFace("cour")
	for _, c := range []byte("Az0 ") {
		w, ok := m.CodeWidth(face, c)
		if !ok || w != 600 {
			t.Errorf("Courier width of %q = %v, %v; want 600", c, w, ok)
		}
	}
}

func TestFitFontSize(t *testing.T) {
	m := NewMetrics()
	text := "14-09-2025"
	natural := m.MeasureWidth(text, "helv", 10)

	tests := []struct {
		name   string
		target float64
		want   float64
	}{
		{"identity", natural, 10},
		{"wider", natural * 1.2, 12},
		{"clamped max", natural * 5, 14},
		{"clamped min", natural * 0.1, 8},
	}
	for _, tt := range tests {
		got := FitFontSize(m, tt.target, text, "helv", 10, 8, 14)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s: FitFontSize = %v, want %v", tt.name, got, tt.want)
		}
	}

	for _, base := range []float64{7.3, 9.1, 10, 11.7, 13.3} {
		for _, s := range []string{text, "Date:", "21BCE1234", "Jane Doe"} {
			w := m.MeasureWidth(s, "helv", base)
			if got := FitFontSize(m, w, s, "helv", base, 1, 100); got != base {
				t.Errorf("FitFontSize(%q) at natural width = %v, want %v", s, got, base)
			}
		}
	}

	if got := FitFontSize(m, 100, "", "helv", 10, 8, 14); got != 10 {
		t.Errorf("empty text: FitFontSize = %v, want base size", got)
	}
}

func TestApprox(t *testing.T) {
	if got := (Approx{}).MeasureWidth("héllo", "helv", 10); math.Abs(got-27.5) > 1e-9 {
		t.Errorf("Approx width = %v, want 27.5", got)
	}
}
