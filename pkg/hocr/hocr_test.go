package hocr

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const tesseractSample = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="en" lang="en">
 <head>
  <title></title>
  <meta http-equiv="Content-Type" content="text/html;charset=utf-8"/>
  <meta name="ocr-system" content="tesseract 5.3.0"/>
  <meta name="ocr-number-of-pages" content="1"/>
 </head>
 <body>
  <div class="ocr_page" id="page_1" title='image "scan.png"; bbox 0 0 2480 3508; ppageno 0'>
   <div class="ocr_carea" id="block_1_1" title="bbox 100 120 900 160">
    <p class="ocr_par" id="par_1_1" lang="eng" title="bbox 100 120 900 160">
     <span class="ocr_header" id="line_1_1" title="bbox 100 120 900 160; baseline 0 -8; x_size 40">
      <span class="ocrx_word" id="word_1_1" title="bbox 100 120 260 160; x_wconf 96">Date:</span>
      <span class="ocrx_word" id="word_1_2" title="bbox 290 120 600 160; x_wconf 91"><strong>13-08-2025</strong></span>
     </span>
    </p>
   </div>
   <span class="ocrx_word" id="word_9" title="bbox 100 3300 400 3340; x_wconf 80">ROLL-123</span>
  </div>
 </body>
</html>`

func TestParseHOCR(t *testing.T) {
	doc, err := ParseHOCR([]byte(tesseractSample))
	if err != nil {
		t.Fatal(err)
	}
	if doc.System != "tesseract 5.3.0" || doc.Language != "en" {
		t.Errorf("head = %q/%q", doc.System, doc.Language)
	}
	if doc.Metadata["ocr-number-of-pages"] != "1" {
		t.Errorf("metadata = %v", doc.Metadata)
	}
	if len(doc.Pages) != 1 {
		t.Fatalf("pages = %d", len(doc.Pages))
	}
	p := doc.Pages[0]
	if p.ImageName != "scan.png" || p.BBox != NewBoundingBox(0, 0, 2480, 3508) {
		t.Errorf("page props = %q %v", p.ImageName, p.BBox)
	}

	want := []Word{
		{ID: "word_1_1", Text: "Date:", BBox: NewBoundingBox(100, 120, 260, 160), Confidence: 96},
		{ID: "word_1_2", Text: "13-08-2025", BBox: NewBoundingBox(290, 120, 600, 160), Confidence: 91},
		{ID: "word_9", Text: "ROLL-123", BBox: NewBoundingBox(100, 3300, 400, 3340), Confidence: 80},
	}
	if diff := cmp.Diff(want, p.Words()); diff != "" {
		t.Errorf("words mismatch (-want +got):\n%s", diff)
	}
	if got := p.AllLines()[0].Baseline; got != "0 -8" {
		t.Errorf("baseline = %q", got)
	}
	if got, want := PageText(p), "Date: 13-08-2025\nROLL-123\n"; got != want {
		t.Errorf("PageText = %q, want %q", got, want)
	}
}

func TestParseHOCRNoPages(t *testing.T) {
	_, err := ParseHOCR([]byte("<html><body><p>nothing</p></body></html>"))
	if !errors.Is(err, ErrNoPages) {
		t.Errorf("err = %v, want ErrNoPages", err)
	}
}

func TestGenerateParsesBack(t *testing.T) {
	doc := &HOCR{
		Title: "footer words",
		Pages: []Page{{
			PageNumber: 2,
			BBox:       NewBoundingBox(0, 0, 595, 842),
			Areas: []Area{{
				BBox: NewBoundingBox(20, 800, 300, 812),
				Lines: []Line{{
					BBox: NewBoundingBox(20, 800, 300, 812),
					Words: []Word{
						{Text: "Roll", BBox: NewBoundingBox(20, 800, 40, 812), Confidence: 100},
						{Text: "<A&B>", BBox: NewBoundingBox(45, 800, 80, 812), Confidence: 100},
					},
				}},
			}},
		}},
	}

	out, err := GenerateHOCRDocument(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "&lt;A&amp;B&gt;") {
		t.Errorf("word text not escaped:\n%s", out)
	}

	back, err := ParseHOCR(out)
	if err != nil {
		t.Fatal(err)
	}
	if back.Title != "footer words" || back.Pages[0].PageNumber != 2 {
		t.Errorf("title/page = %q/%d", back.Title, back.Pages[0].PageNumber)
	}
	var texts []string
	for _, w := range back.Pages[0].Words() {
		texts = append(texts, w.Text)
	}
	if diff := cmp.Diff([]string{"Roll", "<A&B>"}, texts); diff != "" {
		t.Errorf("words (-want +got):\n%s", diff)
	}
	if got := back.Pages[0].Areas[0].Lines[0].Words[1].BBox; got != NewBoundingBox(45, 800, 80, 812) {
		t.Errorf("bbox = %v", got)
	}
}
