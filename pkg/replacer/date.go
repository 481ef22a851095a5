package replacer

import (
	"fmt"
	"regexp"

	"github.com/gardar/pdfreplace/pkg/geometry"
	"github.com/gardar/pdfreplace/pkg/locate"
	"github.com/gardar/pdfreplace/pkg/redact"
)

// datePattern matches a DD-MM-YYYY or DD/MM/YYYY value.
const datePattern = `\d{2}[-/]\d{2}[-/]\d{4}`

var tokenDateRe = regexp.MustCompile(`^` + datePattern + `$`)

// dateStrategy finds and replaces the header date of one page.
// Strategies run in order until one replaces something.
type dateStrategy interface {
	replace(r *run, c redact.Canvas, src locate.Source, header geometry.Rect) (int, error)
	count(res *Result, n int)
}

// tokenDate replaces the token that follows the date label, when that token
// is a complete date.
type tokenDate struct{}

func (tokenDate) count(res *Result, n int) { res.DateToken += n }

func (tokenDate) replace(r *run, c redact.Canvas, src locate.Source, header geometry.Rect) (int, error) {
	tokens, err := locate.ExtractTokens(src, header)
	if err != nil {
		return 0, err
	}
	lv, ok := locate.FindLabelValue(tokens, r.cfg.DateLabel)
	if !ok || !tokenDateRe.MatchString(lv.Value.Text) {
		return 0, nil
	}
	if err := r.fitDate(c, lv.Value.Box); err != nil {
		return 0, err
	}
	r.debugf("replaced date %q with %q at %v", lv.Value.Text, r.spec.NewDate, lv.Value.Box)
	return 1, nil
}

// patternDate matches the label and date in the header text, for headers
// where they are not separate tokens, such as "Date:13-08-2025".
type patternDate struct {
	re *regexp.Regexp
}

func newPatternDate(label string) (patternDate, error) {
	re, err := regexp.Compile(`(?i)(` + regexp.QuoteMeta(label) + `)\s*(` + datePattern + `)`)
	if err != nil {
		return patternDate{}, fmt.Errorf("date label %q: %w", label, err)
	}
	return patternDate{re: re}, nil
}

func (patternDate) count(res *Result, n int) { res.DatePattern += n }

// replace locates the first match on the page and redacts everything after
// the label. The left edge moves by the width of the label together with the
// whitespace that follows it, so a spaced "Date: " keeps its space. That width
// is measured in the replacement font, so the value box drifts when the page
// sets the label in another font.
func (p patternDate) replace(r *run, c redact.Canvas, src locate.Source, header geometry.Rect) (int, error) {
	text, err := locate.RegionText(src, header)
	if err != nil {
		return 0, err
	}
	m := p.re.FindStringSubmatchIndex(text)
	if m == nil {
		return 0, nil
	}
	match, prefix := text[m[0]:m[1]], text[m[0]:m[4]]

	found, err := locate.FindLiteral(src, match, header)
	if err != nil {
		return 0, err
	}
	shift := r.measurer.MeasureWidth(prefix, r.cfg.Font.Face, r.cfg.Font.Size)
	n := 0
	for _, inst := range found {
		box := inst.Box
		box.X0 += shift
		if box.Empty() {
			continue
		}
		if err := r.fitDate(c, box); err != nil {
			return n, err
		}
		r.debugf("replaced date in %q with %q at %v", match, r.spec.NewDate, box)
		n++
	}
	return n, nil
}

func (r *run) fitDate(c redact.Canvas, box geometry.Rect) error {
	f := r.cfg.Font
	_, err := r.style.ReplaceFitted(c, r.measurer, box, r.spec.NewDate, f.Size, f.MinSize, f.MaxSize)
	return err
}
