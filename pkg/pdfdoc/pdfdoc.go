// Package pdfdoc opens PDF documents, exposes the positioned text of each
// page and applies redactions and text insertions to page content streams.
//
// All coordinates are in page space: origin at the top-left corner of the
// page's crop box, y growing downward, in points.
package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/gardar/pdfreplace/pkg/geometry"
)

var (
	// ErrSerialize wraps failures to write the modified document.
	ErrSerialize = errors.New("pdfdoc: cannot serialize document")
	// ErrPageRange is returned for page indexes outside the document.
	ErrPageRange = errors.New("pdfdoc: page index out of range")
	// ErrUnknownFace is returned when inserting text in a face that is not
	// one of the standard fonts.
	ErrUnknownFace = errors.New("pdfdoc: unknown font face")
	// ErrContent is returned when a page's content stream cannot be edited.
	ErrContent = errors.New("pdfdoc: unreadable page content")
)

// DocumentOpenError reports input that could not be read as a PDF.
type DocumentOpenError struct {
	Err error
}

func (e *DocumentOpenError) Error() string {
	return "cannot open document: " + e.Err.Error()
}

func (e *DocumentOpenError) Unwrap() error { return e.Err }

// Option adjusts how a document is read.
type Option func(*model.Configuration)

// WithPassword sets the user and owner password for encrypted input.
func WithPassword(pw string) Option {
	return func(c *model.Configuration) {
		c.UserPW = pw
		c.OwnerPW = pw
	}
}

// WithStrictValidation rejects input that only passes relaxed validation.
func WithStrictValidation() Option {
	return func(c *model.Configuration) {
		c.ValidationMode = model.ValidationStrict
	}
}

var configOnce sync.Once

// Document is an open PDF. It is not safe for concurrent use.
type Document struct {
	ctx     *model.Context
	pages   map[int]*Page
	metrics *geometry.Metrics
	std     map[string]types.IndirectRef // inserted standard fonts by BaseFont
}

// Open parses data as a PDF document.
func Open(data []byte, opts ...Option) (doc *Document, err error) {
	configOnce.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	for _, o := range opts {
		o(conf)
	}

	// pdfcpu panics on some malformed cross reference tables
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, &DocumentOpenError{Err: fmt.Errorf("%v", r)}
		}
	}()

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, &DocumentOpenError{Err: err}
	}
	return &Document{
		ctx:     ctx,
		pages:   make(map[int]*Page),
		metrics: geometry.DefaultMetrics(),
		std:     make(map[string]types.IndirectRef),
	}, nil
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return d.ctx.PageCount
}

// Page returns the page with the 0-based index i.
func (d *Document) Page(i int) (*Page, error) {
	if i < 0 || i >= d.ctx.PageCount {
		return nil, fmt.Errorf("%w: %d", ErrPageRange, i)
	}
	if p, ok := d.pages[i]; ok {
		return p, nil
	}
	dict, ref, inh, err := d.ctx.PageDict(i+1, false)
	if err != nil {
		return nil, fmt.Errorf("failed to read page %d: %w", i+1, err)
	}
	if dict == nil {
		return nil, fmt.Errorf("failed to read page %d: missing page dictionary", i+1)
	}
	p := newPage(d, i+1, dict, ref, inh)
	d.pages[i] = p
	return p, nil
}

// Save commits all page edits and serializes the document.
func (d *Document) Save() ([]byte, error) {
	idx := make([]int, 0, len(d.pages))
	for i := range d.pages {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	for _, i := range idx {
		if err := d.pages[i].commit(); err != nil {
			return nil, fmt.Errorf("%w: page %d: %w", ErrSerialize, i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := api.WriteContext(d.ctx, &buf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	return buf.Bytes(), nil
}

// standardFont returns a reference to a Type1 font dictionary for one of the
// standard faces, creating it on first use.
func (d *Document) standardFont(face geometry.Face) (types.IndirectRef, error) {
	if ref, ok := d.std[face.BaseFont]; ok {
		return ref, nil
	}
	fd := types.Dict{
		"Type":     types.Name("Font"),
		"Subtype":  types.Name("Type1"),
		"BaseFont": types.Name(face.BaseFont),
	}
	if face.Family != "Symbol" && face.Family != "ZapfDingbats" {
		fd["Encoding"] = types.Name("WinAnsiEncoding")
	}
	ref, err := d.ctx.IndRefForNewObject(fd)
	if err != nil {
		return types.IndirectRef{}, fmt.Errorf("failed to add font %s: %w", face.BaseFont, err)
	}
	d.std[face.BaseFont] = *ref
	return *ref, nil
}
