// Package hocr reads and writes hOCR, the HTML based format for OCR results.
//
// The object model follows the hOCR hierarchy used by OCR engines:
// Document → Pages → Areas → Paragraphs → Lines → Words, each element carrying
// a bbox in the page image's pixel space.
//
// In this module hOCR is the interchange format for word positions. Pages
// that carry no text layer can be located through words recognized by an
// OCR engine, and detected header and footer words can be exported for review.
package hocr
