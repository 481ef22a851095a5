// Package gdocai runs PDFs through Google Document AI OCR and converts the
// response to hOCR.
//
// The hOCR is used to locate footer and header text on scanned pages that
// carry no text layer of their own.
//
// Usage Requirements:
//
// - Google Cloud project with Document AI API enabled
// - Document AI processor configured for OCR
// - Authentication via Config.CredentialsFile or the
// GOOGLE_APPLICATION_CREDENTIALS environment variable
package gdocai

import (
	"context"
	"fmt"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/pdfreplace/pkg/hocr"
)

// Document is the result of OCR processing.
type Document struct {
	Raw  *documentaipb.Document // Original Document AI response
	Text string                 // Full text content
	HOCR *hocr.HOCR             // hOCR representation
	HTML []byte                 // Rendered hOCR
}

// DocumentFromProto converts a Document AI response into a Document.
func DocumentFromProto(raw *documentaipb.Document) (*Document, error) {
	h, err := CreateHOCRStruct(raw)
	if err != nil {
		return nil, err
	}
	html, err := hocr.GenerateHOCRDocument(h)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HOCR HTML: %w", err)
	}
	return &Document{Raw: raw, Text: raw.GetText(), HOCR: h, HTML: html}, nil
}

// DocumentHOCR processes a PDF with Document AI and returns the text and
// hOCR of every page.
func DocumentHOCR(ctx context.Context, pdfBytes []byte, cfg *Config) (*Document, error) {
	raw, err := ProcessDocument(ctx, pdfBytes, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to process document: %w", err)
	}
	return DocumentFromProto(raw)
}
