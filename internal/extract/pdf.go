package extract

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/rgehrsitz/grpension/internal/domain"
	"github.com/rgehrsitz/grpension/internal/logging"
)

// PDFTextSource returns the text layer of a PDF document.
type PDFTextSource interface {
	Text(ctx context.Context, raw []byte) (string, error)
}

// PlainPDF reads the text layer with github.com/ledongthuc/pdf.
type PlainPDF struct{}

func (PlainPDF) Text(ctx context.Context, raw []byte) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	return buf.String(), nil
}

// PDFExtractor runs the text patterns over a PDF's text layer.
type PDFExtractor struct {
	Source PDFTextSource
	Text   *TextExtractor
	Logger logging.Logger
}

func (e *PDFExtractor) Extract(ctx context.Context, raw []byte, filename string) *domain.PartialFacts {
	if e.Source == nil {
		p := newPartial(SourcePDF)
		p.Unavailable = true
		soft(e.Logger, p, "reading "+filename, domain.ErrPDFUnavailable)
		return p
	}
	text, err := e.Source.Text(ctx, raw)
	if err != nil {
		p := newPartial(SourcePDF)
		soft(e.Logger, p, "reading "+filename, err)
		return p
	}
	p := textAnalyzer(e.Text).Analyze(text, SourcePDF)
	if p.Empty() {
		p.Note("no facts found in the text layer; scanned documents need an image upload")
	}
	return p
}

func textAnalyzer(t *TextExtractor) *TextExtractor {
	if t == nil {
		return &TextExtractor{}
	}
	return t
}
