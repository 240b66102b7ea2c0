// Package extract recovers pension facts from uploaded documents.
//
// Extractors are fail-soft. A malformed document, a missing capability or a
// field nobody could find never produces an error; the field is simply left
// nil on the returned PartialFacts and a note explains what happened.
package extract

import (
	"context"
	"time"

	"github.com/rgehrsitz/grpension/internal/domain"
	"github.com/rgehrsitz/grpension/internal/logging"
)

// Data source tags recorded on extracted facts.
const (
	SourceCSV   = "csv"
	SourceJSON  = "json"
	SourcePDF   = "pdf"
	SourceText  = "text"
	SourceImage = "image"
)

// Extractor maps raw document bytes to whatever facts it can recover.
type Extractor interface {
	Extract(ctx context.Context, raw []byte, filename string) *domain.PartialFacts
}

// ExtractorFunc adapts a plain function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, raw []byte, filename string) *domain.PartialFacts

func (f ExtractorFunc) Extract(ctx context.Context, raw []byte, filename string) *domain.PartialFacts {
	return f(ctx, raw, filename)
}

func clock(now func() time.Time) time.Time {
	if now == nil {
		return time.Now()
	}
	return now()
}

func newPartial(source string) *domain.PartialFacts {
	return &domain.PartialFacts{DataSource: source}
}

func ptr[T any](v T) *T { return &v }

// soft logs err and records it as a note on p.
func soft(log logging.Logger, p *domain.PartialFacts, what string, err error) {
	logging.OrNop(log).Warnf("%s: %v", what, err)
	p.Note(what + ": " + err.Error())
}
