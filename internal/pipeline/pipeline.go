// Package pipeline routes an uploaded document to its extractor, fills the
// missing facts with defaults and hands them to the rule engine.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/grpension/internal/calculation"
	"github.com/rgehrsitz/grpension/internal/domain"
	"github.com/rgehrsitz/grpension/internal/extract"
	"github.com/rgehrsitz/grpension/internal/logging"
	"github.com/rgehrsitz/grpension/internal/normalize"
	"github.com/rgehrsitz/grpension/pkg/dateutil"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp", ".gif", ".webp"}

// Options configures the collaborators of a Pipeline. Zero values select
// the defaults: no logging, wall clock, ledongthuc PDF text, tesseract OCR.
type Options struct {
	Logger logging.Logger
	Now    func() time.Time
	PDF    extract.PDFTextSource
	OCR    extract.Recognizer
}

// Pipeline is safe for concurrent use once built; Register must not be
// called concurrently with Process.
type Pipeline struct {
	extractors map[string]extract.Extractor
	normalizer *normalize.Normalizer
	engine     *calculation.Engine
	logger     logging.Logger
	now        func() time.Time
}

// Analysis is everything one document run produced, for presentation.
type Analysis struct {
	Filename string                     `json:"filename" yaml:"filename"`
	Partial  *domain.PartialFacts       `json:"extracted" yaml:"extracted"`
	Facts    *domain.InsuredPersonFacts `json:"facts" yaml:"facts"`
	Result   *domain.PensionResult      `json:"result" yaml:"result"`
}

// New builds a Pipeline with the standard dispatch table.
func New(opts Options) *Pipeline {
	log := logging.OrNop(opts.Logger)
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	pdfSource := opts.PDF
	if pdfSource == nil {
		pdfSource = extract.PlainPDF{}
	}
	ocr := opts.OCR
	if ocr == nil {
		ocr = extract.TesseractCLI{}
	}

	text := &extract.TextExtractor{Logger: log, Now: now}
	engine := calculation.NewEngine()
	engine.SetLogger(log)
	p := &Pipeline{
		extractors: map[string]extract.Extractor{
			".csv":  &extract.CSVExtractor{Logger: log},
			".json": &extract.JSONExtractor{Logger: log, Now: now},
			".pdf":  &extract.PDFExtractor{Source: pdfSource, Text: text, Logger: log},
			".txt":  &extract.PlainTextExtractor{Text: text},
		},
		normalizer: &normalize.Normalizer{Now: now, Logger: log},
		engine:     engine,
		logger:     log,
		now:        now,
	}
	image := &extract.ImageExtractor{Recognizer: ocr, Text: text, Logger: log}
	for _, ext := range imageExtensions {
		p.extractors[ext] = image
	}
	return p
}

// Register installs or replaces the extractor for a suffix such as ".xml".
func (p *Pipeline) Register(ext string, e extract.Extractor) {
	p.extractors[strings.ToLower(ext)] = e
}

// Extensions lists the suffixes this pipeline dispatches, sorted.
func (p *Pipeline) Extensions() []string {
	out := make([]string, 0, len(p.extractors))
	for ext := range p.extractors {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// SupportedExtensions lists the suffixes of the standard dispatch table.
func SupportedExtensions() []string {
	return New(Options{}).Extensions()
}

// Extract dispatches on the filename suffix, case-insensitively. An unknown
// suffix is the only hard failure; extractor problems and implausible
// values come back as notes.
func (p *Pipeline) Extract(ctx context.Context, raw []byte, filename string) (*domain.PartialFacts, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	e, ok := p.extractors[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}
	p.logger.Infof("extracting %s with the %s extractor (%d bytes)", filename, ext, len(raw))
	partial := p.safeExtract(ctx, e, raw, filename)
	p.dropImplausible(partial)
	return partial, nil
}

// maxPlausibleAge bounds the ages a document may yield.
const maxPlausibleAge = 120

// dropImplausible clears recovered values the engine would reject, so a
// misread document falls back to the defaults.
func (p *Pipeline) dropImplausible(partial *domain.PartialFacts) {
	now := p.now()
	drop := func(field string, value any) {
		p.logger.Warnf("discarding implausible %s %v", field, value)
		partial.Note(fmt.Sprintf("ignored implausible %s %v", field, value))
	}

	if by := partial.BirthYear; by != nil && (*by <= 0 || *by > now.Year() || now.Year()-*by > maxPlausibleAge) {
		drop("birth_year", *by)
		partial.BirthYear = nil
	}
	if bd := partial.BirthDate; bd != nil && (bd.After(now) || dateutil.Age(*bd, now) > maxPlausibleAge) {
		drop("birth_date", bd.Format("02/01/2006"))
		partial.BirthDate = nil
	}
	if age := partial.CurrentAge; age != nil && (*age <= 0 || *age > maxPlausibleAge) {
		drop("current_age", *age)
		partial.CurrentAge = nil
	}

	counts := []struct {
		field string
		v     **int
	}{
		{"insurance_days", &partial.InsuranceDays},
		{"heavy_work_years", &partial.HeavyWorkYears},
		{"children", &partial.Children},
	}
	for _, c := range counts {
		if *c.v != nil && **c.v < 0 {
			drop(c.field, **c.v)
			*c.v = nil
		}
	}
	amounts := []struct {
		field string
		v     **decimal.Decimal
	}{
		{"insurance_years", &partial.InsuranceYears},
		{"salary", &partial.Salary},
	}
	for _, a := range amounts {
		if *a.v != nil && (*a.v).IsNegative() {
			drop(a.field, (*a.v).String())
			*a.v = nil
		}
	}
	if g := partial.Gender; g != nil && !g.Valid() {
		drop("gender", *g)
		partial.Gender = nil
	}
}

func (p *Pipeline) safeExtract(ctx context.Context, e extract.Extractor, raw []byte, filename string) (partial *domain.PartialFacts) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Errorf("extractor panicked on %s: %v", filename, r)
			partial = &domain.PartialFacts{}
			partial.Note(fmt.Sprintf("extraction aborted: %v", r))
		}
	}()
	partial = e.Extract(ctx, raw, filename)
	if partial == nil {
		partial = &domain.PartialFacts{}
	}
	return partial
}

// Process extracts and normalizes a document into complete facts.
func (p *Pipeline) Process(ctx context.Context, raw []byte, filename string) (*domain.InsuredPersonFacts, error) {
	partial, err := p.Extract(ctx, raw, filename)
	if err != nil {
		return nil, err
	}
	return p.normalizer.Normalize(partial)
}

// Analyze runs the whole chain and keeps every intermediate record.
func (p *Pipeline) Analyze(ctx context.Context, raw []byte, filename string) (*Analysis, error) {
	partial, err := p.Extract(ctx, raw, filename)
	if err != nil {
		return nil, err
	}
	facts, err := p.normalizer.Normalize(partial)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize facts from %s: %w", filename, err)
	}
	result, err := p.engine.Calculate(facts)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate pension for %s: %w", filename, err)
	}
	return &Analysis{Filename: filename, Partial: partial, Facts: facts, Result: result}, nil
}

// Calculate normalizes hand-entered facts and computes the pension.
func (p *Pipeline) Calculate(partial *domain.PartialFacts) (*domain.InsuredPersonFacts, *domain.PensionResult, error) {
	facts, err := p.normalizer.Normalize(partial)
	if err != nil {
		return nil, nil, err
	}
	result, err := p.engine.Calculate(facts)
	if err != nil {
		return facts, nil, err
	}
	return facts, result, nil
}
