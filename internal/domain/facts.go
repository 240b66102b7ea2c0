package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InsuredPersonFacts is the complete, default-filled input to the rule engine.
type InsuredPersonFacts struct {
	Gender         Gender          `yaml:"gender" json:"gender"`
	BirthYear      int             `yaml:"birth_year" json:"birth_year"`
	CurrentAge     int             `yaml:"current_age" json:"current_age"`
	InsuranceYears decimal.Decimal `yaml:"insurance_years" json:"insurance_years"`
	InsuranceDays  *int            `yaml:"insurance_days,omitempty" json:"insurance_days,omitempty"`
	HeavyWorkYears int             `yaml:"heavy_work_years" json:"heavy_work_years"`
	Salary         decimal.Decimal `yaml:"salary" json:"salary"` // Monthly gross
	Fund           Fund            `yaml:"fund" json:"fund"`
	Children       int             `yaml:"children" json:"children"`

	// Informational only, never read by the engine
	DataSource string   `yaml:"data_source,omitempty" json:"data_source,omitempty"`
	Notes      []string `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// PartialFacts holds whatever an extractor or form actually recovered.
// A nil field means "not found"; the normalizer supplies the default.
type PartialFacts struct {
	Gender         *Gender          `yaml:"gender,omitempty" json:"gender,omitempty"`
	BirthYear      *int             `yaml:"birth_year,omitempty" json:"birth_year,omitempty"`
	BirthDate      *time.Time       `yaml:"birth_date,omitempty" json:"birth_date,omitempty"`
	CurrentAge     *int             `yaml:"current_age,omitempty" json:"current_age,omitempty"`
	InsuranceYears *decimal.Decimal `yaml:"insurance_years,omitempty" json:"insurance_years,omitempty"`
	InsuranceDays  *int             `yaml:"insurance_days,omitempty" json:"insurance_days,omitempty"`
	HeavyWorkYears *int             `yaml:"heavy_work_years,omitempty" json:"heavy_work_years,omitempty"`
	Salary         *decimal.Decimal `yaml:"salary,omitempty" json:"salary,omitempty"`
	Fund           *Fund            `yaml:"fund,omitempty" json:"fund,omitempty"`
	Children       *int             `yaml:"children,omitempty" json:"children,omitempty"`

	// Provenance
	DataSource string            `yaml:"data_source,omitempty" json:"data_source,omitempty"`
	AMKA       string            `yaml:"amka,omitempty" json:"amka,omitempty"`
	AFM        string            `yaml:"afm,omitempty" json:"afm,omitempty"`
	Periods    []InsurancePeriod `yaml:"periods,omitempty" json:"periods,omitempty"`
	Records    int               `yaml:"records,omitempty" json:"records,omitempty"`

	// Unavailable is set when the extraction capability itself (OCR, PDF text)
	// could not run. The partial is then empty by construction.
	Unavailable bool     `yaml:"unavailable,omitempty" json:"unavailable,omitempty"`
	Notes       []string `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// InsurancePeriod is one contiguous insured span found in a document.
type InsurancePeriod struct {
	Start time.Time `yaml:"start" json:"start"`
	End   time.Time `yaml:"end" json:"end"`
	Days  int       `yaml:"days" json:"days"`
}

// Note appends a human-readable remark about the extraction.
func (p *PartialFacts) Note(msg string) {
	p.Notes = append(p.Notes, msg)
}

// Empty reports whether no fact field was recovered.
func (p *PartialFacts) Empty() bool {
	return p.Gender == nil && p.BirthYear == nil && p.BirthDate == nil && p.CurrentAge == nil &&
		p.InsuranceYears == nil && p.InsuranceDays == nil && p.HeavyWorkYears == nil &&
		p.Salary == nil && p.Fund == nil && p.Children == nil
}

// Merge overlays every fact o recovered onto p. Notes are appended and
// provenance is kept from p unless p has none.
func (p *PartialFacts) Merge(o *PartialFacts) {
	if o == nil {
		return
	}
	if o.Gender != nil {
		p.Gender = o.Gender
	}
	if o.BirthYear != nil {
		p.BirthYear = o.BirthYear
	}
	if o.BirthDate != nil {
		p.BirthDate = o.BirthDate
	}
	if o.CurrentAge != nil {
		p.CurrentAge = o.CurrentAge
	}
	if o.InsuranceYears != nil {
		p.InsuranceYears = o.InsuranceYears
	}
	if o.InsuranceDays != nil {
		p.InsuranceDays = o.InsuranceDays
	}
	if o.HeavyWorkYears != nil {
		p.HeavyWorkYears = o.HeavyWorkYears
	}
	if o.Salary != nil {
		p.Salary = o.Salary
	}
	if o.Fund != nil {
		p.Fund = o.Fund
	}
	if o.Children != nil {
		p.Children = o.Children
	}
	if p.DataSource == "" {
		p.DataSource = o.DataSource
	}
	p.Notes = append(p.Notes, o.Notes...)
}
