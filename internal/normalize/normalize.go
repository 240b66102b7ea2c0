// Package normalize turns partially recovered facts into the complete record
// the rule engine expects. Every default lives here and nowhere else.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/grpension/internal/domain"
	"github.com/rgehrsitz/grpension/internal/logging"
	"github.com/rgehrsitz/grpension/pkg/dateutil"
	money "github.com/rgehrsitz/grpension/pkg/decimal"
)

// Defaults applied when a fact was not recovered.
var (
	DefaultGender         = domain.GenderMale
	DefaultBirthYear      = 1980
	DefaultAge            = 45
	DefaultInsuranceYears = decimal.NewFromInt(25)
	DefaultHeavyWorkYears = 0
	DefaultSalary         = decimal.NewFromInt(1500)
	DefaultFund           = domain.FundIKA
	DefaultChildren       = 0
	DefaultDataSource     = "manual"
)

var daysPerYear = decimal.RequireFromString("365.25")

// YearsFromDays converts insured days to years, rounded to one decimal.
func YearsFromDays(days int) decimal.Decimal {
	return decimal.NewFromInt(int64(days)).Div(daysPerYear).Round(1)
}

// Normalizer fills defaults and reconciles derived fields. Now supplies the
// reference date for age calculations; nil means time.Now.
type Normalizer struct {
	Now    func() time.Time
	Logger logging.Logger
}

// New returns a Normalizer using the wall clock.
func New(logger logging.Logger) *Normalizer {
	return &Normalizer{Now: time.Now, Logger: logging.OrNop(logger)}
}

func (n *Normalizer) now() time.Time {
	if n == nil || n.Now == nil {
		return time.Now()
	}
	return n.Now()
}

func (n *Normalizer) log() logging.Logger {
	if n == nil {
		return logging.NopLogger{}
	}
	return logging.OrNop(n.Logger)
}

// Normalize returns complete facts for p. A nil partial yields all defaults.
// Explicit insurance years win over days; age is derived from the birth
// date or year when absent.
func (n *Normalizer) Normalize(p *domain.PartialFacts) (*domain.InsuredPersonFacts, error) {
	if p == nil {
		p = &domain.PartialFacts{}
	}
	now := n.now()
	log := n.log()
	f := &domain.InsuredPersonFacts{
		DataSource: p.DataSource,
		Notes:      append([]string(nil), p.Notes...),
	}
	defaulted := func(field string, value any) {
		log.Debugf("%s not recovered, using default %v", field, value)
		f.Notes = append(f.Notes, fmt.Sprintf("%s defaulted to %v", field, value))
	}

	f.Gender = DefaultGender
	if p.Gender != nil {
		f.Gender = *p.Gender
	} else {
		defaulted("gender", DefaultGender)
	}

	// birth year is never derived from age
	birthKnown := true
	switch {
	case p.BirthYear != nil:
		f.BirthYear = *p.BirthYear
	case p.BirthDate != nil:
		f.BirthYear = p.BirthDate.Year()
	default:
		birthKnown = false
		f.BirthYear = DefaultBirthYear
		defaulted("birth_year", DefaultBirthYear)
	}

	switch {
	case p.CurrentAge != nil:
		f.CurrentAge = *p.CurrentAge
	case p.BirthDate != nil:
		f.CurrentAge = dateutil.Age(*p.BirthDate, now)
	case birthKnown:
		f.CurrentAge = now.Year() - f.BirthYear
	default:
		f.CurrentAge = DefaultAge
		defaulted("current_age", DefaultAge)
	}
	if f.CurrentAge < 0 {
		return nil, domain.NewValidationError("birth_year", "%d lies in the future", f.BirthYear)
	}

	if p.InsuranceDays != nil {
		days := *p.InsuranceDays
		f.InsuranceDays = &days
	}
	switch {
	case p.InsuranceYears != nil:
		f.InsuranceYears = *p.InsuranceYears
	case p.InsuranceDays != nil:
		f.InsuranceYears = YearsFromDays(*p.InsuranceDays)
	default:
		f.InsuranceYears = DefaultInsuranceYears
		defaulted("insurance_years", DefaultInsuranceYears)
	}

	f.HeavyWorkYears = intOr(p.HeavyWorkYears, DefaultHeavyWorkYears)

	f.Salary = DefaultSalary
	if p.Salary != nil {
		f.Salary = *p.Salary
	} else {
		defaulted("salary", DefaultSalary)
	}

	f.Fund = DefaultFund
	if p.Fund != nil && *p.Fund != "" {
		f.Fund = *p.Fund
	} else {
		defaulted("fund", DefaultFund)
	}

	f.Children = intOr(p.Children, DefaultChildren)

	if f.DataSource == "" {
		f.DataSource = DefaultDataSource
	}
	return f, nil
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

// Field names accepted by FromStrings. "age" is an alias of current_age.
const (
	FieldGender         = "gender"
	FieldBirthYear      = "birth_year"
	FieldCurrentAge     = "current_age"
	FieldInsuranceYears = "insurance_years"
	FieldInsuranceDays  = "insurance_days"
	FieldHeavyWorkYears = "heavy_work_years"
	FieldSalary         = "salary"
	FieldFund           = "fund"
	FieldChildren       = "children"
	FieldDataSource     = "data_source"
)

// FromStrings coerces form-style input into partial facts. Blank values are
// treated as absent. Numbers accept a comma decimal separator; gender and
// fund accept Greek spellings. Unknown fund codes map to ika.
func FromStrings(form map[string]string) (*domain.PartialFacts, error) {
	get := func(keys ...string) (string, bool) {
		for _, k := range keys {
			if v := strings.TrimSpace(form[k]); v != "" {
				return v, true
			}
		}
		return "", false
	}
	p := &domain.PartialFacts{}

	if v, ok := get(FieldGender); ok {
		g, ok := domain.ParseGender(v)
		if !ok {
			return nil, domain.NewValidationError(FieldGender, "unknown value %q", v)
		}
		p.Gender = &g
	}

	ints := []struct {
		field string
		alias string
		dst   **int
	}{
		{FieldBirthYear, "", &p.BirthYear},
		{FieldCurrentAge, "age", &p.CurrentAge},
		{FieldInsuranceDays, "", &p.InsuranceDays},
		{FieldHeavyWorkYears, "", &p.HeavyWorkYears},
		{FieldChildren, "", &p.Children},
	}
	for _, in := range ints {
		v, ok := get(in.field, in.alias)
		if !ok {
			continue
		}
		n, ok := money.ParseWhole(v)
		if !ok {
			return nil, domain.NewValidationError(in.field, "not a whole number: %q", v)
		}
		if n < 0 {
			return nil, domain.NewValidationError(in.field, "must not be negative, got %d", n)
		}
		*in.dst = &n
	}

	amounts := []struct {
		field string
		dst   **decimal.Decimal
	}{
		{FieldInsuranceYears, &p.InsuranceYears},
		{FieldSalary, &p.Salary},
	}
	for _, in := range amounts {
		v, ok := get(in.field)
		if !ok {
			continue
		}
		d, ok := money.ParseAmount(v)
		if !ok {
			return nil, domain.NewValidationError(in.field, "not a number: %q", v)
		}
		if d.IsNegative() {
			return nil, domain.NewValidationError(in.field, "must not be negative, got %s", d)
		}
		*in.dst = &d
	}

	if v, ok := get(FieldFund); ok {
		fund := domain.ParseFund(v)
		p.Fund = &fund
	}
	if v, ok := get(FieldDataSource); ok {
		p.DataSource = v
	}
	return p, nil
}
