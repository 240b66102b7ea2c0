package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/grpension/internal/domain"
)

// Statutory amounts and thresholds.
var (
	NationalPensionAmount  = decimal.NewFromInt(384)
	SocialBenefitAmount    = decimal.NewFromInt(150)
	SocialBenefitThreshold = decimal.NewFromInt(800)
	ChildBenefitAmount     = decimal.NewFromInt(50)
	EarlyReductionPerYear  = decimal.RequireFromString("0.06")
	FloorReplacementRate   = decimal.RequireFromString("0.25")

	MinimumInsuranceYears = decimal.NewFromInt(15) // full pension and national pension
	EarlyInsuranceYears   = decimal.NewFromInt(35)
	HeavyEarlyYears       = decimal.NewFromInt(25)
)

const (
	HeavyWorkThreshold = 15
	HeavyRetirementAge = 58
	EarlyRetirementAge = 62
	HeavyEarlyAge      = 55
	StandardRetirement = 67
	legacyCohortLastYr = 1955
	middleCohortLastYr = 1965
)

// rateStep is one row of a replacement-rate table: the rate applies from
// MinYears of insurance upwards until the next higher step.
type rateStep struct {
	MinYears decimal.Decimal
	Rate     decimal.Decimal
}

var thresholds = []int64{40, 35, 30, 25, 20, 15}

func steps(rates ...string) []rateStep {
	out := make([]rateStep, len(thresholds))
	for i, th := range thresholds {
		out[i] = rateStep{MinYears: decimal.NewFromInt(th), Rate: decimal.RequireFromString(rates[i])}
	}
	return out
}

var (
	ikaTable   = steps("0.80", "0.70", "0.60", "0.50", "0.45", "0.40")
	oaeeTable  = steps("0.65", "0.55", "0.45", "0.40", "0.35", "0.30")
	etaaTable  = steps("0.70", "0.60", "0.50", "0.45", "0.40", "0.35")
	otherTable = steps("0.75", "0.65", "0.55", "0.45", "0.40", "0.35")
)

var replacementTables = map[domain.Fund][]rateStep{
	domain.FundIKA:   ikaTable,
	domain.FundEFKA:  ikaTable,
	domain.FundOAEE:  oaeeTable,
	domain.FundETAA:  etaaTable,
	domain.FundOther: otherTable,
}

// ReplacementRate returns the fraction of salary paid as basic pension.
// Funds without a table of their own (tebe, unknown codes) use ika/efka.
func ReplacementRate(fund domain.Fund, insuranceYears decimal.Decimal) decimal.Decimal {
	table, ok := replacementTables[fund]
	if !ok {
		table = ikaTable
	}
	for _, step := range table {
		if insuranceYears.GreaterThanOrEqual(step.MinYears) {
			return step.Rate
		}
	}
	return FloorReplacementRate
}

// RetirementAge applies the heavy-work override, then the birth-year cohorts.
func RetirementAge(gender domain.Gender, birthYear, heavyWorkYears int) int {
	if heavyWorkYears >= HeavyWorkThreshold {
		return HeavyRetirementAge
	}
	switch {
	case birthYear <= legacyCohortLastYr:
		if gender == domain.GenderFemale {
			return 60
		}
		return 65
	case birthYear <= middleCohortLastYr:
		if gender == domain.GenderFemale {
			return 62
		}
		return StandardRetirement
	default:
		return StandardRetirement
	}
}

// Eligibility holds the three independent retirement flags.
type Eligibility struct {
	Full  bool
	Early bool
	Heavy bool
}

// CheckEligibility evaluates full, early and heavy-work eligibility.
func CheckEligibility(f *domain.InsuredPersonFacts, retirementAge int) Eligibility {
	heavy := f.HeavyWorkYears >= HeavyWorkThreshold
	e := Eligibility{
		Full:  f.CurrentAge >= retirementAge && f.InsuranceYears.GreaterThanOrEqual(MinimumInsuranceYears),
		Heavy: heavy,
	}
	if heavy {
		e.Early = f.CurrentAge >= HeavyEarlyAge && f.InsuranceYears.GreaterThanOrEqual(HeavyEarlyYears)
	} else {
		e.Early = f.CurrentAge >= EarlyRetirementAge && f.InsuranceYears.GreaterThanOrEqual(EarlyInsuranceYears)
	}
	return e
}

// applyEarlyReduction cuts basic by 6% per year short of retirement age.
// The factor is floored at zero; clamped reports when that floor was hit.
func applyEarlyReduction(basic decimal.Decimal, yearsRemaining int) (reduced, rate decimal.Decimal, clamped bool) {
	rate = EarlyReductionPerYear.Mul(decimal.NewFromInt(int64(yearsRemaining)))
	factor := decimal.NewFromInt(1).Sub(rate)
	if factor.IsNegative() {
		factor = decimal.Zero
		clamped = true
	}
	return basic.Mul(factor), rate, clamped
}
