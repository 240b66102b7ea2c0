package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/grpension/internal/domain"
)

// SafeWithdrawalRate is the annual drawdown applied to private savings.
var SafeWithdrawalRate = decimal.RequireFromString("0.04")

// Planning defaults used when the caller leaves a rate out.
var (
	DefaultExpectedReturn = decimal.RequireFromString("0.06")
	DefaultInflationRate  = decimal.RequireFromString("0.02")
)

// DefaultForecastYears is the horizon of the pension forecast.
const DefaultForecastYears = 10

var (
	one    = decimal.NewFromInt(1)
	twelve = decimal.NewFromInt(12)
)

// PrivatePensionInput describes a voluntary savings plan.
type PrivatePensionInput struct {
	CurrentAge          int             `yaml:"current_age" json:"current_age"`
	RetirementAge       int             `yaml:"retirement_age" json:"retirement_age"`
	MonthlyContribution decimal.Decimal `yaml:"monthly_contribution" json:"monthly_contribution"`
	CurrentSavings      decimal.Decimal `yaml:"current_savings" json:"current_savings"`
	ExpectedReturn      decimal.Decimal `yaml:"expected_return" json:"expected_return"` // annual, e.g. 0.06
	InflationRate       decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate"`
}

// PrivatePensionResult is the projected outcome of a savings plan.
type PrivatePensionResult struct {
	YearsToRetirement       int             `yaml:"years_to_retirement" json:"years_to_retirement"`
	FutureValueSavings      decimal.Decimal `yaml:"future_value_savings" json:"future_value_savings"`
	FutureValueContribution decimal.Decimal `yaml:"future_value_contributions" json:"future_value_contributions"`
	TotalAccumulated        decimal.Decimal `yaml:"total_accumulated" json:"total_accumulated"`
	TotalContributed        decimal.Decimal `yaml:"total_contributed" json:"total_contributed"`
	MonthlyPension          decimal.Decimal `yaml:"monthly_pension" json:"monthly_pension"`
	RealMonthlyPension      decimal.Decimal `yaml:"real_monthly_pension" json:"real_monthly_pension"`
}

func (in PrivatePensionInput) validate() error {
	switch {
	case in.CurrentAge < 0:
		return domain.NewValidationError("current_age", "must not be negative, got %d", in.CurrentAge)
	case in.RetirementAge <= in.CurrentAge:
		return domain.NewValidationError("retirement_age", "must be after current age %d, got %d", in.CurrentAge, in.RetirementAge)
	case in.MonthlyContribution.IsNegative():
		return domain.NewValidationError("monthly_contribution", "must not be negative")
	case in.CurrentSavings.IsNegative():
		return domain.NewValidationError("current_savings", "must not be negative")
	case in.ExpectedReturn.LessThanOrEqual(one.Neg()):
		return domain.NewValidationError("expected_return", "must be greater than -1")
	case in.InflationRate.LessThanOrEqual(one.Neg()):
		return domain.NewValidationError("inflation_rate", "must be greater than -1")
	}
	return nil
}

// ProjectPrivatePension compounds current savings annually and monthly
// contributions as an annuity-due, then draws down at SafeWithdrawalRate.
func ProjectPrivatePension(in PrivatePensionInput) (*PrivatePensionResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	years := in.RetirementAge - in.CurrentAge
	months := int64(years * 12)

	fvSavings := in.CurrentSavings.Mul(growth(in.ExpectedReturn, int64(years)))
	fvContrib := in.MonthlyContribution.Mul(annuityDueFactor(in.ExpectedReturn.Div(twelve), months))
	total := fvSavings.Add(fvContrib)

	monthly := total.Mul(SafeWithdrawalRate).Div(twelve)
	realMonthly := monthly.Div(growth(in.InflationRate, int64(years)))

	return &PrivatePensionResult{
		YearsToRetirement:       years,
		FutureValueSavings:      fvSavings.Round(2),
		FutureValueContribution: fvContrib.Round(2),
		TotalAccumulated:        total.Round(2),
		TotalContributed:        in.MonthlyContribution.Mul(decimal.NewFromInt(months)).Add(in.CurrentSavings).Round(2),
		MonthlyPension:          monthly.Round(2),
		RealMonthlyPension:      realMonthly.Round(2),
	}, nil
}

// RequiredMonthlyContribution returns the contribution needed for a target
// monthly drawdown. Zero when current savings already suffice.
func RequiredMonthlyContribution(target decimal.Decimal, currentAge, retirementAge int, savings, annualReturn decimal.Decimal) (decimal.Decimal, error) {
	in := PrivatePensionInput{CurrentAge: currentAge, RetirementAge: retirementAge, CurrentSavings: savings, ExpectedReturn: annualReturn}
	if err := in.validate(); err != nil {
		return decimal.Zero, err
	}
	if target.IsNegative() {
		return decimal.Zero, domain.NewValidationError("target", "must not be negative")
	}
	years := int64(retirementAge - currentAge)
	needed := target.Mul(twelve).Div(SafeWithdrawalRate)
	additional := needed.Sub(savings.Mul(growth(annualReturn, years)))
	if !additional.IsPositive() {
		return decimal.Zero, nil
	}
	factor := annuityDueFactor(annualReturn.Div(twelve), years*12)
	return additional.Div(factor).Round(2), nil
}

// ForecastPoint is one year of an inflation-adjusted pension path.
type ForecastPoint struct {
	Year                int             `yaml:"year" json:"year"`
	Pension             decimal.Decimal `yaml:"pension" json:"pension"`
	CumulativeInflation decimal.Decimal `yaml:"cumulative_inflation" json:"cumulative_inflation"` // percent
}

// ForecastPension indexes a monthly pension by inflation for each of the
// given number of years after baseYear. The base year itself is not listed.
func ForecastPension(current, inflation decimal.Decimal, years, baseYear int) []ForecastPoint {
	if years < 0 {
		years = 0
	}
	out := make([]ForecastPoint, 0, years)
	for i := 1; i <= years; i++ {
		g := growth(inflation, int64(i))
		out = append(out, ForecastPoint{
			Year:                baseYear + i,
			Pension:             current.Mul(g).Round(2),
			CumulativeInflation: g.Sub(one).Mul(hundred).Round(2),
		})
	}
	return out
}

func growth(rate decimal.Decimal, periods int64) decimal.Decimal {
	return one.Add(rate).Pow(decimal.NewFromInt(periods))
}

// annuityDueFactor is the future value of 1 paid at the start of each of n
// periods at periodic rate r.
func annuityDueFactor(r decimal.Decimal, n int64) decimal.Decimal {
	if r.IsZero() {
		return decimal.NewFromInt(n)
	}
	return growth(r, n).Sub(one).Div(r).Mul(one.Add(r))
}
