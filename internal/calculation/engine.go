package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/grpension/internal/domain"
	"github.com/rgehrsitz/grpension/internal/logging"
)

var hundred = decimal.NewFromInt(100)

// Engine runs the pension rules with an attached logger. The zero value is
// usable; Compute is the same calculation without logging.
type Engine struct {
	Logger logging.Logger
}

// NewEngine creates an engine with a no-op logger.
func NewEngine() *Engine {
	return &Engine{Logger: logging.NopLogger{}}
}

// SetLogger sets the logger; nil restores the no-op logger.
func (e *Engine) SetLogger(l logging.Logger) {
	e.Logger = logging.OrNop(l)
}

// Calculate validates facts and computes the pension estimate.
func (e *Engine) Calculate(facts *domain.InsuredPersonFacts) (*domain.PensionResult, error) {
	log := logging.OrNop(e.Logger)
	res, err := Compute(facts)
	if err != nil {
		log.Warnf("pension calculation rejected: %v", err)
		return nil, err
	}
	log.Debugf("fund=%s years=%s rate=%s retirement_age=%d remaining=%d",
		facts.Fund, facts.InsuranceYears, res.ReplacementRateFraction, res.RetirementAge, res.YearsRemaining)
	log.Debugf("basic=%s national=%s social=%s children=%s total=%s",
		res.BasicPension, res.NationalPension, res.SocialBenefit, res.ChildrenBenefit, res.TotalPension)
	if res.ReductionClamped {
		log.Warnf("early reduction of %s exceeded the full basic pension; clamped to zero", res.EarlyReductionRate)
	}
	return res, nil
}

// Validate rejects structurally invalid facts. Unknown funds are not an
// error; they are rated on the ika table.
func Validate(f *domain.InsuredPersonFacts) error {
	switch {
	case f == nil:
		return domain.NewValidationError("facts", "missing")
	case !f.Gender.Valid():
		return domain.NewValidationError("gender", "unknown value %q", f.Gender)
	case f.BirthYear <= 0:
		return domain.NewValidationError("birth_year", "must be positive, got %d", f.BirthYear)
	case f.CurrentAge < 0:
		return domain.NewValidationError("current_age", "must not be negative, got %d", f.CurrentAge)
	case f.InsuranceYears.IsNegative():
		return domain.NewValidationError("insurance_years", "must not be negative, got %s", f.InsuranceYears)
	case f.InsuranceDays != nil && *f.InsuranceDays < 0:
		return domain.NewValidationError("insurance_days", "must not be negative, got %d", *f.InsuranceDays)
	case f.HeavyWorkYears < 0:
		return domain.NewValidationError("heavy_work_years", "must not be negative, got %d", f.HeavyWorkYears)
	case f.Salary.IsNegative():
		return domain.NewValidationError("salary", "must not be negative, got %s", f.Salary)
	case f.Children < 0:
		return domain.NewValidationError("children", "must not be negative, got %d", f.Children)
	}
	return nil
}

// Compute applies the statutory rules to complete facts. It is pure: the
// same facts always produce the same result.
func Compute(f *domain.InsuredPersonFacts) (*domain.PensionResult, error) {
	if err := Validate(f); err != nil {
		return nil, err
	}

	retirementAge := RetirementAge(f.Gender, f.BirthYear, f.HeavyWorkYears)
	remaining := retirementAge - f.CurrentAge
	if remaining < 0 {
		remaining = 0
	}

	rate := ReplacementRate(f.Fund, f.InsuranceYears)
	basic := f.Salary.Mul(rate)

	national := decimal.Zero
	if f.InsuranceYears.GreaterThanOrEqual(MinimumInsuranceYears) {
		national = NationalPensionAmount
	}

	// The supplement test uses the unreduced basic pension.
	social := decimal.Zero
	if basic.Add(national).LessThan(SocialBenefitThreshold) {
		social = SocialBenefitAmount
	}

	children := ChildBenefitAmount.Mul(decimal.NewFromInt(int64(f.Children)))

	elig := CheckEligibility(f, retirementAge)

	reductionRate := decimal.Zero
	clamped := false
	if elig.Early && !elig.Full {
		basic, reductionRate, clamped = applyEarlyReduction(basic, remaining)
	}

	res := &domain.PensionResult{
		BasicPension:            basic.Round(2),
		NationalPension:         national.Round(2),
		SocialBenefit:           social.Round(2),
		ChildrenBenefit:         children.Round(2),
		ReplacementRate:         rate.Mul(hundred).Round(1),
		ReplacementRateFraction: rate,
		RetirementAge:           retirementAge,
		YearsRemaining:          remaining,
		EligibleForFull:         elig.Full,
		EligibleForEarly:        elig.Early,
		EligibleForHeavy:        elig.Heavy,
		EarlyReductionRate:      reductionRate,
		ReductionClamped:        clamped,
		RequiredYearsFull:       shortfall(MinimumInsuranceYears, f.InsuranceYears),
		RequiredYearsEarly:      shortfall(EarlyInsuranceYears, f.InsuranceYears),
		RequiredHeavyYears:      max(0, HeavyWorkThreshold-f.HeavyWorkYears),
	}
	res.TotalPension = res.BasicPension.Add(res.NationalPension).Add(res.SocialBenefit).Add(res.ChildrenBenefit)
	return res, nil
}

func shortfall(required, have decimal.Decimal) decimal.Decimal {
	d := required.Sub(have)
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
