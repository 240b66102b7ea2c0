package domain

import "github.com/shopspring/decimal"

// PensionResult is the rule engine's output. It is produced fresh for every
// calculation and never mutated afterwards.
type PensionResult struct {
	BasicPension    decimal.Decimal `yaml:"basic_pension" json:"basic_pension"`
	NationalPension decimal.Decimal `yaml:"national_pension" json:"national_pension"`
	SocialBenefit   decimal.Decimal `yaml:"social_benefit" json:"social_benefit"`
	ChildrenBenefit decimal.Decimal `yaml:"children_benefit" json:"children_benefit"`
	TotalPension    decimal.Decimal `yaml:"total_pension" json:"total_pension"`

	ReplacementRate         decimal.Decimal `yaml:"replacement_rate" json:"replacement_rate"` // percent, 1 decimal
	ReplacementRateFraction decimal.Decimal `yaml:"replacement_rate_fraction" json:"replacement_rate_fraction"`

	RetirementAge  int `yaml:"retirement_age" json:"retirement_age"`
	YearsRemaining int `yaml:"years_remaining" json:"years_remaining"`

	EligibleForFull  bool `yaml:"eligible_for_full" json:"eligible_for_full"`
	EligibleForEarly bool `yaml:"eligible_for_early" json:"eligible_for_early"`
	EligibleForHeavy bool `yaml:"eligible_for_heavy" json:"eligible_for_heavy"`

	EarlyReductionRate decimal.Decimal `yaml:"early_reduction_rate" json:"early_reduction_rate"`
	ReductionClamped   bool            `yaml:"reduction_clamped,omitempty" json:"reduction_clamped,omitempty"`

	RequiredYearsFull  decimal.Decimal `yaml:"required_years_full" json:"required_years_full"`
	RequiredYearsEarly decimal.Decimal `yaml:"required_years_early" json:"required_years_early"`
	RequiredHeavyYears int             `yaml:"required_heavy_years" json:"required_heavy_years"`
}
