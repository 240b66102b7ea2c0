package main

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/grpension/internal/calculation"
	"github.com/rgehrsitz/grpension/internal/domain"
	"github.com/rgehrsitz/grpension/internal/output"
	money "github.com/rgehrsitz/grpension/pkg/decimal"
)

func privateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "private",
		Short: "Project a voluntary private pension plan",
		Long: `Project the monthly income of a private savings plan: current savings and
monthly contributions compound until retirement and are then drawn down at 4%
a year.

Examples:
  grpension private --age 40 --retirement-age 67 --contribution 200 --savings 15000
  grpension private --age 40 --retirement-age 67 --target 500 --return 5,5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			age, _ := flags.GetInt("age")
			retirementAge, _ := flags.GetInt("retirement-age")

			in := calculation.PrivatePensionInput{CurrentAge: age, RetirementAge: retirementAge}
			amounts := []struct {
				flag    string
				percent bool
				dst     *decimal.Decimal
			}{
				{"contribution", false, &in.MonthlyContribution},
				{"savings", false, &in.CurrentSavings},
				{"return", true, &in.ExpectedReturn},
				{"inflation", true, &in.InflationRate},
			}
			for _, amt := range amounts {
				d, err := amountFlag(cmd, amt.flag)
				if err != nil {
					return err
				}
				if amt.percent {
					d = d.Shift(-2)
				}
				*amt.dst = d
			}

			result, err := calculation.ProjectPrivatePension(in)
			if err != nil {
				return err
			}
			report := &output.Report{Source: "private plan", GeneratedAt: a.now(), Private: result}

			if flags.Changed("target") {
				target, err := amountFlag(cmd, "target")
				if err != nil {
					return err
				}
				required, err := calculation.RequiredMonthlyContribution(target, age, retirementAge, in.CurrentSavings, in.ExpectedReturn)
				if err != nil {
					return err
				}
				report.RequiredContribution = &required
			}
			if years, _ := flags.GetInt("forecast-years"); years > 0 {
				report.Forecast = calculation.ForecastPension(result.MonthlyPension, in.InflationRate, years, a.now().Year()+result.YearsToRetirement)
			}
			return a.render(cmd, report)
		},
	}
	cmd.Flags().Int("age", 45, "Current age")
	cmd.Flags().Int("retirement-age", 67, "Planned retirement age")
	cmd.Flags().String("contribution", "0", "Monthly contribution in euros")
	cmd.Flags().String("savings", "0", "Savings already accumulated")
	cmd.Flags().String("return", calculation.DefaultExpectedReturn.Shift(2).String(), "Expected annual return in percent")
	cmd.Flags().String("inflation", calculation.DefaultInflationRate.Shift(2).String(), "Expected annual inflation in percent")
	cmd.Flags().String("target", "", "Target monthly income; prints the contribution needed")
	cmd.Flags().Int("forecast-years", 0, "Years of inflation-indexed drawdown to show")
	addFormatFlag(cmd)
	return cmd
}

// amountFlag parses a money flag with Greek or English separators.
func amountFlag(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	raw, _ := cmd.Flags().GetString(name)
	d, ok := money.ParseAmount(raw)
	if !ok {
		return decimal.Zero, domain.NewValidationError(name, "not a number: %q", raw)
	}
	return d, nil
}
