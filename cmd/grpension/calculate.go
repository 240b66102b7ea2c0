package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rgehrsitz/grpension/internal/calculation"
	"github.com/rgehrsitz/grpension/internal/config"
	"github.com/rgehrsitz/grpension/internal/domain"
	"github.com/rgehrsitz/grpension/internal/normalize"
	"github.com/rgehrsitz/grpension/internal/output"
)

// factFlags maps command-line flags onto facts-file field names.
var factFlags = []struct {
	flag, field, usage string
}{
	{"gender", normalize.FieldGender, "Gender (male, female, Άνδρας, Γυναίκα)"},
	{"birth-year", normalize.FieldBirthYear, "Year of birth"},
	{"age", normalize.FieldCurrentAge, "Current age"},
	{"years", normalize.FieldInsuranceYears, "Insurance years, e.g. 27,5"},
	{"days", normalize.FieldInsuranceDays, "Insurance days, used when years are not given"},
	{"heavy", normalize.FieldHeavyWorkYears, "Years of heavy and unhealthy work"},
	{"salary", normalize.FieldSalary, "Average monthly gross salary"},
	{"fund", normalize.FieldFund, "Insurance fund (ika, efka, oaee, etaa, tebe, other)"},
	{"children", normalize.FieldChildren, "Number of children"},
}

func addFactFlags(cmd *cobra.Command) {
	for _, f := range factFlags {
		cmd.Flags().String(f.flag, "", f.usage)
	}
}

// factOverrides collects the fact flags that were set explicitly.
func factOverrides(flags *pflag.FlagSet) map[string]string {
	out := map[string]string{}
	for _, f := range factFlags {
		if fl := flags.Lookup(f.flag); fl != nil && fl.Changed {
			out[f.field] = fl.Value.String()
		}
	}
	return out
}

// loadFacts reads the optional facts file and overlays the flags.
func loadFacts(cmd *cobra.Command, args []string) (*domain.PartialFacts, string, error) {
	partial := &domain.PartialFacts{}
	source := "flags"
	if len(args) == 1 {
		if !fileExists(args[0]) {
			return nil, "", fmt.Errorf("facts file not found: %s", args[0])
		}
		var err error
		partial, err = config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			return nil, "", err
		}
		source = args[0]
	}

	overrides, err := normalize.FromStrings(factOverrides(cmd.Flags()))
	if err != nil {
		return nil, "", fmt.Errorf("invalid flag: %w", err)
	}
	partial.Merge(overrides)
	return partial, source, nil
}

func calculateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate [facts-file]",
		Short: "Calculate the state pension from a facts file and/or flags",
		Long: `Calculate the monthly state pension.

Facts come from an optional YAML or JSON file; flags override the file.
Anything left out is defaulted and reported in the notes.

Examples:
  grpension calculate facts.yaml
  grpension calculate --gender Γυναίκα --birth-year 1968 --years 30 --salary 1.450,00
  grpension calculate facts.yaml --children 2 --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			partial, source, err := loadFacts(cmd, args)
			if err != nil {
				return err
			}
			if partial.DataSource == "" {
				partial.DataSource = "manual"
			}

			facts, result, err := a.pipeline().Calculate(partial)
			if err != nil {
				return err
			}

			report := &output.Report{Source: source, GeneratedAt: a.now(), Facts: facts, Result: result}
			if withForecast, _ := cmd.Flags().GetBool("forecast"); withForecast {
				report.Forecast = calculation.ForecastPension(result.TotalPension, calculation.DefaultInflationRate, calculation.DefaultForecastYears, a.now().Year())
			}
			return a.render(cmd, report)
		},
	}
	addFactFlags(cmd)
	addFormatFlag(cmd)
	cmd.Flags().Bool("forecast", false, "Append a ten-year inflation forecast of the total")
	return cmd
}

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [facts-file]",
		Short: "Validate a facts file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			partial, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			facts, err := (&normalize.Normalizer{Now: a.now, Logger: a.logger}).Normalize(partial)
			if err != nil {
				return err
			}
			if err := calculation.Validate(facts); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Facts file %s is valid\n", args[0])
			for _, n := range facts.Notes {
				fmt.Fprintf(cmd.OutOrStdout(), "  note: %s\n", n)
			}
			return nil
		},
	}
}
