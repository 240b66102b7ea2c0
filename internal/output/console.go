package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/grpension/internal/domain"
	dec "github.com/rgehrsitz/grpension/pkg/decimal"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	totalStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

const ruleWidth = 60

// ConsoleFormatter is the human-readable report. Plain disables styling.
type ConsoleFormatter struct {
	Plain bool
}

func (c ConsoleFormatter) Name() string {
	if c.Plain {
		return "plain"
	}
	return "console"
}

func (c ConsoleFormatter) style(s lipgloss.Style, text string) string {
	if c.Plain {
		return text
	}
	return s.Render(text)
}

func (c ConsoleFormatter) Format(r *Report) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("nothing to format")
	}
	var sb strings.Builder

	sb.WriteString(c.style(titleStyle, "GREEK STATE PENSION ESTIMATE") + "\n")
	sb.WriteString(strings.Repeat("=", ruleWidth) + "\n")
	if r.Source != "" {
		sb.WriteString(fmt.Sprintf("Source: %s\n", r.Source))
	}
	if r.Extracted != nil && r.Extracted.Unavailable {
		sb.WriteString(c.style(mutedStyle, "Extraction unavailable for this document; defaults were used.") + "\n")
	}

	if f := r.Facts; f != nil {
		c.section(&sb, "INSURED PERSON")
		line(&sb, "Gender", string(f.Gender))
		line(&sb, "Birth year", fmt.Sprint(f.BirthYear))
		line(&sb, "Current age", fmt.Sprint(f.CurrentAge))
		years := f.InsuranceYears.StringFixed(1)
		if f.InsuranceDays != nil {
			years = fmt.Sprintf("%s (%d days)", years, *f.InsuranceDays)
		}
		line(&sb, "Insurance years", years)
		line(&sb, "Heavy work years", fmt.Sprint(f.HeavyWorkYears))
		line(&sb, "Monthly salary", money(f.Salary))
		line(&sb, "Fund", strings.ToUpper(string(f.Fund)))
		line(&sb, "Children", fmt.Sprint(f.Children))
	}

	if res := r.Result; res != nil {
		c.section(&sb, "MONTHLY PENSION")
		line(&sb, "Basic pension", money(res.BasicPension))
		line(&sb, "National pension", money(res.NationalPension))
		line(&sb, "Social benefit", money(res.SocialBenefit))
		line(&sb, "Children benefit", money(res.ChildrenBenefit))
		sb.WriteString(strings.Repeat("-", ruleWidth) + "\n")
		sb.WriteString(c.style(totalStyle, fmt.Sprintf("%-24s %s", "Total", money(res.TotalPension))) + "\n")
		line(&sb, "Replacement rate", res.ReplacementRate.StringFixed(1)+"%")
		if res.EarlyReductionRate.IsPositive() {
			reduction := res.EarlyReductionRate.Mul(decimal.NewFromInt(100)).StringFixed(0) + "%"
			if res.ReductionClamped {
				reduction += " (capped)"
			}
			line(&sb, "Early reduction", reduction)
		}

		c.section(&sb, "RETIREMENT")
		line(&sb, "Retirement age", fmt.Sprint(res.RetirementAge))
		line(&sb, "Years remaining", fmt.Sprint(res.YearsRemaining))
		line(&sb, "Full pension", yesNo(res.EligibleForFull))
		line(&sb, "Early pension", yesNo(res.EligibleForEarly))
		line(&sb, "Heavy work", yesNo(res.EligibleForHeavy))
		if res.RequiredYearsFull.IsPositive() {
			line(&sb, "Missing for full", res.RequiredYearsFull.StringFixed(1)+" years")
		}
		if res.RequiredYearsEarly.IsPositive() {
			line(&sb, "Missing for early", res.RequiredYearsEarly.StringFixed(1)+" years")
		}
	}

	if p := r.Private; p != nil {
		c.section(&sb, "PRIVATE PENSION")
		line(&sb, "Years to retirement", fmt.Sprint(p.YearsToRetirement))
		line(&sb, "Total contributed", money(p.TotalContributed))
		line(&sb, "Total accumulated", money(p.TotalAccumulated))
		line(&sb, "Monthly pension", money(p.MonthlyPension))
		line(&sb, "In today's money", money(p.RealMonthlyPension))
	}
	if r.RequiredContribution != nil {
		line(&sb, "Required contribution", money(*r.RequiredContribution)+"/month")
	}

	if len(r.Forecast) > 0 {
		c.section(&sb, "FORECAST")
		sb.WriteString(fmt.Sprintf("%-6s %14s %12s\n", "Year", "Pension", "Inflation"))
		for _, pt := range r.Forecast {
			sb.WriteString(fmt.Sprintf("%-6d %14s %11s%%\n", pt.Year, money(pt.Pension), pt.CumulativeInflation.StringFixed(2)))
		}
	}

	notes := notesOf(r)
	if len(notes) > 0 {
		c.section(&sb, "NOTES")
		for _, n := range notes {
			sb.WriteString(c.style(mutedStyle, "- "+n) + "\n")
		}
	}
	return []byte(sb.String()), nil
}

func (c ConsoleFormatter) section(sb *strings.Builder, title string) {
	sb.WriteString("\n" + c.style(headingStyle, title) + "\n")
}

func line(sb *strings.Builder, label, value string) {
	sb.WriteString(fmt.Sprintf("%-24s %s\n", label, value))
}

func money(d decimal.Decimal) string {
	return dec.NewMoneyFromDecimal(d).Format()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// notesOf merges extraction and normalization notes without repeats.
func notesOf(r *Report) []string {
	var out []string
	seen := map[string]bool{}
	add := func(ns []string) {
		for _, n := range ns {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	if r.Extracted != nil {
		add(r.Extracted.Notes)
	}
	if r.Facts != nil {
		add(r.Facts.Notes)
	}
	return out
}

// Summary is the one-line total the extract command logs per file.
func Summary(source string, res *domain.PensionResult) string {
	if res == nil {
		return source + ": no result"
	}
	return fmt.Sprintf("%s: %s/month (retirement age %d)", source, money(res.TotalPension), res.RetirementAge)
}
