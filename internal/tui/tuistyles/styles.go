// Package tuistyles holds the palette and styles shared by the TUI and its
// components.
package tuistyles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	money "github.com/rgehrsitz/grpension/pkg/decimal"
)

var (
	ColorPrimary = lipgloss.Color("#1F6FB2") // Aegean blue
	ColorAccent  = lipgloss.Color("#F2C14E")
	ColorSuccess = lipgloss.Color("#04B575")
	ColorDanger  = lipgloss.Color("#E5484D")
	ColorMuted   = lipgloss.Color("#7A7A7A")
	ColorBorder  = lipgloss.Color("#3C3C3C")
)

var (
	AppStyle = lipgloss.NewStyle().Padding(1, 2)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(ColorPrimary).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	LabelStyle        = lipgloss.NewStyle().Width(22).Foreground(ColorMuted)
	FocusedLabelStyle = lipgloss.NewStyle().Width(22).Bold(true).Foreground(ColorAccent)

	MetricLabelStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	MetricValueStyle = lipgloss.NewStyle().Bold(true)
	TotalValueStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)

	YesStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	NoStyle  = lipgloss.NewStyle().Foreground(ColorDanger)

	BarStyle   = lipgloss.NewStyle().Foreground(ColorPrimary)
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)
	InfoStyle  = lipgloss.NewStyle().Italic(true).Foreground(ColorMuted)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)
)

// FormatEuro renders an amount as "€1.234,56".
func FormatEuro(d decimal.Decimal) string {
	return money.NewMoneyFromDecimal(d).Format()
}

// YesNo renders an eligibility flag.
func YesNo(ok bool) string {
	if ok {
		return YesStyle.Render("yes")
	}
	return NoStyle.Render("no")
}
