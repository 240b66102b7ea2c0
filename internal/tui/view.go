package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/grpension/internal/calculation"
	"github.com/rgehrsitz/grpension/internal/tui/components"
)

// View renders the current state of the application
func (m Model) View() string {
	var content string
	switch m.currentScene {
	case SceneForm:
		content = m.renderForm()
	case SceneResult:
		content = m.renderResult()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}

	return AppStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		"",
		content,
		"",
		m.help.View(m.keys),
	))
}

func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("grpension · Greek state pension estimator")
	crumb := m.currentScene.String()
	if m.factsPath != "" {
		crumb += " / " + m.factsPath
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, SubtitleStyle.Render(crumb))
}

func (m Model) renderForm() string {
	var sb strings.Builder
	for i, f := range formFields {
		label := LabelStyle.Render(f.label)
		if i == m.focus {
			label = FocusedLabelStyle.Render(f.label)
		}
		sb.WriteString(label + m.inputs[i].View() + "\n")
	}
	sb.WriteString("\n" + InfoStyle.Render("Blank fields use defaults. Commas work as decimal separators."))
	if m.err != nil {
		sb.WriteString("\n\n" + ErrorStyle.Render("Error: "+m.err.Error()))
	}
	return sb.String()
}

func (m Model) renderResult() string {
	res := m.result
	if res == nil {
		return InfoStyle.Render("No calculation yet. Press esc to return to the form.")
	}

	cards := []*components.MetricCard{
		components.NewMetricCard("Basic", FormatEuro(res.BasicPension)).
			WithDescription(res.ReplacementRate.StringFixed(1) + "% of salary"),
		components.NewMetricCard("National", FormatEuro(res.NationalPension)),
		components.NewMetricCard("Social benefit", FormatEuro(res.SocialBenefit)),
		components.NewMetricCard("Children", FormatEuro(res.ChildrenBenefit)),
		components.NewMetricCard("Total / month", FormatEuro(res.TotalPension)).Highlighted(),
	}
	columns := max(1, (m.width-4)/22)

	var sb strings.Builder
	sb.WriteString(components.MetricGrid(cards, columns) + "\n\n")
	sb.WriteString(fmt.Sprintf("Retirement age %d, %d years remaining\n", res.RetirementAge, res.YearsRemaining))
	sb.WriteString(fmt.Sprintf("Full %s   Early %s   Heavy work %s\n",
		YesNo(res.EligibleForFull), YesNo(res.EligibleForEarly), YesNo(res.EligibleForHeavy)))
	if res.EarlyReductionRate.IsPositive() {
		sb.WriteString(fmt.Sprintf("Early reduction applied: %s%%\n", res.EarlyReductionRate.Shift(2).StringFixed(0)))
	}
	if res.RequiredYearsFull.IsPositive() {
		sb.WriteString(fmt.Sprintf("%s more insurance years needed for a full pension\n", res.RequiredYearsFull.StringFixed(1)))
	}

	if len(m.forecast) > 0 {
		chart := components.NewBarChart(fmt.Sprintf("Forecast at %s%% inflation", calculation.DefaultInflationRate.Shift(2).String()))
		chart.Format = func(v float64) string { return fmt.Sprintf("€%.2f", v) }
		for _, pt := range m.forecast {
			chart.Add(fmt.Sprint(pt.Year), pt.Pension.InexactFloat64())
		}
		sb.WriteString("\n" + chart.Render() + "\n")
	}

	if m.facts != nil && len(m.facts.Notes) > 0 {
		sb.WriteString("\n" + InfoStyle.Render(strings.Join(m.facts.Notes, "\n")))
	}
	return sb.String()
}

func (m Model) renderHelp() string {
	m.help.ShowAll = true
	return `Fill in what you know; anything left blank falls back to a default
and is listed under the result. Gender and fund accept Greek spellings.

` + m.help.View(m.keys) + "\n\n" + InfoStyle.Render("Press any key to go back.")
}
