package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/grpension/internal/tui/tuistyles"
)

// BarChart draws one horizontal bar per label, scaled to the largest value.
type BarChart struct {
	Title  string
	Labels []string
	Values []float64
	Format func(float64) string
	Width  int
}

// NewBarChart creates an empty chart
func NewBarChart(title string) *BarChart {
	return &BarChart{
		Title:  title,
		Width:  40,
		Format: func(v float64) string { return fmt.Sprintf("%.2f", v) },
	}
}

// Add appends one bar
func (c *BarChart) Add(label string, value float64) *BarChart {
	c.Labels = append(c.Labels, label)
	c.Values = append(c.Values, value)
	return c
}

// Render returns the chart, or a placeholder when there is nothing to draw
func (c *BarChart) Render() string {
	if len(c.Values) == 0 {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	peak, labelWidth := 0.0, 0
	for i, v := range c.Values {
		peak = max(peak, v)
		labelWidth = max(labelWidth, lipgloss.Width(c.Labels[i]))
	}

	var sb strings.Builder
	if c.Title != "" {
		sb.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(c.Title))
		sb.WriteString("\n")
	}
	for i, v := range c.Values {
		n := 0
		if peak > 0 && v > 0 {
			n = max(1, int(v/peak*float64(c.Width)))
		}
		bar := tuistyles.BarStyle.Render(strings.Repeat("█", n))
		sb.WriteString(fmt.Sprintf("%-*s %s %s\n", labelWidth, c.Labels[i], bar+strings.Repeat(" ", c.Width-n), c.Format(v)))
	}
	return strings.TrimRight(sb.String(), "\n")
}
