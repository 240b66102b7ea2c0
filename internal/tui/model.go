package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/grpension/internal/calculation"
	"github.com/rgehrsitz/grpension/internal/config"
	"github.com/rgehrsitz/grpension/internal/domain"
	"github.com/rgehrsitz/grpension/internal/normalize"
	"github.com/rgehrsitz/grpension/internal/pipeline"
)

type formField struct {
	key         string
	label       string
	placeholder string
}

var formFields = []formField{
	{normalize.FieldGender, "Gender", "male / female / Άνδρας / Γυναίκα"},
	{normalize.FieldBirthYear, "Birth year", "1980"},
	{normalize.FieldCurrentAge, "Current age", "45"},
	{normalize.FieldInsuranceYears, "Insurance years", "25"},
	{normalize.FieldInsuranceDays, "Insurance days", "optional"},
	{normalize.FieldHeavyWorkYears, "Heavy work years", "0"},
	{normalize.FieldSalary, "Monthly salary (€)", "1500"},
	{normalize.FieldFund, "Fund", "ika / efka / oaee / etaa / tebe / other"},
	{normalize.FieldChildren, "Children", "0"},
}

// Model represents the entire application state
type Model struct {
	currentScene  Scene
	previousScene Scene

	width  int
	height int

	inputs []textinput.Model
	focus  int

	keys keyMap
	help help.Model

	pipeline  *pipeline.Pipeline
	factsPath string
	now       func() time.Time

	facts    *domain.InsuredPersonFacts
	result   *domain.PensionResult
	forecast []calculation.ForecastPoint

	err error
}

// NewModel creates the application model. factsPath may be empty; when set
// the file is loaded into the form on start.
func NewModel(p *pipeline.Pipeline, factsPath string) Model {
	inputs := make([]textinput.Model, len(formFields))
	for i, f := range formFields {
		ti := textinput.New()
		ti.Placeholder = f.placeholder
		ti.CharLimit = 40
		ti.Width = 36
		inputs[i] = ti
	}
	inputs[0].Focus()

	return Model{
		currentScene: SceneForm,
		inputs:       inputs,
		keys:         defaultKeyMap(),
		help:         help.New(),
		pipeline:     p,
		factsPath:    factsPath,
		now:          time.Now,
		width:        80,
		height:       24,
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	if m.factsPath == "" {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, loadFactsCmd(m.factsPath))
}

// loadFactsCmd returns a command that reads a facts file
func loadFactsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		partial, err := config.NewInputParser().LoadFromFile(path)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return FactsLoadedMsg{Path: path, Partial: partial}
	}
}

// calculateCmd returns a command that runs the form through the pipeline
func calculateCmd(p *pipeline.Pipeline, form map[string]string, year int) tea.Cmd {
	return func() tea.Msg {
		partial, err := normalize.FromStrings(form)
		if err != nil {
			return CalculationCompleteMsg{Err: err}
		}
		if partial.DataSource == "" {
			partial.DataSource = "tui"
		}
		facts, result, err := p.Calculate(partial)
		if err != nil {
			return CalculationCompleteMsg{Facts: facts, Err: err}
		}
		return CalculationCompleteMsg{
			Facts:    facts,
			Result:   result,
			Forecast: calculation.ForecastPension(result.TotalPension, calculation.DefaultInflationRate, calculation.DefaultForecastYears, year),
		}
	}
}

// formValues collects the current input values keyed by field name.
func (m Model) formValues() map[string]string {
	out := make(map[string]string, len(formFields))
	for i, f := range formFields {
		out[f.key] = m.inputs[i].Value()
	}
	return out
}

// fill copies recovered facts into the form, leaving absent fields blank.
func (m *Model) fill(p *domain.PartialFacts) {
	if p == nil {
		return
	}
	set := func(field string, v string) {
		for i, f := range formFields {
			if f.key == field {
				m.inputs[i].SetValue(v)
			}
		}
	}
	if p.Gender != nil {
		set(normalize.FieldGender, string(*p.Gender))
	}
	if p.BirthYear != nil {
		set(normalize.FieldBirthYear, fmt.Sprint(*p.BirthYear))
	}
	if p.CurrentAge != nil {
		set(normalize.FieldCurrentAge, fmt.Sprint(*p.CurrentAge))
	}
	if p.InsuranceYears != nil {
		set(normalize.FieldInsuranceYears, p.InsuranceYears.String())
	}
	if p.InsuranceDays != nil {
		set(normalize.FieldInsuranceDays, fmt.Sprint(*p.InsuranceDays))
	}
	if p.HeavyWorkYears != nil {
		set(normalize.FieldHeavyWorkYears, fmt.Sprint(*p.HeavyWorkYears))
	}
	if p.Salary != nil {
		set(normalize.FieldSalary, p.Salary.String())
	}
	if p.Fund != nil {
		set(normalize.FieldFund, string(*p.Fund))
	}
	if p.Children != nil {
		set(normalize.FieldChildren, fmt.Sprint(*p.Children))
	}
}

func (m *Model) setFocus(i int) {
	n := len(m.inputs)
	m.focus = ((i % n) + n) % n
	for j := range m.inputs {
		if j == m.focus {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}
