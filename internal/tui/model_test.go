package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/grpension/internal/domain"
	"github.com/rgehrsitz/grpension/internal/normalize"
	"github.com/rgehrsitz/grpension/internal/pipeline"
)

var fixedNow = func() time.Time { return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) }

func newTestModel() Model {
	m := NewModel(pipeline.New(pipeline.Options{Now: fixedNow}), "")
	m.now = fixedNow
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func fieldIndex(t *testing.T, name string) int {
	t.Helper()
	for i, f := range formFields {
		if f.key == name {
			return i
		}
	}
	t.Fatalf("no field %s", name)
	return -1
}

func fillForm(t *testing.T, m Model, values map[string]string) Model {
	t.Helper()
	for k, v := range values {
		m.inputs[fieldIndex(t, k)].SetValue(v)
	}
	return m
}

func TestNewModel(t *testing.T) {
	m := newTestModel()

	assert.Equal(t, SceneForm, m.currentScene)
	assert.Len(t, m.inputs, 9)
	assert.Equal(t, 0, m.focus)
	assert.True(t, m.inputs[0].Focused())
	assert.NotNil(t, m.Init())
}

func TestFocusCycling(t *testing.T) {
	m := newTestModel()

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, m.focus)
	assert.True(t, m.inputs[1].Focused())
	assert.False(t, m.inputs[0].Focused())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, len(formFields)-1, m.focus, "wraps to the last field")
}

func TestTypingGoesToFocusedInput(t *testing.T) {
	m := newTestModel()

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Γυναίκα")})

	assert.Equal(t, "Γυναίκα", m.inputs[0].Value())
	assert.Empty(t, m.inputs[1].Value())
}

func TestSubmitCalculates(t *testing.T) {
	m := fillForm(t, newTestModel(), map[string]string{
		normalize.FieldGender:         "male",
		normalize.FieldBirthYear:      "1958",
		normalize.FieldCurrentAge:     "67",
		normalize.FieldInsuranceYears: "40",
		normalize.FieldSalary:         "1000",
		normalize.FieldFund:           "ΙΚΑ",
	})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(CalculationCompleteMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	assert.Equal(t, "tui", msg.Facts.DataSource)
	assert.Len(t, msg.Forecast, 10)
	assert.Equal(t, 2026, msg.Forecast[0].Year)

	m, _ = update(t, m, msg)
	assert.Equal(t, SceneResult, m.currentScene)
	require.NotNil(t, m.result)
	assert.Equal(t, "1184", m.result.TotalPension.String())

	view := m.View()
	assert.Contains(t, view, "€1.184,00")
	assert.Contains(t, view, "Forecast at 2% inflation")
}

func TestSubmitWithInvalidInput(t *testing.T) {
	m := fillForm(t, newTestModel(), map[string]string{normalize.FieldSalary: "lots"})

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	msg := cmd().(CalculationCompleteMsg)
	require.Error(t, msg.Err)

	var ve *domain.ValidationError
	assert.ErrorAs(t, msg.Err, &ve)

	m, _ = update(t, m, msg)
	assert.Equal(t, SceneForm, m.currentScene)
	assert.Contains(t, m.View(), "Error: invalid salary")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Nil(t, m.err, "editing clears the error")
}

func TestResultNavigation(t *testing.T) {
	m := newTestModel()
	m.currentScene = SceneResult

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, NavigateMsg{Scene: SceneForm}, cmd())

	m, _ = update(t, m, NavigateMsg{Scene: SceneForm})
	assert.Equal(t, SceneForm, m.currentScene)
	assert.Equal(t, SceneResult, m.previousScene)
}

func TestHelpScene(t *testing.T) {
	m := newTestModel()

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyF1})
	m, _ = update(t, m, cmd())
	assert.Equal(t, SceneHelp, m.currentScene)
	assert.Contains(t, m.View(), "Greek spellings")

	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Equal(t, NavigateMsg{Scene: SceneForm}, cmd())
}

func TestQuit(t *testing.T) {
	_, cmd := update(t, newTestModel(), tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestReset(t *testing.T) {
	m := fillForm(t, newTestModel(), map[string]string{normalize.FieldSalary: "900"})
	m.setFocus(3)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})

	assert.Empty(t, m.inputs[fieldIndex(t, normalize.FieldSalary)].Value())
	assert.Equal(t, 0, m.focus)
}

func TestLoadFacts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gender: female\nsalary: \"1200,50\"\nchildren: 2\n"), 0644))

	msg := loadFactsCmd(path)()
	loaded, ok := msg.(FactsLoadedMsg)
	require.True(t, ok, "%#v", msg)

	m, _ := update(t, newTestModel(), loaded)
	assert.Equal(t, "female", m.inputs[fieldIndex(t, normalize.FieldGender)].Value())
	assert.Equal(t, "1200.5", m.inputs[fieldIndex(t, normalize.FieldSalary)].Value())
	assert.Equal(t, "2", m.inputs[fieldIndex(t, normalize.FieldChildren)].Value())
	assert.Empty(t, m.inputs[fieldIndex(t, normalize.FieldBirthYear)].Value())

	_, isErr := loadFactsCmd(filepath.Join(t.TempDir(), "missing.yaml"))().(ErrorMsg)
	assert.True(t, isErr)
}

func TestSceneString(t *testing.T) {
	assert.Equal(t, "Facts", SceneForm.String())
	assert.Equal(t, "Result", SceneResult.String())
	assert.Equal(t, "Help", SceneHelp.String())
	assert.Equal(t, "Unknown", Scene(42).String())
}
