package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case NavigateMsg:
		m.previousScene = m.currentScene
		m.currentScene = msg.Scene
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		return m, nil

	case FactsLoadedMsg:
		m.fill(msg.Partial)
		return m, nil

	case CalculationCompleteMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.facts = msg.Facts
		m.result = msg.Result
		m.forecast = msg.Forecast
		m.previousScene = m.currentScene
		m.currentScene = SceneResult
		return m, nil
	}

	return m.updateInputs(msg)
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Help) && m.currentScene != SceneHelp {
		return m, navigate(SceneHelp)
	}

	switch m.currentScene {
	case SceneHelp:
		// Any key leaves help
		return m, navigate(m.previousScene)

	case SceneResult:
		switch {
		case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Submit):
			return m, navigate(SceneForm)
		case msg.String() == "q":
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Next):
		m.setFocus(m.focus + 1)
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		m.setFocus(m.focus - 1)
		return m, nil
	case key.Matches(msg, m.keys.Reset):
		for i := range m.inputs {
			m.inputs[i].Reset()
		}
		m.err = nil
		m.setFocus(0)
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		return m, calculateCmd(m.pipeline, m.formValues(), m.now().Year())
	}

	m.err = nil
	return m.updateInputs(msg)
}

// updateInputs forwards a message to the focused input
func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.currentScene != SceneForm {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func navigate(s Scene) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Scene: s}
	}
}
