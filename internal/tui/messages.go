package tui

import (
	"github.com/rgehrsitz/grpension/internal/calculation"
	"github.com/rgehrsitz/grpension/internal/domain"
)

// Scene represents different screens in the TUI
type Scene int

const (
	SceneForm Scene = iota
	SceneResult
	SceneHelp
)

func (s Scene) String() string {
	switch s {
	case SceneForm:
		return "Facts"
	case SceneResult:
		return "Result"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// ErrorMsg displays an error under the form
type ErrorMsg struct {
	Err error
}

// FactsLoadedMsg carries a facts file read at startup
type FactsLoadedMsg struct {
	Path    string
	Partial *domain.PartialFacts
}

// CalculationCompleteMsg signals the engine has finished
type CalculationCompleteMsg struct {
	Facts    *domain.InsuredPersonFacts
	Result   *domain.PensionResult
	Forecast []calculation.ForecastPoint
	Err      error
}
