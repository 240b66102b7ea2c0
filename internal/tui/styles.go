package tui

import "github.com/rgehrsitz/grpension/internal/tui/tuistyles"

// Re-export styles from tuistyles to avoid import cycles
var (
	AppStyle          = tuistyles.AppStyle
	TitleStyle        = tuistyles.TitleStyle
	SubtitleStyle     = tuistyles.SubtitleStyle
	LabelStyle        = tuistyles.LabelStyle
	FocusedLabelStyle = tuistyles.FocusedLabelStyle
	ErrorStyle        = tuistyles.ErrorStyle
	InfoStyle         = tuistyles.InfoStyle
)

var (
	FormatEuro = tuistyles.FormatEuro
	YesNo      = tuistyles.YesNo
)
