package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/grpension/internal/config"
	"github.com/rgehrsitz/grpension/internal/extract"
	"github.com/rgehrsitz/grpension/internal/pipeline"
	"github.com/rgehrsitz/grpension/internal/tui"
)

func main() {
	// Optional facts file to prefill the form
	factsPath := ""
	if len(os.Args) > 1 {
		factsPath = os.Args[1]
		if _, err := os.Stat(factsPath); os.IsNotExist(err) {
			fmt.Printf("Error: facts file not found: %s\n", factsPath)
			os.Exit(1)
		}
	}

	settings, err := config.LoadSettings("")
	if err != nil {
		fmt.Printf("Error loading settings: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns the terminal, so the core logs nowhere.
	p := pipeline.New(pipeline.Options{
		OCR: extract.TesseractCLI{Path: settings.OCR.Binary, Languages: settings.OCR.Languages},
	})

	program := tea.NewProgram(tui.NewModel(p, factsPath), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
