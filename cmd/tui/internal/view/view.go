package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// Sender delivers messages produced outside the update loop, such as
// autosave results, back to the program.
type Sender func(tea.Msg)
