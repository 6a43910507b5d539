package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// TUI runs the interactive viewer
type TUI struct {
	program *tea.Program
	model   *Model
}

// NewTUI creates the program in the alternate screen
func NewTUI(ctx context.Context, opts Options) *TUI {
	model := NewModel(ctx, opts)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	return &TUI{
		program: program,
		model:   model,
	}
}

// Start blocks until the user quits
func (t *TUI) Start() error {
	_, err := t.program.Run()
	return err
}

// Stop quits the program
func (t *TUI) Stop() {
	t.program.Quit()
}
