// Package tui is the interactive command loop. One operation failing
// renders its error and returns to the prompt; only 'exit' or ctrl+c end
// the session.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"genforge/internal/app"
	"genforge/internal/model"
)

// --- Styles ---
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")) // Mauve
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))            // Green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))           // Red
	pathStyle    = lipgloss.NewStyle()
	faintStyle   = lipgloss.NewStyle().Faint(true)
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

// --- Messages ---
type resultMsg struct {
	summary model.Summary
	err     error
}

// --- Model ---
type Model struct {
	app      *app.App
	input    textinput.Model
	spinner  spinner.Model
	busy     bool
	quitting bool
	output   strings.Builder
}

func New(a *app.App) Model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render("genforge> ")
	ti.Placeholder = "project:create ... | file:upgrade <path> | apply | undo | exit"
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := Model{app: a, input: ti, spinner: s}
	m.output.WriteString(headerStyle.Render("genforge — Gemini project forge"))
	m.output.WriteString(faintStyle.Render("\nType a command, or 'exit' to quit.\n"))
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if m.busy {
				return m, nil
			}
			line := strings.TrimSpace(m.input.Value())
			if line == "" {
				return m, nil
			}
			if line == "exit" || line == "quit" {
				m.quitting = true
				return m, tea.Quit
			}
			m.input.Reset()
			m.busy = true
			m.output.WriteString(promptStyle.Render("\n> ") + line + "\n")
			return m, tea.Batch(m.spinner.Tick, m.runCommand(line))
		}

	case resultMsg:
		m.busy = false
		if msg.err != nil {
			m.output.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", msg.err)) + "\n")
		} else {
			m.output.WriteString(renderSummary(msg.summary))
		}
		return m, nil

	case spinner.TickMsg:
		if m.busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return m.output.String() + "\n"
	}
	if m.busy {
		return fmt.Sprintf("%s\n%s Working...\n", m.output.String(), m.spinner.View())
	}
	return fmt.Sprintf("%s\n%s\n", m.output.String(), m.input.View())
}

func (m *Model) runCommand(line string) tea.Cmd {
	return func() tea.Msg {
		summary, err := m.app.Dispatch(context.Background(), line)
		return resultMsg{summary: summary, err: err}
	}
}

func renderSummary(s model.Summary) string {
	var b strings.Builder

	if s.Message != "" {
		b.WriteString(s.Message + "\n")
	}
	if len(s.Folders) > 0 {
		b.WriteString(successStyle.Render("Folders:") + "\n")
		for _, f := range s.Folders {
			b.WriteString(fmt.Sprintf("  %s\n", pathStyle.Render(f)))
		}
	}
	if len(s.Created) > 0 {
		b.WriteString(successStyle.Render("Created:") + "\n")
		for _, f := range s.Created {
			b.WriteString(fmt.Sprintf("  %s\n", pathStyle.Render(f)))
		}
	}
	if len(s.Modified) > 0 {
		b.WriteString(successStyle.Render("Modified:") + "\n")
		for _, f := range s.Modified {
			b.WriteString(fmt.Sprintf("  %s\n", pathStyle.Render(f)))
		}
	}
	if len(s.Failed) > 0 {
		b.WriteString(errorStyle.Render("Failed:") + "\n")
		for _, f := range s.Failed {
			b.WriteString(fmt.Sprintf("  %s\n", pathStyle.Render(f)))
		}
	}
	if s.Empty() {
		b.WriteString(faintStyle.Render("Nothing to do.") + "\n")
	}

	return b.String()
}
