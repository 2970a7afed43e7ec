package view

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/importer"
)

type importState int

const (
	importStateForm importState = iota
	importStateRunning
	importStateDone
)

type ImportModel struct {
	CommonModel
	importService *importer.Service

	state  importState
	form   *huh.Form
	fields *importFields
	result *importer.Result
	err    error
}

type importFields struct {
	format importer.Format
	path   string
}

func NewImportModel(svc *importer.Service) ImportModel {
	m := ImportModel{importService: svc}
	m.resetForm()

	return m
}

func (m *ImportModel) resetForm() {
	m.fields = &importFields{format: importer.FormatTally}

	options := make([]huh.Option[importer.Format], 0, len(importer.Formats()))
	for _, f := range importer.Formats() {
		options = append(options, huh.NewOption(string(f), f))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[importer.Format]().
				Key("format").
				Title("Format").
				Options(options...).
				Value(&m.fields.format),

			huh.NewInput().
				Key("path").
				Title("Statement file").
				Placeholder("~/Downloads/statement.csv").
				Value(&m.fields.path).
				Validate(func(s string) error {
					info, err := os.Stat(expandHome(s))
					if err != nil {
						return fmt.Errorf("cannot open file")
					}
					if info.IsDir() {
						return fmt.Errorf("path is a directory")
					}
					return nil
				}),
		),
	).WithWidth(60).WithShowHelp(false)

	m.state = importStateForm
	m.result = nil
	m.err = nil
}

func (m ImportModel) Title() string { return "Import Statement" }
func (m ImportModel) ShortHelp() string {
	if m.state == importStateDone {
		return "n: import another | Esc: back"
	}
	return "Navigate form | Esc: back"
}

func (m ImportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case importDoneMsg:
		m.state = importStateDone
		m.result = msg.result
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyEsc:
			return m, Back
		case m.state == importStateDone && msg.String() == "n":
			m.resetForm()
			return m, m.form.Init()
		}
	}

	if m.state != importStateForm {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = importStateRunning

	return m, m.importCmd()
}

func (m ImportModel) View() string {
	style := lipgloss.NewStyle().Padding(1, 2)

	switch m.state {
	case importStateRunning:
		return style.Render("Importing...")
	case importStateDone:
		return style.Render(m.resultView())
	default:
		return style.Render("Import Statement\n\n" + m.form.View())
	}
}

func (m ImportModel) resultView() string {
	var b strings.Builder

	if m.result != nil {
		fmt.Fprintf(&b, "Imported %d transactions\n", len(m.result.Imported))

		if n := len(m.result.Uncategorized); n > 0 {
			lines := make([]string, n)
			for i, line := range m.result.Uncategorized {
				lines[i] = fmt.Sprint(line)
			}

			b.WriteString(lipgloss.NewStyle().Faint(true).Render(
				fmt.Sprintf("Unknown category on lines %s", strings.Join(lines, ", ")),
			) + "\n")
		}
	}

	if m.err != nil {
		b.WriteString(levelStyle(budget.AlertCritical).Render(fmt.Sprintf("Error: %v", m.err)) + "\n")
	}

	return b.String()
}

func expandHome(path string) string {
	path = strings.TrimSpace(path)

	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return home + "/" + rest
		}
	}

	return path
}

// Messages

type importDoneMsg struct {
	result *importer.Result
	err    error
}

func (m ImportModel) importCmd() tea.Cmd {
	format, path := m.fields.format, expandHome(m.fields.path)

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importDoneMsg{err: err}
		}
		defer f.Close()

		// Large statements outlive the usual database timeout.
		res, err := m.importService.Import(context.Background(), format, f)

		return importDoneMsg{result: res, err: err}
	}
}
