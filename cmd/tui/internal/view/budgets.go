package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/budget/autosave"
	"github.com/MrJamesThe3rd/tally/internal/period"
)

type budgetsState int

const (
	budgetsStateBrowse budgetsState = iota
	budgetsStateEdit
)

var levelColors = map[budget.AlertLevel]lipgloss.Color{
	budget.AlertOK:       lipgloss.Color("42"),
	budget.AlertWarning:  lipgloss.Color("214"),
	budget.AlertCritical: lipgloss.Color("196"),
}

func levelStyle(level budget.AlertLevel) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(levelColors[level])
}

type BudgetsModel struct {
	CommonModel
	budgetService *budget.Service
	clock         clockwork.Clock
	interval      time.Duration
	send          Sender

	state    budgetsState
	period   period.Period
	table    table.Model
	overview *budget.Overview
	loading  bool
	err      error
	status   string

	// Editor
	form       *autosave.Form
	choices    []string
	choice     int
	focusLimit bool
	limit      textinput.Model
	spinner    spinner.Model
	bar        progress.Model
}

func NewBudgetsModel(svc *budget.Service, clock clockwork.Clock, interval time.Duration, send Sender) BudgetsModel {
	columns := []table.Column{
		{Title: "Category", Width: 20},
		{Title: "Limit", Width: 12},
		{Title: "Spent", Width: 12},
		{Title: "Remaining", Width: 12},
		{Title: "Used", Width: 8},
		{Title: "Alert", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	in := textinput.New()
	in.Placeholder = "0.00"
	in.CharLimit = 16
	in.Width = 16

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return BudgetsModel{
		budgetService: svc,
		clock:         clock,
		interval:      interval,
		send:          send,
		period:        period.Current(clock.Now()),
		table:         t,
		loading:       true,
		limit:         in,
		spinner:       sp,
		bar:           progress.New(progress.WithDefaultGradient(), progress.WithWidth(40), progress.WithoutPercentage()),
	}
}

func (m BudgetsModel) Title() string { return "Budgets" }
func (m BudgetsModel) ShortHelp() string {
	if m.state == budgetsStateEdit {
		return "Tab: switch field | ↑/↓ + Enter: pick category | Esc: close"
	}
	return "Esc: back | n: new | e/Enter: edit | x: delete | r: refresh"
}

func (m BudgetsModel) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.spinner.Tick)
}

func (m BudgetsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadBudgetsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.overview = msg.overview
		m.refreshTable()
		return m, nil

	case budgetSavedMsg:
		m.status = fmt.Sprintf("Saved %s: %s", msg.budget.Name, FormatAmount(msg.budget.MonthlyLimit))
		return m, m.loadCmd()

	case budgetFailedMsg:
		m.status = fmt.Sprintf("Failed to save budget: %v", msg.err)
		return m, nil

	case budgetSkippedMsg:
		m.status = fmt.Sprintf("Not saved: %v", msg.err)
		return m, nil

	case budgetDeletedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error deleting: %v", msg.err)
		} else {
			m.status = "Budget deleted"
		}
		return m, m.loadCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-16, 5))
		return m, nil
	}

	switch m.state {
	case budgetsStateBrowse:
		return m.updateBrowse(msg)
	case budgetsStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m BudgetsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			m.period = period.Current(m.clock.Now())
			return m, m.loadCmd()
		case "n":
			return m.openEditor(nil)
		case "e", "enter":
			item := m.selected()
			if item == nil {
				return m, nil
			}
			return m.openEditor(item)
		case "x":
			item := m.selected()
			if item == nil {
				return m, nil
			}
			return m, m.deleteCmd(item.Budget.ID)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m BudgetsModel) selected() *budget.Item {
	if m.overview == nil {
		return nil
	}

	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.overview.Items) {
		return nil
	}

	return &m.overview.Items[idx]
}

// openEditor starts an autosaving form. item is nil for a new budget.
func (m BudgetsModel) openEditor(item *budget.Item) (tea.Model, tea.Cmd) {
	send := m.send

	m.form = autosave.New(m.budgetService, autosave.Config{
		Interval:  m.interval,
		Timeout:   dbTimeout,
		Clock:     m.clock,
		OnSaved:   func(b *budget.Budget) { send(budgetSavedMsg{budget: b}) },
		OnError:   func(err error) { send(budgetFailedMsg{err: err}) },
		OnSkipped: func(verr *autosave.ValidationError) { send(budgetSkippedMsg{err: verr}) },
	})

	m.choices = nil
	if m.overview != nil {
		for _, c := range m.overview.Available {
			m.choices = append(m.choices, c.Name)
		}
	}

	m.choice = 0
	m.limit.SetValue("")
	m.status = ""

	if item != nil {
		m.choices = append([]string{item.CategoryName}, m.choices...)
		m.form.Reset(autosave.Fields{Category: item.CategoryName, Limit: FormatLimit(item.Limit)})
		m.limit.SetValue(FormatLimit(item.Limit))
	}

	m.state = budgetsStateEdit
	m.table.Blur()

	if item != nil || len(m.choices) == 0 {
		return m, m.focusInput()
	}

	m.focusLimit = false
	m.limit.Blur()

	return m, nil
}

func (m *BudgetsModel) focusInput() tea.Cmd {
	m.focusLimit = true
	return m.limit.Focus()
}

func (m BudgetsModel) closeEditor() (tea.Model, tea.Cmd) {
	if m.form != nil {
		if snap := m.form.Snapshot(); snap.State == autosave.StatePending {
			m.status = "Unsaved changes discarded"
		}
		m.form.Close()
	}

	m.form = nil
	m.state = budgetsStateBrowse
	m.limit.Blur()
	m.table.Focus()

	return m, m.loadCmd()
}

func (m BudgetsModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			return m.closeEditor()
		case tea.KeyTab, tea.KeyShiftTab:
			if m.focusLimit {
				m.focusLimit = false
				m.limit.Blur()
				return m, nil
			}
			return m, m.focusInput()
		}
	}

	if !m.focusLimit {
		if !ok {
			return m, nil
		}

		switch keyMsg.String() {
		case "up", "k":
			if m.choice > 0 {
				m.choice--
			}
		case "down", "j":
			if m.choice < len(m.choices)-1 {
				m.choice++
			}
		case "enter":
			if len(m.choices) > 0 {
				m.form.SetCategory(m.choices[m.choice])
				return m, m.focusInput()
			}
		}

		return m, nil
	}

	before := m.limit.Value()

	var cmd tea.Cmd
	m.limit, cmd = m.limit.Update(msg)

	if v := m.limit.Value(); v != before {
		m.form.SetLimit(v)
	}

	return m, cmd
}

func (m BudgetsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading budgets...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("Budgets for %s", activeStyle(m.period.String()))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		m.summaryView(),
	)

	if m.state == budgetsStateEdit && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(44).
			Render(m.editorView())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m BudgetsModel) summaryView() string {
	if m.overview == nil {
		return ""
	}

	var b strings.Builder

	if item := m.selected(); item != nil {
		fmt.Fprintf(&b, "\n%s  %s\n",
			m.bar.ViewAs(item.Progress.Percentage/100),
			levelStyle(item.Progress.Level).Render(fmt.Sprintf("%.0f%%", item.Progress.Percentage)),
		)

		if item.Progress.Exceeded {
			b.WriteString(levelStyle(budget.AlertCritical).Render("Limit reached") + "\n")
		}
	}

	total := m.overview.Progress
	fmt.Fprintf(&b, "\nTotal: %s of %s spent %s\n",
		FormatAmount(m.overview.TotalSpent),
		FormatAmount(m.overview.TotalLimit),
		levelStyle(total.Level).Render(fmt.Sprintf("(%.0f%%)", total.Percentage)),
	)

	if len(m.overview.Available) > 0 {
		names := make([]string, 0, len(m.overview.Available))
		for _, c := range m.overview.Available {
			names = append(names, c.Name)
		}

		b.WriteString(lipgloss.NewStyle().Faint(true).Render("Without budget: " + strings.Join(names, ", ")))
	}

	return b.String()
}

func (m BudgetsModel) editorView() string {
	var b strings.Builder

	b.WriteString("Budget\n\n")

	if len(m.choices) == 0 {
		b.WriteString(lipgloss.NewStyle().Faint(true).Render("Every expense category has a budget") + "\n")
	}

	for i, name := range m.choices {
		cursor := "  "
		if i == m.choice {
			cursor = "> "
		}

		line := cursor + name
		if !m.focusLimit && i == m.choice {
			line = activeStyle(line)
		}

		b.WriteString(line + "\n")
	}

	fmt.Fprintf(&b, "\nMonthly limit\n%s\n\n", m.limit.View())

	snap := m.form.Snapshot()

	switch snap.State {
	case autosave.StatePending, autosave.StateValidating, autosave.StateSaving:
		fmt.Fprintf(&b, "%s %s", m.spinner.View(), snap.State)
	default:
		switch {
		case snap.Invalid != nil:
			b.WriteString(levelStyle(budget.AlertWarning).Render(snap.Invalid.Error()))
		case snap.LastError != nil:
			b.WriteString(levelStyle(budget.AlertCritical).Render("Save failed"))
		case snap.LastSaved != nil:
			b.WriteString(levelStyle(budget.AlertOK).Render("Saved"))
		}
	}

	return b.String()
}

func (m *BudgetsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.overview.Items))
	for _, item := range m.overview.Items {
		rows = append(rows, table.Row{
			item.CategoryName,
			FormatAmount(item.Limit),
			FormatAmount(item.Spent),
			FormatAmount(item.Progress.Remaining),
			fmt.Sprintf("%.0f%%", item.Progress.Percentage),
			string(item.Progress.Level),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadBudgetsMsg struct {
	overview *budget.Overview
	err      error
}

type budgetSavedMsg struct {
	budget *budget.Budget
}

type budgetFailedMsg struct {
	err error
}

type budgetSkippedMsg struct {
	err error
}

type budgetDeletedMsg struct {
	err error
}

func (m BudgetsModel) loadCmd() tea.Cmd {
	p := m.period

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		ov, err := m.budgetService.Overview(ctx, p)
		return loadBudgetsMsg{overview: ov, err: err}
	}
}

func (m BudgetsModel) deleteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return budgetDeletedMsg{err: m.budgetService.Delete(ctx, id)}
	}
}
