package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"

	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/period"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateEdit
)

var typeFilters = []*transaction.Type{nil, new(transaction.TypeExpense), new(transaction.TypeIncome)}

type ListModel struct {
	CommonModel
	txService       *transaction.Service
	categoryService *category.Service
	clock           clockwork.Clock

	state      listState
	table      table.Model
	txs        []*transaction.Transaction
	categories []*category.Category
	form       *huh.Form
	editing    *transaction.Transaction // nil while adding

	period        period.Period
	typeFilterIdx int

	loading bool
	err     error
	status  string

	// Form bindings; a pointer so copies of the model share them with the form.
	fields *txFields
}

type txFields struct {
	typ        transaction.Type
	amount     string
	desc       string
	date       string
	categoryID int64
}

func NewListModel(txSvc *transaction.Service, catSvc *category.Service, clock clockwork.Clock) ListModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 9},
		{Title: "Amount", Width: 12},
		{Title: "Category", Width: 18},
		{Title: "Description", Width: 36},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
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

	return ListModel{
		txService:       txSvc,
		categoryService: catSvc,
		clock:           clock,
		table:           t,
		period:          period.Current(clock.Now()),
		loading:         true,
	}
}

func (m ListModel) Title() string { return "Transactions" }
func (m ListModel) ShortHelp() string {
	if m.state == listStateEdit {
		return "Navigate form | Esc: cancel"
	}
	return "Esc: back | [/]: month | t: type | a: add | e: edit | x: delete | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return tea.Batch(m.loadTxsCmd(), m.loadCategoriesCmd())
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.txs = msg.txs
		m.refreshTable()
		return m, nil

	case loadCategoriesMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading categories: %v", msg.err)
			return m, nil
		}
		m.categories = msg.categories
		return m, nil

	case listSaveMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		} else {
			m.status = ""
		}
		m.state = listStateBrowse
		m.form = nil
		m.editing = nil
		m.table.Focus()
		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-10, 5))
		return m, nil
	}

	switch m.state {
	case listStateBrowse:
		return m.updateBrowse(msg)
	case listStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, tea.Batch(m.loadTxsCmd(), m.loadCategoriesCmd())
		case "[":
			m.period = m.period.Prev()
			return m, m.loadTxsCmd()
		case "]":
			m.period = m.period.Next()
			return m, m.loadTxsCmd()
		case "t":
			m.typeFilterIdx = (m.typeFilterIdx + 1) % len(typeFilters)
			return m, m.loadTxsCmd()
		case "a":
			return m.enterEditMode(nil)
		case "e":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.txs) {
				return m, nil
			}
			return m.enterEditMode(m.txs[idx])
		case "x":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.txs) {
				return m, nil
			}
			return m, m.deleteCmd(m.txs[idx].ID)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// enterEditMode opens the form for tx, or for a new transaction when tx is nil.
func (m ListModel) enterEditMode(tx *transaction.Transaction) (tea.Model, tea.Cmd) {
	m.editing = tx
	m.fields = &txFields{
		typ:  transaction.TypeExpense,
		date: FormatDate(m.clock.Now()),
	}

	if tx != nil {
		m.fields = &txFields{
			typ:        tx.Type,
			amount:     FormatLimit(tx.Magnitude()),
			desc:       tx.Description,
			date:       FormatDate(tx.Date),
			categoryID: tx.Category.ID,
		}
	}

	categoryOptions := []huh.Option[int64]{huh.NewOption("None", int64(0))}
	for _, c := range m.categories {
		categoryOptions = append(categoryOptions, huh.NewOption(fmt.Sprintf("%s (%s)", c.Name, c.Type), c.ID))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[transaction.Type]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Expense", transaction.TypeExpense),
					huh.NewOption("Income", transaction.TypeIncome),
				).
				Value(&m.fields.typ),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("0.00").
				Value(&m.fields.amount).
				Validate(func(s string) error {
					_, err := ParseAmount(s)
					return err
				}),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.fields.date).
				Validate(func(s string) error {
					if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("date must be YYYY-MM-DD")
					}
					return nil
				}),

			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&m.fields.desc),

			huh.NewSelect[int64]().
				Key("category").
				Title("Category").
				Options(categoryOptions...).
				Value(&m.fields.categoryID),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateEdit
	m.table.Blur()
	return m, m.form.Init()
}

func (m ListModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = listStateBrowse
			m.form = nil
			m.editing = nil
			m.table.Focus()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	typeLabels := []string{"All", "Expense", "Income"}

	header := fmt.Sprintf(
		"Filter: [/] Month: %s | [t] Type: %s",
		activeStyle(m.period.String()),
		activeStyle(typeLabels[m.typeFilterIdx]),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		m.totalsView(),
	)

	if m.state == listStateEdit && m.form != nil {
		title := "New Transaction"
		if m.editing != nil {
			title = "Edit Transaction"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("%s\n\n%s", title, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m ListModel) totalsView() string {
	var income, expense int64

	for _, tx := range m.txs {
		switch tx.Type {
		case transaction.TypeIncome:
			income += tx.Magnitude()
		case transaction.TypeExpense:
			expense += tx.Magnitude()
		}
	}

	return fmt.Sprintf("\nIncome: %s | Expenses: %s", FormatAmount(income), FormatAmount(expense))
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			string(tx.Type),
			FormatAmount(tx.Amount),
			tx.Category.Label(),
			tx.Description,
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadListMsg struct {
	txs []*transaction.Transaction
	err error
}

type loadCategoriesMsg struct {
	categories []*category.Category
	err        error
}

func (m ListModel) loadTxsCmd() tea.Cmd {
	filter := transaction.ListFilter{
		Period: new(m.period),
		Type:   typeFilters[m.typeFilterIdx],
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.List(ctx, filter)
		return loadListMsg{txs: txs, err: err}
	}
}

func (m ListModel) loadCategoriesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		cats, err := m.categoryService.List(ctx)
		return loadCategoriesMsg{categories: cats, err: err}
	}
}

type listSaveMsg struct {
	err error
}

func (m ListModel) saveCmd() tea.Cmd {
	f := *m.fields

	amount, err := ParseAmount(f.amount)
	if err != nil {
		return func() tea.Msg { return listSaveMsg{err: err} }
	}

	date, err := time.Parse(time.DateOnly, strings.TrimSpace(f.date))
	if err != nil {
		return func() tea.Msg { return listSaveMsg{err: err} }
	}

	typ := f.typ
	desc := strings.TrimSpace(f.desc)
	categoryID := f.categoryID
	editing := m.editing

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if editing == nil {
			_, err := m.txService.Create(ctx, transaction.CreateParams{
				Amount:      amount,
				Type:        typ,
				Description: desc,
				Date:        date,
				CategoryID:  categoryID,
			})

			return listSaveMsg{err: err}
		}

		tx := *editing
		tx.Amount = amount
		tx.Type = typ
		tx.Description = desc
		tx.Date = date
		tx.Category = category.Ref{ID: categoryID}

		return listSaveMsg{err: m.txService.Update(ctx, &tx)}
	}
}

func (m ListModel) deleteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return listSaveMsg{err: m.txService.Delete(ctx, id)}
	}
}
