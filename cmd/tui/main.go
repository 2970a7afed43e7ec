package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/tally/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/tally/internal/app"
	"github.com/MrJamesThe3rd/tally/internal/config"
)

type model struct {
	app   *app.App
	cfg   *config.Config
	clock clockwork.Clock
	send  view.Sender

	currentView View
	width       int
	height      int

	budgetsView view.BudgetsModel
	listView    view.ListModel
	importView  view.ImportModel
}

type View int

const (
	ViewMenu    View = 0
	ViewBudgets View = 1
	ViewList    View = 2
	ViewImport  View = 3
)

func initialModel(a *app.App, cfg *config.Config, send view.Sender) model {
	clock := clockwork.NewRealClock()

	return model{
		app:         a,
		cfg:         cfg,
		clock:       clock,
		send:        send,
		currentView: ViewMenu,
		budgetsView: view.NewBudgetsModel(a.Budgets, clock, cfg.Budget.Debounce, send),
		listView:    view.NewListModel(a.Transactions, a.Categories, clock),
		importView:  view.NewImportModel(a.Imports),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewBudgets
				m.budgetsView = view.NewBudgetsModel(m.app.Budgets, m.clock, m.cfg.Budget.Debounce, m.send)

				return m, tea.Batch(m.budgetsView.Init(), m.resize())
			case "2":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.app.Transactions, m.app.Categories, m.clock)

				return m, tea.Batch(m.listView.Init(), m.resize())
			case "3":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.app.Imports)

				return m, m.importView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewBudgets:
		var newModel tea.Model
		newModel, cmd = m.budgetsView.Update(msg)
		m.budgetsView = newModel.(view.BudgetsModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	}

	return m, cmd
}

// resize replays the last known window size to a freshly built screen.
func (m model) resize() tea.Cmd {
	if m.width == 0 {
		return nil
	}

	size := tea.WindowSizeMsg{Width: m.width, Height: m.height}

	return func() tea.Msg { return size }
}

func (m model) View() string {
	var screen view.View

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.cfg.App.Name + "\n\n" +
				"1. Budgets\n" +
				"2. Transactions\n" +
				"3. Import Statement\n\n" +
				"q. Quit",
		)
	case ViewBudgets:
		screen = m.budgetsView
	case ViewList:
		screen = m.listView
	case ViewImport:
		screen = m.importView
	default:
		return "Unknown View"
	}

	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(screen.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, screen.View(), help)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI; logs go to a file when debugging.
	var logOut io.Writer = io.Discard

	if os.Getenv("DEBUG") != "" {
		f, err := tea.LogToFile("tally-tui.log", "")
		if err != nil {
			slog.Error("failed to open log file", "error", err)
			os.Exit(1)
		}
		defer f.Close()

		logOut = f
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	var program atomic.Pointer[tea.Program]

	send := func(msg tea.Msg) {
		if p := program.Load(); p != nil {
			p.Send(msg)
		}
	}

	p := tea.NewProgram(initialModel(a, cfg, send), tea.WithAltScreen())
	program.Store(p)

	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
