package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ledgerdash/ledgerdash/internal/config"
)

type appState int

const (
	viewOverview appState = iota
	viewImport
	viewReports
	viewSave
)

// App is the root program model. It owns the screen switch and a status
// line; each screen manages its own fetches and key handling.
type App struct {
	ctx context.Context
	api Backend
	cfg *config.Config

	state  appState
	width  int
	height int
	status string

	pinged  bool
	pingErr error
	spin    spinner.Model

	overview *overviewView
	imp      *importView
	reports  *reportsView
	save     *saveView
}

func New(ctx context.Context, api Backend, cfg *config.Config) *App {
	spin := spinner.New(spinner.WithSpinner(spinner.Dot))
	return &App{
		ctx:      ctx,
		api:      api,
		cfg:      cfg,
		spin:     spin,
		overview: newOverviewView(ctx, api),
	}
}

func (a *App) Init() tea.Cmd {
	ctx, api := a.ctx, a.api
	ping := func() tea.Msg { return pingMsg{err: api.Ping(ctx)} }
	return tea.Batch(a.spin.Tick, ping, a.overview.mount(false))
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(m)
		return a, cmd

	case pingMsg:
		a.pinged = true
		a.pingErr = m.err
		return a, nil

	case statusMsg:
		a.status = string(m)
		return a, nil

	case tea.KeyMsg:
		if cmd, handled := a.handleGlobalKey(m); handled {
			return a, cmd
		}
	}
	return a, a.route(msg)
}

// handleGlobalKey covers navigation that works on every screen. Keys fall
// through to the active screen while a text input has focus.
func (a *App) handleGlobalKey(m tea.KeyMsg) (tea.Cmd, bool) {
	if m.String() == "ctrl+c" {
		return tea.Quit, true
	}
	if m.String() == "esc" && a.state == viewSave {
		a.state = viewOverview
		return nil, true
	}
	if a.typing() {
		return nil, false
	}
	switch m.String() {
	case "q":
		if a.state == viewOverview {
			return tea.Quit, true
		}
		a.state = viewOverview
		return nil, true
	case "esc":
		if a.state == viewImport && a.imp != nil && (a.imp.record != nil || a.imp.filtering || a.imp.pickingColumns || a.imp.rules.editing) {
			return nil, false
		}
		if a.state != viewOverview {
			a.state = viewOverview
			return nil, true
		}
		return nil, true
	case "p":
		if a.state == viewOverview {
			a.state = viewReports
			a.reports = newReportsView(a.ctx, a.api, a.cfg.UI.Currency)
			return a.reports.mount(), true
		}
	case "w":
		if a.state == viewOverview {
			a.state = viewSave
			a.save = newSaveView(a.ctx, a.api, a.cfg)
			return a.save.mount(), true
		}
	case "enter":
		if a.state == viewOverview {
			a.state = viewImport
			a.imp = newImportView(a.ctx, a.api, a.overview.selected(), tabRecorded)
			return a.imp.mount(), true
		}
	}
	return nil, false
}

// typing reports whether a text input on the active screen currently owns
// the keyboard.
func (a *App) typing() bool {
	switch a.state {
	case viewImport:
		return a.imp != nil && (a.imp.filtering || a.imp.record != nil || a.imp.rules.editing)
	case viewReports:
		return a.reports != nil && a.reports.editing
	case viewSave:
		return a.save != nil && !a.save.loading && len(a.save.dirty) > 0
	}
	return false
}

// route hands a message to the screen that owns its state. Fetch results go
// to their originating screen even if another one is active.
func (a *App) route(msg tea.Msg) tea.Cmd {
	switch msg.(type) {
	case balancesMsg:
		return a.overview.update(msg)
	case accountsMsg, rowsMsg, rulesMsg, ruleSaveDoneMsg, ruleMutatedMsg,
		previewTickMsg, previewMsg, recordDoneMsg, writeDoneMsg:
		if a.imp != nil {
			return a.imp.update(msg)
		}
		return nil
	case incomeStatementMsg, netWorthMsg:
		if a.reports != nil {
			return a.reports.update(msg)
		}
		return nil
	case dirtyFilesMsg, journalSavedMsg:
		if a.save != nil {
			return a.save.update(msg)
		}
		return nil
	}

	switch a.state {
	case viewOverview:
		return a.overview.update(msg)
	case viewImport:
		return a.imp.update(msg)
	case viewReports:
		return a.reports.update(msg)
	case viewSave:
		return a.save.update(msg)
	}
	return nil
}

func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 80
	}
	height := a.height
	if height <= 0 {
		height = 24
	}

	var body string
	switch a.state {
	case viewImport:
		body = a.imp.view(width)
	case viewReports:
		body = a.reports.view(width, height)
	case viewSave:
		body = a.save.view(width)
	default:
		body = a.overview.view(width)
	}
	return body + "\n" + a.statusLine()
}

func (a *App) statusLine() string {
	switch {
	case !a.pinged:
		return mutedStyle.Render(a.spin.View() + "connecting to " + a.cfg.Backend.URL)
	case a.pingErr != nil:
		return errorStyle.Render(fmt.Sprintf("✗ backend unreachable at %s: %v", a.cfg.Backend.URL, a.pingErr))
	case a.status != "":
		return mutedStyle.Render(a.status)
	}
	return okStyle.Render("✓ " + a.cfg.Backend.URL)
}
