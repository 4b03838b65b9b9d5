package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ledgerdash/ledgerdash/internal/backend"
	"github.com/ledgerdash/ledgerdash/internal/model"
	"github.com/ledgerdash/ledgerdash/internal/session"
)

type tabID string

const (
	tabRecorded  tabID = "recorded"
	tabGenerated tabID = "generated"
	tabUnmatched tabID = "unmatched"
	tabRules     tabID = "rules"
)

var tabOrder = []tabID{tabRecorded, tabGenerated, tabUnmatched, tabRules}

var tabKinds = map[tabID]backend.TransactionKind{
	tabRecorded:  backend.Existing,
	tabGenerated: backend.Generated,
	tabUnmatched: backend.Unmatched,
}

var tabTitles = map[tabID]string{
	tabRecorded:  "Recorded",
	tabGenerated: "Generated",
	tabUnmatched: "Unmatched",
	tabRules:     "Rules",
}

// importView is the reconciliation screen for one import account: the
// transaction tabs, the rule editor and the record modal. Each mounted
// instance owns its scope and fetch generations.
type importView struct {
	ctx   context.Context
	api   Backend
	scope *session.Scope

	tab        tabID
	loading    bool
	loadErr    error
	bypass     bool // one-shot, reverts on fetch completion
	gen        int  // transaction fetch generation
	accountGen int

	table  *table
	rules  *ruleEditor
	record *recordModal

	filterInput    textinput.Model
	filtering      bool
	pickingColumns bool
	colCursor      int
	writePending   bool
}

func newImportView(ctx context.Context, api Backend, account model.ImportAccount, tab tabID) *importView {
	if _, ok := tabTitles[tab]; !ok {
		tab = tabRecorded
	}
	filter := textinput.New()
	filter.Placeholder = "Search..."
	filter.CharLimit = 120
	scope := session.NewScope(account)
	return &importView{
		ctx:         ctx,
		api:         api,
		scope:       scope,
		tab:         tab,
		table:       newTable(account),
		rules:       newRuleEditor(ctx, api, scope),
		filterInput: filter,
	}
}

// mount kicks off the parallel initial fetches: ledger accounts for the
// scope, plus whatever the active tab needs.
func (v *importView) mount() tea.Cmd {
	v.accountGen++
	return tea.Batch(v.fetchAccounts(), v.fetchTab())
}

func (v *importView) fetchAccounts() tea.Cmd {
	gen := v.accountGen
	return func() tea.Msg {
		names, err := v.api.Accounts(v.ctx)
		return accountsMsg{gen: gen, names: names, err: err}
	}
}

// fetchTab starts a fetch for the active tab and bumps the generation so
// any in-flight result gets dropped.
func (v *importView) fetchTab() tea.Cmd {
	if v.tab == tabRules {
		return v.rules.fetch()
	}
	v.gen++
	v.loading = true
	v.loadErr = nil
	gen, tab, bypass := v.gen, v.tab, v.bypass
	kind := tabKinds[tab]
	account := v.scope.Import.ID
	return func() tea.Msg {
		rows, err := v.api.Transactions(v.ctx, kind, account, bypass)
		return rowsMsg{gen: gen, tab: tab, rows: rows, err: err}
	}
}

func (v *importView) selectTab(tab tabID) tea.Cmd {
	if tab == v.tab {
		return nil
	}
	v.tab = tab
	v.table.page = 1
	v.table.cursor = 0
	return v.fetchTab()
}

func (v *importView) update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case accountsMsg:
		if m.gen != v.accountGen {
			return nil
		}
		if m.err != nil {
			return report(fmt.Errorf("couldn't fetch accounts: %w", m.err))
		}
		v.scope.SetAccounts(m.names)
		return nil

	case rowsMsg:
		if m.gen != v.gen || m.tab != v.tab {
			return nil // superseded
		}
		v.loading = false
		v.bypass = false
		if m.err != nil {
			v.loadErr = m.err
			return report(fmt.Errorf("couldn't fetch transactions: %w", m.err))
		}
		v.table.setRows(m.rows)
		return nil

	case writeDoneMsg:
		v.writePending = false
		if m.err != nil {
			return report(fmt.Errorf("couldn't record transactions: %w", m.err))
		}
		return tea.Batch(status("generated transactions recorded"), v.fetchTab())

	case recordDoneMsg:
		v.record = nil
		if errors.Is(m.err, errCancelled) {
			return nil
		}
		if m.err != nil {
			return report(fmt.Errorf("couldn't record transaction: %w", m.err))
		}
		return tea.Batch(status("transaction recorded"), v.fetchTab())

	case rulesMsg, ruleSaveDoneMsg, ruleMutatedMsg:
		return v.rules.update(msg)

	case previewTickMsg, previewMsg:
		if v.record != nil {
			return v.record.update(msg)
		}
		return nil

	case tea.KeyMsg:
		return v.handleKey(m)
	}
	return nil
}

func (v *importView) handleKey(m tea.KeyMsg) tea.Cmd {
	if v.record != nil {
		return v.record.update(m)
	}
	if v.filtering {
		switch m.String() {
		case "enter", "esc":
			v.filtering = false
			v.filterInput.Blur()
		default:
			var cmd tea.Cmd
			v.filterInput, cmd = v.filterInput.Update(m)
			v.table.filter = v.filterInput.Value()
			v.table.clampPage()
			return cmd
		}
		return nil
	}
	if v.pickingColumns {
		return v.handleColumnKey(m)
	}
	if v.tab == tabRules {
		if cmd, handled := v.rules.handleKey(m); handled {
			return cmd
		}
	}

	switch m.String() {
	case "tab":
		return v.selectTab(nextTab(v.tab, 1))
	case "shift+tab":
		return v.selectTab(nextTab(v.tab, -1))
	case "1", "2", "3", "4":
		return v.selectTab(tabOrder[int(m.String()[0]-'1')])
	case "/":
		v.filtering = true
		v.filterInput.Focus()
		return textinput.Blink
	case "c":
		if v.tab != tabRules {
			v.pickingColumns = true
			v.colCursor = 0
		}
	case "R":
		// force the backend to refetch from the upstream source
		v.bypass = true
		return v.fetchTab()
	case "r":
		return v.fetchTab()
	case "left", "h":
		if v.table.page > 1 {
			v.table.page--
			v.table.cursor = 0
		}
	case "right", "l":
		if v.table.page < v.table.pageCount() {
			v.table.page++
			v.table.cursor = 0
		}
	case "up", "k":
		if v.table.cursor > 0 {
			v.table.cursor--
		}
	case "down", "j":
		if v.table.cursor < len(v.table.visible())-1 {
			v.table.cursor++
		}
	case "s":
		if v.tab != tabRules {
			v.sortPrompt()
		}
	case "W":
		if v.tab == tabGenerated && !v.writePending {
			v.writePending = true
			account := v.scope.Import.ID
			return func() tea.Msg {
				return writeDoneMsg{err: v.api.WriteTransactions(v.ctx, account)}
			}
		}
	case "enter":
		if v.tab == tabUnmatched {
			rows := v.table.visible()
			if v.table.cursor < len(rows) && rows[v.table.cursor].Real != nil {
				v.record = newRecordModal(v.ctx, v.api, v.scope, rows[v.table.cursor].Real)
				return v.record.mount()
			}
		}
	}
	return nil
}

// sortPrompt advances the sort through the visible columns: repeated
// activation of the current column flips direction, as a header click would.
func (v *importView) sortPrompt() {
	cols := append([]string{v.scope.Import.DateColumn, colAmount}, v.table.columns...)
	cur := -1
	for i, c := range cols {
		if c == v.table.sortColumn {
			cur = i
			break
		}
	}
	if cur < 0 || v.table.dir == sortAsc {
		// first press on a column sorts ascending, second flips
		if cur >= 0 {
			v.table.toggleSort(cols[cur])
			return
		}
		v.table.toggleSort(cols[0])
		return
	}
	v.table.toggleSort(cols[(cur+1)%len(cols)])
}

func (v *importView) handleColumnKey(m tea.KeyMsg) tea.Cmd {
	fields := v.table.fields
	switch m.String() {
	case "esc", "c", "q":
		v.pickingColumns = false
	case "up", "k":
		if v.colCursor > 0 {
			v.colCursor--
		}
	case "down", "j":
		if v.colCursor < len(fields)-1 {
			v.colCursor++
		}
	case "enter", " ":
		if v.colCursor < len(fields) {
			v.table.toggleColumn(fields[v.colCursor])
		}
	}
	return nil
}

func nextTab(cur tabID, delta int) tabID {
	for i, t := range tabOrder {
		if t == cur {
			return tabOrder[(i+delta+len(tabOrder))%len(tabOrder)]
		}
	}
	return tabOrder[0]
}

func (v *importView) view(width int) string {
	var b strings.Builder
	acct := v.scope.Import
	b.WriteString(titleStyle.Render(acct.Glyph + " " + acct.HumanName))
	b.WriteString("\n")

	var tabs []string
	for _, t := range tabOrder {
		title := tabTitles[t]
		if t == v.tab {
			tabs = append(tabs, activeTab.Render("["+title+"]"))
		} else {
			tabs = append(tabs, inactiveTab.Render(" "+title+" "))
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	if v.bypass || v.loading {
		b.WriteString("  " + mutedStyle.Render("fetching..."))
	}
	b.WriteString("\n\n")

	if v.record != nil {
		b.WriteString(v.record.view(width))
		return b.String()
	}
	if v.pickingColumns {
		b.WriteString(v.columnPickerView())
		return b.String()
	}

	switch {
	case v.tab == tabRules:
		b.WriteString(v.rules.view(width))
	case v.loading:
		b.WriteString(mutedStyle.Render("Loading..."))
	case v.loadErr != nil:
		b.WriteString(errorStyle.Render("Failed to fetch: " + v.loadErr.Error()))
	default:
		b.WriteString(v.table.render(width, v.tab != tabUnmatched))
		total := len(filterRows(v.table.rows, v.table.filter))
		b.WriteString(fmt.Sprintf("\n%d transactions  page %d/%d", total, v.table.page, v.table.pageCount()))
	}

	b.WriteString("\n")
	if v.filtering {
		b.WriteString("\nFilter: " + v.filterInput.View())
	} else if v.table.filter != "" {
		b.WriteString("\nFilter: " + v.table.filter + "  (/ to edit)")
	}
	b.WriteString("\n" + mutedStyle.Render(v.helpLine()))
	return b.String()
}

func (v *importView) helpLine() string {
	if v.tab == tabRules {
		return "[n] new  [e] edit  [S] save dirty  [x] delete  [r] reload  [tab] next tab  [esc] accounts  [q] quit"
	}
	help := "[/] filter  [c] columns  [s] sort  [←→] page  [R] bypass cache  [r] reload  [tab] next tab  [esc] accounts  [q] quit"
	if v.tab == tabGenerated {
		help = "[W] record all  " + help
	}
	if v.tab == tabUnmatched {
		help = "[enter] record  " + help
	}
	return help
}

func (v *importView) columnPickerView() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Columns"))
	b.WriteString("\n")
	for i, f := range v.table.fields {
		mark := " "
		if v.table.hasColumn(f) {
			mark = "✓"
		}
		line := fmt.Sprintf("[%s] %s", mark, f)
		if i == v.colCursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(mutedStyle.Render("[space] toggle  [esc] close"))
	return b.String()
}
