package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ledgerdash/ledgerdash/internal/format"
	"github.com/ledgerdash/ledgerdash/internal/model"
)

// overviewView lists the configured import accounts with their reconciled
// state. Balances for all accounts load in parallel.
type overviewView struct {
	ctx context.Context
	api Backend

	accounts []model.ImportAccount
	balances map[string][]model.Balance
	errs     map[string]error
	pending  map[string]bool
	cursor   int
}

func newOverviewView(ctx context.Context, api Backend) *overviewView {
	return &overviewView{
		ctx:      ctx,
		api:      api,
		accounts: model.ImportAccounts,
		balances: map[string][]model.Balance{},
		errs:     map[string]error{},
		pending:  map[string]bool{},
	}
}

// mount starts one balance fetch per account.
func (v *overviewView) mount(bypass bool) tea.Cmd {
	var cmds []tea.Cmd
	for _, acct := range v.accounts {
		id := acct.ID
		v.pending[id] = true
		cmds = append(cmds, func() tea.Msg {
			resp, err := v.api.Balance(v.ctx, id, bypass)
			return balancesMsg{account: id, balances: resp.Balances, err: err}
		})
	}
	return tea.Batch(cmds...)
}

func (v *overviewView) update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case balancesMsg:
		delete(v.pending, m.account)
		if m.err != nil {
			v.errs[m.account] = m.err
			return nil
		}
		delete(v.errs, m.account)
		v.balances[m.account] = m.balances
		return nil
	case tea.KeyMsg:
		switch m.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(v.accounts)-1 {
				v.cursor++
			}
		case "r":
			return v.mount(false)
		case "R":
			return v.mount(true)
		}
	}
	return nil
}

// selected returns the account under the cursor.
func (v *overviewView) selected() model.ImportAccount {
	return v.accounts[v.cursor]
}

func (v *overviewView) view(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Accounts"))
	b.WriteString("\n\n")
	for i, acct := range v.accounts {
		line := fmt.Sprintf("%s %-24s %s", acct.Glyph, acct.HumanName, v.balanceSummary(acct.ID))
		if i == v.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + mutedStyle.Render("[enter] open  [p] reports  [w] save journal  [R] bypass cache  [r] reload  [q] quit"))
	return b.String()
}

func (v *overviewView) balanceSummary(id string) string {
	if v.pending[id] {
		return mutedStyle.Render("loading...")
	}
	if err := v.errs[id]; err != nil {
		return errorStyle.Render("unavailable")
	}
	balances := v.balances[id]
	if len(balances) == 0 {
		return mutedStyle.Render("no balance")
	}
	var parts []string
	for _, bal := range balances {
		real, _ := bal.Real.Float64()
		s := format.Currency(real, bal.Commodity)
		if bal.InSync() {
			parts = append(parts, okStyle.Render("✓ "+s))
		} else {
			ledger, _ := bal.Hledger.Float64()
			parts = append(parts, warnStyle.Render(fmt.Sprintf("✗ %s (ledger %s)", s, format.Currency(ledger, bal.Commodity))))
		}
	}
	return strings.Join(parts, "  ")
}
