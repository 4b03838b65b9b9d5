package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ledgerdash/ledgerdash/internal/model"
)

// Fetch results carry the generation they were requested under; handlers
// drop anything that a later request has superseded.

type pingMsg struct{ err error }

type accountsMsg struct {
	gen   int
	names []string
	err   error
}

type balancesMsg struct {
	account  string
	balances []model.Balance
	err      error
}

type rowsMsg struct {
	gen  int
	tab  tabID
	rows []model.TransactionRow
	err  error
}

type rulesMsg struct {
	gen   int
	rules []model.Rule
	err   error
}

// ruleSaveDoneMsg reports a batched rule save: the rule ids that went out,
// plus one entry per rule the backend rejected, keyed by rule id.
type ruleSaveDoneMsg struct {
	attempted []int64
	errors    map[int64]string
}

// ruleMutatedMsg follows an immediate rule delete or create.
type ruleMutatedMsg struct{ err error }

type previewTickMsg struct{ token int }

type previewMsg struct {
	gen int
	txn model.HledgerTransaction
	err error
}

type recordDoneMsg struct{ err error }

type writeDoneMsg struct{ err error }

type incomeStatementMsg struct {
	gen  int
	resp model.IncomeStatementResponse
	err  error
}

type netWorthMsg struct {
	gen  int
	data model.AlignedData
	err  error
}

type dirtyFilesMsg struct {
	files []string
	err   error
}

type journalSavedMsg struct{ err error }

type statusMsg string

func status(s string) tea.Cmd {
	return func() tea.Msg { return statusMsg(s) }
}

func report(err error) tea.Cmd {
	return func() tea.Msg { return statusMsg(err.Error()) }
}
