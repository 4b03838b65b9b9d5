package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ledgerdash/ledgerdash/internal/format"
	"github.com/ledgerdash/ledgerdash/internal/model"
	"github.com/ledgerdash/ledgerdash/internal/session"
)

const previewDelay = 250 * time.Millisecond

// errCancelled closes the modal without recording anything.
var errCancelled = errors.New("cancelled")

const (
	focusAccount = iota
	focusDescription
)

// recordModal assigns an unmatched transaction to a ledger account. Every
// edit schedules a dry-run preview after a short debounce; confirming
// repeats the same request with the write flag set.
type recordModal struct {
	ctx   context.Context
	api   Backend
	scope *session.Scope
	row   model.RealTransaction

	accountInput textinput.Model
	descInput    textinput.Model
	focus        int
	suggestions  []string
	sugCursor    int

	preview    *model.HledgerTransaction
	previewErr error
	pending    bool
	gen        int
	debounce   int
	confirming bool
}

func newRecordModal(ctx context.Context, api Backend, scope *session.Scope, row model.RealTransaction) *recordModal {
	account := textinput.New()
	account.Placeholder = "expenses:"
	account.CharLimit = 120
	account.Focus()
	desc := textinput.New()
	desc.SetValue("{{description}}")
	desc.CharLimit = 200
	return &recordModal{
		ctx:          ctx,
		api:          api,
		scope:        scope,
		row:          row,
		accountInput: account,
		descInput:    desc,
	}
}

func (r *recordModal) mount() tea.Cmd {
	return tea.Batch(textinput.Blink, r.schedulePreview())
}

// schedulePreview arms the debounce timer. Each call invalidates the previous
// token so only the last pending tick fires a request.
func (r *recordModal) schedulePreview() tea.Cmd {
	r.debounce++
	token := r.debounce
	return tea.Tick(previewDelay, func(time.Time) tea.Msg {
		return previewTickMsg{token: token}
	})
}

func (r *recordModal) request(write bool) model.TransactionRequest {
	return model.TransactionRequest{
		DescriptionTemplate: r.descInput.Value(),
		SourceTransaction:   r.row,
		Postings: []model.RulePosting{{
			Account: r.accountInput.Value(),
			Negate:  true,
		}},
		ShouldWrite: write,
	}
}

func (r *recordModal) generate() tea.Cmd {
	r.gen++
	r.pending = true
	gen := r.gen
	ctx, api, account, req := r.ctx, r.api, r.scope.Import.ID, r.request(false)
	return func() tea.Msg {
		txn, err := api.GenerateTransaction(ctx, account, req)
		return previewMsg{gen: gen, txn: txn, err: err}
	}
}

func (r *recordModal) update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case previewTickMsg:
		if m.token != r.debounce {
			return nil // a newer edit rescheduled
		}
		return r.generate()

	case previewMsg:
		if m.gen != r.gen {
			return nil
		}
		r.pending = false
		if m.err != nil {
			r.preview = nil
			r.previewErr = m.err
			return nil
		}
		txn := m.txn
		r.preview = &txn
		r.previewErr = nil
		return nil

	case tea.KeyMsg:
		return r.handleKey(m)
	}
	return nil
}

func (r *recordModal) handleKey(m tea.KeyMsg) tea.Cmd {
	switch m.String() {
	case "esc":
		return func() tea.Msg { return recordDoneMsg{err: errCancelled} }
	case "tab":
		if len(r.suggestions) > 0 && r.focus == focusAccount {
			r.accountInput.SetValue(r.suggestions[r.sugCursor])
			r.accountInput.CursorEnd()
			r.refreshSuggestions()
			return r.schedulePreview()
		}
		r.toggleFocus()
		return nil
	case "down":
		if r.focus == focusAccount && r.sugCursor < len(r.suggestions)-1 {
			r.sugCursor++
		}
		return nil
	case "up":
		if r.focus == focusAccount && r.sugCursor > 0 {
			r.sugCursor--
		}
		return nil
	case "enter":
		if r.confirming {
			return nil
		}
		if r.accountInput.Value() == "" {
			return status("choose a target account first")
		}
		r.confirming = true
		ctx, api, account, req := r.ctx, r.api, r.scope.Import.ID, r.request(true)
		return func() tea.Msg {
			_, err := api.GenerateTransaction(ctx, account, req)
			return recordDoneMsg{err: err}
		}
	}

	var cmd tea.Cmd
	if r.focus == focusAccount {
		r.accountInput, cmd = r.accountInput.Update(m)
		r.refreshSuggestions()
	} else {
		r.descInput, cmd = r.descInput.Update(m)
	}
	return tea.Batch(cmd, r.schedulePreview())
}

func (r *recordModal) toggleFocus() {
	if r.focus == focusAccount {
		r.focus = focusDescription
		r.accountInput.Blur()
		r.descInput.Focus()
	} else {
		r.focus = focusAccount
		r.descInput.Blur()
		r.accountInput.Focus()
	}
}

func (r *recordModal) refreshSuggestions() {
	r.suggestions = r.scope.Suggest(r.accountInput.Value(), 5)
	if r.sugCursor >= len(r.suggestions) {
		r.sugCursor = 0
	}
}

func (r *recordModal) view(width int) string {
	var b strings.Builder
	acct := r.scope.Import
	b.WriteString(headerStyle.Render("Record transaction"))
	b.WriteString("\n\n")
	date, _ := r.row.Field(acct.DateColumn)
	b.WriteString(format.Date(date))
	if desc, ok := r.row.Field("description"); ok && desc != "" {
		b.WriteString("  " + desc)
	}
	if amt, ok := r.row.Amount(acct.AmountColumns); ok {
		currency, _ := r.row.Field("currency")
		f, _ := amt.Float64()
		b.WriteString("  " + format.Currency(f, currency))
	}
	b.WriteString("\n\n")

	b.WriteString("Account:     " + r.accountInput.View() + "\n")
	if r.focus == focusAccount {
		for i, s := range r.suggestions {
			if i == r.sugCursor {
				b.WriteString(selectedStyle.Render("  " + s))
			} else {
				b.WriteString(mutedStyle.Render("  " + s))
			}
			b.WriteString("\n")
		}
	}
	b.WriteString("Description: " + r.descInput.View() + "\n\n")

	switch {
	case r.pending:
		b.WriteString(mutedStyle.Render("Generating preview..."))
	case r.previewErr != nil:
		b.WriteString(errorStyle.Render("Preview failed: " + r.previewErr.Error()))
	case r.preview != nil:
		b.WriteString(renderJournal(*r.preview))
	}
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("[enter] record  [tab] accept suggestion / switch field  [esc] cancel"))
	return modalStyle.Width(min(width-4, 80)).Render(b.String())
}

// renderJournal prints a transaction the way it would appear in the journal
// file.
func renderJournal(t model.HledgerTransaction) string {
	var b strings.Builder
	b.WriteString(strings.SplitN(t.Date, "T", 2)[0])
	b.WriteString(" " + t.Description + "\n")
	for _, p := range t.Postings {
		b.WriteString(fmt.Sprintf("    %-40s", p.Account))
		for i, a := range p.Amounts {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(fmt.Sprintf("%s %s", a.Quantity.Decimal().String(), a.Commodity))
		}
		b.WriteString("\n")
	}
	return b.String()
}
