package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ledgerdash/ledgerdash/internal/model"
	"github.com/ledgerdash/ledgerdash/internal/session"
)

// Editable rule fields, in the order the editor cycles through them.
const (
	fieldPriority = iota
	fieldName
	fieldMatchField
	fieldMatchRegex
	fieldDescription
	fieldAccount
	fieldCount
)

var fieldLabels = [fieldCount]string{"priority", "name", "match field", "match regex", "description", "target account"}

// ruleEditor stages edits locally and only pushes dirty rules to the backend
// on an explicit save. A failed save keeps the failed rules dirty with their
// backend errors attached; a clean save triggers exactly one refetch.
type ruleEditor struct {
	ctx   context.Context
	api   Backend
	scope *session.Scope

	rules  []model.Rule
	dirty  map[int64]bool
	errors map[int64]string
	gen    int

	cursor  int
	editing bool
	field   int
	input   textinput.Model
	saving  bool
	loading bool
	loadErr error
}

func newRuleEditor(ctx context.Context, api Backend, scope *session.Scope) *ruleEditor {
	input := textinput.New()
	input.CharLimit = 200
	return &ruleEditor{
		ctx:    ctx,
		api:    api,
		scope:  scope,
		dirty:  map[int64]bool{},
		errors: map[int64]string{},
		input:  input,
	}
}

func (e *ruleEditor) fetch() tea.Cmd {
	e.gen++
	e.loading = true
	e.loadErr = nil
	gen := e.gen
	account := e.scope.Import.ID
	return func() tea.Msg {
		rules, err := e.api.Rules(e.ctx, account)
		return rulesMsg{gen: gen, rules: rules, err: err}
	}
}

func (e *ruleEditor) update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case rulesMsg:
		if m.gen != e.gen {
			return nil
		}
		e.loading = false
		if m.err != nil {
			e.loadErr = m.err
			return report(fmt.Errorf("couldn't fetch rules: %w", m.err))
		}
		model.SortRules(m.rules)
		e.rules = m.rules
		e.dirty = map[int64]bool{}
		e.errors = map[int64]string{}
		if e.cursor >= len(e.rules) {
			e.cursor = max(0, len(e.rules)-1)
		}
		return nil

	case ruleSaveDoneMsg:
		e.saving = false
		// clear only the rules this save actually delivered, so an edit
		// staged while the save was in flight keeps its dirty mark
		for _, id := range m.attempted {
			if _, failed := m.errors[id]; !failed {
				delete(e.dirty, id)
				delete(e.errors, id)
			}
		}
		for id, msg := range m.errors {
			e.dirty[id] = true
			e.errors[id] = msg
		}
		if len(m.errors) > 0 {
			return status(fmt.Sprintf("%d rule(s) failed to save", len(m.errors)))
		}
		if len(e.dirty) > 0 {
			return status("rules saved")
		}
		return tea.Batch(status("rules saved"), e.fetch())

	case ruleMutatedMsg:
		if m.err != nil {
			return tea.Batch(report(fmt.Errorf("rule change failed: %w", m.err)), e.fetch())
		}
		return e.fetch()
	}
	return nil
}

// save fans the dirty rules out to the backend concurrently and collects
// per-rule failures. Validation messages from the backend count as failures.
func (e *ruleEditor) save() tea.Cmd {
	if e.saving || len(e.dirty) == 0 {
		return nil
	}
	e.saving = true
	var pending []model.Rule
	for _, r := range e.rules {
		if e.dirty[r.ID] {
			pending = append(pending, r)
		}
	}
	ctx, api, account := e.ctx, e.api, e.scope.Import.ID
	return func() tea.Msg {
		var (
			mu   sync.Mutex
			wg   sync.WaitGroup
			errs = map[int64]string{}
		)
		attempted := make([]int64, 0, len(pending))
		for _, rule := range pending {
			attempted = append(attempted, rule.ID)
			wg.Add(1)
			go func(rule model.Rule) {
				defer wg.Done()
				validation, err := api.SetRule(ctx, account, rule)
				if err == nil && validation != "" {
					err = fmt.Errorf("%s", validation)
				}
				if err != nil {
					mu.Lock()
					errs[rule.ID] = err.Error()
					mu.Unlock()
				}
			}(rule)
		}
		wg.Wait()
		return ruleSaveDoneMsg{attempted: attempted, errors: errs}
	}
}

func (e *ruleEditor) handleKey(m tea.KeyMsg) (tea.Cmd, bool) {
	if e.editing {
		switch m.String() {
		case "enter":
			e.commitField()
			e.editing = false
			e.input.Blur()
		case "esc":
			e.editing = false
			e.input.Blur()
		default:
			var cmd tea.Cmd
			e.input, cmd = e.input.Update(m)
			return cmd, true
		}
		return nil, true
	}

	switch m.String() {
	case "up", "k":
		if e.cursor > 0 {
			e.cursor--
		}
		return nil, true
	case "down", "j":
		if e.cursor < len(e.rules)-1 {
			e.cursor++
		}
		return nil, true
	case "left":
		if e.field > 0 {
			e.field--
		}
		return nil, true
	case "right":
		if e.field < fieldCount-1 {
			e.field++
		}
		return nil, true
	case "e", "enter":
		if e.cursor < len(e.rules) {
			e.editing = true
			e.input.SetValue(e.fieldValue(e.rules[e.cursor]))
			e.input.CursorEnd()
			e.input.Focus()
			return textinput.Blink, true
		}
		return nil, true
	case "n":
		rule := model.NewRule()
		ctx, api, account := e.ctx, e.api, e.scope.Import.ID
		return func() tea.Msg {
			_, err := api.SetRule(ctx, account, rule)
			return ruleMutatedMsg{err: err}
		}, true
	case "x":
		if e.cursor < len(e.rules) {
			id := e.rules[e.cursor].ID
			ctx, api := e.ctx, e.api
			return func() tea.Msg {
				return ruleMutatedMsg{err: api.DeleteRule(ctx, id)}
			}, true
		}
		return nil, true
	case "S":
		return e.save(), true
	}
	return nil, false
}

func (e *ruleEditor) fieldValue(r model.Rule) string {
	switch e.field {
	case fieldPriority:
		return strconv.Itoa(r.Priority)
	case fieldName:
		return r.RuleName
	case fieldMatchField:
		return r.MatchFieldName
	case fieldMatchRegex:
		return r.MatchFieldRegex
	case fieldDescription:
		return r.DescriptionTemplate
	case fieldAccount:
		if len(r.Postings) > 0 {
			return r.Postings[0].Account
		}
	}
	return ""
}

func (e *ruleEditor) commitField() {
	if e.cursor >= len(e.rules) {
		return
	}
	r := &e.rules[e.cursor]
	value := e.input.Value()
	switch e.field {
	case fieldPriority:
		if p, err := strconv.Atoi(value); err == nil {
			r.Priority = p
		}
	case fieldName:
		r.RuleName = value
	case fieldMatchField:
		r.MatchFieldName = value
	case fieldMatchRegex:
		r.MatchFieldRegex = value
	case fieldDescription:
		r.DescriptionTemplate = value
	case fieldAccount:
		if len(r.Postings) == 0 {
			r.Postings = append(r.Postings, model.RulePosting{Negate: true})
		}
		r.Postings[0].Account = value
	}
	e.dirty[r.ID] = true
}

func (e *ruleEditor) view(width int) string {
	if e.loading {
		return mutedStyle.Render("Loading...")
	}
	if e.loadErr != nil {
		return errorStyle.Render("Failed to fetch: " + e.loadErr.Error())
	}
	var b strings.Builder
	header := fmt.Sprintf("%-5s %-20s %-15s %-25s %-25s %s", "prio", "name", "field", "regex", "description", "account")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")
	for i, r := range e.rules {
		account := ""
		if len(r.Postings) > 0 {
			account = r.Postings[0].Account
		}
		line := fmt.Sprintf("%-5d %-20s %-15s %-25s %-25s %s",
			r.Priority, trunc(r.RuleName, 20), trunc(r.MatchFieldName, 15),
			trunc(r.MatchFieldRegex, 25), trunc(r.DescriptionTemplate, 25), account)
		switch {
		case i == e.cursor:
			line = selectedStyle.Render(line)
		case e.errors[r.ID] != "":
			line = errorStyle.Render(line)
		case e.dirty[r.ID]:
			line = warnStyle.Render(line)
		}
		b.WriteString(line)
		if e.dirty[r.ID] {
			b.WriteString(warnStyle.Render(" *"))
		}
		b.WriteString("\n")
		if msg := e.errors[r.ID]; msg != "" {
			b.WriteString(errorStyle.Render("    ✗ " + msg))
			b.WriteString("\n")
		}
	}
	if len(e.rules) == 0 {
		b.WriteString(mutedStyle.Render("No rules yet. Press n to create one."))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if e.editing && e.cursor < len(e.rules) {
		b.WriteString(fmt.Sprintf("Edit %s: %s", fieldLabels[e.field], e.input.View()))
	} else {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("field: %s  (←→ to switch)", fieldLabels[e.field])))
		if e.saving {
			b.WriteString("  " + mutedStyle.Render("saving..."))
		} else if len(e.dirty) > 0 {
			b.WriteString(fmt.Sprintf("  %d unsaved", len(e.dirty)))
		}
	}
	return b.String()
}

func trunc(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
