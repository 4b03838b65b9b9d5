package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/ledgerdash/ledgerdash/internal/config"
	"github.com/ledgerdash/ledgerdash/internal/model"
)

// saveView commits pending journal changes. The committer identity persists
// to the config file so the form comes prefilled next time.
type saveView struct {
	ctx context.Context
	api Backend
	cfg *config.Config

	dirty    []string
	dirtyErr error
	loading  bool
	saving   bool

	form    *huh.Form
	message string
	name    string
	email   string
}

func newSaveView(ctx context.Context, api Backend, cfg *config.Config) *saveView {
	v := &saveView{
		ctx:   ctx,
		api:   api,
		cfg:   cfg,
		name:  cfg.Committer.Name,
		email: cfg.Committer.Email,
	}
	v.form = v.newForm()
	return v
}

func (v *saveView) newForm() *huh.Form {
	v.message = ""
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Commit message").
				Value(&v.message).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("a commit message is required")
					}
					return nil
				}),
			huh.NewInput().Title("Name").Value(&v.name),
			huh.NewInput().Title("Email").Value(&v.email),
		),
	).WithShowHelp(false)
}

func (v *saveView) mount() tea.Cmd {
	v.loading = true
	return tea.Batch(v.form.Init(), v.fetchDirty())
}

func (v *saveView) fetchDirty() tea.Cmd {
	return func() tea.Msg {
		files, err := v.api.DirtyJournalFiles(v.ctx)
		return dirtyFilesMsg{files: files, err: err}
	}
}

func (v *saveView) update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case dirtyFilesMsg:
		v.loading = false
		v.dirty = m.files
		v.dirtyErr = m.err
		return nil

	case journalSavedMsg:
		v.saving = false
		if m.err != nil {
			return report(fmt.Errorf("couldn't save journal: %w", m.err))
		}
		v.form = v.newForm()
		return tea.Batch(status("journal changes committed"), v.form.Init(), v.fetchDirty())
	}

	if v.saving {
		return nil
	}
	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}
	if v.form.State == huh.StateCompleted {
		return tea.Batch(cmd, v.save())
	}
	return cmd
}

func (v *saveView) save() tea.Cmd {
	v.saving = true
	v.cfg.Committer.Name = v.name
	v.cfg.Committer.Email = v.email
	// a failed config write does not block the commit
	_ = config.Save(*v.cfg)
	req := model.SaveRequest{CommitMsg: v.message, Name: v.name, Email: v.email}
	ctx, api := v.ctx, v.api
	return func() tea.Msg {
		return journalSavedMsg{err: api.SaveJournal(ctx, req)}
	}
}

func (v *saveView) view(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Save journal"))
	b.WriteString("\n\n")
	switch {
	case v.loading:
		b.WriteString(mutedStyle.Render("Checking for changes..."))
	case v.dirtyErr != nil:
		b.WriteString(errorStyle.Render("Failed to list changed files: " + v.dirtyErr.Error()))
	case len(v.dirty) == 0:
		b.WriteString(okStyle.Render("✓ No uncommitted journal changes."))
	default:
		b.WriteString(headerStyle.Render("Changed files"))
		b.WriteString("\n")
		for _, f := range v.dirty {
			b.WriteString("  " + f + "\n")
		}
		b.WriteString("\n")
		if v.saving {
			b.WriteString(mutedStyle.Render("Committing..."))
		} else {
			b.WriteString(v.form.View())
		}
	}
	b.WriteString("\n\n" + mutedStyle.Render("[esc] back  [ctrl+c] quit"))
	return b.String()
}
