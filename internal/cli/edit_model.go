package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/alexanderramin/formdraft/internal/cli/formatter"
	"github.com/alexanderramin/formdraft/internal/domain"
	"github.com/alexanderramin/formdraft/internal/form"
)

type savingMsg bool

// editModel hosts the schema-driven huh form. Every change is mirrored into
// the session's form.Form, which drives autosave.
type editModel struct {
	app     *App
	sess    *session
	ctx     context.Context
	schema  *form.Schema
	huh     *huh.Form
	title   *string
	values  map[string]*string
	spinner spinner.Model
	saving  bool
	savingC <-chan bool

	width     int
	completed bool
	quitting  bool
}

func newEditModel(ctx context.Context, app *App, sess *session) *editModel {
	schema := sess.form.Schema()
	title := sess.form.Title()
	current := sess.form.Values()

	values := make(map[string]*string)
	for _, f := range schema.Fields() {
		v := fieldString(current[f.Name])
		values[f.Name] = &v
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = formatter.StylePurple

	m := &editModel{
		app:     app,
		sess:    sess,
		ctx:     ctx,
		schema:  schema,
		title:   &title,
		values:  values,
		spinner: sp,
		savingC: sess.scheduler.Saving().Watch(ctx),
	}
	m.huh = buildHuhForm(schema, m.title, values)
	return m
}

func buildHuhForm(schema *form.Schema, title *string, values map[string]*string) *huh.Form {
	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewInput().
				Title("Draft name").
				Placeholder(domain.DefaultDraftName).
				Value(title),
		).Title(schema.Title),
	}

	snapshot := func() domain.FormData {
		out := make(domain.FormData, len(values))
		for k, v := range values {
			out[k] = *v
		}
		return out
	}

	for _, sec := range schema.Sections {
		var plain []huh.Field
		var conditional []*huh.Group
		for _, f := range sec.Fields {
			field := huhField(f, values[f.Name])
			if f.ShowWhen == nil {
				plain = append(plain, field)
				continue
			}
			conditional = append(conditional, huh.NewGroup(field).
				Title(sec.Title).
				WithHideFunc(func() bool { return !f.Visible(snapshot()) }))
		}
		if len(plain) > 0 {
			groups = append(groups, huh.NewGroup(plain...).Title(sec.Title))
		}
		groups = append(groups, conditional...)
	}

	return huh.NewForm(groups...).WithTheme(huhTheme()).WithShowHelp(false)
}

func huhField(f form.Field, value *string) huh.Field {
	switch f.Kind {
	case form.KindSelect:
		opts := []huh.Option[string]{huh.NewOption("(none)", "")}
		opts = append(opts, huh.NewOptions(f.Options...)...)
		return huh.NewSelect[string]().
			Title(f.Label).
			Options(opts...).
			Value(value)
	case form.KindText:
		return huh.NewText().
			Title(f.Label).
			Placeholder(f.Placeholder).
			Value(value)
	default:
		return huh.NewInput().
			Title(f.Label).
			Placeholder(f.Placeholder).
			Value(value)
	}
}

func fieldString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func waitSaving(ch <-chan bool) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-ch
		if !ok {
			return nil
		}
		return savingMsg(v)
	}
}

func (m *editModel) Init() tea.Cmd {
	return tea.Batch(m.huh.Init(), waitSaving(m.savingC))
}

func (m *editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.huh = m.huh.WithWidth(min(msg.Width, 100))
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, m.quit()
		case tea.KeyCtrlS:
			m.sync()
			m.sess.scheduler.Flush()
			return m, nil
		}
	case savingMsg:
		m.saving = bool(msg)
		cmds := []tea.Cmd{waitSaving(m.savingC)}
		if m.saving {
			cmds = append(cmds, m.spinner.Tick)
		}
		return m, tea.Batch(cmds...)
	case spinner.TickMsg:
		if !m.saving {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	updated, cmd := m.huh.Update(msg)
	if f, ok := updated.(*huh.Form); ok {
		m.huh = f
	}
	m.sync()

	switch m.huh.State {
	case huh.StateCompleted:
		m.completed = true
		return m, m.quit()
	case huh.StateAborted:
		return m, m.quit()
	}
	return m, cmd
}

// sync pushes the huh-bound values into the hosted form. Unchanged fields
// emit nothing.
func (m *editModel) sync() {
	if *m.title != m.sess.form.Title() {
		m.sess.form.SetTitle(*m.title)
	}
	current := m.sess.form.Values()
	for _, f := range m.schema.Fields() {
		v := *m.values[f.Name]
		if v != fieldString(current[f.Name]) {
			_ = m.sess.form.SetValue(f.Name, v)
		}
	}
}

func (m *editModel) quit() tea.Cmd {
	m.sync()
	m.sess.scheduler.Flush()
	m.quitting = true
	return tea.Quit
}

// badge shows where the current draft stands in the registry.
func (m *editModel) badge() string {
	draft, ok := m.app.Services.Drafts.CurrentDraft(m.ctx)
	switch {
	case !ok:
		return formatter.Dim("○ Not saved yet")
	case draft.ClonedCopy:
		return formatter.StyleBlue.Render("◇ Copy, not saved yet")
	}
	if _, ok := m.app.Services.Registry.Get(m.ctx, draft.ID); ok {
		return formatter.StyleGreen.Render("● Draft saved") + " " + formatter.TruncID(draft.ID)
	}
	return formatter.StyleYellow.Render("○ Draft pending")
}

func (m *editModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(formatter.Header(m.schema.Title))
	b.WriteString("\n\n")
	b.WriteString(m.huh.View())
	b.WriteString("\n\n")
	if m.saving {
		b.WriteString(m.spinner.View() + " " + formatter.Dim("Autosaving…"))
	} else {
		b.WriteString(m.badge())
	}
	b.WriteString("\n")
	b.WriteString(formatter.Dim("enter next • shift+tab back • ctrl+s save • esc quit"))
	return b.String()
}
