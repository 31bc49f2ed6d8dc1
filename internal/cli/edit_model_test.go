package cli

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/formdraft/internal/domain"
	"github.com/alexanderramin/formdraft/internal/teatest"
)

func newEditDriver(t *testing.T, app *App) (*teatest.Driver, *session) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	sess := app.startSession(ctx, false)
	t.Cleanup(func() {
		sess.close(app.logger())
		cancel()
	})

	d := teatest.New(t, newEditModel(ctx, app, sess), teatest.WithSize(100, 40))
	d.DrainInit()
	return d, sess
}

func TestEditModel_RendersSchemaAndBadge(t *testing.T) {
	app := testApp(t)
	d, _ := newEditDriver(t, app)

	view := d.View()
	assert.Contains(t, view, "CUSTOMER ONBOARDING")
	assert.Contains(t, view, "Draft name")
	assert.Contains(t, view, "Not saved yet")
}

func TestEditModel_TypingReachesHostedForm(t *testing.T) {
	app := testApp(t)
	d, sess := newEditDriver(t, app)

	d.Type("Payroll")
	assert.Equal(t, "Payroll", sess.form.Title())
	assert.True(t, sess.scheduler.Pending())
}

func TestEditModel_CtrlSFlushesDraft(t *testing.T) {
	app := testApp(t)
	d, sess := newEditDriver(t, app)

	m := d.Model.(*editModel)
	*m.title = "Payroll"
	*m.values["flowName"] = "Ledger"
	d.SendKey(tea.KeyMsg{Type: tea.KeyCtrlS})

	rec, ok := app.Services.Drafts.CurrentDraft(context.Background())
	require.True(t, ok)
	assert.Equal(t, "Payroll", rec.Name)
	assert.Equal(t, "Ledger", rec.FormData["flowName"])
	assert.False(t, sess.scheduler.Pending())
	assert.Contains(t, d.View(), "Draft saved")
}

func TestEditModel_QuitFlushesPendingChanges(t *testing.T) {
	app := testApp(t)
	d, _ := newEditDriver(t, app)

	m := d.Model.(*editModel)
	*m.values["flowName"] = "Ledger"
	d.PressEsc()

	assert.True(t, d.Quitting)
	rec, ok := app.Services.Drafts.CurrentDraft(context.Background())
	require.True(t, ok)
	assert.Equal(t, domain.DefaultDraftName, rec.Name)
	assert.Equal(t, "Ledger", rec.FormData["flowName"])
}

func TestEditModel_LoadsCurrentDraft(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	app.Services.Drafts.SaveDraft(ctx, domain.FormData{"flowName": "Existing"}, "Mine")

	d, sess := newEditDriver(t, app)
	m := d.Model.(*editModel)

	assert.Equal(t, "Mine", *m.title)
	assert.Equal(t, "Existing", *m.values["flowName"])
	assert.False(t, sess.form.Dirty())
	assert.False(t, sess.scheduler.Pending())
	assert.Contains(t, d.View(), "Draft saved")
}

func TestEditModel_SavingIndicator(t *testing.T) {
	app := testApp(t)
	d, _ := newEditDriver(t, app)

	d.Send(savingMsg(true))
	assert.Contains(t, d.View(), "Autosaving")
	d.Send(savingMsg(false))
	assert.NotContains(t, d.View(), "Autosaving")
}
