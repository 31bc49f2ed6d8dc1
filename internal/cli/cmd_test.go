package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/formdraft/internal/domain"
)

func TestListCmd_Empty(t *testing.T) {
	app := testApp(t)
	out := mustExecute(t, app, "list")
	assert.Contains(t, out, "No records found.")
}

func TestSubmitCmd_WithFlags(t *testing.T) {
	app := testApp(t)

	out := mustExecute(t, app, "submit", "--name", "Payroll", "--set", "flowName=Payroll", "--set", "transferMethod=SFTP")
	assert.Contains(t, out, "Submitted")

	subs := app.Services.Registry.ListByStatus(context.Background(), domain.StatusSubmitted)
	require.Len(t, subs, 1)
	assert.Equal(t, "Payroll", subs[0].Name)
	assert.Equal(t, "SFTP", subs[0].FormData["transferMethod"])
	assert.Equal(t, "", subs[0].FormData["sourceSystemName"])

	out = mustExecute(t, app, "list", "--status", "submitted")
	assert.Contains(t, out, "Payroll")

	_, err := executeCmd(t, app, "list", "--status", "bogus")
	assert.ErrorContains(t, err, "invalid status")
}

func TestSubmitCmd_UsesCurrentDraft(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "submit")
	assert.ErrorIs(t, err, errNothingToSubmit)

	mustExecute(t, app, "draft", "save", "--name", "Working", "--data", `{"flowName":"Ledger"}`)
	out := mustExecute(t, app, "submit")
	assert.Contains(t, out, "Working")

	_, ok := app.Services.Drafts.CurrentDraft(context.Background())
	assert.False(t, ok, "submit clears the draft slot")
	subs := app.Services.Registry.ListByStatus(context.Background(), domain.StatusSubmitted)
	require.Len(t, subs, 1)
	assert.Equal(t, "Ledger", subs[0].FormData["flowName"])
}

func TestSubmitAndTemplateCmds_RefuseEmptyData(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "submit", "--set", "flowName=  ")
	assert.ErrorIs(t, err, errEmptyFormData)
	_, err = executeCmd(t, app, "template", "save", "--name", "T", "--data", `{"flowName":""}`)
	assert.ErrorIs(t, err, errEmptyFormData)

	assert.Empty(t, app.Services.Registry.List(context.Background()))
}

func TestDraftCmds(t *testing.T) {
	app := testApp(t)

	out := mustExecute(t, app, "draft", "show")
	assert.Contains(t, out, "No current draft.")

	out = mustExecute(t, app, "draft", "save")
	assert.Contains(t, out, "Nothing to save.")

	out = mustExecute(t, app, "draft", "save", "--name", "Mine", "--set", "flowName=Ledger")
	assert.Contains(t, out, "Draft saved")

	out = mustExecute(t, app, "draft", "save", "--set", "sourceSystemName=ERP")
	assert.Contains(t, out, "Draft saved")

	d, ok := app.Services.Drafts.CurrentDraft(context.Background())
	require.True(t, ok)
	assert.Equal(t, "Mine", d.Name)
	assert.Equal(t, "Ledger", d.FormData["flowName"])
	assert.Equal(t, "ERP", d.FormData["sourceSystemName"])

	out = mustExecute(t, app, "draft", "show")
	assert.Contains(t, out, "MINE")
	assert.Contains(t, out, "Ledger")

	mustExecute(t, app, "draft", "clear")
	_, ok = app.Services.Drafts.CurrentDraft(context.Background())
	assert.False(t, ok)
	assert.Len(t, app.Services.Registry.ListByStatus(context.Background(), domain.StatusDraft), 1,
		"clearing the slot keeps the registry copy")
}

func TestDraftLoadCmd_CopiesSubmission(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	id := app.Services.Drafts.SubmitForm(ctx, domain.FormData{"flowName": "Payroll"}, "Payroll")

	out := mustExecute(t, app, "draft", "load", id[:4])
	assert.Contains(t, out, "Copy of Payroll")

	d, ok := app.Services.Drafts.CurrentDraft(ctx)
	require.True(t, ok)
	assert.True(t, d.ClonedCopy)
	assert.NotEqual(t, id, d.ID)
}

func TestShowAndDeleteCmds(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	id := app.Services.Drafts.SubmitForm(ctx, domain.FormData{"flowName": "Payroll"}, "Payroll")

	out := mustExecute(t, app, "show", id)
	assert.Contains(t, out, "PAYROLL")
	assert.Contains(t, out, "Flow name")

	_, err := executeCmd(t, app, "show", "nope")
	assert.ErrorIs(t, err, errRecordNotFound)

	out = mustExecute(t, app, "delete", id)
	assert.Contains(t, out, "Deleted")
	assert.Empty(t, app.Services.Registry.List(ctx))

	_, err = executeCmd(t, app, "delete", id)
	assert.ErrorIs(t, err, errRecordNotFound)
}

func TestResolveRecord_AmbiguousPrefix(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	app.Services.Registry.Upsert(ctx, domain.Record{ID: "abc-1", Name: "A", Status: domain.StatusSubmitted, FormData: domain.FormData{"x": "1"}})
	app.Services.Registry.Upsert(ctx, domain.Record{ID: "abc-2", Name: "B", Status: domain.StatusSubmitted, FormData: domain.FormData{"x": "2"}})

	_, err := resolveRecord(ctx, app, "abc")
	assert.ErrorContains(t, err, "matches 2 records")

	rec, err := resolveRecord(ctx, app, "abc-2")
	require.NoError(t, err)
	assert.Equal(t, "B", rec.Name)
}

func TestTemplateCmds(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	id := app.Services.Drafts.SubmitForm(ctx, domain.FormData{"flowName": "Payroll"}, "Payroll")

	out := mustExecute(t, app, "template", "save", "--from", id)
	assert.Contains(t, out, "Template saved")

	_, err := executeCmd(t, app, "template", "save", "--from", id)
	assert.ErrorContains(t, err, "already exists")

	mustExecute(t, app, "template", "save", "--from", id, "--force")

	out = mustExecute(t, app, "template", "list")
	assert.Contains(t, out, "Payroll")
	assert.Len(t, app.Services.Registry.ListByStatus(ctx, domain.StatusTemplate), 2)
}

func TestExportImportCmds_RoundTrip(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	id := app.Services.Drafts.SubmitForm(ctx, domain.FormData{"flowName": "Payroll"}, "Payroll Flow")
	dir := t.TempDir()

	out := mustExecute(t, app, "export", id, "--dir", dir)
	path := filepath.Join(dir, "payroll_flow.json")
	assert.Contains(t, out, path)
	_, err := os.Stat(path)
	require.NoError(t, err)

	out = mustExecute(t, app, "export", id, "--stdout")
	assert.Contains(t, out, `"formData"`)

	out = mustExecute(t, app, "import", path)
	assert.Contains(t, out, "Imported")

	list := app.Services.Registry.List(ctx)
	require.Len(t, list, 2)
	assert.NotEqual(t, list[0].ID, list[1].ID)
	assert.Equal(t, list[0].FormData, list[1].FormData)
}

func TestImportCmd_InvalidFile(t *testing.T) {
	app := testApp(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"no id"}`), 0o644))

	_, err := executeCmd(t, app, "import", path)
	assert.Error(t, err)
	assert.Empty(t, app.Services.Registry.List(context.Background()))
}

func TestRecordInput_FormData(t *testing.T) {
	base := domain.FormData{"a": "1", "b": "2"}

	got, err := recordInput{data: `{"b":"x","c":true}`, set: []string{"a=z=z"}}.formData(base)
	require.NoError(t, err)
	assert.Equal(t, domain.FormData{"a": "z=z", "b": "x", "c": true}, got)
	assert.Equal(t, "1", base["a"], "base is not modified")

	_, err = recordInput{set: []string{"novalue"}}.formData(nil)
	assert.ErrorContains(t, err, "expected name=value")

	_, err = recordInput{data: `[1,2]`}.formData(nil)
	assert.ErrorContains(t, err, "parsing form data")
}

func TestRootCmd_NonInteractiveShowsHelp(t *testing.T) {
	app := testApp(t)
	app.IsInteractive = func() bool { return false }
	out := mustExecute(t, app)
	assert.Contains(t, out, "formdraft")
	assert.Contains(t, out, "submit")
}
