package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/formdraft/internal/config"
	"github.com/alexanderramin/formdraft/internal/kvstore"
	"github.com/alexanderramin/formdraft/internal/notify"
	"github.com/alexanderramin/formdraft/internal/repository"
	"github.com/alexanderramin/formdraft/internal/service"
)

var testNow = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

// testApp wires a full App over an in-memory store. Autosave never fires on
// its own; tests flush explicitly.
func testApp(t *testing.T) *App {
	t.Helper()
	store := kvstore.NewMemoryStore()
	engine := service.NewEngine(context.Background(),
		repository.NewKVSubmissionRepo(store),
		repository.NewKVDraftSlotRepo(store),
		notify.NewBus(),
		service.WithClock(func() time.Time { return testNow }))

	cfg := config.DefaultConfig(t.TempDir())
	cfg.Autosave.DebounceMs = int((time.Hour).Milliseconds())

	return &App{
		Services: service.NewServices(engine),
		Config:   cfg,
		Now:      func() time.Time { return testNow },
	}
}

// executeCmd runs a cobra command and captures its output.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func mustExecute(t *testing.T, app *App, args ...string) string {
	t.Helper()
	out, err := executeCmd(t, app, args...)
	require.NoError(t, err, out)
	return out
}
