package autosave

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/formdraft/internal/domain"
	"github.com/alexanderramin/formdraft/internal/form"
	"github.com/alexanderramin/formdraft/internal/kvstore"
	"github.com/alexanderramin/formdraft/internal/notify"
	"github.com/alexanderramin/formdraft/internal/repository"
	"github.com/alexanderramin/formdraft/internal/service"
)

const testDebounce = 20 * time.Millisecond

type saveCall struct {
	Data domain.FormData
	Name string
}

// fakeSaver records saves and keeps the last one as the current draft.
type fakeSaver struct {
	mu      sync.Mutex
	calls   []saveCall
	current *domain.Record
}

func (f *fakeSaver) SaveDraft(_ context.Context, data domain.FormData, name string) (domain.Record, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, saveCall{Data: data, Name: name})
	rec := domain.Record{ID: "d1", Name: name, FormData: data, Status: domain.StatusDraft}
	f.current = &rec
	return rec, true
}

func (f *fakeSaver) CurrentDraft(context.Context) (domain.Record, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == nil {
		return domain.Record{}, false
	}
	return *f.current, true
}

func (f *fakeSaver) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeSaver) last() saveCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func startScheduler(t *testing.T, saver DraftSaver) (*Scheduler, *form.Form) {
	t.Helper()
	f := form.New(nil)
	s := New(f, saver, WithDebounce(testDebounce))
	s.Start(context.Background())
	t.Cleanup(s.Stop)
	return s, f
}

func TestScheduler_DebouncesToLatestSnapshot(t *testing.T) {
	saver := &fakeSaver{}
	s, f := startScheduler(t, saver)

	require.NoError(t, f.SetValue("flowName", "P"))
	require.NoError(t, f.SetValue("flowName", "Pa"))
	require.NoError(t, f.SetValue("flowName", "Payroll"))
	assert.True(t, s.Pending())

	require.Eventually(t, func() bool { return saver.count() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(3 * testDebounce)
	assert.Equal(t, 1, saver.count())

	call := saver.last()
	assert.Equal(t, "Payroll", call.Data["flowName"])
	assert.Equal(t, domain.DefaultDraftName, call.Name)
	assert.False(t, f.Dirty(), "form marked clean after save")
}

func TestScheduler_SkipsWhenNothingMeaningful(t *testing.T) {
	saver := &fakeSaver{}
	s, f := startScheduler(t, saver)

	require.NoError(t, f.SetValue("flowName", "   "))
	f.SetTitle(domain.DefaultDraftName)
	assert.False(t, s.Flush())
	assert.Equal(t, 0, saver.count())
}

func TestScheduler_TitleAloneIsEnough(t *testing.T) {
	saver := &fakeSaver{}
	s, f := startScheduler(t, saver)

	f.SetTitle("  Quarterly feed ")
	assert.True(t, s.Flush())
	assert.Equal(t, "Quarterly feed", saver.last().Name)
}

func TestScheduler_TitleAloneReachesDraftSlot(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	e := service.NewEngine(ctx,
		repository.NewKVSubmissionRepo(store),
		repository.NewKVDraftSlotRepo(store),
		notify.NewBus())
	svcs := service.NewServices(e)
	s, f := startScheduler(t, svcs.Drafts)

	f.SetTitle("Quarterly feed")
	require.True(t, s.Flush())

	cur, ok := svcs.Drafts.CurrentDraft(ctx)
	require.True(t, ok)
	assert.Equal(t, "Quarterly feed", cur.Name)
	_, present, err := store.Get(ctx, repository.DraftKey)
	require.NoError(t, err)
	assert.True(t, present)
	assert.Empty(t, svcs.Registry.List(ctx), "no content, no registry entry")
	assert.False(t, f.Dirty())

	require.NoError(t, f.SetValue("flowName", "Payroll"))
	require.True(t, s.Flush())
	drafts := svcs.Registry.ListByStatus(ctx, domain.StatusDraft)
	require.Len(t, drafts, 1)
	assert.Equal(t, cur.ID, drafts[0].ID)
	assert.Equal(t, "Quarterly feed", drafts[0].Name)
}

func TestScheduler_SkipsUnchangedCleanForm(t *testing.T) {
	data := form.DefaultSchema().EmptyValues()
	data["flowName"] = "x"
	saver := &fakeSaver{current: &domain.Record{ID: "d1", Name: "Flow", FormData: data}}
	s, f := startScheduler(t, saver)

	s.LoadInto(*saver.current)
	f.SetTitle("Flow")
	assert.False(t, s.Pending(), "unchanged title emits nothing")

	// A change and its revert leave equal data but a dirty form.
	require.NoError(t, f.SetValue("flowName", "y"))
	require.NoError(t, f.SetValue("flowName", "x"))
	f.MarkClean()
	assert.False(t, s.Flush())
	assert.Equal(t, 0, saver.count())
}

func TestScheduler_LoadIntoDoesNotAutosave(t *testing.T) {
	saver := &fakeSaver{}
	s, f := startScheduler(t, saver)

	s.LoadInto(domain.Record{ID: "s1", Name: "Copy of Flow", FormData: domain.FormData{"flowName": "Flow"}})

	assert.False(t, s.Pending())
	time.Sleep(3 * testDebounce)
	assert.Equal(t, 0, saver.count())
	assert.Equal(t, "Copy of Flow", f.Title())
	assert.Equal(t, "Flow", f.Values()["flowName"])
	assert.False(t, f.Dirty())
}

func TestScheduler_SuspendDropsPending(t *testing.T) {
	saver := &fakeSaver{}
	s, f := startScheduler(t, saver)

	require.NoError(t, f.SetValue("flowName", "x"))
	s.Suspend()
	require.NoError(t, f.SetValue("flowName", "y"))
	assert.False(t, s.Pending())
	time.Sleep(3 * testDebounce)
	s.Resume()

	assert.Equal(t, 0, saver.count())

	require.NoError(t, f.SetValue("flowName", "z"))
	assert.True(t, s.Flush())
	assert.Equal(t, "z", saver.last().Data["flowName"])
}

func TestScheduler_StopDropsPending(t *testing.T) {
	saver := &fakeSaver{}
	s, f := startScheduler(t, saver)

	require.NoError(t, f.SetValue("flowName", "x"))
	s.Stop()
	time.Sleep(3 * testDebounce)
	assert.Equal(t, 0, saver.count())

	require.NoError(t, f.SetValue("flowName", "y"))
	assert.False(t, s.Pending(), "stopped scheduler ignores events")
}

func TestScheduler_SavingIndicator(t *testing.T) {
	saver := &fakeSaver{}
	s, f := startScheduler(t, saver)

	var mu sync.Mutex
	var states []bool
	cancel := s.Saving().Subscribe(func(v bool) {
		mu.Lock()
		states = append(states, v)
		mu.Unlock()
	})
	defer cancel()

	require.NoError(t, f.SetValue("flowName", "x"))
	require.True(t, s.Flush())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{false, true, false}, states)
}

func TestScheduler_WithDraftService(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	e := service.NewEngine(ctx,
		repository.NewKVSubmissionRepo(store),
		repository.NewKVDraftSlotRepo(store),
		notify.NewBus())
	svcs := service.NewServices(e)
	s, f := startScheduler(t, svcs.Drafts)

	require.NoError(t, f.SetValue("flowName", "Payroll"))
	require.True(t, s.Flush())
	require.NoError(t, f.SetValue("transferMethod", "API"))
	require.True(t, s.Flush())

	drafts := svcs.Registry.ListByStatus(ctx, domain.StatusDraft)
	require.Len(t, drafts, 1)
	assert.Equal(t, "API", drafts[0].FormData["transferMethod"])

	// Loading a submission as a copy and saving it creates one new draft and
	// leaves the submission alone.
	sid := svcs.Drafts.SubmitForm(ctx, f.Values(), "Payroll")
	copyRec, ok := svcs.Drafts.LoadSubmissionAsDraft(ctx, sid)
	require.True(t, ok)
	s.LoadInto(copyRec)
	assert.False(t, s.Flush(), "nothing pending after a guarded load")

	require.NoError(t, f.SetValue("specificTime", "04:00"))
	require.True(t, s.Flush())
	require.NoError(t, f.SetValue("specificTime", "05:00"))
	require.True(t, s.Flush())

	drafts = svcs.Registry.ListByStatus(ctx, domain.StatusDraft)
	assert.Len(t, drafts, 2)
	sub, _ := svcs.Registry.Get(ctx, sid)
	assert.Equal(t, "", sub.FormData["specificTime"])
}
