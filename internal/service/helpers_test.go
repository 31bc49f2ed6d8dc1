package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/formdraft/internal/kvstore"
	"github.com/alexanderramin/formdraft/internal/notify"
	"github.com/alexanderramin/formdraft/internal/repository"
	"github.com/alexanderramin/formdraft/internal/testutil"
)

// fakeClock is a settable clock for deterministic timestamps.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%03d", n)
	}
}

// countingStore counts writes per key.
type countingStore struct {
	kvstore.Store
	mu   sync.Mutex
	sets map[string]int
}

func newCountingStore(inner kvstore.Store) *countingStore {
	return &countingStore{Store: inner, sets: map[string]int{}}
}

func (c *countingStore) Set(ctx context.Context, key, value string) error {
	c.mu.Lock()
	c.sets[key]++
	c.mu.Unlock()
	return c.Store.Set(ctx, key, value)
}

func (c *countingStore) SetCount(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sets[key]
}

type testEnv struct {
	*Services
	Store kvstore.Store
	Bus   *notify.Bus
	Clock *fakeClock
}

func newTestEnvWithStore(t *testing.T, store kvstore.Store, opts ...EngineOption) *testEnv {
	t.Helper()
	clock := newFakeClock()
	bus := notify.NewBus()
	all := append([]EngineOption{WithClock(clock.Now), WithIDGenerator(sequentialIDs())}, opts...)
	e := NewEngine(context.Background(),
		repository.NewKVSubmissionRepo(store),
		repository.NewKVDraftSlotRepo(store),
		bus, all...)
	return &testEnv{Services: NewServices(e), Store: store, Bus: bus, Clock: clock}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithStore(t, testutil.NewTestStore(t))
}
