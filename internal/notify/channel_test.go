package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/formdraft/internal/domain"
)

func TestChannel_SubscribeReplaysLatest(t *testing.T) {
	ch := NewChannel(1)
	ch.Publish(2)

	var got []int
	cancel := ch.Subscribe(func(v int) { got = append(got, v) })
	defer cancel()

	ch.Publish(3)
	assert.Equal(t, []int{2, 3}, got)
	assert.Equal(t, 3, ch.Value())
}

func TestChannel_CancelStopsDelivery(t *testing.T) {
	ch := NewChannel("a")
	var got []string
	cancel := ch.Subscribe(func(v string) { got = append(got, v) })
	cancel()
	cancel()

	ch.Publish("b")
	assert.Equal(t, []string{"a"}, got)
	assert.Equal(t, 0, ch.Subscribers())
}

func TestChannel_OrderedAcrossPublishers(t *testing.T) {
	ch := NewChannel(0)
	var mu sync.Mutex
	var got []int
	cancel := ch.Subscribe(func(v int) {
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
	})
	defer cancel()

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ch.Publish(n)
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 51)
	assert.Equal(t, got[len(got)-1], ch.Value())
}

func TestChannel_WatchLatestWins(t *testing.T) {
	ch := NewChannel(0)
	ctx, cancel := context.WithCancel(context.Background())

	w := ch.Watch(ctx)
	ch.Publish(1)
	ch.Publish(2)

	select {
	case v := <-w:
		assert.Equal(t, 2, v)
	case <-time.After(time.Second):
		t.Fatal("no value on watch channel")
	}

	cancel()
	assert.Eventually(t, func() bool {
		_, open := <-w
		return !open
	}, time.Second, 10*time.Millisecond)
}

func TestBus_PublishesCopies(t *testing.T) {
	bus := NewBus()
	list := []domain.Record{{ID: "a", FormData: domain.FormData{"k": "v"}}}
	bus.PublishSubmissions(list)

	list[0].FormData["k"] = "mutated"
	assert.Equal(t, "v", bus.Submissions.Value()[0].FormData["k"])

	rec := domain.Record{ID: "d", Name: "n"}
	bus.PublishDraft(&rec)
	rec.Name = "changed"
	require.NotNil(t, bus.Draft.Value())
	assert.Equal(t, "n", bus.Draft.Value().Name)

	bus.PublishDraft(nil)
	assert.Nil(t, bus.Draft.Value())
}
