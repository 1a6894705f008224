package inspect

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeClock() func() time.Time {
	var mu sync.Mutex
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
}

func TestTimeline_RingBuffer(t *testing.T) {
	t.Parallel()

	tl := NewTimeline(3, WithClock(fakeClock()))
	for i := range 5 {
		tl.Record(Event{Kind: KindHook, Hook: strconv.Itoa(i)})
	}

	events := tl.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "2", events[0].Hook)
	assert.Equal(t, "3", events[1].Hook)
	assert.Equal(t, "4", events[2].Hook)
	assert.True(t, events[0].Time.Before(events[2].Time))
}

func TestTimeline_PartialBuffer(t *testing.T) {
	t.Parallel()

	tl := NewTimeline(0)
	assert.Empty(t, tl.Events())

	tl.Record(Event{Kind: KindNavigation, To: "home"})
	events := tl.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "home", events[0].To)
	assert.False(t, events[0].Time.IsZero(), "time is stamped")
}

func TestTimeline_Active(t *testing.T) {
	t.Parallel()

	tl := NewTimeline(10, WithClock(fakeClock()))
	tl.Activated("b", "Cart", "/cart")
	tl.Activated("a", "Catalog", "/products")
	tl.Record(Event{Kind: KindHook, Identity: "a", Hook: "Load"})
	tl.Record(Event{Kind: KindHook, Identity: "z", Hook: "Ignored"})

	active := tl.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "b", active[0].ID)
	assert.Equal(t, "a", active[1].ID)
	assert.Equal(t, []string{"Load"}, active[1].Hooks)
	assert.Equal(t, "/products", active[1].Route)

	tl.Deactivated("b", "Cart")
	active = tl.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "a", active[0].ID)

	kinds := make([]Kind, 0)
	for _, e := range tl.Events() {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []Kind{KindActivated, KindActivated, KindHook, KindHook, KindDeactivated}, kinds)
}

func TestTimeline_Reset(t *testing.T) {
	t.Parallel()

	tl := NewTimeline(2)
	tl.Activated("a", "Catalog", "/")
	tl.Record(Event{Kind: KindHook})
	tl.Record(Event{Kind: KindHook})
	tl.Reset()

	assert.Empty(t, tl.Events())
	assert.Empty(t, tl.Active())
}

func TestTimeline_Concurrent(t *testing.T) {
	t.Parallel()

	tl := NewTimeline(16)
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := strconv.Itoa(i)
			tl.Activated(id, "C", "/")
			tl.Record(Event{Kind: KindHook, Identity: id, Hook: "h"})
			_ = tl.Events()
			_ = tl.Active()
		}()
	}
	wg.Wait()

	assert.Len(t, tl.Events(), 16)
	assert.Len(t, tl.Active(), 20)
}
