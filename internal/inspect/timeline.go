package inspect

import (
	"slices"
	"sync"
	"time"
)

// DefaultCapacity is the number of events kept when no capacity is given.
const DefaultCapacity = 256

// Kind classifies a timeline event.
type Kind string

const (
	// KindActivated marks a controller becoming active.
	KindActivated Kind = "activated"
	// KindDeactivated marks a controller becoming inactive.
	KindDeactivated Kind = "deactivated"
	// KindHook marks a guard, handler or watcher invocation.
	KindHook Kind = "hook"
	// KindNavigation marks the end of a navigation.
	KindNavigation Kind = "navigation"
)

// Event is one timeline entry.
type Event struct {
	Time         time.Time     `json:"time"`
	Kind         Kind          `json:"kind"`
	NavigationID string        `json:"navigationId,omitempty"`
	Identity     string        `json:"identity,omitempty"`
	Class        string        `json:"class,omitempty"`
	Hook         string        `json:"hook,omitempty"`
	Phase        string        `json:"phase,omitempty"`
	From         string        `json:"from,omitempty"`
	To           string        `json:"to,omitempty"`
	Outcome      string        `json:"outcome,omitempty"`
	Error        string        `json:"error,omitempty"`
	Duration     time.Duration `json:"duration,omitempty"`
}

// ActiveRoutable is a controller that is currently active.
type ActiveRoutable struct {
	ID          string    `json:"id"`
	Class       string    `json:"class"`
	Route       string    `json:"route"`
	ActivatedAt time.Time `json:"activatedAt"`
	Hooks       []string  `json:"hooks,omitempty"`
}

// Timeline is a bounded ring buffer of events plus the set of active
// controllers. It is safe for concurrent use.
type Timeline struct {
	mu     sync.Mutex
	events []Event
	next   int
	full   bool
	active map[string]*ActiveRoutable
	now    func() time.Time
}

// Option configures a Timeline.
type Option func(*Timeline)

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Timeline) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTimeline creates a timeline keeping the last capacity events.
func NewTimeline(capacity int, opts ...Option) *Timeline {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	t := &Timeline{
		events: make([]Event, capacity),
		active: make(map[string]*ActiveRoutable),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Record appends an event. Hook events of an active controller are also
// added to its hook list.
func (t *Timeline) Record(e Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.recordLocked(e)
}

// Activated marks the controller id as active on route.
func (t *Timeline) Activated(id, class, route string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.active[id] = &ActiveRoutable{ID: id, Class: class, Route: route, ActivatedAt: now}
	t.recordLocked(Event{Time: now, Kind: KindActivated, Identity: id, Class: class, To: route})
}

// Deactivated marks the controller id as inactive.
func (t *Timeline) Deactivated(id, class string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.active, id)
	t.recordLocked(Event{Kind: KindDeactivated, Identity: id, Class: class})
}

// Events returns the retained events, oldest first.
func (t *Timeline) Events() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.full {
		return slices.Clone(t.events[:t.next])
	}
	out := make([]Event, 0, len(t.events))
	out = append(out, t.events[t.next:]...)
	out = append(out, t.events[:t.next]...)
	return out
}

// Active returns the active controllers ordered by activation time.
func (t *Timeline) Active() []ActiveRoutable {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]ActiveRoutable, 0, len(t.active))
	for _, a := range t.active {
		cp := *a
		cp.Hooks = slices.Clone(a.Hooks)
		out = append(out, cp)
	}
	slices.SortFunc(out, func(a, b ActiveRoutable) int {
		if c := a.ActivatedAt.Compare(b.ActivatedAt); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})
	return out
}

// Reset discards all events and active controllers.
func (t *Timeline) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	clear(t.events)
	t.next = 0
	t.full = false
	clear(t.active)
}

func (t *Timeline) recordLocked(e Event) {
	if e.Time.IsZero() {
		e.Time = t.now()
	}
	if e.Kind == KindHook {
		if a, ok := t.active[e.Identity]; ok {
			a.Hooks = append(a.Hooks, e.Hook)
		}
	}

	t.events[t.next] = e
	t.next++
	if t.next == len(t.events) {
		t.next = 0
		t.full = true
	}
}
