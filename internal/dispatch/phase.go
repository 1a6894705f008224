package dispatch

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"go.opentelemetry.io/otel/trace"

	"github.com/vyrodovalexey/routable/internal/observability"
)

// Navigation states.
const (
	StateIdle      = "idle"
	StateHydrating = "hydrating"
	StateGuarding  = "guarding"
	StateHandling  = "handling"
	StateWatching  = "watching"
	StateDone      = "done"
)

// Navigation events.
const (
	EventHydrate = "hydrate"
	EventGuard   = "guard"
	EventHandle  = "handle"
	EventBlock   = "block"
	EventWatch   = "watch"
	EventFinish  = "finish"
	EventAbort   = "abort"
)

var phaseEvents = fsm.Events{
	{Name: EventHydrate, Src: []string{StateIdle}, Dst: StateHydrating},
	{Name: EventGuard, Src: []string{StateHydrating}, Dst: StateGuarding},
	{Name: EventHandle, Src: []string{StateGuarding}, Dst: StateHandling},
	{Name: EventBlock, Src: []string{StateGuarding, StateHandling}, Dst: StateWatching},
	{Name: EventWatch, Src: []string{StateHandling}, Dst: StateWatching},
	{Name: EventFinish, Src: []string{StateWatching}, Dst: StateDone},
	{Name: EventAbort, Src: []string{StateIdle, StateHydrating, StateGuarding, StateHandling, StateWatching}, Dst: StateDone},
}

// phaseMachine tracks the phase of one navigation.
type phaseMachine struct {
	fsm     *fsm.FSM
	blocked bool
	trail   []string
}

func newPhaseMachine(logger observability.Logger, span trace.Span) *phaseMachine {
	pm := &phaseMachine{trail: []string{StateIdle}}
	pm.fsm = fsm.NewFSM(
		StateIdle,
		phaseEvents,
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				pm.trail = append(pm.trail, e.Dst)
				if e.Event == EventBlock {
					pm.blocked = true
				}
				logger.Debug("navigation phase",
					observability.String("event", e.Event),
					observability.String("from_state", e.Src),
					observability.String("state", e.Dst),
				)
				span.AddEvent("phase " + e.Dst)
			},
		},
	)
	return pm
}

// fire moves the machine. Cancellation of ctx is handled by the
// dispatcher, not by the machine.
func (pm *phaseMachine) fire(ctx context.Context, event string) error {
	if err := pm.fsm.Event(context.WithoutCancel(ctx), event); err != nil {
		return fmt.Errorf("navigation phase %s refused %s: %w", pm.fsm.Current(), event, err)
	}
	return nil
}

// Current returns the current state.
func (pm *phaseMachine) Current() string {
	return pm.fsm.Current()
}

// Blocked reports whether a guard or handler stopped the navigation.
func (pm *phaseMachine) Blocked() bool {
	return pm.blocked
}

// Trail returns the visited states in order.
func (pm *phaseMachine) Trail() []string {
	return pm.trail
}
