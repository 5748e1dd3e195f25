package batch

import (
	"context"

	"github.com/looplab/fsm"

	"entrybot/internal/logging"
)

// Record states.
const (
	StateIdle          = "idle"
	StateLaunching     = "launching"
	StateAwaitingFocus = "awaiting_focus"
	StateTyping        = "typing"
	StateSaving        = "saving"
	StateClosingUp     = "closing_up"
)

// Record events.
const (
	EventLaunch   = "launch"
	EventLaunched = "launched"
	EventFocused  = "focused"
	EventTyped    = "typed"
	EventSaved    = "saved"
	EventFail     = "fail"
	EventReset    = "reset"
)

// recordMachine tracks where a single record is in its round trip through the editor.
// Stage work runs in the orchestrator; the machine only guards and names the transitions.
type recordMachine struct {
	fsm *fsm.FSM
}

func newRecordMachine(recordID string) *recordMachine {
	return &recordMachine{
		fsm: fsm.NewFSM(
			StateIdle,
			fsm.Events{
				{Name: EventLaunch, Src: []string{StateIdle}, Dst: StateLaunching},
				{Name: EventLaunched, Src: []string{StateLaunching}, Dst: StateAwaitingFocus},
				{Name: EventFocused, Src: []string{StateAwaitingFocus}, Dst: StateTyping},
				{Name: EventTyped, Src: []string{StateTyping}, Dst: StateSaving},
				{Name: EventSaved, Src: []string{StateSaving}, Dst: StateClosingUp},
				{Name: EventFail, Src: []string{StateLaunching, StateAwaitingFocus, StateTyping, StateSaving}, Dst: StateClosingUp},
				{Name: EventReset, Src: []string{StateClosingUp}, Dst: StateIdle},
			},
			fsm.Callbacks{
				"enter_state": func(_ context.Context, e *fsm.Event) {
					logging.BatchDebug("post %s: %s -> %s (%s)", recordID, e.Src, e.Dst, e.Event)
				},
			},
		),
	}
}

// fire triggers event. The machine ignores cancellation: a record interrupted
// mid-stage must still be walked through closing_up.
func (m *recordMachine) fire(ctx context.Context, event string) error {
	return m.fsm.Event(context.WithoutCancel(ctx), event)
}

func (m *recordMachine) Current() string {
	return m.fsm.Current()
}
