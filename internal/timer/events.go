package timer

import "time"

// EventType identifies what an Event describes.
type EventType string

const (
	// EventStateChange fires on every state transition.
	EventStateChange EventType = "state_change"
	// EventProgress fires once per tick while the countdown runs.
	EventProgress EventType = "progress"
	// EventSessionSaved fires after a session record is persisted.
	EventSessionSaved EventType = "session_saved"
	// EventSaveError fires when persisting a session record fails.
	EventSaveError EventType = "save_error"
)

// Event is delivered to subscribers on state changes and ticks.
type Event struct {
	Type         EventType `json:"type"`
	State        State     `json:"state"`
	RemainingSec int       `json:"remaining_sec"`
	ElapsedSec   int       `json:"elapsed_sec"`
	Message      string    `json:"message,omitempty"`
	At           time.Time `json:"at"`
}
