package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionType classifies a completed timer interval.
type SessionType string

const (
	TypeFocus     SessionType = "focus"
	TypeBreak     SessionType = "break"
	TypeLongBreak SessionType = "long_break"
)

// ParseSessionType validates a wire-format session type string.
func ParseSessionType(s string) (SessionType, error) {
	switch SessionType(s) {
	case TypeFocus, TypeBreak, TypeLongBreak:
		return SessionType(s), nil
	}
	return "", fmt.Errorf("unknown session type %q", s)
}

// IsBreak reports whether the type is a break of either length.
func (t SessionType) IsBreak() bool {
	return t == TypeBreak || t == TypeLongBreak
}

// SessionRow is a row ready for insertion into the sessions table.
// Rows are immutable once inserted.
type SessionRow struct {
	ID          uuid.UUID   `json:"id"`
	UserID      int         `json:"user_id"`
	Type        SessionType `json:"type"`
	DurationSec int         `json:"duration_sec"`
	StartedAt   time.Time   `json:"started_at"`
	CompletedAt time.Time   `json:"completed_at"`
	CreatedAt   time.Time   `json:"created_at"`
}

// SessionPayload is a single session record as sent by clients.
// ID is optional; the server assigns one when absent.
type SessionPayload struct {
	ID          string `json:"id,omitempty"`
	Type        string `json:"type"`
	DurationSec int    `json:"duration_sec"`
	StartedAt   string `json:"started_at"`
	CompletedAt string `json:"completed_at"`
}

// SessionExport is the on-disk format produced by the mobile app's
// offline export. One file per export, any number of sessions.
type SessionExport struct {
	ExportedAt string           `json:"exported_at"`
	Sessions   []SessionPayload `json:"sessions"`
}

// TimerSettings holds a user's configured interval durations in seconds.
type TimerSettings struct {
	FocusSec      int `json:"focus_sec"`
	ShortBreakSec int `json:"short_break_sec"`
	LongBreakSec  int `json:"long_break_sec"`
}

// DefaultTimerSettings are the classic Pomodoro durations.
var DefaultTimerSettings = TimerSettings{
	FocusSec:      25 * 60,
	ShortBreakSec: 5 * 60,
	LongBreakSec:  15 * 60,
}
