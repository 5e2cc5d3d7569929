package models

import "testing"

// TestParseSessionType verifies the three valid wire values round-trip and
// anything else is rejected.
func TestParseSessionType(t *testing.T) {
	valid := map[string]SessionType{
		"focus":      TypeFocus,
		"break":      TypeBreak,
		"long_break": TypeLongBreak,
	}
	for in, want := range valid {
		got, err := ParseSessionType(in)
		if err != nil {
			t.Errorf("ParseSessionType(%q) error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseSessionType(%q) = %q, want %q", in, got, want)
		}
	}

	for _, in := range []string{"", "Focus", "pause", "longbreak"} {
		if _, err := ParseSessionType(in); err == nil {
			t.Errorf("ParseSessionType(%q) succeeded, want error", in)
		}
	}
}

// TestIsBreak verifies both break lengths count as breaks and focus does not.
func TestIsBreak(t *testing.T) {
	if TypeFocus.IsBreak() {
		t.Error("focus.IsBreak() = true, want false")
	}
	if !TypeBreak.IsBreak() {
		t.Error("break.IsBreak() = false, want true")
	}
	if !TypeLongBreak.IsBreak() {
		t.Error("long_break.IsBreak() = false, want true")
	}
}

// TestDefaultTimerSettings verifies the classic Pomodoro durations.
func TestDefaultTimerSettings(t *testing.T) {
	if DefaultTimerSettings.FocusSec != 25*60 {
		t.Errorf("FocusSec = %d, want %d", DefaultTimerSettings.FocusSec, 25*60)
	}
	if DefaultTimerSettings.ShortBreakSec != 5*60 {
		t.Errorf("ShortBreakSec = %d, want %d", DefaultTimerSettings.ShortBreakSec, 5*60)
	}
	if DefaultTimerSettings.LongBreakSec != 15*60 {
		t.Errorf("LongBreakSec = %d, want %d", DefaultTimerSettings.LongBreakSec, 15*60)
	}
}
