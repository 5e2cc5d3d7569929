// Package timer runs the authoritative countdown state machine. A run
// moves through Idle, Running, SettingsPaused, AwaitingDecision, and
// Completed; exactly one state holds at a time, and at most one session
// record is written per run. Saved durations come from the wall clock,
// not the decremented counter, so a suspended process cannot shortchange
// the user.
package timer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/flowfocus/internal/models"
	"github.com/google/uuid"
)

// State is the engine's current phase.
type State string

const (
	StateIdle             State = "idle"
	StateRunning          State = "running"
	StateSettingsPaused   State = "settings_paused"
	StateAwaitingDecision State = "awaiting_decision"
	StateCompleted        State = "completed"
)

var (
	ErrNotIdle     = errors.New("timer already has an active run")
	ErrNotRunning  = errors.New("timer is not running")
	ErrNoDecision  = errors.New("no paused run awaiting a decision")
	ErrNotSettings = errors.New("settings are not open")
)

// SessionWriter persists a finished run. The engine calls it at most once
// per run, on accept or on auto-save after natural expiry.
type SessionWriter interface {
	SaveSession(ctx context.Context, row models.SessionRow) error
}

// Options contains runtime options for the Engine.
type Options struct {
	TickInterval time.Duration
	Clock        Clock
}

// Engine is the countdown state machine for a single user.
type Engine struct {
	mu          sync.Mutex
	userID      int
	settings    models.TimerSettings
	options     Options
	writer      SessionWriter
	clock       Clock
	log         *slog.Logger
	state       State
	sessionType models.SessionType
	plannedSec  int
	remaining   int
	elapsed     int
	startedAt   time.Time
	pausedAt    time.Time
	wasRunning  bool
	events      []chan Event
	stopCh      chan struct{}
	looping     bool
}

// New creates an Engine in the Idle state.
func New(userID int, settings models.TimerSettings, writer SessionWriter, options Options, log *slog.Logger) *Engine {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Clock == nil {
		options.Clock = SystemClock{}
	}
	return &Engine{
		userID:      userID,
		settings:    settings,
		options:     options,
		writer:      writer,
		clock:       options.Clock,
		log:         log,
		state:       StateIdle,
		sessionType: models.TypeFocus,
		remaining:   settings.FocusSec,
	}
}

// Subscribe registers a new observer channel. Sends never block; a slow
// subscriber misses events rather than stalling the tick.
func (e *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	e.mu.Lock()
	e.events = append(e.events, ch)
	e.mu.Unlock()
	return ch
}

// Run launches the ticking loop. It returns immediately; Stop ends the
// loop. A stopped engine can be run again.
func (e *Engine) Run() {
	e.mu.Lock()
	if e.looping {
		e.mu.Unlock()
		return
	}
	e.looping = true
	e.stopCh = make(chan struct{})
	stopCh := e.stopCh
	e.mu.Unlock()

	go e.loop(stopCh)
}

// Stop terminates the ticking loop and closes observer channels.
// Calling Stop on a stopped engine is a no-op.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.looping {
		return
	}
	close(e.stopCh)
	e.looping = false
	for _, ch := range e.events {
		close(ch)
	}
	e.events = nil
}

func (e *Engine) loop(stopCh <-chan struct{}) {
	ticker := time.NewTicker(e.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			e.Tick(context.Background())
		}
	}
}

// Start begins a countdown of the given type from Idle.
func (e *Engine) Start(sessionType models.SessionType) error {
	e.mu.Lock()
	if e.state != StateIdle {
		e.mu.Unlock()
		return ErrNotIdle
	}
	e.state = StateRunning
	e.sessionType = sessionType
	planned := e.durationForLocked(sessionType)
	e.plannedSec = planned
	e.remaining = planned
	e.elapsed = 0
	e.startedAt = e.clock.Now()
	e.pausedAt = time.Time{}
	e.mu.Unlock()

	e.emit(Event{Type: EventStateChange, State: StateRunning, RemainingSec: planned, At: e.clock.Now()})
	return nil
}

// Tick advances the countdown by one interval. The production loop calls
// it once per second; tests call it directly.
func (e *Engine) Tick(ctx context.Context) {
	e.mu.Lock()
	if e.state != StateRunning {
		e.mu.Unlock()
		return
	}

	e.remaining--
	e.elapsed++
	now := e.clock.Now()

	if e.remaining > 0 {
		remaining, elapsed := e.remaining, e.elapsed
		e.mu.Unlock()
		e.emit(Event{Type: EventProgress, State: StateRunning, RemainingSec: remaining, ElapsedSec: elapsed, At: now})
		return
	}

	// Natural expiry: Completed, then auto-save the full planned duration
	// and reset with no user confirmation.
	e.state = StateCompleted
	e.remaining = 0
	row := e.buildRowLocked(e.plannedSec, now)
	e.mu.Unlock()

	e.emit(Event{Type: EventStateChange, State: StateCompleted, ElapsedSec: row.DurationSec, At: now})
	e.save(ctx, row)
	e.resetToIdle(now)
}

// Pause interrupts a running countdown; the run then awaits a save-or-
// discard decision. Wall-clock elapsed time is captured here.
func (e *Engine) Pause() error {
	e.mu.Lock()
	if e.state != StateRunning {
		e.mu.Unlock()
		return ErrNotRunning
	}
	pausedAt := e.clock.Now()
	e.state = StateAwaitingDecision
	e.pausedAt = pausedAt
	e.mu.Unlock()

	e.emit(Event{Type: EventStateChange, State: StateAwaitingDecision, At: pausedAt})
	return nil
}

// Accept persists the paused run. Duration is the wall-clock delta from
// start to pause, tolerating background suspension drift in the counter.
func (e *Engine) Accept(ctx context.Context) error {
	e.mu.Lock()
	if e.state != StateAwaitingDecision {
		e.mu.Unlock()
		return ErrNoDecision
	}
	duration := int(e.pausedAt.Sub(e.startedAt) / time.Second)
	if duration < 0 {
		duration = 0
	}
	row := e.buildRowLocked(duration, e.pausedAt)
	e.mu.Unlock()

	e.save(ctx, row)
	e.resetToIdle(e.clock.Now())
	return nil
}

// Reject discards the paused run; nothing is written.
func (e *Engine) Reject() error {
	e.mu.Lock()
	if e.state != StateAwaitingDecision {
		e.mu.Unlock()
		return ErrNoDecision
	}
	e.mu.Unlock()

	e.resetToIdle(e.clock.Now())
	return nil
}

// OpenSettings freezes the countdown (when one is running) while the
// settings surface is open.
func (e *Engine) OpenSettings() error {
	e.mu.Lock()
	switch e.state {
	case StateRunning:
		e.wasRunning = true
	case StateIdle:
		e.wasRunning = false
	default:
		e.mu.Unlock()
		return ErrNotIdle
	}
	e.state = StateSettingsPaused
	e.mu.Unlock()

	e.emit(Event{Type: EventStateChange, State: StateSettingsPaused, At: e.clock.Now()})
	return nil
}

// CloseSettings resumes the countdown if one was running, otherwise
// returns to Idle.
func (e *Engine) CloseSettings() error {
	e.mu.Lock()
	if e.state != StateSettingsPaused {
		e.mu.Unlock()
		return ErrNotSettings
	}
	next := StateIdle
	if e.wasRunning {
		next = StateRunning
	}
	e.state = next
	e.mu.Unlock()

	e.emit(Event{Type: EventStateChange, State: next, At: e.clock.Now()})
	return nil
}

// ApplySettings updates the configured durations. With no active run the
// countdown resets to the new focus duration.
func (e *Engine) ApplySettings(s models.TimerSettings) {
	e.mu.Lock()
	e.settings = s
	if e.state == StateIdle || (e.state == StateSettingsPaused && !e.wasRunning) {
		e.sessionType = models.TypeFocus
		e.remaining = s.FocusSec
		e.elapsed = 0
	}
	e.mu.Unlock()
}

// Snapshot is a point-in-time view of the engine for the API.
type Snapshot struct {
	State        State              `json:"state"`
	SessionType  models.SessionType `json:"session_type"`
	RemainingSec int                `json:"remaining_sec"`
	ElapsedSec   int                `json:"elapsed_sec"`
	StartedAt    *time.Time         `json:"started_at,omitempty"`
	Settings     models.TimerSettings `json:"settings"`
}

// Snapshot returns the current state for display.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		State:        e.state,
		SessionType:  e.sessionType,
		RemainingSec: e.remaining,
		ElapsedSec:   e.elapsed,
		Settings:     e.settings,
	}
	if !e.startedAt.IsZero() && e.state != StateIdle {
		t := e.startedAt
		snap.StartedAt = &t
	}
	return snap
}

// Settings returns the currently configured durations.
func (e *Engine) Settings() models.TimerSettings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

func (e *Engine) buildRowLocked(durationSec int, completedAt time.Time) models.SessionRow {
	return models.SessionRow{
		ID:          uuid.New(),
		UserID:      e.userID,
		Type:        e.sessionType,
		DurationSec: durationSec,
		StartedAt:   e.startedAt,
		CompletedAt: completedAt,
	}
}

func (e *Engine) save(ctx context.Context, row models.SessionRow) {
	if err := e.writer.SaveSession(ctx, row); err != nil {
		e.log.Error("saving session", "type", row.Type, "duration_sec", row.DurationSec, "error", err)
		e.emit(Event{Type: EventSaveError, State: e.currentState(), Message: err.Error(), At: e.clock.Now()})
		return
	}
	e.emit(Event{Type: EventSessionSaved, State: e.currentState(), ElapsedSec: row.DurationSec, At: e.clock.Now()})
}

func (e *Engine) resetToIdle(at time.Time) {
	e.mu.Lock()
	e.state = StateIdle
	e.sessionType = models.TypeFocus
	e.remaining = e.settings.FocusSec
	e.elapsed = 0
	e.startedAt = time.Time{}
	e.pausedAt = time.Time{}
	e.mu.Unlock()

	e.emit(Event{Type: EventStateChange, State: StateIdle, At: at})
}

func (e *Engine) durationForLocked(t models.SessionType) int {
	switch t {
	case models.TypeBreak:
		return e.settings.ShortBreakSec
	case models.TypeLongBreak:
		return e.settings.LongBreakSec
	default:
		return e.settings.FocusSec
	}
}

func (e *Engine) currentState() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// emit signals every observer. Sends never block, so they stay under the
// mutex; sending after unlocking would race Stop closing the channels.
func (e *Engine) emit(event Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, ch := range e.events {
		select {
		case ch <- event:
		default:
		}
	}
}
