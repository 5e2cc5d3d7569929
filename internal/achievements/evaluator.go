// Package achievements maps a session history onto a static catalog of
// achievement definitions. Evaluation is pure and deterministic: the same
// session set always yields the same progress. Nothing is persisted;
// progress is derived on every request.
package achievements

import (
	"time"

	"github.com/claude/flowfocus/internal/analytics"
	"github.com/claude/flowfocus/internal/models"
)

const dayKey = "2006-01-02"

// Progress is the derived state of one definition.
type Progress struct {
	Definition
	Progress int  `json:"progress"`
	Unlocked bool `json:"unlocked"`
}

// Evaluator computes progress for a catalog in a fixed time zone. Hour-of-day
// and calendar-day checks follow that zone; focus habits are day and night
// relative to the user's clock.
type Evaluator struct {
	catalog []Definition
	loc     *time.Location
}

// NewEvaluator creates an Evaluator over the given catalog. A nil location
// means time.Local.
func NewEvaluator(catalog []Definition, loc *time.Location) *Evaluator {
	if loc == nil {
		loc = time.Local
	}
	return &Evaluator{catalog: catalog, loc: loc}
}

// Evaluate computes progress for every definition, in catalog order.
// Sessions may arrive in any order; uniqueness of ids is the store's job.
// An empty history yields zero progress everywhere and nothing unlocked.
func (e *Evaluator) Evaluate(sessions []models.SessionRow, now time.Time) []Progress {
	var focus []models.SessionRow
	for _, s := range sessions {
		if s.Type == models.TypeFocus {
			focus = append(focus, s)
		}
	}

	result := make([]Progress, 0, len(e.catalog))
	for _, def := range e.catalog {
		p := e.evaluateOne(def, sessions, focus, now)
		result = append(result, Progress{
			Definition: def,
			Progress:   p,
			Unlocked:   p >= def.Requirement,
		})
	}
	return result
}

func (e *Evaluator) evaluateOne(def Definition, all, focus []models.SessionRow, now time.Time) int {
	switch def.Kind {
	case KindCountEarly:
		return e.countByHour(focus, func(h int) bool { return h < 10 })
	case KindCountLate:
		return e.countByHour(focus, func(h int) bool { return h >= 20 })
	case KindCountWeekend:
		return e.countWeekend(focus)
	case KindCountTotal:
		return len(focus)
	case KindCumulativeAll:
		return sumDurations(focus)
	case KindCumulativeDay:
		return e.sumToday(focus, now)
	case KindSingleSession:
		return e.singleSession(focus, def.ThresholdSec)
	case KindCurrentStreak:
		days := analytics.FocusDays(focus, e.loc)
		return analytics.CurrentStreak(days, now, e.loc, def.Requirement)
	case KindLongestStreak:
		days := analytics.FocusDays(focus, e.loc)
		return analytics.LongestStreak(days)
	case KindDayBalance:
		return e.dayBalance(all)
	case KindDurationSet:
		return e.durationCoverage(focus, def.RequiredMinutes)
	}
	return 0
}

func (e *Evaluator) countByHour(focus []models.SessionRow, match func(hour int) bool) int {
	n := 0
	for _, s := range focus {
		if match(s.CompletedAt.In(e.loc).Hour()) {
			n++
		}
	}
	return n
}

func (e *Evaluator) countWeekend(focus []models.SessionRow) int {
	n := 0
	for _, s := range focus {
		switch s.CompletedAt.In(e.loc).Weekday() {
		case time.Saturday, time.Sunday:
			n++
		}
	}
	return n
}

func (e *Evaluator) sumToday(focus []models.SessionRow, now time.Time) int {
	today := now.In(e.loc).Format(dayKey)
	total := 0
	for _, s := range focus {
		if s.CompletedAt.In(e.loc).Format(dayKey) == today {
			total += clamp(s.DurationSec)
		}
	}
	return total
}

func (e *Evaluator) singleSession(focus []models.SessionRow, thresholdSec int) int {
	for _, s := range focus {
		if s.DurationSec >= thresholdSec {
			return 1
		}
	}
	return 0
}

// dayBalance looks for any single day with at least three focus sessions
// and at least focusCount-1 breaks. This is an existence check over days,
// not a running count.
func (e *Evaluator) dayBalance(all []models.SessionRow) int {
	type counts struct{ focus, breaks int }
	byDay := make(map[string]*counts)
	for _, s := range all {
		key := s.CompletedAt.In(e.loc).Format(dayKey)
		c := byDay[key]
		if c == nil {
			c = &counts{}
			byDay[key] = c
		}
		if s.Type == models.TypeFocus {
			c.focus++
		} else if s.Type.IsBreak() {
			c.breaks++
		}
	}
	for _, c := range byDay {
		if c.focus >= 3 && c.breaks >= c.focus-1 {
			return 1
		}
	}
	return 0
}

// durationCoverage counts how many of the required rounded-minute
// durations appear among the focus sessions.
func (e *Evaluator) durationCoverage(focus []models.SessionRow, requiredMinutes []int) int {
	seen := make(map[int]bool, len(focus))
	for _, s := range focus {
		seen[(clamp(s.DurationSec)+30)/60] = true
	}
	n := 0
	for _, m := range requiredMinutes {
		if seen[m] {
			n++
		}
	}
	return n
}

func sumDurations(sessions []models.SessionRow) int {
	total := 0
	for _, s := range sessions {
		total += clamp(s.DurationSec)
	}
	return total
}

// clamp treats negative durations as zero so a malformed row can never pull
// sums down. Rejection of such rows is the ingest boundary's job.
func clamp(sec int) int {
	if sec < 0 {
		return 0
	}
	return sec
}
