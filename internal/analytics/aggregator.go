// Package analytics derives display statistics from a session history:
// Monday-start weekly focus buckets, daily and weekly totals, and
// consecutive-day streaks. All computations are pure reductions over the
// caller-supplied slice; nothing here touches storage.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/claude/flowfocus/internal/models"
)

const dayKey = "2006-01-02"

// DayBucket is one day of a Monday-start week with its focus total.
type DayBucket struct {
	Date            string `json:"date"`
	TotalDurationSec int   `json:"total_duration_sec"`
}

// Summary holds the headline numbers shown on the analytics screen.
type Summary struct {
	TodaySeconds   int `json:"today_seconds"`
	WeekSeconds    int `json:"week_seconds"`
	CompletedFocus int `json:"completed_focus"`
	CurrentStreak  int `json:"current_streak"`
}

// Streaks reports both streak interpretations side by side. Current is the
// trailing run ending today (or yesterday, when today has no session yet);
// Longest is the maximum run anywhere in the history.
type Streaks struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// Aggregator computes analytics in a fixed time zone. Day boundaries and
// week starts follow that zone, not UTC.
type Aggregator struct {
	loc *time.Location
}

// NewAggregator creates an Aggregator. A nil location means time.Local.
func NewAggregator(loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{loc: loc}
}

// WeeklyFocus buckets focus durations per calendar day for the week
// containing now. Always returns 7 entries, Monday first.
func (a *Aggregator) WeeklyFocus(sessions []models.SessionRow, now time.Time) []DayBucket {
	weekStart := StartOfWeek(now, a.loc)

	buckets := make([]DayBucket, 7)
	index := make(map[string]int, 7)
	for i := range buckets {
		key := weekStart.AddDate(0, 0, i).Format(dayKey)
		buckets[i] = DayBucket{Date: key}
		index[key] = i
	}

	for _, s := range sessions {
		if s.Type != models.TypeFocus {
			continue
		}
		key := s.CompletedAt.In(a.loc).Format(dayKey)
		if i, ok := index[key]; ok {
			buckets[i].TotalDurationSec += clampDuration(s.DurationSec)
		}
	}
	return buckets
}

// Summarize computes today's and this week's focus totals, the completed
// focus session count, and the current streak.
func (a *Aggregator) Summarize(sessions []models.SessionRow, now time.Time) Summary {
	todayKey := now.In(a.loc).Format(dayKey)
	weekStart := StartOfWeek(now, a.loc)
	weekEnd := weekStart.AddDate(0, 0, 7)

	var sum Summary
	for _, s := range sessions {
		if s.Type != models.TypeFocus {
			continue
		}
		sum.CompletedFocus++
		local := s.CompletedAt.In(a.loc)
		d := clampDuration(s.DurationSec)
		if local.Format(dayKey) == todayKey {
			sum.TodaySeconds += d
		}
		if !local.Before(weekStart) && local.Before(weekEnd) {
			sum.WeekSeconds += d
		}
	}
	sum.CurrentStreak = CurrentStreak(FocusDays(sessions, a.loc), now, a.loc, 0)
	return sum
}

// Streaks computes both streak variants over the full history.
func (a *Aggregator) Streaks(sessions []models.SessionRow, now time.Time) Streaks {
	days := FocusDays(sessions, a.loc)
	return Streaks{
		Current: CurrentStreak(days, now, a.loc, 0),
		Longest: LongestStreak(days),
	}
}

// FocusDays returns the set of distinct local calendar days (keyed
// "2006-01-02") containing at least one focus session.
func FocusDays(sessions []models.SessionRow, loc *time.Location) map[string]bool {
	days := make(map[string]bool)
	for _, s := range sessions {
		if s.Type != models.TypeFocus {
			continue
		}
		days[s.CompletedAt.In(loc).Format(dayKey)] = true
	}
	return days
}

// CurrentStreak counts consecutive days with a focus session, walking
// backward from today. A streak survives a still-empty today by anchoring
// at yesterday. limit > 0 caps the walk; 0 walks the whole set.
func CurrentStreak(days map[string]bool, now time.Time, loc *time.Location, limit int) int {
	if len(days) == 0 {
		return 0
	}

	local := now.In(loc)
	check := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	if !days[check.Format(dayKey)] {
		check = check.AddDate(0, 0, -1)
		if !days[check.Format(dayKey)] {
			return 0
		}
	}

	streak := 0
	for days[check.Format(dayKey)] {
		streak++
		if limit > 0 && streak >= limit {
			break
		}
		check = check.AddDate(0, 0, -1)
	}
	return streak
}

// LongestStreak finds the maximum run of consecutive days anywhere in the
// set, by sorting the distinct days and scanning day differences.
func LongestStreak(days map[string]bool) int {
	if len(days) == 0 {
		return 0
	}

	sorted := make([]string, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	sort.Strings(sorted)

	longest, run := 1, 1
	prev, _ := time.Parse(dayKey, sorted[0])
	for _, key := range sorted[1:] {
		day, err := time.Parse(dayKey, key)
		if err != nil {
			continue
		}
		if day.Sub(prev) == 24*time.Hour {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
		prev = day
	}
	return longest
}

// StartOfWeek returns midnight of the Monday beginning the week that
// contains t, in the given location.
func StartOfWeek(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	offset := (int(midnight.Weekday()) + 6) % 7 // Monday = 0
	return midnight.AddDate(0, 0, -offset)
}

// FormatDuration renders seconds as "Ns", "Nm", or "Nm Ms". Truncation
// only, no rounding.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	minutes := seconds / 60
	rem := seconds % 60
	if rem == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dm %ds", minutes, rem)
}

func clampDuration(sec int) int {
	if sec < 0 {
		return 0
	}
	return sec
}
