package analytics

import (
	"testing"
	"time"

	"github.com/claude/flowfocus/internal/models"
	"github.com/google/uuid"
)

func focusAt(t time.Time, durationSec int) models.SessionRow {
	return models.SessionRow{
		ID:          uuid.New(),
		UserID:      1,
		Type:        models.TypeFocus,
		DurationSec: durationSec,
		StartedAt:   t.Add(-time.Duration(durationSec) * time.Second),
		CompletedAt: t,
		CreatedAt:   t,
	}
}

func breakAt(t time.Time, durationSec int) models.SessionRow {
	s := focusAt(t, durationSec)
	s.Type = models.TypeBreak
	return s
}

// Wednesday 2024-06-12 15:00 UTC.
var wednesday = time.Date(2024, 6, 12, 15, 0, 0, 0, time.UTC)

func TestWeeklyFocusBuckets(t *testing.T) {
	agg := NewAggregator(time.UTC)

	sessions := []models.SessionRow{
		focusAt(wednesday, 1500),                     // Wed
		focusAt(wednesday.Add(-48*time.Hour), 600),   // Mon
		focusAt(wednesday.Add(-48*time.Hour), 900),   // Mon again
		breakAt(wednesday, 300),                      // breaks never count
		focusAt(wednesday.Add(-10*24*time.Hour), 777), // outside this week
	}

	buckets := agg.WeeklyFocus(sessions, wednesday)
	if len(buckets) != 7 {
		t.Fatalf("len(buckets) = %d, want 7", len(buckets))
	}
	if buckets[0].Date != "2024-06-10" {
		t.Errorf("buckets[0].Date = %q, want Monday 2024-06-10", buckets[0].Date)
	}
	if buckets[0].TotalDurationSec != 1500 {
		t.Errorf("Monday total = %d, want 1500", buckets[0].TotalDurationSec)
	}
	if buckets[2].TotalDurationSec != 1500 {
		t.Errorf("Wednesday total = %d, want 1500", buckets[2].TotalDurationSec)
	}

	var total int
	for _, b := range buckets {
		total += b.TotalDurationSec
	}
	if total != 3000 {
		t.Errorf("week total = %d, want 3000", total)
	}
}

func TestWeeklyFocusEmpty(t *testing.T) {
	agg := NewAggregator(time.UTC)
	buckets := agg.WeeklyFocus(nil, wednesday)
	if len(buckets) != 7 {
		t.Fatalf("len(buckets) = %d, want 7", len(buckets))
	}
	for i, b := range buckets {
		if b.TotalDurationSec != 0 {
			t.Errorf("buckets[%d] = %d, want 0", i, b.TotalDurationSec)
		}
	}
}

func TestSummarize(t *testing.T) {
	agg := NewAggregator(time.UTC)

	sessions := []models.SessionRow{
		focusAt(wednesday.Add(-2*time.Hour), 1500),
		focusAt(wednesday.Add(-24*time.Hour), 900),  // Tuesday, in week
		focusAt(wednesday.Add(-20*24*time.Hour), 600), // long ago
		breakAt(wednesday, 300),
	}

	sum := agg.Summarize(sessions, wednesday)
	if sum.TodaySeconds != 1500 {
		t.Errorf("TodaySeconds = %d, want 1500", sum.TodaySeconds)
	}
	if sum.WeekSeconds != 2400 {
		t.Errorf("WeekSeconds = %d, want 2400", sum.WeekSeconds)
	}
	if sum.CompletedFocus != 3 {
		t.Errorf("CompletedFocus = %d, want 3", sum.CompletedFocus)
	}
	if sum.CurrentStreak != 2 {
		t.Errorf("CurrentStreak = %d, want 2", sum.CurrentStreak)
	}
}

// TestCurrentStreakGap verifies the walk stops at the first missing day:
// sessions on D, D-1, D-2 and a gap at D-3 give a streak of 3.
func TestCurrentStreakGap(t *testing.T) {
	sessions := []models.SessionRow{
		focusAt(wednesday, 100),
		focusAt(wednesday.Add(-24*time.Hour), 100),
		focusAt(wednesday.Add(-48*time.Hour), 100),
		focusAt(wednesday.Add(-4*24*time.Hour), 100), // D-4, after the gap
	}
	days := FocusDays(sessions, time.UTC)
	if got := CurrentStreak(days, wednesday, time.UTC, 0); got != 3 {
		t.Errorf("CurrentStreak = %d, want 3", got)
	}
}

// TestCurrentStreakAnchorsYesterday verifies a streak survives an
// empty today when yesterday has a session.
func TestCurrentStreakAnchorsYesterday(t *testing.T) {
	sessions := []models.SessionRow{
		focusAt(wednesday.Add(-24*time.Hour), 100),
		focusAt(wednesday.Add(-48*time.Hour), 100),
	}
	days := FocusDays(sessions, time.UTC)
	if got := CurrentStreak(days, wednesday, time.UTC, 0); got != 2 {
		t.Errorf("CurrentStreak = %d, want 2", got)
	}
}

func TestCurrentStreakBrokenByTwoEmptyDays(t *testing.T) {
	sessions := []models.SessionRow{
		focusAt(wednesday.Add(-48*time.Hour), 100),
	}
	days := FocusDays(sessions, time.UTC)
	if got := CurrentStreak(days, wednesday, time.UTC, 0); got != 0 {
		t.Errorf("CurrentStreak = %d, want 0", got)
	}
}

func TestCurrentStreakLimit(t *testing.T) {
	var sessions []models.SessionRow
	for i := 0; i < 10; i++ {
		sessions = append(sessions, focusAt(wednesday.Add(-time.Duration(i)*24*time.Hour), 100))
	}
	days := FocusDays(sessions, time.UTC)
	if got := CurrentStreak(days, wednesday, time.UTC, 7); got != 7 {
		t.Errorf("CurrentStreak with limit 7 = %d, want 7", got)
	}
}

func TestLongestStreak(t *testing.T) {
	// Two days now, but a five-day run last month.
	sessions := []models.SessionRow{
		focusAt(wednesday, 100),
		focusAt(wednesday.Add(-24*time.Hour), 100),
	}
	for i := 20; i < 25; i++ {
		sessions = append(sessions, focusAt(wednesday.Add(-time.Duration(i)*24*time.Hour), 100))
	}

	days := FocusDays(sessions, time.UTC)
	if got := LongestStreak(days); got != 5 {
		t.Errorf("LongestStreak = %d, want 5", got)
	}
	if got := CurrentStreak(days, wednesday, time.UTC, 0); got != 2 {
		t.Errorf("CurrentStreak = %d, want 2", got)
	}
}

func TestLongestStreakEmpty(t *testing.T) {
	if got := LongestStreak(nil); got != 0 {
		t.Errorf("LongestStreak(nil) = %d, want 0", got)
	}
}

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"wednesday", wednesday, "2024-06-10"},
		{"monday itself", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), "2024-06-10"},
		{"sunday belongs to prior monday", time.Date(2024, 6, 16, 23, 0, 0, 0, time.UTC), "2024-06-10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StartOfWeek(tt.in, time.UTC).Format("2006-01-02")
			if got != tt.want {
				t.Errorf("StartOfWeek = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		sec  int
		want string
	}{
		{0, "0s"},
		{45, "45s"},
		{60, "1m"},
		{90, "1m 30s"},
		{1500, "25m"},
		{3725, "62m 5s"},
		{-10, "0s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.sec); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.sec, got, tt.want)
		}
	}
}

// TestNegativeDurationsClamp verifies malformed rows cannot drag totals down.
func TestNegativeDurationsClamp(t *testing.T) {
	agg := NewAggregator(time.UTC)
	sessions := []models.SessionRow{
		focusAt(wednesday, 600),
		focusAt(wednesday, -300),
	}
	sum := agg.Summarize(sessions, wednesday)
	if sum.TodaySeconds != 600 {
		t.Errorf("TodaySeconds = %d, want 600", sum.TodaySeconds)
	}
}
