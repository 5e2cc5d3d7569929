package achievements

// Kind selects the evaluation strategy for a definition.
type Kind string

const (
	// KindCountEarly counts focus sessions completed before 10:00 local.
	KindCountEarly Kind = "count_early"
	// KindCountLate counts focus sessions completed at or after 20:00 local.
	KindCountLate Kind = "count_late"
	// KindCountWeekend counts focus sessions completed on Saturday or Sunday.
	KindCountWeekend Kind = "count_weekend"
	// KindCountTotal counts all focus sessions.
	KindCountTotal Kind = "count_total"
	// KindCumulativeAll sums focus duration over the full history.
	KindCumulativeAll Kind = "cumulative_all"
	// KindCumulativeDay sums focus duration for the current local day.
	KindCumulativeDay Kind = "cumulative_day"
	// KindSingleSession unlocks when any one focus session lasts at least
	// ThresholdSec. Progress is 0 or 1 against a requirement of 1.
	KindSingleSession Kind = "single_session"
	// KindCurrentStreak tracks the trailing run of consecutive days ending
	// today (or yesterday when today is still empty).
	KindCurrentStreak Kind = "current_streak"
	// KindLongestStreak tracks the maximum consecutive-day run anywhere in
	// the history.
	KindLongestStreak Kind = "longest_streak"
	// KindDayBalance unlocks once any single day holds at least three focus
	// sessions matched by breaks (focus count minus one or more).
	KindDayBalance Kind = "day_balance"
	// KindDurationSet unlocks when the distinct rounded-minute focus
	// durations cover every value in RequiredMinutes.
	KindDurationSet Kind = "duration_set"
)

// Definition is a static catalog entry. Requirement is the progress value
// at which the achievement unlocks; its unit depends on Kind (sessions,
// seconds, or days). ThresholdSec and RequiredMinutes parameterize the
// single-session and duration-set kinds.
type Definition struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	ImageURL        string `json:"image_url"`
	Kind            Kind   `json:"kind"`
	Requirement     int    `json:"requirement"`
	ThresholdSec    int    `json:"threshold_sec,omitempty"`
	RequiredMinutes []int  `json:"required_minutes,omitempty"`
}

// Catalog is the canonical achievement list, loaded once at process start.
// Order here is the order every evaluation reports.
var Catalog = []Definition{
	{
		ID:          "early_bird",
		Title:       "Early Bird",
		Description: "Complete 5 focus sessions before 10 AM",
		ImageURL:    "https://images.pexels.com/photos/1266810/pexels-photo-1266810.jpeg?auto=compress&cs=tinysrgb&w=400",
		Kind:        KindCountEarly,
		Requirement: 5,
	},
	{
		ID:          "night_owl",
		Title:       "Night Owl",
		Description: "Complete 5 focus sessions after 8 PM",
		ImageURL:    "https://images.pexels.com/photos/4048182/pexels-photo-4048182.jpeg?auto=compress&cs=tinysrgb&w=400",
		Kind:        KindCountLate,
		Requirement: 5,
	},
	{
		ID:          "weekend_warrior",
		Title:       "Weekend Warrior",
		Description: "Complete 10 focus sessions on weekends",
		ImageURL:    "https://images.pexels.com/photos/1544717/pexels-photo-1544717.jpeg?auto=compress&cs=tinysrgb&w=400",
		Kind:        KindCountWeekend,
		Requirement: 10,
	},
	{
		ID:          "focus_master",
		Title:       "Focus Master",
		Description: "Complete 25 focus sessions",
		ImageURL:    "https://images.pexels.com/photos/954559/pexels-photo-954559.jpeg?auto=compress&cs=tinysrgb&w=400",
		Kind:        KindCountTotal,
		Requirement: 25,
	},
	{
		ID:          "marathon_day",
		Title:       "Marathon Day",
		Description: "Accumulate 3 hours of focused work in a single day",
		ImageURL:    "https://images.pexels.com/photos/7256596/pexels-photo-7256596.jpeg?auto=compress&cs=tinysrgb&w=400",
		Kind:        KindCumulativeDay,
		Requirement: 10800,
	},
	{
		ID:          "dedicated",
		Title:       "Dedicated",
		Description: "Accumulate 25 hours of focused work all time",
		ImageURL:    "https://images.pexels.com/photos/1181406/pexels-photo-1181406.jpeg?auto=compress&cs=tinysrgb&w=400",
		Kind:        KindCumulativeAll,
		Requirement: 90000,
	},
	{
		ID:           "deep_worker",
		Title:        "Deep Worker",
		Description:  "Complete a single focus session of 2 hours or more",
		ImageURL:     "https://images.pexels.com/photos/4050315/pexels-photo-4050315.jpeg?auto=compress&cs=tinysrgb&w=400",
		Kind:         KindSingleSession,
		Requirement:  1,
		ThresholdSec: 7200,
	},
	{
		ID:          "consistency",
		Title:       "Consistency Champion",
		Description: "Complete at least one focus session for 7 consecutive days",
		ImageURL:    "https://images.pexels.com/photos/4065624/pexels-photo-4065624.jpeg?auto=compress&cs=tinysrgb&w=400",
		Kind:        KindCurrentStreak,
		Requirement: 7,
	},
	{
		ID:          "iron_streak",
		Title:       "Iron Streak",
		Description: "Reach a 14-day focus streak at any point",
		ImageURL:    "https://images.pexels.com/photos/416778/pexels-photo-416778.jpeg?auto=compress&cs=tinysrgb&w=400",
		Kind:        KindLongestStreak,
		Requirement: 14,
	},
	{
		ID:          "balanced_day",
		Title:       "Balanced Day",
		Description: "Pair 3+ focus sessions with breaks in a single day",
		ImageURL:    "https://images.pexels.com/photos/3822622/pexels-photo-3822622.jpeg?auto=compress&cs=tinysrgb&w=400",
		Kind:        KindDayBalance,
		Requirement: 1,
	},
	{
		ID:              "time_tactician",
		Title:           "Time Tactician",
		Description:     "Complete focus sessions of 25, 45, and 60 minutes",
		ImageURL:        "https://images.pexels.com/photos/1095601/pexels-photo-1095601.jpeg?auto=compress&cs=tinysrgb&w=400",
		Kind:            KindDurationSet,
		Requirement:     3,
		RequiredMinutes: []int{25, 45, 60},
	},
}
