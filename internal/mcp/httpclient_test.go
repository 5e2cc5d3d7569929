package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/claude/flowfocus/internal/achievements"
	"github.com/claude/flowfocus/internal/analytics"
	"github.com/claude/flowfocus/internal/models"
	"github.com/google/uuid"
)

// newTestServer creates an httptest server that routes requests to handler
// functions keyed by path. Verifies the HTTP client sends correct paths and
// query params.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestQuerySessions verifies the HTTP client sends the right query params
// and correctly parses the JSON array response.
func TestQuerySessions(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/sessions": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("type"); got != "focus" {
				t.Errorf("type=%q, want focus", got)
			}
			if got := r.URL.Query().Get("start"); got == "" {
				t.Error("start param missing")
			}

			writeTestJSON(t, w, []models.SessionRow{
				{
					ID:          uuid.New(),
					UserID:      1,
					Type:        models.TypeFocus,
					DurationSec: 1500,
					StartedAt:   time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
					CompletedAt: time.Date(2026, 3, 2, 9, 25, 0, 0, time.UTC),
				},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)

	rows, err := client.QuerySessions(context.Background(), start, end, 1, "focus")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].DurationSec != 1500 {
		t.Errorf("duration_sec=%d, want 1500", rows[0].DurationSec)
	}
}

// TestListSessionsLimit verifies the limit parameter is forwarded.
func TestListSessionsLimit(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/sessions": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("limit"); got != "5" {
				t.Errorf("limit=%q, want 5", got)
			}
			writeTestJSON(t, w, []models.SessionRow{})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	if _, err := client.ListSessions(context.Background(), 1, 5); err != nil {
		t.Fatal(err)
	}
}

// TestGetAchievements verifies achievement progress decoding.
func TestGetAchievements(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/achievements": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, []achievements.Progress{
				{
					Definition: achievements.Catalog[0],
					Progress:   3,
					Unlocked:   false,
				},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	progress, err := client.GetAchievements(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(progress) != 1 {
		t.Fatalf("got %d entries, want 1", len(progress))
	}
	if progress[0].Progress != 3 {
		t.Errorf("progress=%d, want 3", progress[0].Progress)
	}
	if progress[0].Unlocked {
		t.Error("unlocked=true, want false")
	}
}

// TestGetAnalyticsSummary verifies the HTTP client correctly parses a single
// struct response.
func TestGetAnalyticsSummary(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/analytics/summary": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, analytics.Summary{
				TodaySeconds:   3000,
				WeekSeconds:    9000,
				CompletedFocus: 6,
				CurrentStreak:  4,
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	summary, err := client.GetAnalyticsSummary(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if summary.WeekSeconds != 9000 {
		t.Errorf("week_seconds=%d, want 9000", summary.WeekSeconds)
	}
	if summary.CurrentStreak != 4 {
		t.Errorf("current_streak=%d, want 4", summary.CurrentStreak)
	}
}

// TestGetStreaks verifies both streak values survive the round trip.
func TestGetStreaks(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/analytics/streaks": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, analytics.Streaks{Current: 2, Longest: 9})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	streaks, err := client.GetStreaks(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if streaks.Current != 2 || streaks.Longest != 9 {
		t.Errorf("streaks=%+v, want current 2 longest 9", streaks)
	}
}

// TestHTTPErrorStatus verifies non-200 responses surface as errors.
func TestHTTPErrorStatus(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/stats": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	if _, err := client.GetDataStats(context.Background(), 1); err == nil {
		t.Error("expected error for 500 response")
	}
}
