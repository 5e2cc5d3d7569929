package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate statistics about all stored sessions.
type DataStats struct {
	TotalSessions    int64           `json:"total_sessions"`
	TotalFocusSec    int64           `json:"total_focus_sec"`
	EarliestSession  *time.Time      `json:"earliest_session"`
	LatestSession    *time.Time      `json:"latest_session"`
	SessionsByType   []TypeStat      `json:"sessions_by_type"`
}

// TypeStat holds summary stats for a single session type.
type TypeStat struct {
	Type          string `json:"type"`
	Count         int64  `json:"count"`
	TotalDuration int64  `json:"total_duration_sec"`
}

// GetDataStats returns aggregate statistics for a user's stored sessions.
func (db *DB) GetDataStats(ctx context.Context, userID int) (*DataStats, error) {
	stats := &DataStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(duration_sec) FILTER (WHERE type = 'focus'), 0),
		        MIN(completed_at), MAX(completed_at)
		 FROM sessions WHERE user_id = $1`, userID,
	).Scan(&stats.TotalSessions, &stats.TotalFocusSec, &stats.EarliestSession, &stats.LatestSession)
	if err != nil {
		return nil, fmt.Errorf("counting sessions: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT type, COUNT(*), COALESCE(SUM(duration_sec), 0)
		 FROM sessions
		 WHERE user_id = $1
		 GROUP BY type
		 ORDER BY COUNT(*) DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying sessions by type: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s TypeStat
		if err := rows.Scan(&s.Type, &s.Count, &s.TotalDuration); err != nil {
			return nil, fmt.Errorf("scanning type stat: %w", err)
		}
		stats.SessionsByType = append(stats.SessionsByType, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
