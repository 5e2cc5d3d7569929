package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/flowfocus/internal/models"
	"github.com/jackc/pgx/v5"
)

// GetTimerSettings retrieves a user's saved interval durations, falling
// back to the given defaults when the user has never saved any.
func (db *DB) GetTimerSettings(ctx context.Context, userID int, defaults models.TimerSettings) (models.TimerSettings, error) {
	var s models.TimerSettings
	err := db.Pool.QueryRow(ctx,
		`SELECT focus_sec, short_break_sec, long_break_sec
		 FROM timer_settings
		 WHERE user_id = $1`,
		userID).Scan(&s.FocusSec, &s.ShortBreakSec, &s.LongBreakSec)
	if errors.Is(err, pgx.ErrNoRows) {
		return defaults, nil
	}
	if err != nil {
		return defaults, fmt.Errorf("querying timer settings: %w", err)
	}
	return s, nil
}

// UpsertTimerSettings saves a user's interval durations.
func (db *DB) UpsertTimerSettings(ctx context.Context, userID int, s models.TimerSettings) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO timer_settings (user_id, focus_sec, short_break_sec, long_break_sec, updated_at)
		 VALUES ($1,$2,$3,$4,NOW())
		 ON CONFLICT (user_id) DO UPDATE SET
		   focus_sec = EXCLUDED.focus_sec,
		   short_break_sec = EXCLUDED.short_break_sec,
		   long_break_sec = EXCLUDED.long_break_sec,
		   updated_at = NOW()`,
		userID, s.FocusSec, s.ShortBreakSec, s.LongBreakSec)
	if err != nil {
		return fmt.Errorf("upserting timer settings: %w", err)
	}
	return nil
}
