package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/flowfocus/internal/models"
	"github.com/google/uuid"
)

const sessionColumns = `id, user_id, type, duration_sec, started_at, completed_at, created_at`

// InsertSession inserts a session row. Returns true if inserted, false if
// the id already exists. Rows are append-only; there is no update path.
func (db *DB) InsertSession(ctx context.Context, row models.SessionRow) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`INSERT INTO sessions (id, user_id, type, duration_sec, started_at, completed_at)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT DO NOTHING`,
		row.ID, row.UserID, row.Type, row.DurationSec, row.StartedAt, row.CompletedAt)
	if err != nil {
		return false, fmt.Errorf("inserting session: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// QuerySessions retrieves sessions in a time range, newest-first by
// creation time. typeFilter narrows to a single session type when non-empty.
func (db *DB) QuerySessions(ctx context.Context, start, end time.Time, userID int, typeFilter string) ([]models.SessionRow, error) {
	query := `SELECT ` + sessionColumns + `
		 FROM sessions
		 WHERE completed_at >= $1 AND completed_at < $2 AND user_id = $3`
	args := []any{start, end, userID}

	if typeFilter != "" {
		query += ` AND type = $4`
		args = append(args, typeFilter)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	return scanSessionRows(rows)
}

// ListSessions retrieves the most recent sessions for a user, newest-first.
func (db *DB) ListSessions(ctx context.Context, userID, limit int) ([]models.SessionRow, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT `+sessionColumns+`
		 FROM sessions
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	return scanSessionRows(rows)
}

// AllSessions retrieves a user's full session history ordered by completion
// time. Achievement evaluation and streak computation read this.
func (db *DB) AllSessions(ctx context.Context, userID int) ([]models.SessionRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+sessionColumns+`
		 FROM sessions
		 WHERE user_id = $1
		 ORDER BY completed_at ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying session history: %w", err)
	}
	defer rows.Close()

	return scanSessionRows(rows)
}

// GetSession retrieves a single session by ID.
func (db *DB) GetSession(ctx context.Context, id uuid.UUID, userID int) (*models.SessionRow, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+sessionColumns+`
		 FROM sessions
		 WHERE id = $1 AND user_id = $2`,
		id, userID)

	var s models.SessionRow
	err := row.Scan(&s.ID, &s.UserID, &s.Type, &s.DurationSec, &s.StartedAt, &s.CompletedAt, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}
	return &s, nil
}

func scanSessionRows(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]models.SessionRow, error) {
	var result []models.SessionRow
	for rows.Next() {
		var s models.SessionRow
		if err := rows.Scan(&s.ID, &s.UserID, &s.Type, &s.DurationSec,
			&s.StartedAt, &s.CompletedAt, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
