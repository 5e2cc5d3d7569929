package mcp

import (
	"context"
	"time"

	"github.com/claude/flowfocus/internal/achievements"
	"github.com/claude/flowfocus/internal/analytics"
	"github.com/claude/flowfocus/internal/models"
	"github.com/claude/flowfocus/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both DBSource (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	ListSessions(ctx context.Context, userID, limit int) ([]models.SessionRow, error)
	QuerySessions(ctx context.Context, start, end time.Time, userID int, typeFilter string) ([]models.SessionRow, error)
	GetAchievements(ctx context.Context, userID int) ([]achievements.Progress, error)
	GetAnalyticsSummary(ctx context.Context, userID int) (*analytics.Summary, error)
	GetWeeklyFocus(ctx context.Context, userID int) ([]analytics.DayBucket, error)
	GetStreaks(ctx context.Context, userID int) (*analytics.Streaks, error)
	GetDataStats(ctx context.Context, userID int) (*storage.DataStats, error)
}

// DBSource implements DataSource against local storage, running the
// achievement and analytics computations in process.
type DBSource struct {
	db        *storage.DB
	evaluator *achievements.Evaluator
	agg       *analytics.Aggregator
}

// Compile-time check: *DBSource satisfies DataSource.
var _ DataSource = (*DBSource)(nil)

// NewDBSource creates a DataSource backed by the local database.
func NewDBSource(db *storage.DB, evaluator *achievements.Evaluator, agg *analytics.Aggregator) *DBSource {
	return &DBSource{db: db, evaluator: evaluator, agg: agg}
}

func (s *DBSource) ListSessions(ctx context.Context, userID, limit int) ([]models.SessionRow, error) {
	return s.db.ListSessions(ctx, userID, limit)
}

func (s *DBSource) QuerySessions(ctx context.Context, start, end time.Time, userID int, typeFilter string) ([]models.SessionRow, error) {
	return s.db.QuerySessions(ctx, start, end, userID, typeFilter)
}

func (s *DBSource) GetAchievements(ctx context.Context, userID int) ([]achievements.Progress, error) {
	rows, err := s.db.AllSessions(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.evaluator.Evaluate(rows, time.Now()), nil
}

func (s *DBSource) GetAnalyticsSummary(ctx context.Context, userID int) (*analytics.Summary, error) {
	rows, err := s.db.AllSessions(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := s.agg.Summarize(rows, time.Now())
	return &summary, nil
}

func (s *DBSource) GetWeeklyFocus(ctx context.Context, userID int) ([]analytics.DayBucket, error) {
	rows, err := s.db.AllSessions(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.agg.WeeklyFocus(rows, time.Now()), nil
}

func (s *DBSource) GetStreaks(ctx context.Context, userID int) (*analytics.Streaks, error) {
	rows, err := s.db.AllSessions(ctx, userID)
	if err != nil {
		return nil, err
	}
	streaks := s.agg.Streaks(rows, time.Now())
	return &streaks, nil
}

func (s *DBSource) GetDataStats(ctx context.Context, userID int) (*storage.DataStats, error) {
	return s.db.GetDataStats(ctx, userID)
}
