package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/flowfocus/internal/achievements"
	"github.com/claude/flowfocus/internal/analytics"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) dailySummary(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	summary, err := h.ds.GetAnalyticsSummary(ctx, uid)
	if err != nil {
		return nil, err
	}

	streaks, err := h.ds.GetStreaks(ctx, uid)
	if err != nil {
		h.log.Warn("daily_summary: streak query failed", "error", err)
	}

	sessions, err := h.ds.ListSessions(ctx, uid, 10)
	if err != nil {
		h.log.Warn("daily_summary: session query failed", "error", err)
	}

	payload := map[string]any{
		"summary":         summary,
		"today_focus":     analytics.FormatDuration(summary.TodaySeconds),
		"week_focus":      analytics.FormatDuration(summary.WeekSeconds),
		"streaks":         streaks,
		"latest_sessions": sessions,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) recentSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	rows, err := h.ds.ListSessions(ctx, uid, 20)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) achievementCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(achievements.Catalog)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
