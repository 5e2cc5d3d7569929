package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("FlowFocus", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("FlowFocus focus session server. Query focus and break sessions, achievement progress, streaks, and weekly analytics. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetSessions, Handler: h.getSessions},
		server.ServerTool{Tool: toolGetAchievements, Handler: h.getAchievements},
		server.ServerTool{Tool: toolGetAnalyticsSummary, Handler: h.getAnalyticsSummary},
		server.ServerTool{Tool: toolGetWeeklyFocus, Handler: h.getWeeklyFocus},
		server.ServerTool{Tool: toolGetStreaks, Handler: h.getStreaks},
		server.ServerTool{Tool: toolGetDataStats, Handler: h.getDataStats},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resDailySummary, Handler: h.dailySummary},
		server.ServerResource{Resource: resRecentSessions, Handler: h.recentSessions},
		server.ServerResource{Resource: resAchievementCatalog, Handler: h.achievementCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resDailySummary = mcp.NewResource(
	"flowfocus://daily_summary",
	"Daily Summary",
	mcp.WithResourceDescription("Today's focus time, completed sessions, current streak, and this week's totals"),
	mcp.WithMIMEType("application/json"),
)

var resRecentSessions = mcp.NewResource(
	"flowfocus://recent_sessions",
	"Recent Sessions",
	mcp.WithResourceDescription("The 20 most recent focus and break sessions"),
	mcp.WithMIMEType("application/json"),
)

var resAchievementCatalog = mcp.NewResource(
	"flowfocus://achievement_catalog",
	"Achievement Catalog",
	mcp.WithResourceDescription("All achievement definitions with requirements and unlock criteria"),
	mcp.WithMIMEType("application/json"),
)
