package mcpbridge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"guildwarden/internal/analytics"
	"guildwarden/internal/storage"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server exposes read-only bot data over the Model Context Protocol so
// external agents can inspect a guild without touching Discord.
type Server struct {
	store     *storage.Store
	analytics *analytics.Service
	server    *server.MCPServer
}

func New(store *storage.Store, analyticsService *analytics.Service) *Server {
	s := &Server{
		store:     store,
		analytics: analyticsService,
	}
	s.server = server.NewMCPServer(
		"guildwarden",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	reportTool := mcp.NewTool("guild_report",
		mcp.WithDescription("Aggregate activity report for a guild: audit volume by level and event, busiest users, open tickets, automation rule health"),
		mcp.WithString("guild_id",
			mcp.Required(),
			mcp.Description("Discord guild (server) id"),
		),
		mcp.WithNumber("hours",
			mcp.Description("Look-back window in hours (default: 24)"),
		),
	)
	s.server.AddTool(reportTool, s.handleGuildReport)

	rulesTool := mcp.NewTool("list_automation_rules",
		mcp.WithDescription("List a guild's automation rules with trigger, priority, active flag and success/failure counters"),
		mcp.WithString("guild_id",
			mcp.Required(),
			mcp.Description("Discord guild (server) id"),
		),
	)
	s.server.AddTool(rulesTool, s.handleListRules)

	executionsTool := mcp.NewTool("recent_executions",
		mcp.WithDescription("Most recent automation rule execution records for a guild"),
		mcp.WithString("guild_id",
			mcp.Required(),
			mcp.Description("Discord guild (server) id"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum records to return (default: 20)"),
		),
	)
	s.server.AddTool(executionsTool, s.handleRecentExecutions)
}

func (s *Server) handleGuildReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	guildID, err := request.RequireString("guild_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	hours := request.GetInt("hours", 24)
	if hours <= 0 {
		hours = 24
	}

	report, err := s.analytics.Report(ctx, guildID, time.Now().Add(-time.Duration(hours)*time.Hour))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Guild %s, last %dh: %d audit entries\n", guildID, hours, report.Total)
	for _, level := range []string{"INFO", "WARN", "CRIT"} {
		if count := report.ByLevel[level]; count > 0 {
			fmt.Fprintf(&b, "  %s: %d\n", level, count)
		}
	}
	if len(report.ByEvent) > 0 {
		b.WriteString("By event:\n")
		for event, count := range report.ByEvent {
			fmt.Fprintf(&b, "  %s: %d\n", event, count)
		}
	}
	if len(report.TopUsers) > 0 {
		b.WriteString("Most active users:\n")
		for _, user := range report.TopUsers {
			fmt.Fprintf(&b, "  %s: %d entries\n", user.UserID, user.Count)
		}
	}
	fmt.Fprintf(&b, "Open tickets: %d\n", report.OpenTickets)
	for _, rule := range report.Rules {
		fmt.Fprintf(&b, "Rule %d (%s): %d ok, %d failed\n", rule.RuleID, rule.Name, rule.Successes, rule.Failures)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleListRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	guildID, err := request.RequireString("guild_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rules, err := s.store.ListAutomationRules(ctx, guildID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list rules failed: %v", err)), nil
	}
	if len(rules) == 0 {
		return mcp.NewToolResultText("No automation rules configured"), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d rule(s):\n", len(rules))
	for _, rule := range rules {
		state := "inactive"
		if rule.Active {
			state = "active"
		}
		fmt.Fprintf(&b, "#%d %q on %s, priority %d, %s", rule.ID, rule.Name, rule.TriggerEvent, rule.Priority, state)
		if rule.CooldownSeconds > 0 {
			fmt.Fprintf(&b, ", cooldown %ds", rule.CooldownSeconds)
		}
		fmt.Fprintf(&b, " (%d ok / %d failed)", rule.SuccessCount, rule.FailureCount)
		if rule.LastError != "" {
			fmt.Fprintf(&b, " last error: %s", rule.LastError)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleRecentExecutions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	guildID, err := request.RequireString("guild_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := request.GetInt("limit", 20)

	records, err := s.store.ListExecutionRecords(ctx, guildID, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list executions failed: %v", err)), nil
	}
	if len(records) == 0 {
		return mcp.NewToolResultText("No executions recorded"), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d execution(s):\n", len(records))
	for _, record := range records {
		fmt.Fprintf(&b, "rule %d %s at %s (%dms) trigger=%s user=%s",
			record.RuleID,
			record.Status,
			record.StartedAt.Format(time.RFC3339),
			record.DurationMS,
			record.TriggerSource,
			record.TriggerUserID,
		)
		if record.ErrorMessage != "" {
			fmt.Fprintf(&b, " error=%s", record.ErrorMessage)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

// Serve blocks on the stdio transport until the peer disconnects.
func (s *Server) Serve() error {
	return server.ServeStdio(s.server)
}
