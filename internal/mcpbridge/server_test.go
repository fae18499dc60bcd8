package mcpbridge

import (
	"context"
	"strings"
	"testing"

	"guildwarden/internal/analytics"
	"guildwarden/internal/storage"

	"github.com/mark3labs/mcp-go/mcp"
)

func newTestServer(t *testing.T) (*Server, *storage.Store) {
	t.Helper()
	store, err := storage.New(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(store.Close)
	return New(store, analytics.New(store)), store
}

func callArgs(args map[string]any) mcp.CallToolRequest {
	var request mcp.CallToolRequest
	request.Params.Arguments = args
	return request
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatalf("empty tool result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestListRulesTool(t *testing.T) {
	server, store := newTestServer(t)
	ctx := context.Background()

	result, err := server.handleListRules(ctx, callArgs(map[string]any{"guild_id": "g1"}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if got := resultText(t, result); !strings.Contains(got, "No automation rules") {
		t.Fatalf("expected empty marker, got %q", got)
	}

	if _, err := store.CreateAutomationRule(ctx, storage.AutomationRule{
		GuildID:      "g1",
		Name:         "welcome",
		TriggerEvent: "member_join",
		Priority:     5,
		Active:       true,
	}); err != nil {
		t.Fatalf("create rule: %v", err)
	}

	result, err = server.handleListRules(ctx, callArgs(map[string]any{"guild_id": "g1"}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	got := resultText(t, result)
	if !strings.Contains(got, `"welcome"`) || !strings.Contains(got, "member_join") {
		t.Fatalf("expected rule summary, got %q", got)
	}
}

func TestGuildReportToolRequiresGuild(t *testing.T) {
	server, _ := newTestServer(t)

	result, err := server.handleGuildReport(context.Background(), callArgs(map[string]any{}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !result.IsError {
		t.Fatalf("missing guild_id must produce a tool error")
	}
}

func TestRecentExecutionsTool(t *testing.T) {
	server, store := newTestServer(t)
	ctx := context.Background()

	result, err := server.handleRecentExecutions(ctx, callArgs(map[string]any{"guild_id": "g1"}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if got := resultText(t, result); !strings.Contains(got, "No executions") {
		t.Fatalf("expected empty marker, got %q", got)
	}

	if err := store.AddExecutionRecord(ctx, storage.ExecutionRecord{
		RuleID:        7,
		GuildID:       "g1",
		TriggerSource: "message_sent",
		TriggerUserID: "u1",
		Status:        "completed",
	}); err != nil {
		t.Fatalf("add record: %v", err)
	}

	result, err = server.handleRecentExecutions(ctx, callArgs(map[string]any{"guild_id": "g1", "limit": float64(5)}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	got := resultText(t, result)
	if !strings.Contains(got, "rule 7 completed") {
		t.Fatalf("expected execution line, got %q", got)
	}
}
