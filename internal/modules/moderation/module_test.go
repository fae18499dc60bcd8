package moderation

import (
	"context"
	"testing"
	"time"

	"guildwarden/internal/config"
	"guildwarden/internal/modules/audit"
	"guildwarden/internal/storage"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func newTestModule(t *testing.T, cfg config.ModerationConfig) (*Module, *storage.Store) {
	t.Helper()
	store, err := storage.New(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(store.Close)
	auditLogger := audit.NewLogger(store, zap.NewNop())
	return New(cfg, store, auditLogger, zap.NewNop()), store
}

func TestEscalationThresholds(t *testing.T) {
	module, _ := newTestModule(t, config.ModerationConfig{WarnKickThreshold: 3, WarnBanThreshold: 5})

	cases := []struct {
		total int
		want  string
	}{
		{1, OutcomeWarned},
		{2, OutcomeWarned},
		{3, OutcomeKicked},
		{4, OutcomeKicked},
		{5, OutcomeBanned},
		{9, OutcomeBanned},
	}
	for _, tc := range cases {
		if got := module.EscalationFor(tc.total); got != tc.want {
			t.Fatalf("EscalationFor(%d) = %s, want %s", tc.total, got, tc.want)
		}
	}
}

func TestEscalationDisabledThresholds(t *testing.T) {
	module, _ := newTestModule(t, config.ModerationConfig{})
	if got := module.EscalationFor(100); got != OutcomeWarned {
		t.Fatalf("zero thresholds must never escalate, got %s", got)
	}
}

func TestWarnAccumulates(t *testing.T) {
	module, store := newTestModule(t, config.ModerationConfig{WarnKickThreshold: 5, WarnBanThreshold: 10})
	ctx := context.Background()

	outcome, total, err := module.Warn(ctx, &discordgo.Session{}, "g1", "u1", "mod1", "spam")
	if err != nil {
		t.Fatalf("warn: %v", err)
	}
	if outcome != OutcomeWarned || total != 1 {
		t.Fatalf("got outcome=%s total=%d", outcome, total)
	}

	_, total, err = module.Warn(ctx, &discordgo.Session{}, "g1", "u1", "mod1", "spam again")
	if err != nil {
		t.Fatalf("warn: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected running total 2, got %d", total)
	}

	warnings, err := store.ListWarnings(ctx, "g1", "u1")
	if err != nil {
		t.Fatalf("list warnings: %v", err)
	}
	if len(warnings) != 2 {
		t.Fatalf("expected 2 stored warnings, got %d", len(warnings))
	}
	for _, warning := range warnings {
		if age := time.Since(warning.CreatedAt); age < 0 || age > time.Minute {
			t.Fatalf("warning timestamp %v is not recent", warning.CreatedAt)
		}
	}
}

func TestScanMessageMisses(t *testing.T) {
	module, store := newTestModule(t, config.ModerationConfig{LinkGuardEnabled: true})
	ctx := context.Background()
	if err := store.AddDomainBlock(ctx, "g1", "bad.com"); err != nil {
		t.Fatalf("add block: %v", err)
	}

	msg := func(content string) *discordgo.MessageCreate {
		return &discordgo.MessageCreate{Message: &discordgo.Message{
			ID: "1", ChannelID: "c1", GuildID: "g1",
			Author:  &discordgo.User{ID: "u1"},
			Content: content,
		}}
	}

	if _, hit := module.ScanMessage(ctx, &discordgo.Session{}, msg("no links here"), "g1"); hit {
		t.Fatalf("plain text must not hit")
	}
	if _, hit := module.ScanMessage(ctx, &discordgo.Session{}, msg("see https://good.com/page"), "g1"); hit {
		t.Fatalf("unlisted domain must not hit")
	}

	disabled, _ := newTestModule(t, config.ModerationConfig{LinkGuardEnabled: false})
	if _, hit := disabled.ScanMessage(ctx, &discordgo.Session{}, msg("see https://bad.com"), "g1"); hit {
		t.Fatalf("disabled guard must not hit")
	}
}
