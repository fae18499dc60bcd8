package config

import (
	"testing"
)

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("LEVELING_XP_MIN", "5")
	t.Setenv("ALERTS_MAX_PER_WINDOW", "9")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DiscordToken != "token" {
		t.Fatalf("expected token override, got %q", cfg.DiscordToken)
	}
	if cfg.Leveling.XPMin != 5 {
		t.Fatalf("expected xp_min 5, got %d", cfg.Leveling.XPMin)
	}
	if cfg.Alerts.MaxPerWindow != 9 {
		t.Fatalf("expected max_per_window 9, got %d", cfg.Alerts.MaxPerWindow)
	}
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")
	t.Setenv("DISCORD_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error without token")
	}
}

func TestBuildLoggerLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		logger, err := BuildLogger(level)
		if err != nil {
			t.Fatalf("build logger %s: %v", level, err)
		}
		_ = logger.Sync()
	}
}
