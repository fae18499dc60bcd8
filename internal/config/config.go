package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DiscordToken      string           `yaml:"discord_token"`
	DatabasePath      string           `yaml:"database_path"`
	LogLevel          string           `yaml:"log_level"`
	DefaultLogChannel string           `yaml:"default_log_channel"`
	RetentionDays     int              `yaml:"retention_days"`
	Health            HealthConfig     `yaml:"health"`
	Automation        AutomationConfig `yaml:"automation"`
	Leveling          LevelingConfig   `yaml:"leveling"`
	Moderation        ModerationConfig `yaml:"moderation"`
	Tickets           TicketConfig     `yaml:"tickets"`
	Giveaways         GiveawayConfig   `yaml:"giveaways"`
	Alerts            AlertConfig      `yaml:"alerts"`
	MCP               MCPConfig        `yaml:"mcp"`
	Notifications     NotifyConfig     `yaml:"notifications"`
}

type HealthConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type AutomationConfig struct {
	CooldownCapacity int `yaml:"cooldown_capacity"`
}

type LevelingConfig struct {
	Enabled         bool `yaml:"enabled"`
	XPMin           int  `yaml:"xp_min"`
	XPMax           int  `yaml:"xp_max"`
	CooldownSeconds int  `yaml:"cooldown_seconds"`
	Announce        bool `yaml:"announce"`
}

type ModerationConfig struct {
	WarnKickThreshold int  `yaml:"warn_kick_threshold"`
	WarnBanThreshold  int  `yaml:"warn_ban_threshold"`
	DMOnWarn          bool `yaml:"dm_on_warn"`
	LinkGuardEnabled  bool `yaml:"link_guard_enabled"`
}

type TicketConfig struct {
	Enabled        bool   `yaml:"enabled"`
	NamePrefix     string `yaml:"name_prefix"`
	MaxOpenPerUser int    `yaml:"max_open_per_user"`
}

type GiveawayConfig struct {
	Enabled      bool   `yaml:"enabled"`
	EntryEmoji   string `yaml:"entry_emoji"`
	MinMinutes   int    `yaml:"min_minutes"`
	MaxDurationH int    `yaml:"max_duration_hours"`
}

type AlertConfig struct {
	Enabled         bool `yaml:"enabled"`
	MaxPerWindow    int  `yaml:"max_per_window"`
	WindowSeconds   int  `yaml:"window_seconds"`
	MentionEveryone bool `yaml:"mention_everyone"`
}

type MCPConfig struct {
	Enabled bool `yaml:"enabled"`
}

type NotifyConfig struct {
	AuditToChannel bool        `yaml:"audit_to_channel"`
	EmbedColors    EmbedColors `yaml:"embed_colors"`
}

type EmbedColors struct {
	Info    int `yaml:"info"`
	Success int `yaml:"success"`
	Warning int `yaml:"warning"`
	Error   int `yaml:"error"`
	Alert   int `yaml:"alert"`
}

func DefaultConfig() Config {
	return Config{
		DatabasePath:  "/data/guildwarden.db",
		LogLevel:      "info",
		RetentionDays: 30,
		Health:        HealthConfig{Enabled: false, Addr: ":8080"},
		Automation:    AutomationConfig{CooldownCapacity: 4096},
		Leveling: LevelingConfig{
			Enabled:         true,
			XPMin:           15,
			XPMax:           25,
			CooldownSeconds: 60,
			Announce:        true,
		},
		Moderation: ModerationConfig{
			WarnKickThreshold: 3,
			WarnBanThreshold:  5,
			DMOnWarn:          true,
			LinkGuardEnabled:  true,
		},
		Tickets: TicketConfig{
			Enabled:        true,
			NamePrefix:     "ticket",
			MaxOpenPerUser: 1,
		},
		Giveaways: GiveawayConfig{
			Enabled:      true,
			EntryEmoji:   "🎉",
			MinMinutes:   1,
			MaxDurationH: 336,
		},
		Alerts: AlertConfig{
			Enabled:         true,
			MaxPerWindow:    3,
			WindowSeconds:   600,
			MentionEveryone: false,
		},
		MCP: MCPConfig{Enabled: false},
		Notifications: NotifyConfig{
			AuditToChannel: true,
			EmbedColors: EmbedColors{
				Info:    0x3B82F6,
				Success: 0x22C55E,
				Warning: 0xF59E0B,
				Error:   0xEF4444,
				Alert:   0xDC2626,
			},
		},
	}
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	if cfg.DiscordToken == "" {
		return Config{}, errors.New("DISCORD_TOKEN is required")
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.DiscordToken = envString("DISCORD_TOKEN", cfg.DiscordToken)
	cfg.DatabasePath = envString("DATABASE_PATH", cfg.DatabasePath)
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)
	cfg.DefaultLogChannel = envString("DEFAULT_LOG_CHANNEL", cfg.DefaultLogChannel)
	cfg.RetentionDays = envInt("RETENTION_DAYS", cfg.RetentionDays)
	cfg.Health.Enabled = envBool("HEALTH_ENABLED", cfg.Health.Enabled)
	cfg.Health.Addr = envString("HEALTH_ADDR", cfg.Health.Addr)
	cfg.Automation.CooldownCapacity = envInt("AUTOMATION_COOLDOWN_CAPACITY", cfg.Automation.CooldownCapacity)
	cfg.Leveling.Enabled = envBool("LEVELING_ENABLED", cfg.Leveling.Enabled)
	cfg.Leveling.XPMin = envInt("LEVELING_XP_MIN", cfg.Leveling.XPMin)
	cfg.Leveling.XPMax = envInt("LEVELING_XP_MAX", cfg.Leveling.XPMax)
	cfg.Leveling.CooldownSeconds = envInt("LEVELING_COOLDOWN_SECONDS", cfg.Leveling.CooldownSeconds)
	cfg.Moderation.WarnKickThreshold = envInt("WARN_KICK_THRESHOLD", cfg.Moderation.WarnKickThreshold)
	cfg.Moderation.WarnBanThreshold = envInt("WARN_BAN_THRESHOLD", cfg.Moderation.WarnBanThreshold)
	cfg.Moderation.LinkGuardEnabled = envBool("LINK_GUARD_ENABLED", cfg.Moderation.LinkGuardEnabled)
	cfg.Tickets.Enabled = envBool("TICKETS_ENABLED", cfg.Tickets.Enabled)
	cfg.Giveaways.Enabled = envBool("GIVEAWAYS_ENABLED", cfg.Giveaways.Enabled)
	cfg.Alerts.Enabled = envBool("ALERTS_ENABLED", cfg.Alerts.Enabled)
	cfg.Alerts.MaxPerWindow = envInt("ALERTS_MAX_PER_WINDOW", cfg.Alerts.MaxPerWindow)
	cfg.Alerts.WindowSeconds = envInt("ALERTS_WINDOW_SECONDS", cfg.Alerts.WindowSeconds)
	cfg.MCP.Enabled = envBool("MCP_ENABLED", cfg.MCP.Enabled)
	cfg.Notifications.AuditToChannel = envBool("AUDIT_TO_CHANNEL", cfg.Notifications.AuditToChannel)
}

func BuildLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	lvl := strings.ToLower(level)
	switch lvl {
	case "debug", "info", "warn", "error":
		cfg.Level = zap.NewAtomicLevelAt(parseLevel(lvl))
	default:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	return cfg.Build()
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		lower := strings.ToLower(value)
		return lower == "1" || lower == "true" || lower == "yes"
	}
	return fallback
}
