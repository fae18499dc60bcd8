package alerts

import (
	"context"
	"errors"
	"sync"
	"time"

	"guildwarden/internal/config"
	"guildwarden/internal/modules/audit"
	"guildwarden/internal/utils"

	"go.uber.org/zap"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Notifier posts the alert into the guild's configured alert channel.
type Notifier interface {
	Broadcast(channelID, content string) error
}

var (
	ErrDisabled    = errors.New("alerts are disabled")
	ErrRateLimited = errors.New("alert rate limit reached")
	ErrNoChannel   = errors.New("no alert channel configured")
)

// Module broadcasts red alerts, capped per guild by a sliding window so a
// compromised moderator account cannot flood everyone-pings.
type Module struct {
	mu       sync.Mutex
	cfg      config.AlertConfig
	notifier Notifier
	audit    *audit.Logger
	logger   *zap.Logger
	clock    Clock
	windows  map[string]*utils.Window
}

func New(cfg config.AlertConfig, notifier Notifier, auditLogger *audit.Logger, logger *zap.Logger) *Module {
	return &Module{
		cfg:      cfg,
		notifier: notifier,
		audit:    auditLogger,
		logger:   logger,
		clock:    realClock{},
		windows:  make(map[string]*utils.Window),
	}
}

func (m *Module) WithClock(clock Clock) {
	m.clock = clock
}

func (m *Module) Broadcast(ctx context.Context, guildID, channelID, senderID, message string) error {
	if !m.cfg.Enabled {
		return ErrDisabled
	}
	if channelID == "" {
		return ErrNoChannel
	}

	now := m.clock.Now()
	window := m.guildWindow(guildID)
	if m.cfg.MaxPerWindow > 0 && window.Count(now) >= m.cfg.MaxPerWindow {
		m.audit.Warn(ctx, guildID, senderID, "alert_rate_limited", message)
		return ErrRateLimited
	}
	window.Observe(now)

	content := "🚨 **RED ALERT** 🚨\n" + message
	if m.cfg.MentionEveryone {
		content = "@everyone " + content
	}
	if err := m.notifier.Broadcast(channelID, content); err != nil {
		m.logger.Error("alert broadcast failed", zap.String("guild_id", guildID), zap.Error(err))
		return err
	}
	m.audit.Crit(ctx, guildID, senderID, "alert_broadcast", message)
	return nil
}

func (m *Module) guildWindow(guildID string) *utils.Window {
	m.mu.Lock()
	defer m.mu.Unlock()
	window := m.windows[guildID]
	if window == nil {
		span := time.Duration(m.cfg.WindowSeconds) * time.Second
		if span <= 0 {
			span = time.Hour
		}
		window = utils.NewWindow(span)
		m.windows[guildID] = window
	}
	return window
}
