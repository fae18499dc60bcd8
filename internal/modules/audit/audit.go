package audit

import (
	"context"
	"time"

	"guildwarden/internal/storage"

	"go.uber.org/zap"
)

const (
	LevelInfo = "INFO"
	LevelWarn = "WARN"
	LevelCrit = "CRIT"
)

const sweepInterval = 6 * time.Hour

// Logger fans every community event out to the database, the structured
// log and an optional channel notifier.
type Logger struct {
	store  *storage.Store
	logger *zap.Logger
	notify func(context.Context, storage.AuditLog)
	stop   chan struct{}
}

func NewLogger(store *storage.Store, logger *zap.Logger) *Logger {
	return &Logger{store: store, logger: logger, stop: make(chan struct{})}
}

// SetNotifier installs the hook that mirrors entries into the guild's
// configured log channel. Must be called before the bot starts handling
// events.
func (l *Logger) SetNotifier(notify func(context.Context, storage.AuditLog)) {
	l.notify = notify
}

func (l *Logger) Log(ctx context.Context, level, guildID, userID, event, details string) {
	entry := storage.AuditLog{
		GuildID:   guildID,
		UserID:    userID,
		Level:     level,
		Event:     event,
		Details:   details,
		CreatedAt: time.Now(),
	}
	if l.store != nil {
		if err := l.store.AddAuditLog(ctx, entry); err != nil {
			l.logger.Error("audit persist failed", zap.String("event", event), zap.Error(err))
		}
	}
	if l.notify != nil {
		l.notify(ctx, entry)
	}

	fields := []zap.Field{
		zap.String("guild_id", guildID),
		zap.String("user_id", userID),
		zap.String("event", event),
		zap.String("details", details),
	}
	switch level {
	case LevelCrit:
		l.logger.Error("audit", fields...)
	case LevelWarn:
		l.logger.Warn("audit", fields...)
	default:
		l.logger.Info("audit", fields...)
	}
}

func (l *Logger) Info(ctx context.Context, guildID, userID, event, details string) {
	l.Log(ctx, LevelInfo, guildID, userID, event, details)
}

func (l *Logger) Warn(ctx context.Context, guildID, userID, event, details string) {
	l.Log(ctx, LevelWarn, guildID, userID, event, details)
}

func (l *Logger) Crit(ctx context.Context, guildID, userID, event, details string) {
	l.Log(ctx, LevelCrit, guildID, userID, event, details)
}

// StartRetention prunes audit rows older than retentionDays on a fixed
// interval until Stop is called. A non-positive retention disables pruning.
func (l *Logger) StartRetention(ctx context.Context, retentionDays int) {
	if retentionDays <= 0 || l.store == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := l.store.CleanupAuditLogs(ctx, retentionDays); err != nil {
					l.logger.Error("audit cleanup failed", zap.Error(err))
				}
			case <-l.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (l *Logger) Stop() {
	close(l.stop)
}
