package moderation

import (
	"context"
	"fmt"
	"time"

	"guildwarden/internal/config"
	"guildwarden/internal/modules/audit"
	"guildwarden/internal/storage"
	"guildwarden/internal/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Escalation outcomes for a warning, ordered by severity.
const (
	OutcomeWarned = "warned"
	OutcomeKicked = "kicked"
	OutcomeBanned = "banned"
)

type Module struct {
	cfg    config.ModerationConfig
	store  *storage.Store
	audit  *audit.Logger
	logger *zap.Logger
}

func New(cfg config.ModerationConfig, store *storage.Store, auditLogger *audit.Logger, logger *zap.Logger) *Module {
	return &Module{cfg: cfg, store: store, audit: auditLogger, logger: logger}
}

// Warn records a warning and applies the configured escalation once the
// user's total crosses the kick or ban threshold. The returned outcome is
// what actually happened to the member.
func (m *Module) Warn(ctx context.Context, session *discordgo.Session, guildID, userID, moderatorID, reason string) (string, int, error) {
	total, err := m.store.AddWarning(ctx, storage.Warning{
		GuildID:     guildID,
		UserID:      userID,
		ModeratorID: moderatorID,
		Reason:      reason,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return "", 0, fmt.Errorf("record warning: %w", err)
	}

	outcome := m.EscalationFor(total)
	detail := fmt.Sprintf("warning %d by %s: %s", total, moderatorID, reason)
	m.audit.Warn(ctx, guildID, userID, "moderation_warn", detail)

	if m.cfg.DMOnWarn {
		m.sendWarnDM(session, guildID, userID, reason, total, outcome)
	}

	switch outcome {
	case OutcomeBanned:
		if err := session.GuildBanCreateWithReason(guildID, userID, reason, 0); err != nil {
			m.logger.Error("ban failed", zap.String("user_id", userID), zap.Error(err))
			return OutcomeWarned, total, err
		}
		m.audit.Crit(ctx, guildID, userID, "moderation_ban", fmt.Sprintf("auto-ban at %d warnings", total))
	case OutcomeKicked:
		if err := session.GuildMemberDeleteWithReason(guildID, userID, reason); err != nil {
			m.logger.Error("kick failed", zap.String("user_id", userID), zap.Error(err))
			return OutcomeWarned, total, err
		}
		m.audit.Crit(ctx, guildID, userID, "moderation_kick", fmt.Sprintf("auto-kick at %d warnings", total))
	}
	return outcome, total, nil
}

// EscalationFor maps a warning total to the action it triggers. A zero or
// negative threshold disables that escalation step.
func (m *Module) EscalationFor(total int) string {
	if m.cfg.WarnBanThreshold > 0 && total >= m.cfg.WarnBanThreshold {
		return OutcomeBanned
	}
	if m.cfg.WarnKickThreshold > 0 && total >= m.cfg.WarnKickThreshold {
		return OutcomeKicked
	}
	return OutcomeWarned
}

func (m *Module) sendWarnDM(session *discordgo.Session, guildID, userID, reason string, total int, outcome string) {
	channel, err := session.UserChannelCreate(userID)
	if err != nil {
		m.logger.Warn("warn DM channel failed", zap.String("user_id", userID), zap.Error(err))
		return
	}
	text := fmt.Sprintf("You received warning #%d: %s", total, reason)
	if outcome != OutcomeWarned {
		text += fmt.Sprintf(" (you have been %s)", outcome)
	}
	if _, err := session.ChannelMessageSend(channel.ID, text); err != nil {
		m.logger.Warn("warn DM send failed", zap.String("user_id", userID), zap.Error(err))
	}
}

// ScanMessage checks every link in a message against the guild's domain
// blocklist. A blocked link deletes the message and logs the hit. Returns
// the blocked domain when a hit occurred.
func (m *Module) ScanMessage(ctx context.Context, session *discordgo.Session, msg *discordgo.MessageCreate, guildID string) (string, bool) {
	if !m.cfg.LinkGuardEnabled {
		return "", false
	}
	urls := utils.ExtractURLs(msg.Content)
	if len(urls) == 0 {
		return "", false
	}

	domains, err := m.store.ListDomainBlock(ctx, guildID)
	if err != nil {
		m.logger.Error("blocklist fetch failed", zap.String("guild_id", guildID), zap.Error(err))
		return "", false
	}
	if len(domains) == 0 {
		return "", false
	}
	blocklist := make(map[string]struct{}, len(domains))
	for _, domain := range domains {
		blocklist[domain] = struct{}{}
	}

	for _, raw := range urls {
		domain, err := utils.NormalizeDomain(raw)
		if err != nil {
			continue
		}
		if !utils.DomainBlocked(domain, blocklist) {
			continue
		}
		if err := session.ChannelMessageDelete(msg.ChannelID, msg.ID); err != nil {
			m.logger.Warn("blocked link delete failed", zap.String("message_id", msg.ID), zap.Error(err))
		}
		m.audit.Warn(ctx, guildID, msg.Author.ID, "link_guard", "blocked domain: "+domain)
		return domain, true
	}
	return "", false
}
