package bot

import (
	"context"
	"time"

	"guildwarden/internal/analytics"
	"guildwarden/internal/automation"
	"guildwarden/internal/config"
	"guildwarden/internal/modules/alerts"
	"guildwarden/internal/modules/audit"
	"guildwarden/internal/modules/giveaways"
	"guildwarden/internal/modules/leveling"
	"guildwarden/internal/modules/moderation"
	"guildwarden/internal/modules/tickets"
	"guildwarden/internal/storage"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Bot wires the discord session to the engines. Every collaborator is
// injected; Bot owns only the session and the event-to-engine glue.
type Bot struct {
	cfg        config.Config
	logger     *zap.Logger
	store      *storage.Store
	audit      *audit.Logger
	analytics  *analytics.Service
	automation *automation.Engine
	moderation *moderation.Module
	leveling   *leveling.Module
	tickets    *tickets.Module
	giveaways  *giveaways.Engine
	alerts     *alerts.Module
	session    *discordgo.Session
	effects    *sessionEffector
}

func New(cfg config.Config, logger *zap.Logger, store *storage.Store, auditLogger *audit.Logger, analyticsService *analytics.Service) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsMessageContent

	b := &Bot{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		audit:     auditLogger,
		analytics: analyticsService,
		session:   session,
	}
	b.effects = newSessionEffector(session)

	b.automation = automation.New(
		&ruleSource{store: store, logger: logger},
		&executionSink{store: store},
		b.effects,
		logger,
		cfg.Automation.CooldownCapacity,
	)
	b.moderation = moderation.New(cfg.Moderation, store, auditLogger, logger)
	b.leveling = leveling.New(cfg.Leveling, store, logger)
	b.tickets = tickets.New(cfg.Tickets, store, auditLogger, logger)
	b.giveaways = giveaways.New(cfg.Giveaways, store, b.effects, auditLogger, logger)
	b.alerts = alerts.New(cfg.Alerts, b.effects, auditLogger, logger)

	if b.audit != nil {
		b.audit.SetNotifier(func(ctx context.Context, entry storage.AuditLog) {
			if !b.cfg.Notifications.AuditToChannel {
				return
			}
			b.notifyAudit(ctx, entry)
		})
	}

	return b, nil
}

// Automation exposes the engine for custom condition and action hooks.
func (b *Bot) Automation() *automation.Engine {
	return b.automation
}

func (b *Bot) Start() error {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onMessageCreate)
	b.session.AddHandler(b.onGuildMemberAdd)
	b.session.AddHandler(b.onGuildMemberRemove)
	b.session.AddHandler(b.onGuildMemberUpdate)
	b.session.AddHandler(b.onMessageReactionAdd)
	b.session.AddHandler(b.onVoiceStateUpdate)
	b.session.AddHandler(b.onInteractionCreate)

	if err := b.session.Open(); err != nil {
		return err
	}

	if err := b.registerCommands(); err != nil {
		return err
	}

	b.giveaways.SetBotUserID(b.session.State.User.ID)
	if err := b.giveaways.Resume(context.Background()); err != nil {
		b.logger.Error("giveaway resume failed", zap.Error(err))
	}
	b.audit.StartRetention(context.Background(), b.cfg.RetentionDays)

	return nil
}

func (b *Bot) Close(ctx context.Context) {
	_ = ctx
	b.giveaways.Stop()
	b.automation.Close()
	b.audit.Stop()
	if b.session != nil {
		_ = b.session.Close()
	}
}

func (b *Bot) onReady(session *discordgo.Session, event *discordgo.Ready) {
	b.logger.Info("discord ready", zap.String("user", session.State.User.Username))
}

func (b *Bot) guildSettings(ctx context.Context, guildID string) storage.GuildSettings {
	defaults := storage.GuildSettings{
		GuildID:          guildID,
		LogChannel:       b.cfg.DefaultLogChannel,
		LevelingEnabled:  b.cfg.Leveling.Enabled,
		LinkGuardEnabled: b.cfg.Moderation.LinkGuardEnabled,
	}

	settings, err := b.store.GetGuildSettings(ctx, guildID, defaults)
	if err != nil {
		b.logger.Warn("guild settings fallback", zap.Error(err))
		return defaults
	}
	return settings
}

func (b *Bot) notifyAudit(ctx context.Context, entry storage.AuditLog) {
	settings := b.guildSettings(ctx, entry.GuildID)
	channelID := settings.LogChannel
	if channelID == "" {
		return
	}
	color := b.cfg.Notifications.EmbedColors.Info
	switch entry.Level {
	case audit.LevelWarn:
		color = b.cfg.Notifications.EmbedColors.Warning
	case audit.LevelCrit:
		color = b.cfg.Notifications.EmbedColors.Error
	}
	if entry.Event == "alert_broadcast" {
		color = b.cfg.Notifications.EmbedColors.Alert
	}
	embed := &discordgo.MessageEmbed{
		Title:       entry.Event,
		Description: entry.Details,
		Color:       color,
		Timestamp:   entry.CreatedAt.Format(time.RFC3339),
	}
	if entry.UserID != "" {
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "User", Value: "<@" + entry.UserID + ">", Inline: true},
		}
	}
	if _, err := b.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		b.logger.Warn("audit notify failed", zap.String("guild_id", entry.GuildID), zap.Error(err))
	}
}

func (b *Bot) commandEmbed(title, description string, color int, fields []*discordgo.MessageEmbedField) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
		Fields:      fields,
	}
}

func (b *Bot) respond(session *discordgo.Session, interaction *discordgo.InteractionCreate, content string, ephemeral bool) {
	flags := discordgo.MessageFlags(0)
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	_ = session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   flags,
		},
	})
}

func (b *Bot) respondEmbed(session *discordgo.Session, interaction *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) {
	if embed == nil {
		b.respond(session, interaction, "No response available.", ephemeral)
		return
	}
	flags := discordgo.MessageFlags(0)
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}
	_ = session.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  flags,
		},
	})
}
