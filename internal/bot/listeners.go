package bot

import (
	"context"
	"fmt"

	"guildwarden/internal/automation"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func (b *Bot) eventContext(guildID, userID, channelID string) *automation.Context {
	ectx := &automation.Context{
		GuildID:   guildID,
		UserID:    userID,
		ChannelID: channelID,
	}
	if guild, err := b.session.State.Guild(guildID); err == nil {
		ectx.GuildName = guild.Name
	}
	if channelID != "" {
		if channel, err := b.session.State.Channel(channelID); err == nil {
			ectx.ChannelName = channel.Name
		}
	}
	return ectx
}

func (b *Bot) onGuildMemberAdd(session *discordgo.Session, event *discordgo.GuildMemberAdd) {
	ctx := context.Background()
	ectx := b.eventContext(event.GuildID, event.User.ID, "")
	ectx.Member = event.Member
	b.automation.ProcessEvent(ctx, automation.EventMemberJoin, ectx)
}

func (b *Bot) onGuildMemberRemove(session *discordgo.Session, event *discordgo.GuildMemberRemove) {
	ctx := context.Background()
	ectx := b.eventContext(event.GuildID, event.User.ID, "")
	ectx.Member = event.Member
	b.automation.ProcessEvent(ctx, automation.EventMemberLeave, ectx)
}

func (b *Bot) onMessageCreate(session *discordgo.Session, event *discordgo.MessageCreate) {
	if event.Author == nil || event.Author.Bot || event.GuildID == "" {
		return
	}
	ctx := context.Background()
	settings := b.guildSettings(ctx, event.GuildID)

	if settings.LinkGuardEnabled {
		if _, blocked := b.moderation.ScanMessage(ctx, session, event, event.GuildID); blocked {
			return
		}
	}

	if settings.LevelingEnabled {
		level, leveledUp, err := b.leveling.Award(ctx, event.GuildID, event.Author.ID)
		if err != nil {
			b.logger.Warn("xp award failed", zap.String("user_id", event.Author.ID), zap.Error(err))
		} else if leveledUp && b.cfg.Leveling.Announce {
			channelID := settings.LevelUpChannel
			if channelID == "" {
				channelID = event.ChannelID
			}
			content := fmt.Sprintf("🎉 <@%s> reached level **%d**!", event.Author.ID, level.Level)
			if _, err := session.ChannelMessageSend(channelID, content); err != nil {
				b.logger.Warn("level-up announce failed", zap.String("channel_id", channelID), zap.Error(err))
			}
		}
	}

	ectx := b.eventContext(event.GuildID, event.Author.ID, event.ChannelID)
	ectx.MessageID = event.ID
	ectx.Member = event.Member
	ectx.Message = event.Message
	if ectx.Member != nil && ectx.Member.User == nil {
		ectx.Member.User = event.Author
	}
	b.automation.ProcessEvent(ctx, automation.EventMessageSent, ectx)
}

func (b *Bot) onMessageReactionAdd(session *discordgo.Session, event *discordgo.MessageReactionAdd) {
	if event.GuildID == "" {
		return
	}
	if event.Member != nil && event.Member.User != nil && event.Member.User.Bot {
		return
	}
	ctx := context.Background()
	ectx := b.eventContext(event.GuildID, event.UserID, event.ChannelID)
	ectx.MessageID = event.MessageID
	ectx.Member = event.Member
	ectx.Custom = map[string]string{"emoji": event.Emoji.Name}
	b.automation.ProcessEvent(ctx, automation.EventReactionAdded, ectx)
}

// onGuildMemberUpdate fires one role_assigned event per role the member
// gained since the previous state. Removals are ignored.
func (b *Bot) onGuildMemberUpdate(session *discordgo.Session, event *discordgo.GuildMemberUpdate) {
	if event.BeforeUpdate == nil || event.User == nil {
		return
	}
	previous := make(map[string]struct{}, len(event.BeforeUpdate.Roles))
	for _, roleID := range event.BeforeUpdate.Roles {
		previous[roleID] = struct{}{}
	}

	ctx := context.Background()
	for _, roleID := range event.Roles {
		if _, ok := previous[roleID]; ok {
			continue
		}
		ectx := b.eventContext(event.GuildID, event.User.ID, "")
		ectx.Member = event.Member
		ectx.Custom = map[string]string{"role_id": roleID}
		b.automation.ProcessEvent(ctx, automation.EventRoleAssigned, ectx)
	}
}

func (b *Bot) onVoiceStateUpdate(session *discordgo.Session, event *discordgo.VoiceStateUpdate) {
	if event.GuildID == "" {
		return
	}
	var before string
	if event.BeforeUpdate != nil {
		before = event.BeforeUpdate.ChannelID
	}
	after := event.ChannelID
	if before == after {
		return
	}

	ctx := context.Background()
	if before != "" {
		ectx := b.eventContext(event.GuildID, event.UserID, before)
		b.automation.ProcessEvent(ctx, automation.EventVoiceLeave, ectx)
	}
	if after != "" {
		ectx := b.eventContext(event.GuildID, event.UserID, after)
		b.automation.ProcessEvent(ctx, automation.EventVoiceJoin, ectx)
	}
}
