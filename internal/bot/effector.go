package bot

import (
	"context"
	"time"

	"guildwarden/internal/automation"

	"github.com/bwmarrin/discordgo"
)

// sessionEffector adapts the discordgo session to the capability surfaces
// the engines need: automation actions, giveaway draws and alert posts.
type sessionEffector struct {
	session *discordgo.Session
}

func newSessionEffector(session *discordgo.Session) *sessionEffector {
	return &sessionEffector{session: session}
}

func (e *sessionEffector) SendMessage(ctx context.Context, channelID, content string, embed *automation.Embed) (string, error) {
	send := &discordgo.MessageSend{Content: content}
	if embed != nil {
		send.Embeds = []*discordgo.MessageEmbed{discordEmbed(embed)}
	}
	msg, err := e.session.ChannelMessageSendComplex(channelID, send, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

func (e *sessionEffector) SendDM(ctx context.Context, userID, content string, embed *automation.Embed) (string, error) {
	channel, err := e.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return e.SendMessage(ctx, channel.ID, content, embed)
}

func (e *sessionEffector) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	return e.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx))
}

func (e *sessionEffector) RemoveRole(ctx context.Context, guildID, userID, roleID string) error {
	return e.session.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx))
}

func (e *sessionEffector) TimeoutMember(ctx context.Context, guildID, userID string, until time.Time, reason string) error {
	_ = reason
	return e.session.GuildMemberTimeout(guildID, userID, &until, discordgo.WithContext(ctx))
}

func (e *sessionEffector) KickMember(ctx context.Context, guildID, userID, reason string) error {
	return e.session.GuildMemberDeleteWithReason(guildID, userID, reason, discordgo.WithContext(ctx))
}

func (e *sessionEffector) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return e.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
}

func (e *sessionEffector) CreateThread(ctx context.Context, channelID, messageID, name string, autoArchiveMinutes int) (string, error) {
	thread, err := e.session.MessageThreadStartComplex(channelID, messageID, &discordgo.ThreadStart{
		Name:                name,
		AutoArchiveDuration: autoArchiveMinutes,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return thread.ID, nil
}

// Entrants pages through every user who reacted with the entry emoji.
func (e *sessionEffector) Entrants(channelID, messageID, emoji string) ([]string, error) {
	if emoji == "" {
		emoji = "🎉"
	}
	var entrants []string
	after := ""
	for {
		users, err := e.session.MessageReactions(channelID, messageID, emoji, 100, "", after)
		if err != nil {
			return nil, err
		}
		for _, user := range users {
			entrants = append(entrants, user.ID)
		}
		if len(users) < 100 {
			return entrants, nil
		}
		after = users[len(users)-1].ID
	}
}

func (e *sessionEffector) Announce(channelID, content string) error {
	_, err := e.session.ChannelMessageSend(channelID, content)
	return err
}

// Broadcast satisfies the alerts notifier with the same send path.
func (e *sessionEffector) Broadcast(channelID, content string) error {
	return e.Announce(channelID, content)
}

func discordEmbed(embed *automation.Embed) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       embed.Title,
		Description: embed.Description,
		Color:       embed.Color,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}
