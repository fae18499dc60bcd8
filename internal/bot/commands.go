package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func commandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "warn",
			Description: "Warn a member",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Member to warn", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "Why the warning is issued", Required: true},
			},
		},
		{
			Name:        "warnings",
			Description: "List a member's warnings",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Member to inspect", Required: true},
			},
		},
		{
			Name:        "kick",
			Description: "Kick a member",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Member to kick", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "Why the member is kicked"},
			},
		},
		{
			Name:        "ban",
			Description: "Ban a member",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Member to ban", Required: true},
				{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "Why the member is banned"},
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "delete_days", Description: "Days of messages to delete (0-7)"},
			},
		},
		{
			Name:        "ticket",
			Description: "Support tickets",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "open",
					Description: "Open a support ticket",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "subject", Description: "What the ticket is about", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "close",
					Description: "Close the ticket in this channel",
				},
			},
		},
		{
			Name:        "rank",
			Description: "Show a member's level and XP",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "Member to look up (defaults to you)"},
			},
		},
		{
			Name:        "leaderboard",
			Description: "Show the top ranked members",
		},
		{
			Name:        "giveaway",
			Description: "Run giveaways",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "start",
					Description: "Start a giveaway in this channel",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "prize", Description: "What the winner gets", Required: true},
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "minutes", Description: "How long the giveaway runs", Required: true},
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "winners", Description: "Number of winners (default 1)"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "end",
					Description: "End a giveaway early",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "id", Description: "Giveaway id", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "reroll",
					Description: "Draw new winners for an ended giveaway",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "id", Description: "Giveaway id", Required: true},
					},
				},
			},
		},
		{
			Name:        "faq",
			Description: "Manage the server FAQ",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "set",
					Description: "Create or update an FAQ entry",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "title", Description: "Entry title", Required: true},
						{Type: discordgo.ApplicationCommandOptionString, Name: "body", Description: "Entry body", Required: true},
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "id", Description: "Entry id to update"},
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "position", Description: "Sort position"},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "delete",
					Description: "Delete an FAQ entry",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "id", Description: "Entry id", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List FAQ entries",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "publish",
					Description: "Publish the FAQ to the configured channel",
				},
			},
		},
		{
			Name:        "alert",
			Description: "Broadcast a red alert to the alert channel",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionString, Name: "message", Description: "Alert text", Required: true},
			},
		},
		{
			Name:        "automation",
			Description: "Manage automation rules",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List rules and their stats",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "enable",
					Description: "Enable a rule",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "id", Description: "Rule id", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "disable",
					Description: "Disable a rule",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "id", Description: "Rule id", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "delete",
					Description: "Delete a rule",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionInteger, Name: "id", Description: "Rule id", Required: true},
					},
				},
			},
		},
		{
			Name:        "report",
			Description: "Summarise recent guild activity",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionInteger, Name: "days", Description: "Window in days (default 1)"},
			},
		},
		{
			Name:        "settings",
			Description: "Configure channels and feature toggles",
			Options: []*discordgo.ApplicationCommandOption{
				{Type: discordgo.ApplicationCommandOptionChannel, Name: "log_channel", Description: "Channel for audit notifications"},
				{Type: discordgo.ApplicationCommandOptionChannel, Name: "alert_channel", Description: "Channel for red alerts"},
				{Type: discordgo.ApplicationCommandOptionChannel, Name: "levelup_channel", Description: "Channel for level-up announcements"},
				{Type: discordgo.ApplicationCommandOptionChannel, Name: "faq_channel", Description: "Channel for FAQ publishing"},
				{Type: discordgo.ApplicationCommandOptionChannel, Name: "ticket_category", Description: "Category for ticket channels"},
				{Type: discordgo.ApplicationCommandOptionBoolean, Name: "leveling", Description: "Toggle XP on messages"},
				{Type: discordgo.ApplicationCommandOptionBoolean, Name: "link_guard", Description: "Toggle the link blocklist"},
			},
		},
		{
			Name:        "domain",
			Description: "Manage the blocked-domain list",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "block",
					Description: "Block a domain",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "domain", Description: "Domain to block", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "unblock",
					Description: "Unblock a domain",
					Options: []*discordgo.ApplicationCommandOption{
						{Type: discordgo.ApplicationCommandOptionString, Name: "domain", Description: "Domain to unblock", Required: true},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List blocked domains",
				},
			},
		},
	}
}

// registerCommands reconciles the live global command set against the
// definitions: existing commands are edited in place, missing ones created,
// stale ones removed.
func (b *Bot) registerCommands() error {
	appID := b.session.State.User.ID
	desired := commandDefinitions()

	existing, err := b.session.ApplicationCommands(appID, "")
	if err != nil {
		return fmt.Errorf("fetch commands: %w", err)
	}
	byName := make(map[string]*discordgo.ApplicationCommand, len(existing))
	for _, cmd := range existing {
		byName[cmd.Name] = cmd
	}

	for _, cmd := range desired {
		if current, ok := byName[cmd.Name]; ok {
			if _, err := b.session.ApplicationCommandEdit(appID, "", current.ID, cmd); err != nil {
				return fmt.Errorf("edit command %s: %w", cmd.Name, err)
			}
			delete(byName, cmd.Name)
			continue
		}
		if _, err := b.session.ApplicationCommandCreate(appID, "", cmd); err != nil {
			return fmt.Errorf("create command %s: %w", cmd.Name, err)
		}
	}

	for name, stale := range byName {
		if err := b.session.ApplicationCommandDelete(appID, "", stale.ID); err != nil {
			b.logger.Warn("stale command delete failed", zap.String("command", name), zap.Error(err))
		}
	}

	b.logger.Info("commands registered", zap.Int("count", len(desired)))
	return nil
}
