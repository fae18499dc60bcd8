package automation

import (
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// ReplacePlaceholders substitutes the supported tokens in action text.
// Tokens without a value in the context become "Unknown ..." rather than
// failing the action.
func ReplacePlaceholders(text string, ectx *Context, now time.Time) string {
	if text == "" || !strings.Contains(text, "{") {
		return text
	}

	user := "Unknown User"
	mention := "Unknown User"
	userID := "Unknown User"
	if ectx != nil {
		if name := displayName(ectx.Member); name != "" {
			user = name
		}
		if ectx.UserID != "" {
			mention = "<@" + ectx.UserID + ">"
			userID = ectx.UserID
		}
	}

	guild := "Unknown Guild"
	channel := "Unknown Channel"
	if ectx != nil {
		if ectx.GuildName != "" {
			guild = ectx.GuildName
		}
		if ectx.ChannelName != "" {
			channel = ectx.ChannelName
		} else if ectx.ChannelID != "" {
			channel = "<#" + ectx.ChannelID + ">"
		}
	}

	replacer := strings.NewReplacer(
		"{user.mention}", mention,
		"{user.id}", userID,
		"{user}", user,
		"{guild}", guild,
		"{channel}", channel,
		"{timestamp}", now.Format(time.RFC3339),
	)
	return replacer.Replace(text)
}

func displayName(member *discordgo.Member) string {
	if member == nil {
		return ""
	}
	if member.Nick != "" {
		return member.Nick
	}
	if member.User != nil {
		return member.User.Username
	}
	return ""
}
