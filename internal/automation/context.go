package automation

import (
	"github.com/bwmarrin/discordgo"
)

type EventType string

const (
	EventMemberJoin    EventType = "member_join"
	EventMemberLeave   EventType = "member_leave"
	EventMessageSent   EventType = "message_sent"
	EventReactionAdded EventType = "reaction_added"
	EventRoleAssigned  EventType = "role_assigned"
	EventVoiceJoin     EventType = "voice_join"
	EventVoiceLeave    EventType = "voice_leave"
	EventCustom        EventType = "custom"
)

// Context carries one event occurrence through matching, condition
// evaluation and action execution. It borrows the platform objects for the
// duration of processing and is never persisted.
type Context struct {
	GuildID   string
	UserID    string
	ChannelID string
	MessageID string

	GuildName   string
	ChannelName string

	Member  *discordgo.Member
	Message *discordgo.Message

	Custom map[string]string
}
