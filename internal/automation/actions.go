package automation

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Embed is the platform-neutral subset of an embed that actions can emit.
type Embed struct {
	Title       string
	Description string
	Color       int
}

// Effector is the platform capability surface action handlers run against.
// The production implementation wraps the discordgo session; tests install
// a recording fake.
type Effector interface {
	SendMessage(ctx context.Context, channelID, content string, embed *Embed) (string, error)
	SendDM(ctx context.Context, userID, content string, embed *Embed) (string, error)
	AddRole(ctx context.Context, guildID, userID, roleID string) error
	RemoveRole(ctx context.Context, guildID, userID, roleID string) error
	TimeoutMember(ctx context.Context, guildID, userID string, until time.Time, reason string) error
	KickMember(ctx context.Context, guildID, userID, reason string) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	CreateThread(ctx context.Context, channelID, messageID, name string, autoArchiveMinutes int) (string, error)
}

// ActionFunc executes one action and returns a short result description.
type ActionFunc func(ctx context.Context, action Action, ectx *Context) (string, error)

var errNoMember = errors.New("no member in context")

func (e *Engine) registerBuiltinActions() {
	e.actions["send_message"] = e.actionSendMessage
	e.actions["send_dm"] = e.actionSendDM
	e.actions["add_role"] = e.actionAddRole
	e.actions["remove_role"] = e.actionRemoveRole
	e.actions["timeout_user"] = e.actionTimeoutUser
	e.actions["kick_user"] = e.actionKickUser
	e.actions["delete_message"] = e.actionDeleteMessage
	e.actions["create_thread"] = e.actionCreateThread
}

// RegisterAction installs or replaces a handler for an action type.
func (e *Engine) RegisterAction(actionType string, fn ActionFunc) {
	e.actions[actionType] = fn
}

func (e *Engine) executeAction(ctx context.Context, action Action, ectx *Context) (string, error) {
	fn, ok := e.actions[action.Type]
	if !ok {
		return "", fmt.Errorf("unregistered action type %q", action.Type)
	}
	return fn(ctx, action, ectx)
}

func (e *Engine) actionSendMessage(ctx context.Context, action Action, ectx *Context) (string, error) {
	channelID := configString(action.Config, "channel_id")
	if channelID == "" {
		channelID = ectx.ChannelID
	}
	if channelID == "" {
		return "", errors.New("no target channel")
	}
	now := e.clock.Now()
	content := ReplacePlaceholders(configString(action.Config, "message"), ectx, now)
	embed := configEmbed(action.Config, ectx, now)
	if content == "" && embed == nil {
		return "", errors.New("empty message")
	}
	return e.effects.SendMessage(ctx, channelID, content, embed)
}

func (e *Engine) actionSendDM(ctx context.Context, action Action, ectx *Context) (string, error) {
	if ectx.UserID == "" {
		return "", errors.New("no user in context")
	}
	now := e.clock.Now()
	content := ReplacePlaceholders(configString(action.Config, "message"), ectx, now)
	embed := configEmbed(action.Config, ectx, now)
	if content == "" && embed == nil {
		return "", errors.New("empty message")
	}
	return e.effects.SendDM(ctx, ectx.UserID, content, embed)
}

func (e *Engine) actionAddRole(ctx context.Context, action Action, ectx *Context) (string, error) {
	roleID := configString(action.Config, "role_id")
	if roleID == "" {
		return "", errors.New("role_id not set")
	}
	if ectx.Member == nil {
		return "", errNoMember
	}
	if err := e.effects.AddRole(ctx, ectx.GuildID, ectx.UserID, roleID); err != nil {
		return "", err
	}
	return "added role " + roleID, nil
}

func (e *Engine) actionRemoveRole(ctx context.Context, action Action, ectx *Context) (string, error) {
	roleID := configString(action.Config, "role_id")
	if roleID == "" {
		return "", errors.New("role_id not set")
	}
	if ectx.Member == nil {
		return "", errNoMember
	}
	if err := e.effects.RemoveRole(ctx, ectx.GuildID, ectx.UserID, roleID); err != nil {
		return "", err
	}
	return "removed role " + roleID, nil
}

func (e *Engine) actionTimeoutUser(ctx context.Context, action Action, ectx *Context) (string, error) {
	if ectx.Member == nil {
		return "", errNoMember
	}
	minutes := configInt(action.Config, "duration_minutes")
	if minutes <= 0 {
		minutes = 10
	}
	until := e.clock.Now().Add(time.Duration(minutes) * time.Minute)
	reason := configString(action.Config, "reason")
	if err := e.effects.TimeoutMember(ctx, ectx.GuildID, ectx.UserID, until, reason); err != nil {
		return "", err
	}
	return fmt.Sprintf("timed out for %dm", minutes), nil
}

func (e *Engine) actionKickUser(ctx context.Context, action Action, ectx *Context) (string, error) {
	if ectx.Member == nil {
		return "", errNoMember
	}
	reason := configString(action.Config, "reason")
	if err := e.effects.KickMember(ctx, ectx.GuildID, ectx.UserID, reason); err != nil {
		return "", err
	}
	return "kicked", nil
}

func (e *Engine) actionDeleteMessage(ctx context.Context, action Action, ectx *Context) (string, error) {
	if ectx.MessageID == "" || ectx.ChannelID == "" {
		return "", errors.New("no message in context")
	}
	if err := e.effects.DeleteMessage(ctx, ectx.ChannelID, ectx.MessageID); err != nil {
		return "", err
	}
	return "deleted message " + ectx.MessageID, nil
}

func (e *Engine) actionCreateThread(ctx context.Context, action Action, ectx *Context) (string, error) {
	if ectx.MessageID == "" || ectx.ChannelID == "" {
		return "", errors.New("no message in context")
	}
	name := ReplacePlaceholders(configString(action.Config, "name"), ectx, e.clock.Now())
	if name == "" {
		name = "discussion"
	}
	archive := configInt(action.Config, "auto_archive_duration")
	if archive <= 0 {
		archive = 1440
	}
	return e.effects.CreateThread(ctx, ectx.ChannelID, ectx.MessageID, name, archive)
}

func configString(config map[string]any, key string) string {
	if config == nil {
		return ""
	}
	if value, ok := config[key].(string); ok {
		return value
	}
	return ""
}

func configInt(config map[string]any, key string) int {
	if config == nil {
		return 0
	}
	switch value := config[key].(type) {
	case int:
		return value
	case int64:
		return int(value)
	case float64:
		return int(value)
	default:
		return 0
	}
}

func configEmbed(config map[string]any, ectx *Context, now time.Time) *Embed {
	title := configString(config, "embed_title")
	description := configString(config, "embed_description")
	if title == "" && description == "" {
		return nil
	}
	return &Embed{
		Title:       ReplacePlaceholders(title, ectx, now),
		Description: ReplacePlaceholders(description, ectx, now),
		Color:       configInt(config, "embed_color"),
	}
}
