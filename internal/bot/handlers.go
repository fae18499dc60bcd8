package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"guildwarden/internal/modules/alerts"
	"guildwarden/internal/modules/giveaways"
	"guildwarden/internal/modules/leveling"
	"guildwarden/internal/modules/moderation"
	"guildwarden/internal/modules/tickets"
	"guildwarden/internal/storage"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func (b *Bot) onInteractionCreate(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	if interaction.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if interaction.GuildID == "" || interaction.Member == nil {
		b.respond(session, interaction, "This command only works inside a server.", true)
		return
	}

	data := interaction.ApplicationCommandData()
	switch data.Name {
	case "warn":
		b.handleWarn(session, interaction, data)
	case "warnings":
		b.handleWarnings(session, interaction, data)
	case "kick":
		b.handleKick(session, interaction, data)
	case "ban":
		b.handleBan(session, interaction, data)
	case "ticket":
		b.handleTicket(session, interaction, data)
	case "rank":
		b.handleRank(session, interaction, data)
	case "leaderboard":
		b.handleLeaderboard(session, interaction)
	case "giveaway":
		b.handleGiveaway(session, interaction, data)
	case "faq":
		b.handleFAQ(session, interaction, data)
	case "alert":
		b.handleAlert(session, interaction, data)
	case "automation":
		b.handleAutomation(session, interaction, data)
	case "report":
		b.handleReport(session, interaction, data)
	case "settings":
		b.handleSettings(session, interaction, data)
	case "domain":
		b.handleDomain(session, interaction, data)
	default:
		b.respond(session, interaction, "Unknown command.", true)
	}
}

func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, option := range options {
		m[option.Name] = option
	}
	return m
}

func (b *Bot) requireManager(session *discordgo.Session, interaction *discordgo.InteractionCreate) bool {
	if interaction.Member.Permissions&discordgo.PermissionManageServer == 0 {
		b.respond(session, interaction, "You need the Manage Server permission for that.", true)
		return false
	}
	return true
}

func (b *Bot) requireModerator(session *discordgo.Session, interaction *discordgo.InteractionCreate) bool {
	if interaction.Member.Permissions&(discordgo.PermissionKickMembers|discordgo.PermissionBanMembers|discordgo.PermissionManageServer) == 0 {
		b.respond(session, interaction, "You need a moderation permission for that.", true)
		return false
	}
	return true
}

func (b *Bot) handleWarn(session *discordgo.Session, interaction *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if !b.requireModerator(session, interaction) {
		return
	}
	opts := optionMap(data.Options)
	target := opts["user"].UserValue(session)
	reason := opts["reason"].StringValue()

	ctx := context.Background()
	outcome, total, err := b.moderation.Warn(ctx, session, interaction.GuildID, target.ID, interaction.Member.User.ID, reason)
	if err != nil {
		b.logger.Error("warn failed", zap.String("user_id", target.ID), zap.Error(err))
		b.respond(session, interaction, "Could not record the warning.", true)
		return
	}

	description := fmt.Sprintf("<@%s> now has **%d** warning(s).", target.ID, total)
	switch outcome {
	case moderation.OutcomeKicked:
		description += "\nWarning threshold reached: member kicked."
	case moderation.OutcomeBanned:
		description += "\nWarning threshold reached: member banned."
	}
	embed := b.commandEmbed("Member warned", description, b.cfg.Notifications.EmbedColors.Warning, []*discordgo.MessageEmbedField{
		{Name: "Reason", Value: reason},
	})
	b.respondEmbed(session, interaction, embed, false)
}

func (b *Bot) handleWarnings(session *discordgo.Session, interaction *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if !b.requireModerator(session, interaction) {
		return
	}
	opts := optionMap(data.Options)
	target := opts["user"].UserValue(session)

	warnings, err := b.store.ListWarnings(context.Background(), interaction.GuildID, target.ID)
	if err != nil {
		b.respond(session, interaction, "Could not load warnings.", true)
		return
	}
	if len(warnings) == 0 {
		b.respond(session, interaction, fmt.Sprintf("<@%s> has no warnings.", target.ID), true)
		return
	}

	var sb strings.Builder
	for _, warning := range warnings {
		fmt.Fprintf(&sb, "`%s` by <@%s>: %s\n", warning.CreatedAt.Format("2006-01-02"), warning.ModeratorID, warning.Reason)
	}
	embed := b.commandEmbed(fmt.Sprintf("Warnings for %s", target.Username), sb.String(), b.cfg.Notifications.EmbedColors.Info, nil)
	b.respondEmbed(session, interaction, embed, true)
}

func (b *Bot) handleKick(session *discordgo.Session, interaction *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if !b.requireModerator(session, interaction) {
		return
	}
	opts := optionMap(data.Options)
	target := opts["user"].UserValue(session)
	reason := "No reason given"
	if opt, ok := opts["reason"]; ok {
		reason = opt.StringValue()
	}

	if err := session.GuildMemberDeleteWithReason(interaction.GuildID, target.ID, reason); err != nil {
		b.respond(session, interaction, "Kick failed: "+err.Error(), true)
		return
	}
	b.audit.Warn(context.Background(), interaction.GuildID, target.ID, "member_kick",
		fmt.Sprintf("by <@%s>: %s", interaction.Member.User.ID, reason))
	b.respond(session, interaction, fmt.Sprintf("👢 <@%s> was kicked.", target.ID), false)
}

func (b *Bot) handleBan(session *discordgo.Session, interaction *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if !b.requireModerator(session, interaction) {
		return
	}
	opts := optionMap(data.Options)
	target := opts["user"].UserValue(session)
	reason := "No reason given"
	if opt, ok := opts["reason"]; ok {
		reason = opt.StringValue()
	}
	deleteDays := 0
	if opt, ok := opts["delete_days"]; ok {
		deleteDays = int(opt.IntValue())
	}

	if err := session.GuildBanCreateWithReason(interaction.GuildID, target.ID, reason, deleteDays); err != nil {
		b.respond(session, interaction, "Ban failed: "+err.Error(), true)
		return
	}
	b.audit.Crit(context.Background(), interaction.GuildID, target.ID, "member_ban",
		fmt.Sprintf("by <@%s>: %s", interaction.Member.User.ID, reason))
	b.respond(session, interaction, fmt.Sprintf("🔨 <@%s> was banned.", target.ID), false)
}

func (b *Bot) handleTicket(session *discordgo.Session, interaction *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if len(data.Options) == 0 {
		b.respond(session, interaction, "Missing subcommand.", true)
		return
	}
	sub := data.Options[0]
	ctx := context.Background()

	switch sub.Name {
	case "open":
		opts := optionMap(sub.Options)
		subject := opts["subject"].StringValue()
		settings := b.guildSettings(ctx, interaction.GuildID)

		ticket, err := b.tickets.Open(ctx, session, interaction.GuildID, interaction.Member.User.ID, subject, settings.TicketCategory)
		switch {
		case errors.Is(err, tickets.ErrDisabled):
			b.respond(session, interaction, "Tickets are disabled on this server.", true)
		case errors.Is(err, tickets.ErrTooMany):
			b.respond(session, interaction, "You already have the maximum number of open tickets.", true)
		case err != nil:
			b.logger.Error("ticket open failed", zap.Error(err))
			b.respond(session, interaction, "Could not open the ticket.", true)
		default:
			b.respond(session, interaction, fmt.Sprintf("🎫 Ticket `%s` opened: <#%s>", ticket.Reference, ticket.ChannelID), true)
		}
	case "close":
		ticket, err := b.tickets.Close(ctx, interaction.GuildID, interaction.ChannelID, interaction.Member.User.ID)
		switch {
		case errors.Is(err, tickets.ErrNotTicket):
			b.respond(session, interaction, "This channel is not a ticket.", true)
		case err != nil:
			b.respond(session, interaction, "Could not close the ticket: "+err.Error(), true)
		default:
			b.respond(session, interaction, fmt.Sprintf("Ticket `%s` closed.", ticket.Reference), false)
		}
	default:
		b.respond(session, interaction, "Unknown ticket subcommand.", true)
	}
}

func (b *Bot) handleRank(session *discordgo.Session, interaction *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	target := interaction.Member.User
	if opts := optionMap(data.Options); opts["user"] != nil {
		target = opts["user"].UserValue(session)
	}

	level, err := b.store.GetUserLevel(context.Background(), interaction.GuildID, target.ID)
	if err != nil {
		b.respond(session, interaction, "Could not load the rank.", true)
		return
	}
	into, need := leveling.ProgressInLevel(level.XP)
	embed := b.commandEmbed(fmt.Sprintf("Rank for %s", target.Username), "", b.cfg.Notifications.EmbedColors.Info, []*discordgo.MessageEmbedField{
		{Name: "Level", Value: fmt.Sprintf("%d", level.Level), Inline: true},
		{Name: "XP", Value: fmt.Sprintf("%d", level.XP), Inline: true},
		{Name: "Progress", Value: fmt.Sprintf("%d / %d", into, need), Inline: true},
	})
	b.respondEmbed(session, interaction, embed, false)
}

func (b *Bot) handleLeaderboard(session *discordgo.Session, interaction *discordgo.InteractionCreate) {
	top, err := b.store.TopUserLevels(context.Background(), interaction.GuildID, 10)
	if err != nil {
		b.respond(session, interaction, "Could not load the leaderboard.", true)
		return
	}
	if len(top) == 0 {
		b.respond(session, interaction, "Nobody has earned XP yet.", true)
		return
	}

	var sb strings.Builder
	for i, entry := range top {
		fmt.Fprintf(&sb, "**%d.** <@%s> — level %d (%d XP)\n", i+1, entry.UserID, entry.Level, entry.XP)
	}
	embed := b.commandEmbed("Leaderboard", sb.String(), b.cfg.Notifications.EmbedColors.Success, nil)
	b.respondEmbed(session, interaction, embed, false)
}

func (b *Bot) handleGiveaway(session *discordgo.Session, interaction *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if !b.requireManager(session, interaction) {
		return
	}
	if len(data.Options) == 0 {
		b.respond(session, interaction, "Missing subcommand.", true)
		return
	}
	sub := data.Options[0]
	ctx := context.Background()

	switch sub.Name {
	case "start":
		opts := optionMap(sub.Options)
		prize := opts["prize"].StringValue()
		minutes := opts["minutes"].IntValue()
		winners := 1
		if opt, ok := opts["winners"]; ok {
			winners = int(opt.IntValue())
		}

		endsAt := time.Now().Add(time.Duration(minutes) * time.Minute)
		id, err := b.giveaways.Start(ctx, storage.Giveaway{
			GuildID:     interaction.GuildID,
			ChannelID:   interaction.ChannelID,
			Prize:       prize,
			WinnerCount: winners,
			CreatedBy:   interaction.Member.User.ID,
			EndsAt:      endsAt,
		})
		switch {
		case errors.Is(err, giveaways.ErrDisabled):
			b.respond(session, interaction, "Giveaways are disabled on this server.", true)
			return
		case errors.Is(err, giveaways.ErrTooShort), errors.Is(err, giveaways.ErrTooLong):
			b.respond(session, interaction, "That duration is outside the allowed range.", true)
			return
		case err != nil:
			b.logger.Error("giveaway start failed", zap.Error(err))
			b.respond(session, interaction, "Could not start the giveaway.", true)
			return
		}

		emoji := b.cfg.Giveaways.EntryEmoji
		if emoji == "" {
			emoji = "🎉"
		}
		content := fmt.Sprintf("🎉 **GIVEAWAY** 🎉\nPrize: **%s**\nWinners: **%d**\nEnds: <t:%d:R>\nReact with %s to enter!",
			prize, winners, endsAt.Unix(), emoji)
		message, err := session.ChannelMessageSend(interaction.ChannelID, content)
		if err == nil {
			_ = session.MessageReactionAdd(interaction.ChannelID, message.ID, emoji)
			if err := b.store.SetGiveawayMessage(ctx, id, message.ID); err != nil {
				b.logger.Error("giveaway message bind failed", zap.Int64("giveaway_id", id), zap.Error(err))
			}
		}
		b.respond(session, interaction, fmt.Sprintf("Giveaway **#%d** started.", id), true)
	case "end":
		id := optionMap(sub.Options)["id"].IntValue()
		if err := b.giveaways.Finish(ctx, id); err != nil {
			b.respond(session, interaction, "Could not end the giveaway: "+err.Error(), true)
			return
		}
		b.respond(session, interaction, fmt.Sprintf("Giveaway **#%d** ended.", id), true)
	case "reroll":
		id := optionMap(sub.Options)["id"].IntValue()
		if err := b.giveaways.Reroll(ctx, id); err != nil {
			if errors.Is(err, giveaways.ErrNotEnded) {
				b.respond(session, interaction, "That giveaway has not ended yet.", true)
				return
			}
			b.respond(session, interaction, "Reroll failed: "+err.Error(), true)
			return
		}
		b.respond(session, interaction, fmt.Sprintf("Giveaway **#%d** rerolled.", id), true)
	default:
		b.respond(session, interaction, "Unknown giveaway subcommand.", true)
	}
}

func (b *Bot) handleFAQ(session *discordgo.Session, interaction *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if len(data.Options) == 0 {
		b.respond(session, interaction, "Missing subcommand.", true)
		return
	}
	sub := data.Options[0]
	ctx := context.Background()

	switch sub.Name {
	case "set":
		if !b.requireManager(session, interaction) {
			return
		}
		opts := optionMap(sub.Options)
		entry := storage.FAQEntry{
			GuildID: interaction.GuildID,
			Title:   opts["title"].StringValue(),
			Body:    opts["body"].StringValue(),
		}
		if opt, ok := opts["id"]; ok {
			entry.ID = opt.IntValue()
		}
		if opt, ok := opts["position"]; ok {
			entry.Position = int(opt.IntValue())
		}
		id, err := b.store.UpsertFAQEntry(ctx, entry)
		if err != nil {
			b.respond(session, interaction, "Could not save the FAQ entry.", true)
			return
		}
		b.respond(session, interaction, fmt.Sprintf("FAQ entry **#%d** saved.", id), true)
	case "delete":
		if !b.requireManager(session, interaction) {
			return
		}
		id := optionMap(sub.Options)["id"].IntValue()
		if err := b.store.DeleteFAQEntry(ctx, interaction.GuildID, id); err != nil {
			b.respond(session, interaction, "Could not delete the FAQ entry.", true)
			return
		}
		b.respond(session, interaction, fmt.Sprintf("FAQ entry **#%d** deleted.", id), true)
	case "list":
		entries, err := b.store.ListFAQEntries(ctx, interaction.GuildID)
		if err != nil || len(entries) == 0 {
			b.respond(session, interaction, "No FAQ entries yet.", true)
			return
		}
		var sb strings.Builder
		for _, entry := range entries {
			fmt.Fprintf(&sb, "**#%d** %s\n", entry.ID, entry.Title)
		}
		embed := b.commandEmbed("FAQ entries", sb.String(), b.cfg.Notifications.EmbedColors.Info, nil)
		b.respondEmbed(session, interaction, embed, true)
	case "publish":
		if !b.requireManager(session, interaction) {
			return
		}
		settings := b.guildSettings(ctx, interaction.GuildID)
		channelID := settings.FAQChannel
		if channelID == "" {
			channelID = interaction.ChannelID
		}
		entries, err := b.store.ListFAQEntries(ctx, interaction.GuildID)
		if err != nil || len(entries) == 0 {
			b.respond(session, interaction, "No FAQ entries to publish.", true)
			return
		}
		for _, entry := range entries {
			embed := b.commandEmbed(entry.Title, entry.Body, b.cfg.Notifications.EmbedColors.Info, nil)
			if _, err := session.ChannelMessageSendEmbed(channelID, embed); err != nil {
				b.logger.Warn("faq publish failed", zap.Int64("entry_id", entry.ID), zap.Error(err))
			}
		}
		b.respond(session, interaction, fmt.Sprintf("Published %d FAQ entries to <#%s>.", len(entries), channelID), true)
	default:
		b.respond(session, interaction, "Unknown faq subcommand.", true)
	}
}

func (b *Bot) handleAlert(session *discordgo.Session, interaction *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if !b.requireManager(session, interaction) {
		return
	}
	message := optionMap(data.Options)["message"].StringValue()

	ctx := context.Background()
	settings := b.guildSettings(ctx, interaction.GuildID)
	err := b.alerts.Broadcast(ctx, interaction.GuildID, settings.AlertChannel, interaction.Member.User.ID, message)
	switch {
	case errors.Is(err, alerts.ErrDisabled):
		b.respond(session, interaction, "Alerts are disabled on this server.", true)
	case errors.Is(err, alerts.ErrNoChannel):
		b.respond(session, interaction, "No alert channel configured. Use /settings first.", true)
	case errors.Is(err, alerts.ErrRateLimited):
		b.respond(session, interaction, "Too many alerts recently. Try again later.", true)
	case err != nil:
		b.respond(session, interaction, "Alert failed: "+err.Error(), true)
	default:
		b.respond(session, interaction, "🚨 Alert sent.", true)
	}
}

func (b *Bot) handleAutomation(session *discordgo.Session, interaction *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if !b.requireManager(session, interaction) {
		return
	}
	if len(data.Options) == 0 {
		b.respond(session, interaction, "Missing subcommand.", true)
		return
	}
	sub := data.Options[0]
	ctx := context.Background()

	switch sub.Name {
	case "list":
		rules, err := b.store.ListAutomationRules(ctx, interaction.GuildID)
		if err != nil || len(rules) == 0 {
			b.respond(session, interaction, "No automation rules configured.", true)
			return
		}
		var sb strings.Builder
		for _, rule := range rules {
			state := "enabled"
			if !rule.Active {
				state = "disabled"
			}
			fmt.Fprintf(&sb, "**#%d** %s — on `%s`, priority %d, %s (ok %d / failed %d)\n",
				rule.ID, rule.Name, rule.TriggerEvent, rule.Priority, state, rule.SuccessCount, rule.FailureCount)
		}
		embed := b.commandEmbed("Automation rules", sb.String(), b.cfg.Notifications.EmbedColors.Info, nil)
		b.respondEmbed(session, interaction, embed, true)
	case "enable", "disable":
		id := optionMap(sub.Options)["id"].IntValue()
		if err := b.store.SetAutomationRuleActive(ctx, id, sub.Name == "enable"); err != nil {
			b.respond(session, interaction, "Could not update the rule.", true)
			return
		}
		b.respond(session, interaction, fmt.Sprintf("Rule **#%d** %sd.", id, sub.Name), true)
	case "delete":
		id := optionMap(sub.Options)["id"].IntValue()
		if err := b.store.DeleteAutomationRule(ctx, id); err != nil {
			b.respond(session, interaction, "Could not delete the rule.", true)
			return
		}
		b.respond(session, interaction, fmt.Sprintf("Rule **#%d** deleted.", id), true)
	default:
		b.respond(session, interaction, "Unknown automation subcommand.", true)
	}
}

func (b *Bot) handleReport(session *discordgo.Session, interaction *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if !b.requireManager(session, interaction) {
		return
	}
	days := 1
	if opt, ok := optionMap(data.Options)["days"]; ok {
		days = int(opt.IntValue())
	}
	if days < 1 {
		days = 1
	}

	since := time.Now().AddDate(0, 0, -days)
	report, err := b.analytics.Report(context.Background(), interaction.GuildID, since)
	if err != nil {
		b.respond(session, interaction, "Could not build the report.", true)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**%d** audit events in the last %dd, **%d** open ticket(s).\n", report.Total, days, report.OpenTickets)
	if len(report.ByLevel) > 0 {
		sb.WriteString("\n**By level**\n")
		for level, count := range report.ByLevel {
			fmt.Fprintf(&sb, "%s: %d\n", level, count)
		}
	}
	if len(report.TopUsers) > 0 {
		sb.WriteString("\n**Most active users**\n")
		for _, user := range report.TopUsers {
			fmt.Fprintf(&sb, "<@%s>: %d\n", user.UserID, user.Count)
		}
	}
	if len(report.Rules) > 0 {
		sb.WriteString("\n**Automation rules**\n")
		for _, rule := range report.Rules {
			fmt.Fprintf(&sb, "%s: ok %d / failed %d\n", rule.Name, rule.Successes, rule.Failures)
		}
	}
	embed := b.commandEmbed("Guild report", sb.String(), b.cfg.Notifications.EmbedColors.Info, nil)
	b.respondEmbed(session, interaction, embed, true)
}

func (b *Bot) handleSettings(session *discordgo.Session, interaction *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if !b.requireManager(session, interaction) {
		return
	}
	ctx := context.Background()
	settings := b.guildSettings(ctx, interaction.GuildID)
	opts := optionMap(data.Options)

	if opt, ok := opts["log_channel"]; ok {
		settings.LogChannel = opt.ChannelValue(session).ID
	}
	if opt, ok := opts["alert_channel"]; ok {
		settings.AlertChannel = opt.ChannelValue(session).ID
	}
	if opt, ok := opts["levelup_channel"]; ok {
		settings.LevelUpChannel = opt.ChannelValue(session).ID
	}
	if opt, ok := opts["faq_channel"]; ok {
		settings.FAQChannel = opt.ChannelValue(session).ID
	}
	if opt, ok := opts["ticket_category"]; ok {
		settings.TicketCategory = opt.ChannelValue(session).ID
	}
	if opt, ok := opts["leveling"]; ok {
		settings.LevelingEnabled = opt.BoolValue()
	}
	if opt, ok := opts["link_guard"]; ok {
		settings.LinkGuardEnabled = opt.BoolValue()
	}

	if err := b.store.UpsertGuildSettings(ctx, settings); err != nil {
		b.respond(session, interaction, "Could not save the settings.", true)
		return
	}

	toggle := func(enabled bool) string {
		if enabled {
			return "on"
		}
		return "off"
	}
	channel := func(id string) string {
		if id == "" {
			return "unset"
		}
		return "<#" + id + ">"
	}
	embed := b.commandEmbed("Server settings", "", b.cfg.Notifications.EmbedColors.Success, []*discordgo.MessageEmbedField{
		{Name: "Log channel", Value: channel(settings.LogChannel), Inline: true},
		{Name: "Alert channel", Value: channel(settings.AlertChannel), Inline: true},
		{Name: "Level-up channel", Value: channel(settings.LevelUpChannel), Inline: true},
		{Name: "FAQ channel", Value: channel(settings.FAQChannel), Inline: true},
		{Name: "Ticket category", Value: channel(settings.TicketCategory), Inline: true},
		{Name: "Leveling", Value: toggle(settings.LevelingEnabled), Inline: true},
		{Name: "Link guard", Value: toggle(settings.LinkGuardEnabled), Inline: true},
	})
	b.respondEmbed(session, interaction, embed, true)
}

func (b *Bot) handleDomain(session *discordgo.Session, interaction *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if !b.requireManager(session, interaction) {
		return
	}
	if len(data.Options) == 0 {
		b.respond(session, interaction, "Missing subcommand.", true)
		return
	}
	sub := data.Options[0]
	ctx := context.Background()

	switch sub.Name {
	case "block":
		domain := optionMap(sub.Options)["domain"].StringValue()
		if err := b.store.AddDomainBlock(ctx, interaction.GuildID, strings.ToLower(domain)); err != nil {
			b.respond(session, interaction, "Could not block the domain.", true)
			return
		}
		b.audit.Info(ctx, interaction.GuildID, interaction.Member.User.ID, "domain_block", domain)
		b.respond(session, interaction, fmt.Sprintf("Domain `%s` blocked.", domain), true)
	case "unblock":
		domain := optionMap(sub.Options)["domain"].StringValue()
		if err := b.store.RemoveDomainBlock(ctx, interaction.GuildID, strings.ToLower(domain)); err != nil {
			b.respond(session, interaction, "Could not unblock the domain.", true)
			return
		}
		b.respond(session, interaction, fmt.Sprintf("Domain `%s` unblocked.", domain), true)
	case "list":
		domains, err := b.store.ListDomainBlock(ctx, interaction.GuildID)
		if err != nil || len(domains) == 0 {
			b.respond(session, interaction, "The blocklist is empty.", true)
			return
		}
		b.respond(session, interaction, "Blocked domains:\n`"+strings.Join(domains, "`, `")+"`", true)
	default:
		b.respond(session, interaction, "Unknown domain subcommand.", true)
	}
}
