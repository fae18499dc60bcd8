package tickets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"guildwarden/internal/config"
	"guildwarden/internal/modules/audit"
	"guildwarden/internal/storage"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrDisabled  = errors.New("tickets are disabled")
	ErrTooMany   = errors.New("open ticket limit reached")
	ErrNotTicket = errors.New("channel is not a ticket")
)

type Module struct {
	cfg    config.TicketConfig
	store  *storage.Store
	audit  *audit.Logger
	logger *zap.Logger
	newRef func() string
}

func New(cfg config.TicketConfig, store *storage.Store, auditLogger *audit.Logger, logger *zap.Logger) *Module {
	return &Module{
		cfg:    cfg,
		store:  store,
		audit:  auditLogger,
		logger: logger,
		newRef: newReference,
	}
}

// newReference derives a short ticket code from a fresh UUID. Eight hex
// characters are plenty at per-guild ticket volume; the column's UNIQUE
// constraint catches the unlucky collision.
func newReference() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}

// Open persists a ticket and creates its support channel under the guild's
// ticket category. The returned ticket carries the generated reference.
func (m *Module) Open(ctx context.Context, session *discordgo.Session, guildID, userID, subject, categoryID string) (storage.Ticket, error) {
	if !m.cfg.Enabled {
		return storage.Ticket{}, ErrDisabled
	}
	if m.cfg.MaxOpenPerUser > 0 {
		open, err := m.store.CountOpenTickets(ctx, guildID, userID)
		if err != nil {
			return storage.Ticket{}, fmt.Errorf("count open tickets: %w", err)
		}
		if open >= m.cfg.MaxOpenPerUser {
			return storage.Ticket{}, ErrTooMany
		}
	}

	ticket := storage.Ticket{
		Reference: m.newRef(),
		GuildID:   guildID,
		UserID:    userID,
		Subject:   subject,
		Status:    storage.TicketOpen,
		OpenedAt:  time.Now(),
	}
	id, err := m.store.CreateTicket(ctx, ticket)
	if err != nil {
		return storage.Ticket{}, fmt.Errorf("create ticket: %w", err)
	}
	ticket.ID = id

	channel, err := session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:     m.channelName(ticket.Reference),
		Type:     discordgo.ChannelTypeGuildText,
		ParentID: categoryID,
		Topic:    fmt.Sprintf("Ticket %s for <@%s>: %s", ticket.Reference, userID, subject),
	})
	if err != nil {
		return ticket, fmt.Errorf("create ticket channel: %w", err)
	}
	ticket.ChannelID = channel.ID
	if err := m.store.SetTicketChannel(ctx, id, channel.ID); err != nil {
		return ticket, fmt.Errorf("bind ticket channel: %w", err)
	}

	m.audit.Info(ctx, guildID, userID, "ticket_open", fmt.Sprintf("ref=%s subject=%s", ticket.Reference, subject))
	return ticket, nil
}

// Close marks the ticket bound to the channel as closed. The channel is
// left in place for moderators to archive or delete.
func (m *Module) Close(ctx context.Context, guildID, channelID, closerID string) (storage.Ticket, error) {
	ticket, err := m.store.GetTicketByChannel(ctx, guildID, channelID)
	if err != nil {
		return storage.Ticket{}, ErrNotTicket
	}
	if ticket.Status != storage.TicketOpen {
		return ticket, fmt.Errorf("ticket %s already closed", ticket.Reference)
	}
	if err := m.store.CloseTicket(ctx, ticket.ID, time.Now()); err != nil {
		return ticket, fmt.Errorf("close ticket: %w", err)
	}
	ticket.Status = storage.TicketClosed
	m.audit.Info(ctx, guildID, closerID, "ticket_close", "ref="+ticket.Reference)
	return ticket, nil
}

func (m *Module) channelName(reference string) string {
	prefix := m.cfg.NamePrefix
	if prefix == "" {
		prefix = "ticket"
	}
	return prefix + "-" + reference
}
