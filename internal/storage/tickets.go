package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const (
	TicketOpen   = "open"
	TicketClosed = "closed"
)

type Ticket struct {
	ID        int64
	Reference string
	GuildID   string
	UserID    string
	ChannelID string
	Subject   string
	Status    string
	OpenedAt  time.Time
	ClosedAt  *time.Time
}

func (s *Store) CreateTicket(ctx context.Context, ticket Ticket) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO tickets (reference, guild_id, user_id, channel_id, subject, status, opened_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, ticket.Reference, ticket.GuildID, ticket.UserID, ticket.ChannelID, ticket.Subject, TicketOpen, ticket.OpenedAt.Unix())
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *Store) SetTicketChannel(ctx context.Context, ticketID int64, channelID string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE tickets SET channel_id = ? WHERE id = ?`, channelID, ticketID)
	return err
}

func (s *Store) CloseTicket(ctx context.Context, ticketID int64, closedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE tickets SET status = ?, closed_at = ? WHERE id = ? AND status = ?
	`, TicketClosed, closedAt.Unix(), ticketID, TicketOpen)
	return err
}

func (s *Store) GetTicketByChannel(ctx context.Context, guildID, channelID string) (Ticket, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, reference, guild_id, user_id, channel_id, subject, status, opened_at, closed_at
		FROM tickets WHERE guild_id = ? AND channel_id = ?
	`, guildID, channelID)
	return scanTicket(row)
}

func (s *Store) CountOpenTickets(ctx context.Context, guildID, userID string) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM tickets WHERE guild_id = ? AND user_id = ? AND status = ?
	`, guildID, userID, TicketOpen)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) ListOpenTickets(ctx context.Context, guildID string) ([]Ticket, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, reference, guild_id, user_id, channel_id, subject, status, opened_at, closed_at
		FROM tickets WHERE guild_id = ? AND status = ?
		ORDER BY opened_at ASC
	`, guildID, TicketOpen)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	return tickets, rows.Err()
}

func scanTicket(row ruleScanner) (Ticket, error) {
	var ticket Ticket
	var opened int64
	var closed sql.NullInt64
	err := row.Scan(
		&ticket.ID,
		&ticket.Reference,
		&ticket.GuildID,
		&ticket.UserID,
		&ticket.ChannelID,
		&ticket.Subject,
		&ticket.Status,
		&opened,
		&closed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Ticket{}, sql.ErrNoRows
		}
		return Ticket{}, err
	}
	ticket.OpenedAt = time.Unix(opened, 0)
	if closed.Valid {
		value := time.Unix(closed.Int64, 0)
		ticket.ClosedAt = &value
	}
	return ticket, nil
}
