package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type Giveaway struct {
	ID          int64
	GuildID     string
	ChannelID   string
	MessageID   string
	Prize       string
	WinnerCount int
	CreatedBy   string
	EndsAt      time.Time
	Ended       bool
}

func (s *Store) CreateGiveaway(ctx context.Context, giveaway Giveaway) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO giveaways (guild_id, channel_id, message_id, prize, winner_count, created_by, ends_at, ended)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0)
	`, giveaway.GuildID, giveaway.ChannelID, giveaway.MessageID, giveaway.Prize, giveaway.WinnerCount, giveaway.CreatedBy, giveaway.EndsAt.Unix())
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *Store) SetGiveawayMessage(ctx context.Context, giveawayID int64, messageID string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE giveaways SET message_id = ? WHERE id = ?`, messageID, giveawayID)
	return err
}

func (s *Store) EndGiveaway(ctx context.Context, giveawayID int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE giveaways SET ended = 1 WHERE id = ?`, giveawayID)
	return err
}

func (s *Store) GetGiveaway(ctx context.Context, giveawayID int64) (Giveaway, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, guild_id, channel_id, message_id, prize, winner_count, created_by, ends_at, ended
		FROM giveaways WHERE id = ?
	`, giveawayID)
	return scanGiveaway(row)
}

// ListPendingGiveaways returns giveaways not yet marked ended, for timer
// re-arming after a restart.
func (s *Store) ListPendingGiveaways(ctx context.Context) ([]Giveaway, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, guild_id, channel_id, message_id, prize, winner_count, created_by, ends_at, ended
		FROM giveaways WHERE ended = 0
		ORDER BY ends_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var giveaways []Giveaway
	for rows.Next() {
		giveaway, err := scanGiveaway(rows)
		if err != nil {
			return nil, err
		}
		giveaways = append(giveaways, giveaway)
	}
	return giveaways, rows.Err()
}

func scanGiveaway(row ruleScanner) (Giveaway, error) {
	var giveaway Giveaway
	var ends int64
	var ended int
	err := row.Scan(
		&giveaway.ID,
		&giveaway.GuildID,
		&giveaway.ChannelID,
		&giveaway.MessageID,
		&giveaway.Prize,
		&giveaway.WinnerCount,
		&giveaway.CreatedBy,
		&ends,
		&ended,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Giveaway{}, sql.ErrNoRows
		}
		return Giveaway{}, err
	}
	giveaway.EndsAt = time.Unix(ends, 0)
	giveaway.Ended = ended == 1
	return giveaway, nil
}
