package storage

import (
	"context"
	"database/sql"
	"errors"
)

type UserLevel struct {
	GuildID  string
	UserID   string
	XP       int64
	Level    int
	Messages int64
}

func (s *Store) GetUserLevel(ctx context.Context, guildID, userID string) (UserLevel, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT guild_id, user_id, xp, level, messages
		FROM user_levels WHERE guild_id = ? AND user_id = ?
	`, guildID, userID)

	var level UserLevel
	err := row.Scan(&level.GuildID, &level.UserID, &level.XP, &level.Level, &level.Messages)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UserLevel{GuildID: guildID, UserID: userID}, nil
		}
		return UserLevel{}, err
	}
	return level, nil
}

// AddXP adds the delta and stores the recomputed level, returning the
// resulting row.
func (s *Store) AddXP(ctx context.Context, guildID, userID string, delta int64, newLevel int) (UserLevel, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_levels (guild_id, user_id, xp, level, messages)
		VALUES (?, ?, ?, ?, 1)
		ON CONFLICT(guild_id, user_id) DO UPDATE SET
			xp = xp + excluded.xp,
			level = ?,
			messages = messages + 1
	`, guildID, userID, delta, newLevel, newLevel)
	if err != nil {
		return UserLevel{}, err
	}
	return s.GetUserLevel(ctx, guildID, userID)
}

func (s *Store) TopUserLevels(ctx context.Context, guildID string, limit int) ([]UserLevel, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT guild_id, user_id, xp, level, messages
		FROM user_levels
		WHERE guild_id = ?
		ORDER BY xp DESC
		LIMIT ?
	`, guildID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var levels []UserLevel
	for rows.Next() {
		var level UserLevel
		if err := rows.Scan(&level.GuildID, &level.UserID, &level.XP, &level.Level, &level.Messages); err != nil {
			return nil, err
		}
		levels = append(levels, level)
	}
	return levels, rows.Err()
}
