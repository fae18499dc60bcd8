package storage

import (
	"context"
	"time"
)

type FAQEntry struct {
	ID        int64
	GuildID   string
	Title     string
	Body      string
	Position  int
	UpdatedAt time.Time
}

func (s *Store) UpsertFAQEntry(ctx context.Context, entry FAQEntry) (int64, error) {
	if entry.ID > 0 {
		_, err := s.db.ExecContext(ctx, `
			UPDATE faq_entries SET title = ?, body = ?, position = ?, updated_at = ?
			WHERE id = ? AND guild_id = ?
		`, entry.Title, entry.Body, entry.Position, time.Now().Unix(), entry.ID, entry.GuildID)
		return entry.ID, err
	}
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO faq_entries (guild_id, title, body, position, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, entry.GuildID, entry.Title, entry.Body, entry.Position, time.Now().Unix())
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *Store) ListFAQEntries(ctx context.Context, guildID string) ([]FAQEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, guild_id, title, body, position, updated_at
		FROM faq_entries
		WHERE guild_id = ?
		ORDER BY position ASC, id ASC
	`, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []FAQEntry
	for rows.Next() {
		var entry FAQEntry
		var updated int64
		if err := rows.Scan(&entry.ID, &entry.GuildID, &entry.Title, &entry.Body, &entry.Position, &updated); err != nil {
			return nil, err
		}
		entry.UpdatedAt = time.Unix(updated, 0)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *Store) DeleteFAQEntry(ctx context.Context, guildID string, entryID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM faq_entries WHERE id = ? AND guild_id = ?`, entryID, guildID)
	return err
}
