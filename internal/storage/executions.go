package storage

import (
	"context"
	"time"
)

type ExecutionRecord struct {
	ID            int64
	RuleID        int64
	GuildID       string
	TriggerSource string
	TriggerUserID string
	Status        string
	ErrorMessage  string
	Actions       string
	StartedAt     time.Time
	FinishedAt    time.Time
	DurationMS    int64
}

func (s *Store) AddExecutionRecord(ctx context.Context, record ExecutionRecord) error {
	actions := record.Actions
	if actions == "" {
		actions = "[]"
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO automation_executions (
			rule_id, guild_id, trigger_source, trigger_user_id, status,
			error_message, actions_performed, started_at, finished_at, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.RuleID,
		record.GuildID,
		record.TriggerSource,
		record.TriggerUserID,
		record.Status,
		record.ErrorMessage,
		actions,
		record.StartedAt.Unix(),
		record.FinishedAt.Unix(),
		record.DurationMS,
	)
	return err
}

func (s *Store) ListExecutionRecords(ctx context.Context, guildID string, limit int) ([]ExecutionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, rule_id, guild_id, trigger_source, trigger_user_id, status,
		error_message, actions_performed, started_at, finished_at, duration_ms
		FROM automation_executions
		WHERE guild_id = ?
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, guildID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ExecutionRecord
	for rows.Next() {
		var record ExecutionRecord
		var started, finished int64
		if err := rows.Scan(
			&record.ID,
			&record.RuleID,
			&record.GuildID,
			&record.TriggerSource,
			&record.TriggerUserID,
			&record.Status,
			&record.ErrorMessage,
			&record.Actions,
			&started,
			&finished,
			&record.DurationMS,
		); err != nil {
			return nil, err
		}
		record.StartedAt = time.Unix(started, 0)
		record.FinishedAt = time.Unix(finished, 0)
		records = append(records, record)
	}
	return records, rows.Err()
}
