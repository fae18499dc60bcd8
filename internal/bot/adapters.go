package bot

import (
	"context"
	"encoding/json"
	"fmt"

	"guildwarden/internal/automation"
	"guildwarden/internal/storage"

	"go.uber.org/zap"
)

// ruleSource feeds the automation engine decoded rules. A rule whose JSON
// is corrupt is skipped with a log line rather than poisoning the batch.
type ruleSource struct {
	store  *storage.Store
	logger *zap.Logger
}

func (r *ruleSource) GuildRules(ctx context.Context, guildID string) ([]automation.Rule, error) {
	stored, err := r.store.ListAutomationRules(ctx, guildID)
	if err != nil {
		return nil, err
	}

	rules := make([]automation.Rule, 0, len(stored))
	for _, row := range stored {
		conditions, err := automation.DecodeConditions(row.Conditions)
		if err != nil {
			r.logger.Error("rule conditions undecodable", zap.Int64("rule_id", row.ID), zap.Error(err))
			continue
		}
		actions, err := automation.DecodeActions(row.Actions)
		if err != nil {
			r.logger.Error("rule actions undecodable", zap.Int64("rule_id", row.ID), zap.Error(err))
			continue
		}
		rules = append(rules, automation.Rule{
			ID:                 row.ID,
			GuildID:            row.GuildID,
			Name:               row.Name,
			TriggerEvent:       automation.EventType(row.TriggerEvent),
			Conditions:         conditions,
			Actions:            actions,
			Priority:           row.Priority,
			CooldownSeconds:    row.CooldownSeconds,
			MaxTriggersPerUser: row.MaxTriggersPerUser,
			Active:             row.Active,
		})
	}
	return rules, nil
}

// executionSink persists engine records and counters.
type executionSink struct {
	store *storage.Store
}

func (s *executionSink) LogExecution(ctx context.Context, record automation.Record) error {
	actions, err := json.Marshal(record.Actions)
	if err != nil {
		return fmt.Errorf("encode action results: %w", err)
	}
	return s.store.AddExecutionRecord(ctx, storage.ExecutionRecord{
		RuleID:        record.RuleID,
		GuildID:       record.GuildID,
		TriggerSource: record.TriggerSource,
		TriggerUserID: record.TriggerUserID,
		Status:        string(record.Status),
		ErrorMessage:  record.ErrorMessage,
		Actions:       string(actions),
		StartedAt:     record.StartedAt,
		FinishedAt:    record.FinishedAt,
		DurationMS:    record.Duration.Milliseconds(),
	})
}

func (s *executionSink) UpdateRuleStats(ctx context.Context, ruleID int64, success bool, errMsg string) error {
	return s.store.UpdateRuleStats(ctx, ruleID, success, errMsg)
}
