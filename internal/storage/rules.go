package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// AutomationRule is the stored shape of a rule. Conditions and Actions hold
// raw JSON arrays; decoding happens at the automation boundary.
type AutomationRule struct {
	ID                 int64
	GuildID            string
	Name               string
	TriggerEvent       string
	Conditions         string
	Actions            string
	Priority           int
	CooldownSeconds    int
	MaxTriggersPerUser int
	Active             bool
	SuccessCount       int64
	FailureCount       int64
	LastError          string
	CreatedAt          time.Time
}

func (s *Store) CreateAutomationRule(ctx context.Context, rule AutomationRule) (int64, error) {
	conditions := rule.Conditions
	if conditions == "" {
		conditions = "[]"
	}
	actions := rule.Actions
	if actions == "" {
		actions = "[]"
	}
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO automation_rules (
			guild_id, name, trigger_event, trigger_conditions, actions,
			priority, cooldown_seconds, max_triggers_per_user, is_active, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rule.GuildID,
		rule.Name,
		rule.TriggerEvent,
		conditions,
		actions,
		rule.Priority,
		rule.CooldownSeconds,
		rule.MaxTriggersPerUser,
		boolToInt(rule.Active),
		time.Now().Unix(),
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *Store) GetAutomationRule(ctx context.Context, ruleID int64) (AutomationRule, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, guild_id, name, trigger_event, trigger_conditions, actions,
		priority, cooldown_seconds, max_triggers_per_user, is_active,
		success_count, failure_count, last_error, created_at
		FROM automation_rules WHERE id = ?`, ruleID)
	return scanRule(row)
}

func (s *Store) ListAutomationRules(ctx context.Context, guildID string) ([]AutomationRule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, guild_id, name, trigger_event, trigger_conditions, actions,
		priority, cooldown_seconds, max_triggers_per_user, is_active,
		success_count, failure_count, last_error, created_at
		FROM automation_rules
		WHERE guild_id = ?
		ORDER BY priority DESC, id ASC
	`, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []AutomationRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (s *Store) SetAutomationRuleActive(ctx context.Context, ruleID int64, active bool) error {
	_, err := s.db.ExecContext(ctx, `UPDATE automation_rules SET is_active = ? WHERE id = ?`, boolToInt(active), ruleID)
	return err
}

func (s *Store) DeleteAutomationRule(ctx context.Context, ruleID int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM automation_rules WHERE id = ?`, ruleID)
	return err
}

func (s *Store) UpdateRuleStats(ctx context.Context, ruleID int64, success bool, errMsg string) error {
	if success {
		_, err := s.db.ExecContext(ctx, `
			UPDATE automation_rules SET success_count = success_count + 1 WHERE id = ?
		`, ruleID)
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE automation_rules SET failure_count = failure_count + 1, last_error = ? WHERE id = ?
	`, errMsg, ruleID)
	return err
}

type ruleScanner interface {
	Scan(dest ...any) error
}

func scanRule(row ruleScanner) (AutomationRule, error) {
	var rule AutomationRule
	var active int
	var created int64
	err := row.Scan(
		&rule.ID,
		&rule.GuildID,
		&rule.Name,
		&rule.TriggerEvent,
		&rule.Conditions,
		&rule.Actions,
		&rule.Priority,
		&rule.CooldownSeconds,
		&rule.MaxTriggersPerUser,
		&active,
		&rule.SuccessCount,
		&rule.FailureCount,
		&rule.LastError,
		&created,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return AutomationRule{}, sql.ErrNoRows
		}
		return AutomationRule{}, err
	}
	rule.Active = active == 1
	rule.CreatedAt = time.Unix(created, 0)
	return rule, nil
}
