package automation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// RuleSource supplies the decoded rules configured for a guild.
type RuleSource interface {
	GuildRules(ctx context.Context, guildID string) ([]Rule, error)
}

// ExecutionSink receives one record per rule invocation plus the aggregate
// success/failure counter updates.
type ExecutionSink interface {
	LogExecution(ctx context.Context, record Record) error
	UpdateRuleStats(ctx context.Context, ruleID int64, success bool, errMsg string) error
}

// Engine matches platform events against stored rules and runs their
// actions. All collaborators are injected; the engine holds no process-wide
// state beyond its cooldown cache.
type Engine struct {
	rules      RuleSource
	sink       ExecutionSink
	effects    Effector
	logger     *zap.Logger
	clock      Clock
	cooldowns  *Cooldowns
	conditions map[string]ConditionFunc
	actions    map[string]ActionFunc
}

func New(rules RuleSource, sink ExecutionSink, effects Effector, logger *zap.Logger, cooldownCapacity int) *Engine {
	clock := realClock{}
	e := &Engine{
		rules:      rules,
		sink:       sink,
		effects:    effects,
		logger:     logger,
		clock:      clock,
		cooldowns:  NewCooldowns(cooldownCapacity, clock),
		conditions: make(map[string]ConditionFunc),
		actions:    make(map[string]ActionFunc),
	}
	e.registerBuiltinConditions()
	e.registerBuiltinActions()
	return e
}

func (e *Engine) WithClock(clock Clock) {
	e.clock = clock
	e.cooldowns.withClock(clock)
}

func (e *Engine) Close() {
	e.cooldowns.Close()
}

// ProcessEvent runs every matching rule for one event occurrence. Rules run
// sequentially in descending priority order so an earlier rule's side
// effects are visible to a later rule's conditions. Nothing escapes to the
// caller; a broken rule set must never take the bot down.
func (e *Engine) ProcessEvent(ctx context.Context, event EventType, ectx *Context) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("automation event panic", zap.String("event", string(event)), zap.Any("panic", r))
		}
	}()

	if ectx == nil || ectx.GuildID == "" {
		return
	}

	rules, err := e.rules.GuildRules(ctx, ectx.GuildID)
	if err != nil {
		e.logger.Error("rule fetch failed", zap.String("guild_id", ectx.GuildID), zap.Error(err))
		return
	}

	matched := matchRules(rules, event)
	if len(matched) == 0 {
		return
	}

	for _, rule := range matched {
		e.runRule(ctx, rule, event, ectx)
	}
}

func matchRules(rules []Rule, event EventType) []Rule {
	var matched []Rule
	for _, rule := range rules {
		if !rule.Active {
			continue
		}
		if rule.TriggerEvent != event && rule.TriggerEvent != EventCustom {
			continue
		}
		matched = append(matched, rule)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Priority > matched[j].Priority
	})
	return matched
}

// runRule drives one rule through cooldown check, condition evaluation and
// action execution. The deferred block is the single place the execution
// record is finalized and persisted, whatever path the rule took.
func (e *Engine) runRule(ctx context.Context, rule Rule, event EventType, ectx *Context) {
	record := Record{
		RuleID:        rule.ID,
		GuildID:       rule.GuildID,
		TriggerSource: string(event),
		TriggerUserID: ectx.UserID,
		Status:        StatusRunning,
		StartedAt:     e.clock.Now(),
	}
	var runErr error

	defer func() {
		if r := recover(); r != nil {
			runErr = fmt.Errorf("panic: %v", r)
		}
		if runErr != nil {
			record.Status = StatusFailed
			record.ErrorMessage = runErr.Error()
			e.logger.Error("rule processing failed",
				zap.Int64("rule_id", rule.ID),
				zap.String("guild_id", rule.GuildID),
				zap.Error(runErr))
		}
		record.FinishedAt = e.clock.Now()
		record.Duration = record.FinishedAt.Sub(record.StartedAt)

		if err := e.sink.LogExecution(ctx, record); err != nil {
			e.logger.Error("execution log failed", zap.Int64("rule_id", rule.ID), zap.Error(err))
		}
		if record.Status != StatusCancelled {
			success := record.Status == StatusCompleted
			if err := e.sink.UpdateRuleStats(ctx, rule.ID, success, record.ErrorMessage); err != nil {
				e.logger.Error("rule stats update failed", zap.Int64("rule_id", rule.ID), zap.Error(err))
			}
		}
	}()

	cooldown := time.Duration(rule.CooldownSeconds) * time.Second
	if cooldown > 0 && ectx.UserID != "" {
		onCooldown, err := e.cooldowns.IsOnCooldown(rule.ID, ectx.UserID, cooldown)
		if err != nil {
			runErr = fmt.Errorf("cooldown check: %w", err)
			return
		}
		if onCooldown {
			record.Status = StatusCancelled
			return
		}
	}

	if !e.checkConditions(rule.Conditions, ectx) {
		record.Status = StatusCancelled
		return
	}

	if cooldown > 0 && ectx.UserID != "" {
		if err := e.cooldowns.SetCooldown(rule.ID, ectx.UserID, cooldown); err != nil {
			runErr = fmt.Errorf("cooldown set: %w", err)
			return
		}
	}

	for _, action := range rule.Actions {
		entry := ActionResult{
			Type:      action.Type,
			Config:    action.Config,
			Timestamp: e.clock.Now(),
		}
		result, err := e.executeAction(ctx, action, ectx)
		if err != nil {
			entry.Error = err.Error()
			e.logger.Warn("action failed",
				zap.Int64("rule_id", rule.ID),
				zap.String("action", action.Type),
				zap.Error(err))
		} else {
			entry.Result = result
		}
		record.Actions = append(record.Actions, entry)
	}

	record.Status = StatusCompleted
}
