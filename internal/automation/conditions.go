package automation

import (
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ConditionFunc evaluates a single condition against the event context.
type ConditionFunc func(cond Condition, ectx *Context, now time.Time) bool

func (e *Engine) registerBuiltinConditions() {
	e.conditions["user_has_role"] = condUserHasRole
	e.conditions["channel_is"] = condChannelIs
	e.conditions["message_contains"] = condMessageContains
	e.conditions["user_joined_recently"] = condJoinedRecently
	e.conditions["time_between"] = condTimeBetween
	e.conditions["custom"] = func(Condition, *Context, time.Time) bool { return true }
}

// RegisterCondition installs or replaces an evaluator for a condition type.
// Registering "custom" is how callers attach a real custom-condition hook.
func (e *Engine) RegisterCondition(condType string, fn ConditionFunc) {
	e.conditions[condType] = fn
}

// checkConditions is a logical AND with short-circuit. Unknown condition
// types fail closed.
func (e *Engine) checkConditions(conditions []Condition, ectx *Context) bool {
	now := e.clock.Now()
	for _, cond := range conditions {
		fn, ok := e.conditions[cond.Type]
		if !ok {
			e.logger.Error("unknown condition type", zap.String("type", cond.Type))
			return false
		}
		if !fn(cond, ectx, now) {
			return false
		}
	}
	return true
}

func condUserHasRole(cond Condition, ectx *Context, _ time.Time) bool {
	if ectx.Member == nil {
		return false
	}
	for _, roleID := range ectx.Member.Roles {
		if roleID == cond.RoleID {
			return true
		}
	}
	return false
}

func condChannelIs(cond Condition, ectx *Context, _ time.Time) bool {
	return ectx.ChannelID != "" && ectx.ChannelID == cond.ChannelID
}

func condMessageContains(cond Condition, ectx *Context, _ time.Time) bool {
	if ectx.Message == nil {
		return false
	}
	return strings.Contains(strings.ToLower(ectx.Message.Content), strings.ToLower(cond.Text))
}

func condJoinedRecently(cond Condition, ectx *Context, now time.Time) bool {
	if ectx.Member == nil || ectx.Member.JoinedAt.IsZero() {
		return false
	}
	days := now.Sub(ectx.Member.JoinedAt).Hours() / 24
	return days <= float64(cond.Days)
}

func condTimeBetween(cond Condition, _ *Context, now time.Time) bool {
	return timeBetween(cond.Start, cond.End, now)
}

// timeBetween compares the local wall-clock time against an HH:MM range.
// A range whose end precedes its start crosses midnight and matches when
// the current time is past the start or before the end.
func timeBetween(start, end string, now time.Time) bool {
	startVal, ok := parseClock(start)
	if !ok {
		return false
	}
	endVal, ok := parseClock(end)
	if !ok {
		return false
	}
	current := now.Hour()*100 + now.Minute()
	if startVal <= endVal {
		return current >= startVal && current <= endVal
	}
	return current >= startVal || current <= endVal
}

func parseClock(value string) (int, bool) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*100 + minute, true
}
