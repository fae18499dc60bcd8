package automation

import (
	"encoding/json"
	"time"
)

// Rule is a decoded automation rule. CooldownSeconds of 0 disables the
// cooldown check. MaxTriggersPerUser is stored but not enforced yet.
type Rule struct {
	ID                 int64
	GuildID            string
	Name               string
	TriggerEvent       EventType
	Conditions         []Condition
	Actions            []Action
	Priority           int
	CooldownSeconds    int
	MaxTriggersPerUser int
	Active             bool
}

type Condition struct {
	Type      string `json:"type"`
	RoleID    string `json:"role_id,omitempty"`
	ChannelID string `json:"channel_id,omitempty"`
	Text      string `json:"text,omitempty"`
	Days      int    `json:"days,omitempty"`
	Start     string `json:"start,omitempty"`
	End       string `json:"end,omitempty"`
}

type Action struct {
	Type   string         `json:"type"`
	Config map[string]any `json:"config,omitempty"`
}

func DecodeConditions(raw string) ([]Condition, error) {
	if raw == "" {
		return nil, nil
	}
	var conditions []Condition
	if err := json.Unmarshal([]byte(raw), &conditions); err != nil {
		return nil, err
	}
	return conditions, nil
}

func DecodeActions(raw string) ([]Action, error) {
	if raw == "" {
		return nil, nil
	}
	var actions []Action
	if err := json.Unmarshal([]byte(raw), &actions); err != nil {
		return nil, err
	}
	return actions, nil
}

type Status string

const (
	StatusRunning   Status = "running"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Record describes one rule invocation. Exactly one record is emitted per
// processing attempt, whatever the outcome.
type Record struct {
	RuleID        int64
	GuildID       string
	TriggerSource string
	TriggerUserID string
	Status        Status
	ErrorMessage  string
	Actions       []ActionResult
	StartedAt     time.Time
	FinishedAt    time.Time
	Duration      time.Duration
}

type ActionResult struct {
	Type      string         `json:"type"`
	Config    map[string]any `json:"config,omitempty"`
	Result    string         `json:"result,omitempty"`
	Error     string         `json:"error,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
