package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"guildwarden/internal/storage"
)

type Service struct {
	store *storage.Store
}

func New(store *storage.Store) *Service {
	return &Service{store: store}
}

// Report aggregates a guild's recent activity: audit volume by level and
// event, the busiest users, open ticket load and automation rule health.
type Report struct {
	GuildID     string
	Since       time.Time
	Total       int
	ByLevel     map[string]int
	ByEvent     map[string]int
	TopUsers    []UserCount
	OpenTickets int
	Rules       []RuleStat
}

type UserCount struct {
	UserID string
	Count  int
}

type RuleStat struct {
	RuleID    int64
	Name      string
	Successes int64
	Failures  int64
}

func (s *Service) Report(ctx context.Context, guildID string, since time.Time) (Report, error) {
	logs, err := s.store.ListAuditLogs(ctx, guildID, since)
	if err != nil {
		return Report{}, fmt.Errorf("list audit logs: %w", err)
	}

	report := Report{
		GuildID: guildID,
		Since:   since,
		ByLevel: make(map[string]int),
		ByEvent: make(map[string]int),
	}
	perUser := make(map[string]int)
	for _, log := range logs {
		report.Total++
		report.ByLevel[log.Level]++
		report.ByEvent[log.Event]++
		if log.UserID != "" {
			perUser[log.UserID]++
		}
	}
	report.TopUsers = topUsers(perUser, 5)

	tickets, err := s.store.ListOpenTickets(ctx, guildID)
	if err != nil {
		return Report{}, fmt.Errorf("list open tickets: %w", err)
	}
	report.OpenTickets = len(tickets)

	rules, err := s.store.ListAutomationRules(ctx, guildID)
	if err != nil {
		return Report{}, fmt.Errorf("list rules: %w", err)
	}
	for _, rule := range rules {
		if rule.SuccessCount == 0 && rule.FailureCount == 0 {
			continue
		}
		report.Rules = append(report.Rules, RuleStat{
			RuleID:    rule.ID,
			Name:      rule.Name,
			Successes: rule.SuccessCount,
			Failures:  rule.FailureCount,
		})
	}
	sort.Slice(report.Rules, func(i, j int) bool {
		return report.Rules[i].Successes+report.Rules[i].Failures > report.Rules[j].Successes+report.Rules[j].Failures
	})
	return report, nil
}

func topUsers(perUser map[string]int, limit int) []UserCount {
	users := make([]UserCount, 0, len(perUser))
	for userID, count := range perUser {
		users = append(users, UserCount{UserID: userID, Count: count})
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Count != users[j].Count {
			return users[i].Count > users[j].Count
		}
		return users[i].UserID < users[j].UserID
	})
	if len(users) > limit {
		users = users[:limit]
	}
	return users
}
