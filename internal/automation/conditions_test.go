package automation

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

func TestTimeBetween(t *testing.T) {
	at := func(hour, minute int) time.Time {
		return time.Date(2024, 3, 10, hour, minute, 0, 0, time.UTC)
	}

	cases := []struct {
		name  string
		start string
		end   string
		now   time.Time
		want  bool
	}{
		{"inside simple range", "09:00", "17:00", at(12, 0), true},
		{"boundary start", "09:00", "17:00", at(9, 0), true},
		{"boundary end", "09:00", "17:00", at(17, 0), true},
		{"outside simple range", "09:00", "17:00", at(18, 0), false},
		{"overnight before midnight", "22:00", "06:00", at(23, 30), true},
		{"overnight after midnight", "22:00", "06:00", at(2, 0), true},
		{"overnight outside", "22:00", "06:00", at(12, 0), false},
		{"bad start", "25:00", "06:00", at(2, 0), false},
		{"bad end", "22:00", "oops", at(2, 0), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := timeBetween(tc.start, tc.end, tc.now); got != tc.want {
				t.Fatalf("timeBetween(%q, %q, %s) = %v, want %v", tc.start, tc.end, tc.now.Format("15:04"), got, tc.want)
			}
		})
	}
}

func TestCondUserHasRole(t *testing.T) {
	ectx := &Context{Member: &discordgo.Member{Roles: []string{"r1", "r2"}}}
	if !condUserHasRole(Condition{RoleID: "r2"}, ectx, time.Time{}) {
		t.Fatalf("expected role r2 to match")
	}
	if condUserHasRole(Condition{RoleID: "r3"}, ectx, time.Time{}) {
		t.Fatalf("expected role r3 to miss")
	}
	if condUserHasRole(Condition{RoleID: "r1"}, &Context{}, time.Time{}) {
		t.Fatalf("nil member must not match")
	}
}

func TestCondMessageContains(t *testing.T) {
	ectx := &Context{Message: &discordgo.Message{Content: "Free NITRO here"}}
	if !condMessageContains(Condition{Text: "nitro"}, ectx, time.Time{}) {
		t.Fatalf("expected case-insensitive match")
	}
	if condMessageContains(Condition{Text: "nitro"}, &Context{}, time.Time{}) {
		t.Fatalf("nil message must not match")
	}
}

func TestCondJoinedRecently(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	ectx := &Context{Member: &discordgo.Member{JoinedAt: now.Add(-48 * time.Hour)}}
	if !condJoinedRecently(Condition{Days: 7}, ectx, now) {
		t.Fatalf("joined 2 days ago should be within 7")
	}
	if condJoinedRecently(Condition{Days: 1}, ectx, now) {
		t.Fatalf("joined 2 days ago should be outside 1")
	}
	if condJoinedRecently(Condition{Days: 7}, &Context{Member: &discordgo.Member{}}, now) {
		t.Fatalf("zero join time must not match")
	}
}
