package automation

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

func TestReplacePlaceholders(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	ectx := &Context{
		GuildID:     "g1",
		UserID:      "u1",
		ChannelID:   "c1",
		GuildName:   "TestServer",
		ChannelName: "general",
		Member: &discordgo.Member{
			Nick: "Alice",
			User: &discordgo.User{ID: "u1", Username: "alice"},
		},
	}

	got := ReplacePlaceholders("Hello {user}, welcome to {guild}!", ectx, now)
	if got != "Hello Alice, welcome to TestServer!" {
		t.Fatalf("got %q", got)
	}

	got = ReplacePlaceholders("{user.mention} in {channel} ({user.id})", ectx, now)
	if got != "<@u1> in general (u1)" {
		t.Fatalf("got %q", got)
	}

	got = ReplacePlaceholders("at {timestamp}", ectx, now)
	if got != "at 2024-03-10T12:00:00Z" {
		t.Fatalf("got %q", got)
	}
}

func TestReplacePlaceholdersFallbacks(t *testing.T) {
	got := ReplacePlaceholders("Hello {user}, welcome to {guild}!", &Context{}, time.Time{})
	if got != "Hello Unknown User, welcome to Unknown Guild!" {
		t.Fatalf("got %q", got)
	}

	got = ReplacePlaceholders("see {channel}", &Context{ChannelID: "c9"}, time.Time{})
	if got != "see <#c9>" {
		t.Fatalf("got %q", got)
	}

	// No tokens means no work.
	if got := ReplacePlaceholders("plain", nil, time.Time{}); got != "plain" {
		t.Fatalf("got %q", got)
	}
}

func TestDisplayNameFallsBackToUsername(t *testing.T) {
	member := &discordgo.Member{User: &discordgo.User{Username: "alice"}}
	if got := displayName(member); got != "alice" {
		t.Fatalf("got %q", got)
	}
	member.Nick = "Alice"
	if got := displayName(member); got != "Alice" {
		t.Fatalf("got %q", got)
	}
}
