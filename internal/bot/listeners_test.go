package bot

import (
	"context"
	"testing"
	"time"

	"guildwarden/internal/automation"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

type stubRules struct {
	rules []automation.Rule
}

func (s *stubRules) GuildRules(ctx context.Context, guildID string) ([]automation.Rule, error) {
	var out []automation.Rule
	for _, rule := range s.rules {
		if rule.GuildID == guildID {
			out = append(out, rule)
		}
	}
	return out, nil
}

type eventSink struct {
	records []automation.Record
}

func (s *eventSink) LogExecution(ctx context.Context, record automation.Record) error {
	s.records = append(s.records, record)
	return nil
}

func (s *eventSink) UpdateRuleStats(ctx context.Context, ruleID int64, success bool, errMsg string) error {
	return nil
}

type nullEffector struct{}

func (nullEffector) SendMessage(ctx context.Context, channelID, content string, embed *automation.Embed) (string, error) {
	return "", nil
}
func (nullEffector) SendDM(ctx context.Context, userID, content string, embed *automation.Embed) (string, error) {
	return "", nil
}
func (nullEffector) AddRole(ctx context.Context, guildID, userID, roleID string) error    { return nil }
func (nullEffector) RemoveRole(ctx context.Context, guildID, userID, roleID string) error { return nil }
func (nullEffector) TimeoutMember(ctx context.Context, guildID, userID string, until time.Time, reason string) error {
	return nil
}
func (nullEffector) KickMember(ctx context.Context, guildID, userID, reason string) error { return nil }
func (nullEffector) DeleteMessage(ctx context.Context, channelID, messageID string) error { return nil }
func (nullEffector) CreateThread(ctx context.Context, channelID, messageID, name string, autoArchiveMinutes int) (string, error) {
	return "", nil
}

// newListenerBot wires a bot whose engine runs one catch-all rule, so every
// dispatched event leaves a record carrying its trigger type. The note
// action captures which role each invocation saw.
func newListenerBot(t *testing.T) (*Bot, *eventSink, *[]string) {
	t.Helper()
	rules := &stubRules{rules: []automation.Rule{
		{
			ID:           1,
			GuildID:      "g1",
			Name:         "catch-all",
			TriggerEvent: automation.EventCustom,
			Actions:      []automation.Action{{Type: "note"}},
			Active:       true,
		},
	}}
	sink := &eventSink{}
	engine := automation.New(rules, sink, nullEffector{}, zap.NewNop(), 16)

	var roles []string
	engine.RegisterAction("note", func(ctx context.Context, action automation.Action, ectx *automation.Context) (string, error) {
		if ectx.Custom != nil {
			roles = append(roles, ectx.Custom["role_id"])
		}
		return "noted", nil
	})

	b := &Bot{
		logger:     zap.NewNop(),
		session:    &discordgo.Session{State: discordgo.NewState()},
		automation: engine,
	}
	return b, sink, &roles
}

func triggers(sink *eventSink) []string {
	var out []string
	for _, record := range sink.records {
		out = append(out, record.TriggerSource)
	}
	return out
}

func TestRoleFanOutPerNewRole(t *testing.T) {
	b, sink, roles := newListenerBot(t)

	b.onGuildMemberUpdate(b.session, &discordgo.GuildMemberUpdate{
		Member: &discordgo.Member{
			GuildID: "g1",
			User:    &discordgo.User{ID: "u1"},
			Roles:   []string{"r1", "r2", "r3"},
		},
		BeforeUpdate: &discordgo.Member{Roles: []string{"r1"}},
	})

	if got := triggers(sink); len(got) != 2 || got[0] != "role_assigned" || got[1] != "role_assigned" {
		t.Fatalf("expected two role_assigned events, got %v", got)
	}
	if len(*roles) != 2 || (*roles)[0] != "r2" || (*roles)[1] != "r3" {
		t.Fatalf("expected fan-out over r2 and r3, got %v", *roles)
	}
}

func TestRoleFanOutSkipsUnchangedAndRemoved(t *testing.T) {
	b, sink, _ := newListenerBot(t)

	b.onGuildMemberUpdate(b.session, &discordgo.GuildMemberUpdate{
		Member: &discordgo.Member{
			GuildID: "g1",
			User:    &discordgo.User{ID: "u1"},
			Roles:   []string{"r1"},
		},
		BeforeUpdate: &discordgo.Member{Roles: []string{"r1", "r2"}},
	})
	if len(sink.records) != 0 {
		t.Fatalf("role removal should not fire events, got %d", len(sink.records))
	}

	// No previous state to diff against.
	b.onGuildMemberUpdate(b.session, &discordgo.GuildMemberUpdate{
		Member: &discordgo.Member{
			GuildID: "g1",
			User:    &discordgo.User{ID: "u1"},
			Roles:   []string{"r1"},
		},
	})
	if len(sink.records) != 0 {
		t.Fatalf("missing before-state should not fire events, got %d", len(sink.records))
	}
}

func TestVoiceDirectionDiff(t *testing.T) {
	voiceEvent := func(before, after string) *discordgo.VoiceStateUpdate {
		event := &discordgo.VoiceStateUpdate{
			VoiceState: &discordgo.VoiceState{GuildID: "g1", UserID: "u1", ChannelID: after},
		}
		if before != "" {
			event.BeforeUpdate = &discordgo.VoiceState{GuildID: "g1", UserID: "u1", ChannelID: before}
		}
		return event
	}

	cases := []struct {
		name   string
		before string
		after  string
		want   []string
	}{
		{"join from nowhere", "", "c1", []string{"voice_join"}},
		{"leave to nowhere", "c1", "", []string{"voice_leave"}},
		{"move between channels", "c1", "c2", []string{"voice_leave", "voice_join"}},
		{"no channel change", "c1", "c1", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, sink, _ := newListenerBot(t)
			b.onVoiceStateUpdate(b.session, voiceEvent(tc.before, tc.after))

			got := triggers(sink)
			if len(got) != len(tc.want) {
				t.Fatalf("got events %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got events %v, want %v", got, tc.want)
				}
			}
		})
	}
}
