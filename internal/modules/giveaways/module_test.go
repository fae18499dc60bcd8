package giveaways

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"guildwarden/internal/config"
	"guildwarden/internal/modules/audit"
	"guildwarden/internal/storage"

	"go.uber.org/zap"
)

type fakeTimer struct {
	stopped bool
	fn      func()
}

func (t *fakeTimer) Stop() bool {
	t.stopped = true
	return true
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
	delays []time.Duration
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTimer{fn: fn}
	f.timers = append(f.timers, t)
	f.delays = append(f.delays, d)
	return t
}

func (f *fakeClock) Fire() {
	f.mu.Lock()
	pending := append([]*fakeTimer{}, f.timers...)
	f.timers = nil
	f.delays = nil
	f.mu.Unlock()
	for _, timer := range pending {
		if !timer.stopped {
			timer.fn()
		}
	}
}

type fakeAnnouncer struct {
	entrants []string
	posts    []string
	err      error
}

func (f *fakeAnnouncer) Entrants(channelID, messageID, emoji string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.entrants, nil
}

func (f *fakeAnnouncer) Announce(channelID, content string) error {
	f.posts = append(f.posts, content)
	return nil
}

func newTestEngine(t *testing.T, cfg config.GiveawayConfig) (*Engine, *storage.Store, *fakeClock, *fakeAnnouncer) {
	t.Helper()
	store, err := storage.New(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(store.Close)

	announcer := &fakeAnnouncer{}
	auditLogger := audit.NewLogger(store, zap.NewNop())
	engine := New(cfg, store, announcer, auditLogger, zap.NewNop())
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	engine.WithClock(clock)
	engine.randIntn = func(n int) int { return 0 }
	return engine, store, clock, announcer
}

func TestStartValidatesDuration(t *testing.T) {
	engine, _, clock, _ := newTestEngine(t, config.GiveawayConfig{Enabled: true, MinMinutes: 5, MaxDurationH: 24})
	ctx := context.Background()

	giveaway := storage.Giveaway{GuildID: "g1", ChannelID: "c1", Prize: "prize", EndsAt: clock.now.Add(time.Minute)}
	if _, err := engine.Start(ctx, giveaway); !errors.Is(err, ErrTooShort) {
		t.Fatalf("expected ErrTooShort, got %v", err)
	}

	giveaway.EndsAt = clock.now.Add(48 * time.Hour)
	if _, err := engine.Start(ctx, giveaway); !errors.Is(err, ErrTooLong) {
		t.Fatalf("expected ErrTooLong, got %v", err)
	}

	disabled, _, dclock, _ := newTestEngine(t, config.GiveawayConfig{Enabled: false})
	giveaway.EndsAt = dclock.now.Add(time.Hour)
	if _, err := disabled.Start(ctx, giveaway); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}

func TestTimerEndsGiveaway(t *testing.T) {
	engine, store, clock, announcer := newTestEngine(t, config.GiveawayConfig{Enabled: true, EntryEmoji: "🎉"})
	ctx := context.Background()
	announcer.entrants = []string{"u1", "u2", "u3"}

	id, err := engine.Start(ctx, storage.Giveaway{
		GuildID:     "g1",
		ChannelID:   "c1",
		MessageID:   "m1",
		Prize:       "a prize",
		WinnerCount: 1,
		CreatedBy:   "mod1",
		EndsAt:      clock.now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(clock.delays) != 1 || clock.delays[0] != time.Hour {
		t.Fatalf("expected one timer armed for 1h, got %v", clock.delays)
	}

	clock.Fire()

	giveaway, err := store.GetGiveaway(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !giveaway.Ended {
		t.Fatalf("expected giveaway marked ended")
	}
	if len(announcer.posts) != 1 {
		t.Fatalf("expected one announcement, got %d", len(announcer.posts))
	}
}

func TestFinishIdempotent(t *testing.T) {
	engine, store, clock, announcer := newTestEngine(t, config.GiveawayConfig{Enabled: true})
	ctx := context.Background()
	announcer.entrants = []string{"u1"}

	id, err := engine.Start(ctx, storage.Giveaway{
		GuildID: "g1", ChannelID: "c1", MessageID: "m1", Prize: "p",
		EndsAt: clock.now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := engine.Finish(ctx, id); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if err := engine.Finish(ctx, id); err != nil {
		t.Fatalf("second finish: %v", err)
	}
	if len(announcer.posts) != 1 {
		t.Fatalf("finish must announce once, got %d", len(announcer.posts))
	}
	giveaway, _ := store.GetGiveaway(ctx, id)
	if !giveaway.Ended {
		t.Fatalf("expected ended")
	}
}

func TestRerollRequiresEnded(t *testing.T) {
	engine, _, clock, announcer := newTestEngine(t, config.GiveawayConfig{Enabled: true})
	ctx := context.Background()
	announcer.entrants = []string{"u1", "u2"}

	id, err := engine.Start(ctx, storage.Giveaway{
		GuildID: "g1", ChannelID: "c1", MessageID: "m1", Prize: "p",
		EndsAt: clock.now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := engine.Reroll(ctx, id); !errors.Is(err, ErrNotEnded) {
		t.Fatalf("expected ErrNotEnded, got %v", err)
	}
	if err := engine.Finish(ctx, id); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if err := engine.Reroll(ctx, id); err != nil {
		t.Fatalf("reroll: %v", err)
	}
	if len(announcer.posts) != 2 {
		t.Fatalf("expected finish + reroll announcements, got %d", len(announcer.posts))
	}
}

func TestResumeReArmsPending(t *testing.T) {
	engine, store, clock, _ := newTestEngine(t, config.GiveawayConfig{Enabled: true})
	ctx := context.Background()

	if _, err := store.CreateGiveaway(ctx, storage.Giveaway{
		GuildID: "g1", ChannelID: "c1", MessageID: "m1", Prize: "p",
		WinnerCount: 1, EndsAt: clock.now.Add(30 * time.Minute),
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := engine.Resume(ctx); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if len(clock.delays) != 1 || clock.delays[0] != 30*time.Minute {
		t.Fatalf("expected re-armed 30m timer, got %v", clock.delays)
	}
}

func TestDrawWinners(t *testing.T) {
	entrants := []string{"a", "b", "c", "d"}

	winners := drawWinners(entrants, 2, func(n int) int { return 0 })
	if len(winners) != 2 {
		t.Fatalf("expected 2 winners, got %d", len(winners))
	}
	seen := map[string]bool{}
	for _, w := range winners {
		if seen[w] {
			t.Fatalf("duplicate winner %s", w)
		}
		seen[w] = true
	}

	// Everyone wins when the pool is smaller than the winner count.
	all := drawWinners([]string{"a", "b"}, 5, func(n int) int { return 0 })
	sort.Strings(all)
	if len(all) != 2 || all[0] != "a" || all[1] != "b" {
		t.Fatalf("expected both entrants, got %v", all)
	}

	if got := drawWinners(nil, 1, func(n int) int { return 0 }); got != nil {
		t.Fatalf("empty pool must yield no winners")
	}
}
