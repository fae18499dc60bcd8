package leveling

import (
	"context"
	"testing"
	"time"

	"guildwarden/internal/config"
	"guildwarden/internal/storage"

	"go.uber.org/zap"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func newTestModule(t *testing.T, cfg config.LevelingConfig) (*Module, *fakeClock) {
	t.Helper()
	store, err := storage.New(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(store.Close)

	module := New(cfg, store, zap.NewNop())
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	module.WithClock(clock)
	module.randIntn = func(n int) int { return 0 }
	return module, clock
}

func TestLevelForXP(t *testing.T) {
	cases := []struct {
		xp    int64
		level int
	}{
		{0, 0},
		{99, 0},
		{100, 1},
		{254, 1},
		{255, 2},
		{474, 2},
		{475, 3},
		{1000, 4},
	}
	for _, tc := range cases {
		if got := LevelForXP(tc.xp); got != tc.level {
			t.Fatalf("LevelForXP(%d) = %d, want %d", tc.xp, got, tc.level)
		}
	}
}

func TestXPForNextLevelGrows(t *testing.T) {
	prev := int64(0)
	for level := 0; level < 10; level++ {
		need := XPForNextLevel(level)
		if need <= prev {
			t.Fatalf("curve must be strictly increasing, level %d needs %d after %d", level, need, prev)
		}
		prev = need
	}
}

func TestAwardCooldown(t *testing.T) {
	module, clock := newTestModule(t, config.LevelingConfig{
		Enabled:         true,
		XPMin:           15,
		XPMax:           15,
		CooldownSeconds: 60,
	})
	ctx := context.Background()

	row, _, err := module.Award(ctx, "g1", "u1")
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if row.XP != 15 {
		t.Fatalf("expected 15 xp, got %d", row.XP)
	}

	row, _, err = module.Award(ctx, "g1", "u1")
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if row.XP != 0 {
		t.Fatalf("cooldown should suppress the second award, got %d xp", row.XP)
	}

	// Another user in the same guild is not affected.
	row, _, err = module.Award(ctx, "g1", "u2")
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if row.XP != 15 {
		t.Fatalf("expected independent cooldown per user, got %d xp", row.XP)
	}

	clock.now = clock.now.Add(61 * time.Second)
	row, _, err = module.Award(ctx, "g1", "u1")
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if row.XP != 30 {
		t.Fatalf("expected 30 xp after cooldown, got %d", row.XP)
	}
}

func TestAwardLevelUp(t *testing.T) {
	module, clock := newTestModule(t, config.LevelingConfig{
		Enabled: true,
		XPMin:   60,
		XPMax:   60,
	})
	ctx := context.Background()

	if _, leveled, err := module.Award(ctx, "g1", "u1"); err != nil || leveled {
		t.Fatalf("60 xp should not level, leveled=%v err=%v", leveled, err)
	}
	clock.now = clock.now.Add(time.Minute)
	row, leveled, err := module.Award(ctx, "g1", "u1")
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if !leveled || row.Level != 1 {
		t.Fatalf("120 xp should reach level 1, leveled=%v level=%d", leveled, row.Level)
	}
}

func TestAwardDisabled(t *testing.T) {
	module, _ := newTestModule(t, config.LevelingConfig{Enabled: false, XPMin: 15, XPMax: 15})
	row, leveled, err := module.Award(context.Background(), "g1", "u1")
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if leveled || row.XP != 0 {
		t.Fatalf("disabled module must not award")
	}
}
